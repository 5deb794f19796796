package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/readar/marketplace-service/config"
	"github.com/readar/marketplace-service/internal/audit"
	"github.com/readar/marketplace-service/internal/gateway"
	"github.com/readar/marketplace-service/internal/handler"
	"github.com/readar/marketplace-service/internal/repository"
	"github.com/readar/marketplace-service/internal/server"
	"github.com/readar/marketplace-service/internal/service"
	"github.com/readar/marketplace-service/internal/sweeper"
	"github.com/readar/marketplace-service/migrations"
	"github.com/readar/marketplace-service/pkg/kafka"
	"github.com/readar/marketplace-service/pkg/logger"
	"github.com/readar/marketplace-service/pkg/postgres"
)

func Run(cfg config.Config) error {
	log := logger.NewLogger(cfg.Log, "marketplace")

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo init %v", err)
	}

	var gw gateway.Gateway
	switch cfg.GatewayMode {
	case "memory":
		gw = gateway.NewMemory(cfg.Service.FrontendURL + "/mock-payment")
	default:
		gw = gateway.NewPhonePe(cfg.PhonePe, log)
	}

	pub := service.NewNopPublisher()
	if cfg.KafkaEnabled {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka producer %v", err)
		}
		defer producer.Close() //nolint:errcheck
		pub = service.NewKafkaPublisher(producer, cfg.Kafka.EventTopic)
	}

	svc := service.NewService(repo, gw, pub, cfg.Service, log)
	h := handler.New(svc, log)
	swp := sweeper.New(repo, svc, cfg.Sweeper, log)

	srv := server.NewServer(cfg.Server, h.NewRouter([]byte(cfg.JWTSecret)))
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	runCtx, runCancel := context.WithCancel(context.Background())
	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return swp.Run(gCtx)
	})
	if cfg.KafkaEnabled {
		group, err := kafka.NewConsumerGroup(cfg.Kafka)
		if err != nil {
			runCancel()
			return fmt.Errorf("kafka consumer group %v", err)
		}
		defer group.Close() //nolint:errcheck
		consumer := audit.NewConsumer(audit.NewRepository(db, log), log)
		g.Go(func() error {
			for {
				if err := group.Consume(gCtx, []string{cfg.Kafka.EventTopic}, consumer); err != nil {
					log.Error("consumer group", zap.Error(err))
				}
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
			}
		})
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	runCancel()
	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error("background workers", zap.Error(err))
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}
