package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/kelseyhightower/envconfig"

	"github.com/readar/marketplace-service/internal/gateway"
	"github.com/readar/marketplace-service/internal/server"
	"github.com/readar/marketplace-service/internal/service"
	"github.com/readar/marketplace-service/internal/sweeper"
	"github.com/readar/marketplace-service/pkg/kafka"
	"github.com/readar/marketplace-service/pkg/logger"
	"github.com/readar/marketplace-service/pkg/postgres"
)

type Config struct {
	Server   server.Config
	Database postgres.Config
	Kafka    kafka.Config
	// KafkaEnabled gates the producer and audit consumer, so the service
	// runs standalone in development.
	KafkaEnabled bool `envconfig:"KAFKA_ENABLED" default:"false"`
	// GatewayMode selects the payment gateway implementation:
	// "phonepe" or "memory".
	GatewayMode string `envconfig:"GATEWAY_MODE" default:"phonepe"`
	PhonePe     gateway.PhonePeConfig
	Service     service.Config
	Sweeper     sweeper.Config
	JWTSecret   string `envconfig:"JWT_SECRET" default:"secret"`
	Log         logger.Log
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig() Config {
	once.Do(func() {
		var config Config
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg Config) {
	cfg.JWTSecret = "***"
	cfg.PhonePe.ClientSecret = "***"
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
