package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/readar/marketplace-service/internal/model"
	"github.com/readar/marketplace-service/internal/repository"
)

type Config struct {
	Interval  time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
	BatchSize int           `envconfig:"SWEEP_BATCH_SIZE" default:"100"`
}

// Reconciler is the orchestrator's per-reservation transition path. The
// sweeper never cancels on its own: Reconcile performs one final gateway
// poll, so a payment that completed just before the deadline still confirms.
type Reconciler interface {
	Reconcile(ctx context.Context, reservationID int) error
}

// Sweeper periodically force-resolves reservations past their payment
// deadline. It is idempotent by construction: a restart simply rescans.
type Sweeper struct {
	log        *zap.Logger
	repo       repository.Repository
	reconciler Reconciler
	cfg        Config

	now func() time.Time
}

func New(repo repository.Repository, reconciler Reconciler, cfg Config, log *zap.Logger) *Sweeper {
	return &Sweeper{
		log:        log.Named("sweeper"),
		repo:       repo,
		reconciler: reconciler,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Run ticks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.log.Info("sweeper started", zap.Duration("interval", s.cfg.Interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one scan. Per-reservation errors are swallowed and logged so a
// single bad record never halts the sweep.
func (s *Sweeper) Sweep(ctx context.Context) {
	expired, err := s.repo.ListExpiredPending(ctx, s.now(), s.cfg.BatchSize)
	if err != nil {
		s.log.Error("list expired reservations", zap.Error(err))
		return
	}
	if len(expired) == 0 {
		return
	}
	s.log.Debug("sweeping expired reservations", zap.Int("count", len(expired)))

	for _, rsv := range expired {
		if rsv.Status != model.StatusPending {
			continue
		}
		if err := s.reconciler.Reconcile(ctx, rsv.ID); err != nil {
			s.log.Warn("sweep reservation",
				zap.Int("reservation_id", rsv.ID),
				zap.Error(err))
		}
	}
}
