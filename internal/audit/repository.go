package audit

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/readar/marketplace-service/pkg/kafka"
)

// Repository persists the reservation lifecycle audit trail. Append-only;
// business logic never reads it back.
type Repository interface {
	RecordEvent(ctx context.Context, event kafka.ReservationEvent) error
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) *repository {
	return &repository{
		db:  db,
		log: log.Named("audit-repo"),
	}
}

const eventsTableName = `reservation_events`

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) RecordEvent(ctx context.Context, event kafka.ReservationEvent) error {
	q, args, err := qb.Insert(eventsTableName).
		Columns("reservation_id", "book_id", "buyer_id", "event", "occurred_at").
		Values(event.ReservationID, event.BookID, event.BuyerID, event.Event, event.OccurredAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		r.log.Error("RecordEvent", zap.String("q", q), zap.Any("args", args))
		return err
	}
	return nil
}
