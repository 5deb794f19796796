package audit

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/readar/marketplace-service/pkg/kafka"
)

type recordFn func(ctx context.Context, event kafka.ReservationEvent) error

// Consumer reads reservation lifecycle events and appends them to the audit
// trail.
type Consumer struct {
	record recordFn
	log    *zap.Logger
	ready  chan bool
}

func NewConsumer(repo Repository, log *zap.Logger) *Consumer {
	return &Consumer{
		record: repo.RecordEvent,
		log:    log.Named("consumer"),
		ready:  make(chan bool),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	// Mark the consumer as ready
	close(consumer.ready)
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event kafka.ReservationEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				consumer.log.Error("unmarshal event", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.record(context.Background(), event); err != nil {
				consumer.log.Error("record event", zap.Error(err))
				continue
			}

			consumer.log.Debug("Message claimed:", zap.String("value", string(message.Value)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
