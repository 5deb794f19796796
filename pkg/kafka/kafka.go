package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

type Config struct {
	Addrs         []string `envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
	EventTopic    string   `envconfig:"KAFKA_EVENT_TOPIC" default:"reservation-events"`
	ConsumerGroup string   `envconfig:"KAFKA_CONSUMER_GROUP" default:"marketplace-audit"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumerGroup(cfg Config) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	defaultCfg.Consumer.MaxWaitTime = 500 * time.Millisecond

	return sarama.NewConsumerGroup(cfg.Addrs, cfg.ConsumerGroup, defaultCfg)
}

// ReservationEvent is the payload published on every reservation lifecycle
// transition and consumed by the audit trail.
type ReservationEvent struct {
	ReservationID int       `json:"reservationId"`
	BookID        int       `json:"bookId"`
	BuyerID       int       `json:"buyerId"`
	Event         string    `json:"event"`
	OccurredAt    time.Time `json:"occurredAt"`
}
