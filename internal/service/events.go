package service

import (
	"encoding/json"

	"github.com/IBM/sarama"

	"github.com/readar/marketplace-service/internal/model"
	"github.com/readar/marketplace-service/pkg/kafka"
)

const (
	eventCreated   = "created"
	eventConfirmed = "confirmed"
	eventCancelled = "cancelled"
	eventExpired   = "expired"
	eventCompleted = "completed"
)

// EventPublisher emits reservation lifecycle events. Publishing is
// fire-and-forget from the orchestrator's point of view: a broker outage
// never fails a transition.
type EventPublisher interface {
	Publish(event kafka.ReservationEvent) error
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string) EventPublisher {
	return &kafkaPublisher{producer: producer, topic: topic}
}

func (p *kafkaPublisher) Publish(event kafka.ReservationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: p.topic, Value: sarama.StringEncoder(data)}
	if _, _, err = p.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}

type nopPublisher struct{}

// NewNopPublisher is used when Kafka is disabled.
func NewNopPublisher() EventPublisher { return nopPublisher{} }

func (nopPublisher) Publish(kafka.ReservationEvent) error { return nil }

func (s *Service) publish(event string, rsv model.Reservation) {
	if err := s.pub.Publish(kafka.ReservationEvent{
		ReservationID: rsv.ID,
		BookID:        rsv.BookID,
		BuyerID:       rsv.BuyerID,
		Event:         event,
		OccurredAt:    s.now(),
	}); err != nil {
		s.log.Warn("publish reservation event", withID(rsv.ID, err)...)
	}
}
