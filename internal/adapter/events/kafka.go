package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes envelopes to one Kafka topic.
type KafkaPublisher struct {
	writer messageWriter
	log    *zap.Logger
}

// batchTimeout bounds how long a lone message waits for a batch to fill.
const batchTimeout = 10 * time.Millisecond

// NewKafkaPublisher creates a publisher for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: batchTimeout,
		},
		log: logger,
	}
}

// Publish sends msg keyed by key.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, msg Envelope) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(msg.Meta.Type)},
		},
	}); err != nil {
		return err
	}

	p.log.Debug("published", zap.String("key", key), zap.String("type", msg.Meta.Type))
	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
