// Package events publishes CRM-sync notifications for the third-party sync
// worker after successful writes.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event types.
const (
	TypeCustomerCreated = "crm.customer.created"
	TypeTicketCreated   = "crm.ticket.created"
	TypeTicketUpdated   = "crm.ticket.updated"
)

// Producer names this service in event metadata.
const Producer = "smart-support-desk-router"

// Meta describes one published event.
type Meta struct {
	// Trace / request correlation ID
	CorrelationID *string `json:"correlation_id,omitempty"`
	// Unique event ID
	ID       string    `json:"id"`
	Producer *string   `json:"producer,omitempty"`
	Time     time.Time `json:"time"`
	Type     string    `json:"type"`
}

// Envelope is the wire format of every event.
type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

// NewEnvelope builds an envelope for typ correlated with turnID.
func NewEnvelope(typ, turnID string, data any) Envelope {
	producer := Producer
	env := Envelope{
		Meta: Meta{
			ID:       uuid.NewString(),
			Producer: &producer,
			Time:     time.Now().UTC(),
			Type:     typ,
		},
		Data: data,
	}
	if turnID != "" {
		env.Meta.CorrelationID = &turnID
	}
	return env
}

// Publisher delivers envelopes. key is the routing or partition key.
type Publisher interface {
	Publish(ctx context.Context, key string, msg Envelope) error
	Close() error
}

// Options selects a backend.
type Options struct {
	Backend      string // none, kafka, amqp
	KafkaBrokers []string
	KafkaTopic   string
	AMQPURL      string
	AMQPExchange string
}

// New creates the publisher selected by opts.Backend.
func New(opts Options, logger *zap.Logger) (Publisher, error) {
	switch opts.Backend {
	case "", "none":
		return Noop{}, nil
	case "kafka":
		return NewKafkaPublisher(opts.KafkaBrokers, opts.KafkaTopic, logger), nil
	case "amqp":
		return NewAMQPPublisher(opts.AMQPURL, opts.AMQPExchange, logger)
	}
	return nil, fmt.Errorf("unknown events backend %q", opts.Backend)
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, string, Envelope) error { return nil }
func (Noop) Close() error                                    { return nil }
