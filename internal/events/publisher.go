package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/costify/internal/middleware"
	"github.com/andreasstove999/costify/internal/quote"
)

type Sequencer interface {
	Next(ctx context.Context, partition string) (int64, error)
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher puts QuoteGenerated envelopes on the events exchange.
type Publisher struct {
	ch       channel
	seq      Sequencer
	producer string
	now      func() time.Time
}

type PublisherOptions struct {
	Producer string
}

type EventMeta struct {
	CorrelationID string
	CausationID   string
	PartitionKey  string
}

func NewPublisher(conn *amqp.Connection, seq Sequencer, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, err
	}

	return newPublisher(ch, seq, opts), nil
}

func newPublisher(ch channel, seq Sequencer, opts PublisherOptions) *Publisher {
	producer := opts.Producer
	if producer == "" {
		producer = costifyServiceName
	}
	return &Publisher{
		ch:       ch,
		seq:      seq,
		producer: producer,
		now:      time.Now,
	}
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// PublishQuoteGenerated implements quote.Publisher.
func (p *Publisher) PublishQuoteGenerated(ctx context.Context, q quote.Quote) error {
	meta := EventMeta{
		CorrelationID: middleware.GetCorrelationID(ctx),
		PartitionKey:  QuotePartitionKey,
	}

	n, err := p.seq.Next(ctx, meta.PartitionKey)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	env := newQuoteGeneratedEvent(meta, n, p.producer, quoteGeneratedPayload(q), p.now().UTC())
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal QuoteGenerated envelope: %w", err)
	}

	return p.publishJSON(ctx, QuoteGeneratedRoutingKey, env.EventID, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey, messageID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Body:         body,
		},
	)
}
