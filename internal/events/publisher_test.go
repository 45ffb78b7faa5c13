package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/costify/internal/cart"
	"github.com/andreasstove999/costify/internal/middleware"
	"github.com/andreasstove999/costify/internal/pricing"
	"github.com/andreasstove999/costify/internal/quote"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	published []published
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type fakeSequencer struct {
	next int64
	keys []string
	err  error
}

func (f *fakeSequencer) Next(ctx context.Context, partition string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.next++
	f.keys = append(f.keys, partition)
	return f.next, nil
}

type fakeDeclarer struct {
	name, kind string
	durable    bool
}

func (f *fakeDeclarer) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.name, f.kind, f.durable = name, kind, durable
	return nil
}

func sampleQuote() quote.Quote {
	email := "events@acme.test"
	return quote.Quote{
		Reference: "QUOTE-66645123",
		Date:      "2024-05-01T12:30:45.123Z",
		Client:    &quote.Client{Name: "Acme", Email: &email},
		Items: []cart.LineItem{{
			ID: "0b6f1d0c-7a3e-4f2b-9d51-6a0c1e2f3a4b", Type: cart.ItemTypePacket, Name: "Buffet",
			PriceCents: 1000, Quantity: 2, MarkupPercentage: 25,
		}},
		Totals: pricing.CartTotals{SubtotalCents: 2000, TotalCents: 2500, AverageMarkup: 25},
	}
}

func TestPublishQuoteGenerated(t *testing.T) {
	ch := &fakeChannel{}
	seq := &fakeSequencer{next: 6}
	p := newPublisher(ch, seq, PublisherOptions{})
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 46, 0, time.UTC) }

	ctx := middleware.WithCorrelationID(context.Background(), "c0a8e2b6-3c6a-4d7e-9c8f-1f2e3d4c5b6a")
	require.NoError(t, p.PublishQuoteGenerated(ctx, sampleQuote()))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, EventsExchange, got.exchange)
	assert.Equal(t, QuoteGeneratedRoutingKey, got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)

	raw, err := ParseEnvelope(got.msg.Body)
	require.NoError(t, err)
	require.NoError(t, raw.Validate(EventTypeQuoteGenerated, 1))
	assert.Equal(t, got.msg.MessageId, raw.EventID)
	assert.Equal(t, "c0a8e2b6-3c6a-4d7e-9c8f-1f2e3d4c5b6a", raw.CorrelationID)
	assert.Equal(t, costifyServiceName, raw.Producer)
	assert.Equal(t, QuotePartitionKey, raw.PartitionKey)
	assert.Equal(t, int64(7), raw.Sequence)
	assert.Equal(t, quoteGeneratedSchema, raw.Schema)
	assert.Equal(t, []string{QuotePartitionKey}, seq.keys)

	var payload QuoteGeneratedPayload
	require.NoError(t, json.Unmarshal(raw.Payload, &payload))
	assert.Equal(t, "QUOTE-66645123", payload.Reference)
	assert.Equal(t, "Acme", payload.ClientName)
	assert.Equal(t, "events@acme.test", payload.ClientEmail)
	assert.Equal(t, int64(2500), payload.TotalCents)
	assert.Equal(t, 25, payload.AverageMarkup)
	assert.Nil(t, payload.PDFURL)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, QuoteLine{
		PacketID: "0b6f1d0c-7a3e-4f2b-9d51-6a0c1e2f3a4b", Name: "Buffet",
		Quantity: 2, PriceCents: 1000, MarkupPercentage: 25,
	}, payload.Items[0])
}

func TestPublishQuoteGenerated_SequenceError(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, &fakeSequencer{err: errors.New("db down")}, PublisherOptions{Producer: "costify-test"})

	err := p.PublishQuoteGenerated(context.Background(), sampleQuote())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserve sequence")
	assert.Empty(t, ch.published)
}

func TestPublishQuoteGenerated_ChannelError(t *testing.T) {
	ch := &fakeChannel{err: amqp.ErrClosed}
	p := newPublisher(ch, &fakeSequencer{}, PublisherOptions{})

	err := p.PublishQuoteGenerated(context.Background(), sampleQuote())
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestPublisherClose(t *testing.T) {
	ch := &fakeChannel{}
	require.NoError(t, newPublisher(ch, &fakeSequencer{}, PublisherOptions{}).Close())
	assert.True(t, ch.closed)
}

func TestDeclareEventsExchange(t *testing.T) {
	d := &fakeDeclarer{}
	require.NoError(t, declareEventsExchange(d))
	assert.Equal(t, "costify.events", d.name)
	assert.Equal(t, "topic", d.kind)
	assert.True(t, d.durable)
}

func TestEnvelopeValidate(t *testing.T) {
	ev := newQuoteGeneratedEvent(EventMeta{PartitionKey: QuotePartitionKey}, 1, "costify", QuoteGeneratedPayload{}, time.Now())
	require.NoError(t, ev.Validate(EventTypeQuoteGenerated, 1))

	ev.EventName = "WrongName"
	assert.Error(t, ev.Validate(EventTypeQuoteGenerated, 1))

	ev = newQuoteGeneratedEvent(EventMeta{}, 1, "costify", QuoteGeneratedPayload{}, time.Now())
	assert.Error(t, ev.Validate(EventTypeQuoteGenerated, 1))
}

func TestParseEnvelope_Invalid(t *testing.T) {
	_, err := ParseEnvelope([]byte("{"))
	assert.Error(t, err)
}
