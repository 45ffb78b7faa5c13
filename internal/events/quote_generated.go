package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/costify/internal/quote"
)

const (
	EventTypeQuoteGenerated = "QuoteGenerated"
	quoteGeneratedSchema    = "contracts/events/quote/QuoteGenerated.v1.enveloped.schema.json"

	// QuotePartitionKey orders all quote events on one sequence.
	QuotePartitionKey = "quotes"
)

type QuoteGeneratedEvent struct {
	EventEnvelope
	Payload QuoteGeneratedPayload `json:"payload"`
}

type QuoteGeneratedPayload struct {
	Reference     string      `json:"reference"`
	Date          string      `json:"date"`
	ClientName    string      `json:"clientName,omitempty"`
	ClientEmail   string      `json:"clientEmail,omitempty"`
	Items         []QuoteLine `json:"items"`
	SubtotalCents int64       `json:"subtotalCents"`
	TotalCents    int64       `json:"totalCents"`
	AverageMarkup int         `json:"averageMarkup"`
	PDFURL        *string     `json:"pdfUrl"`
}

type QuoteLine struct {
	PacketID         string  `json:"packetId"`
	Name             string  `json:"name"`
	Quantity         int     `json:"quantity"`
	PriceCents       int64   `json:"priceCents"`
	MarkupPercentage float64 `json:"markupPercentage"`
}

func quoteGeneratedPayload(q quote.Quote) QuoteGeneratedPayload {
	p := QuoteGeneratedPayload{
		Reference:     q.Reference,
		Date:          q.Date,
		Items:         make([]QuoteLine, 0, len(q.Items)),
		SubtotalCents: int64(q.Totals.SubtotalCents),
		TotalCents:    int64(q.Totals.TotalCents),
		AverageMarkup: q.Totals.AverageMarkup,
		PDFURL:        q.PDFURL,
	}
	if q.Client != nil {
		p.ClientName = q.Client.Name
		if q.Client.Email != nil {
			p.ClientEmail = *q.Client.Email
		}
	}
	for _, it := range q.Items {
		p.Items = append(p.Items, QuoteLine{
			PacketID:         it.ID,
			Name:             it.Name,
			Quantity:         it.Quantity,
			PriceCents:       int64(it.PriceCents),
			MarkupPercentage: it.MarkupPercentage,
		})
	}
	return p
}

func newQuoteGeneratedEvent(meta EventMeta, seq int64, producer string, payload QuoteGeneratedPayload, occurredAt time.Time) QuoteGeneratedEvent {
	return QuoteGeneratedEvent{
		EventEnvelope: EventEnvelope{
			EventName:     EventTypeQuoteGenerated,
			EventVersion:  1,
			EventID:       uuid.NewString(),
			CorrelationID: meta.CorrelationID,
			CausationID:   meta.CausationID,
			Producer:      producer,
			PartitionKey:  meta.PartitionKey,
			Sequence:      seq,
			OccurredAt:    occurredAt,
			Schema:        quoteGeneratedSchema,
		},
		Payload: payload,
	}
}
