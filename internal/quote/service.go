package quote

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/costify/internal/cart"
	"github.com/andreasstove999/costify/internal/pricing"
)

const dateLayout = "2006-01-02T15:04:05.000Z"

type Quote struct {
	Reference string             `json:"reference"`
	Date      string             `json:"date"`
	Client    *Client            `json:"client,omitempty"`
	Items     []cart.LineItem    `json:"items"`
	Totals    pricing.CartTotals `json:"totals"`
	PDFURL    *string            `json:"pdfUrl"`
}

// PDFStore uploads a rendered quote and returns where it can be fetched.
type PDFStore interface {
	Put(ctx context.Context, key string, pdf []byte) (string, error)
}

type Publisher interface {
	PublishQuoteGenerated(ctx context.Context, q Quote) error
}

type ServiceOptions struct {
	PDFStore  PDFStore
	Publisher Publisher
	Now       func() time.Time
}

type Service struct {
	pdfs      PDFStore
	publisher Publisher
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(logger *zap.Logger, opts ServiceOptions) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		pdfs:      opts.PDFStore,
		publisher: opts.Publisher,
		now:       now,
		logger:    logger,
	}
}

// Build validates req and recomputes its totals without storing or publishing anything.
func (s *Service) Build(req Request) (Quote, error) {
	if err := Validate(req); err != nil {
		return Quote{}, err
	}

	totals, err := pricing.CalculateCartTotals(cart.PricingItems(req.Items))
	if err != nil {
		return Quote{}, fmt.Errorf("calculate totals: %w", err)
	}

	now := s.now().UTC()
	return Quote{
		Reference: Reference(now),
		Date:      now.Format(dateLayout),
		Client:    req.Client,
		Items:     req.Items,
		Totals:    totals,
	}, nil
}

// Generate builds the quote, then uploads its PDF and publishes QuoteGenerated.
// Both side effects are best effort.
func (s *Service) Generate(ctx context.Context, req Request) (Quote, error) {
	q, err := s.Build(req)
	if err != nil {
		return Quote{}, err
	}

	if s.pdfs != nil {
		if url, err := s.storePDF(ctx, q); err != nil {
			s.logger.Warn("quote pdf upload failed", zap.String("reference", q.Reference), zap.Error(err))
		} else {
			q.PDFURL = &url
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishQuoteGenerated(ctx, q); err != nil {
			s.logger.Warn("publish QuoteGenerated failed", zap.String("reference", q.Reference), zap.Error(err))
		}
	}

	s.logger.Info("quote generated",
		zap.String("reference", q.Reference),
		zap.Int("items", len(q.Items)),
		zap.Int64("totalCents", int64(q.Totals.TotalCents)),
	)
	return q, nil
}

func (s *Service) storePDF(ctx context.Context, q Quote) (string, error) {
	doc, err := RenderPDF(q)
	if err != nil {
		return "", err
	}
	return s.pdfs.Put(ctx, "quotes/"+q.Reference+".pdf", doc)
}

// Reference drops the first five digits of the millisecond timestamp.
// Two quotes in the same millisecond share a reference.
func Reference(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) > 5 {
		ms = ms[5:]
	}
	return "QUOTE-" + ms
}
