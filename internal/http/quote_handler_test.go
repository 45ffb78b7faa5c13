package httpapi_test

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/costify/internal/cart"
	"github.com/andreasstove999/costify/internal/quote"
)

func quoteItem() map[string]any {
	return map[string]any{
		"id": buffetID, "type": "packet", "name": "Buffet",
		"priceCents": 1000, "quantity": 2, "markupPercentage": 25,
	}
}

func TestQuote(t *testing.T) {
	t.Run("generates", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/cart/quote", map[string]any{
			"items":  []any{quoteItem()},
			"client": map[string]any{"name": "Ada", "email": "ada@example.com"},
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode[quote.Quote](t, rec)
		assert.Equal(t, "QUOTE-66645123", got.Reference)
		assert.Equal(t, "2024-05-01T12:30:45.123Z", got.Date)
		require.NotNil(t, got.Client)
		assert.Equal(t, "Ada", got.Client.Name)
		assert.EqualValues(t, 2500, got.Totals.TotalCents)
		assert.Nil(t, got.PDFURL)
		assert.Contains(t, rec.Body.String(), `"pdfUrl":null`)
	})

	t.Run("invalid items", func(t *testing.T) {
		f := newFixture(t)
		item := quoteItem()
		item["quantity"] = 0

		rec := f.do(t, http.MethodPost, "/api/cart/quote", map[string]any{"items": []any{item}})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[errorResponse](t, rec)
		assert.Equal(t, "invalid request", body.Error)
		assert.Equal(t, []string{"items[0].quantity: must be >= 1"}, body.Details)
	})

	t.Run("missing items", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/cart/quote", map[string]any{})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"items: required"}, decode[errorResponse](t, rec).Details)
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/cart/quote", `{"items":`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid request body", decode[errorResponse](t, rec).Error)
	})
}

func TestQuoteSession(t *testing.T) {
	f := newFixture(t)
	f.backing["s1"] = cart.NewMemoryPersistence([]cart.LineItem{
		{ID: buffetID, Type: cart.ItemTypePacket, Name: "Buffet", PriceCents: 1000, Quantity: 2, MarkupPercentage: 25},
	})

	rec := f.do(t, http.MethodPost, "/api/cart/s1/quote", map[string]any{"client": map[string]any{"name": "Ada"}})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[quote.Quote](t, rec)
	require.Len(t, got.Items, 1)
	assert.EqualValues(t, 2000, got.Totals.SubtotalCents)
	assert.EqualValues(t, 2500, got.Totals.TotalCents)
	assert.Equal(t, "Ada", got.Client.Name)
}

func TestQuoteSession_AfterAddingItems(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart/s1/items", map[string]any{
		"id": buffetID, "name": "Buffet", "priceCents": 2700, "quantity": 2, "markupPercentage": 10,
		"recipes": []map[string]any{{"id": saladID, "name": "Salad", "quantity": 20, "priceCents": 135}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/cart/s1/quote", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[quote.Quote](t, rec)
	require.Len(t, got.Items, 1)
	assert.Len(t, got.Items[0].Recipes, 1)
	assert.EqualValues(t, 5400, got.Totals.SubtotalCents)
	assert.EqualValues(t, 5940, got.Totals.TotalCents)
}

func TestQuoteSession_EmptyCart(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart/s1/quote", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[quote.Quote](t, rec)
	assert.Empty(t, got.Items)
	assert.EqualValues(t, 0, got.Totals.TotalCents)
}

func TestQuotePDF(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/quotes/pdf", map[string]any{
		"items":  []any{quoteItem()},
		"client": map[string]any{"name": "Ada"},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="QUOTE-66645123.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}
