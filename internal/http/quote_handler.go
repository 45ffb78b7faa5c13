package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/andreasstove999/costify/internal/quote"
)

// Quote is the stateless quote boundary: the client sends the whole cart.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quote.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), quoteTimeout)
	defer cancel()

	h.generate(ctx, w, r, req)
}

type sessionQuoteRequest struct {
	Client *quote.Client `json:"client,omitempty"`
}

// QuoteSession quotes the items currently held in the session cart.
func (h *Handler) QuoteSession(w http.ResponseWriter, r *http.Request) {
	var req sessionQuoteRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	_, cancelSession, store, ok := h.session(w, r)
	if !ok {
		return
	}
	defer cancelSession()

	ctx, cancel := context.WithTimeout(r.Context(), quoteTimeout)
	defer cancel()

	h.generate(ctx, w, r, quote.Request{Items: store.Items(), Client: req.Client})
}

func (h *Handler) generate(ctx context.Context, w http.ResponseWriter, r *http.Request, req quote.Request) {
	q, err := h.quotes.Generate(ctx, req)
	if err != nil {
		h.fail(w, r, err, "failed to generate quote")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// QuotePDF renders the quote as a PDF download without storing it.
func (h *Handler) QuotePDF(w http.ResponseWriter, r *http.Request) {
	var req quote.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.quotes.Build(req)
	if err != nil {
		h.fail(w, r, err, "failed to generate quote")
		return
	}

	doc, err := quote.RenderPDF(q)
	if err != nil {
		h.fail(w, r, err, "failed to render quote")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+q.Reference+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
