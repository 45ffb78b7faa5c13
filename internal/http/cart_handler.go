package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/andreasstove999/costify/internal/cart"
	"github.com/andreasstove999/costify/internal/catalog"
	"github.com/andreasstove999/costify/internal/pricing"
)

type cartView struct {
	Items  []cart.LineItem    `json:"items"`
	Totals pricing.CartTotals `json:"totals"`
}

// session resolves the store for the path's session id, writing the error response itself on failure.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (context.Context, context.CancelFunc, *cart.Store, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	store, err := h.sessions.Get(ctx, chi.URLParam(r, "sessionId"))
	if err != nil {
		cancel()
		h.fail(w, r, err, "failed to load cart")
		return nil, nil, nil, false
	}
	return ctx, cancel, store, true
}

func (h *Handler) writeCart(w http.ResponseWriter, r *http.Request, status int, store *cart.Store) {
	totals, err := store.Totals()
	if err != nil {
		h.fail(w, r, err, "failed to calculate totals")
		return
	}
	writeJSON(w, status, cartView{Items: store.Items(), Totals: totals})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	_, cancel, store, ok := h.session(w, r)
	if !ok {
		return
	}
	defer cancel()

	h.writeCart(w, r, http.StatusOK, store)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, store, ok := h.session(w, r)
	if !ok {
		return
	}
	defer cancel()

	if err := store.Clear(ctx); err != nil {
		h.fail(w, r, err, "failed to clear cart")
		return
	}
	h.writeCart(w, r, http.StatusOK, store)
}

func (h *Handler) CartTotals(w http.ResponseWriter, r *http.Request) {
	_, cancel, store, ok := h.session(w, r)
	if !ok {
		return
	}
	defer cancel()

	totals, err := store.Totals()
	if err != nil {
		h.fail(w, r, err, "failed to calculate totals")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

type addItemRequest struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      *string           `json:"description,omitempty"`
	PriceCents       pricing.Cents     `json:"priceCents"`
	Quantity         int               `json:"quantity"`
	MarkupPercentage *float64          `json:"markupPercentage,omitempty"`
	Recipes          []cart.RecipeLine `json:"recipes,omitempty"`
	Custom           bool              `json:"custom,omitempty"`
}

func (req addItemRequest) lineItem() cart.LineItem {
	it := cart.LineItem{
		ID:               req.ID,
		Type:             cart.ItemTypePacket,
		Name:             req.Name,
		Description:      req.Description,
		PriceCents:       req.PriceCents,
		Quantity:         req.Quantity,
		MarkupPercentage: pricing.DefaultMarkupPercentage,
		Recipes:          req.Recipes,
		Custom:           req.Custom,
	}
	if req.MarkupPercentage != nil {
		it.MarkupPercentage = *req.MarkupPercentage
	}
	return it
}

// problems reports every rule the line breaks; a stored line must stay quotable.
func (req addItemRequest) problems() []string {
	var out []string
	if strings.TrimSpace(req.Name) == "" {
		out = append(out, "name: required")
	}
	return append(out, cart.ItemProblems("", req.lineItem())...)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p := req.problems(); len(p) > 0 {
		writeInvalid(w, p)
		return
	}

	ctx, cancel, store, ok := h.session(w, r)
	if !ok {
		return
	}
	defer cancel()

	if err := store.Add(ctx, req.lineItem(), req.MarkupPercentage); err != nil {
		h.fail(w, r, err, "failed to add item")
		return
	}
	h.writeCart(w, r, http.StatusCreated, store)
}

func patchProblems(p cart.Patch) []string {
	var out []string
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		out = append(out, "name: must not be empty")
	}
	if p.PriceCents != nil && *p.PriceCents < 0 {
		out = append(out, "priceCents: must be >= 0")
	}
	if p.Quantity != nil && *p.Quantity < 1 {
		out = append(out, "quantity: must be >= 1")
	}
	if p.MarkupPercentage != nil && *p.MarkupPercentage < 0 {
		out = append(out, "markupPercentage: must be >= 0")
	}
	if p.Recipes != nil {
		out = append(out, cart.RecipeProblems("recipes", *p.Recipes)...)
	}
	return out
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var patch cart.Patch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p := patchProblems(patch); len(p) > 0 {
		writeInvalid(w, p)
		return
	}

	ctx, cancel, store, ok := h.session(w, r)
	if !ok {
		return
	}
	defer cancel()

	if err := store.Update(ctx, chi.URLParam(r, "itemId"), patch); err != nil {
		h.fail(w, r, err, "failed to update item")
		return
	}
	h.writeCart(w, r, http.StatusOK, store)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, store, ok := h.session(w, r)
	if !ok {
		return
	}
	defer cancel()

	if err := store.Remove(ctx, chi.URLParam(r, "itemId")); err != nil {
		h.fail(w, r, err, "failed to remove item")
		return
	}
	h.writeCart(w, r, http.StatusOK, store)
}

type addPacketRequest struct {
	Quantity         *int     `json:"quantity,omitempty"`
	MarkupPercentage *float64 `json:"markupPercentage,omitempty"`
}

// AddPacket copies a catalog packet, with its current cost, into the cart.
func (h *Handler) AddPacket(w http.ResponseWriter, r *http.Request) {
	packetID := chi.URLParam(r, "packetId")
	if _, err := uuid.Parse(packetID); err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var req addPacketRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	var problems []string
	if qty < 1 {
		problems = append(problems, "quantity: must be >= 1")
	}
	if req.MarkupPercentage != nil && *req.MarkupPercentage < 0 {
		problems = append(problems, "markupPercentage: must be >= 0")
	}
	if len(problems) > 0 {
		writeInvalid(w, problems)
		return
	}

	ctx, cancel, store, ok := h.session(w, r)
	if !ok {
		return
	}
	defer cancel()

	packet, err := h.catalog.GetPacket(ctx, packetID)
	if err != nil {
		h.fail(w, r, err, "failed to fetch packet")
		return
	}
	if err := store.Add(ctx, catalog.PacketLineItem(packet, qty), req.MarkupPercentage); err != nil {
		h.fail(w, r, err, "failed to add packet")
		return
	}
	h.writeCart(w, r, http.StatusCreated, store)
}
