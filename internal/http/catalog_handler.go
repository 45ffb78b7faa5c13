package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/andreasstove999/costify/internal/catalog"
	"github.com/andreasstove999/costify/internal/pricing"
)

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out, err := h.catalog.ListCategories(ctx)
	if err != nil {
		h.fail(w, r, err, "failed to fetch categories")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := catalog.ValidateCategoryName(req.Name); err != nil {
		h.fail(w, r, err, "failed to create category")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out, err := h.catalog.CreateCategory(ctx, req.Name)
	if err != nil {
		h.fail(w, r, err, "failed to create category")
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out, err := h.catalog.ListIngredients(ctx)
	if err != nil {
		h.fail(w, r, err, "failed to fetch ingredients")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req catalog.NewIngredient
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := catalog.ValidateNewIngredient(req); err != nil {
		h.fail(w, r, err, "failed to create ingredient")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out, err := h.catalog.CreateIngredient(ctx, req)
	if err != nil {
		h.fail(w, r, err, "failed to create ingredient")
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

type updatePriceRequest struct {
	PriceCents *int64 `json:"priceCents"`
}

func (h *Handler) UpdateIngredientPrice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ingredientId")

	var req updatePriceRequest
	if err := decodeJSON(w, r, &req); err != nil || req.PriceCents == nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := catalog.ValidatePriceUpdate(id, *req.PriceCents); err != nil {
		h.fail(w, r, err, "failed to update ingredient")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out, err := h.catalog.UpdateIngredientPrice(ctx, id, pricing.Cents(*req.PriceCents))
	if err != nil {
		h.fail(w, r, err, "failed to update ingredient")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out, err := h.catalog.ListRecipes(ctx)
	if err != nil {
		h.fail(w, r, err, "failed to fetch recipes")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "recipeId")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out, err := h.catalog.GetRecipe(ctx, id)
	if err != nil {
		h.fail(w, r, err, "failed to fetch recipe")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req catalog.NewRecipe
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := catalog.ValidateNewRecipe(req); err != nil {
		h.fail(w, r, err, "failed to create recipe")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out, err := h.catalog.CreateRecipe(ctx, req)
	if err != nil {
		h.fail(w, r, err, "failed to create recipe")
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handler) ListPackets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out, err := h.catalog.ListPackets(ctx)
	if err != nil {
		h.fail(w, r, err, "failed to fetch packets")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetPacket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "packetId")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out, err := h.catalog.GetPacket(ctx, id)
	if err != nil {
		h.fail(w, r, err, "failed to fetch packet")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreatePacket(w http.ResponseWriter, r *http.Request) {
	var req catalog.NewPacket
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := catalog.ValidateNewPacket(req); err != nil {
		h.fail(w, r, err, "failed to create packet")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out, err := h.catalog.CreatePacket(ctx, req)
	if err != nil {
		h.fail(w, r, err, "failed to create packet")
		return
	}
	writeJSON(w, http.StatusCreated, out)
}
