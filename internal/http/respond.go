package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/andreasstove999/costify/internal/cart"
	"github.com/andreasstove999/costify/internal/catalog"
	"github.com/andreasstove999/costify/internal/middleware"
	"github.com/andreasstove999/costify/internal/pricing"
	"github.com/andreasstove999/costify/internal/quote"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeInvalid(w http.ResponseWriter, problems []string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request", Details: problems})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// fail maps domain errors to status codes. Anything unknown is logged and reported as msg with a 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var (
		qerr *quote.ValidationError
		cerr *catalog.ValidationError
	)
	switch {
	case errors.As(err, &qerr):
		writeInvalid(w, qerr.Problems)
	case errors.As(err, &cerr):
		writeInvalid(w, cerr.Problems)
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, cart.ErrMissingSession):
		writeError(w, http.StatusBadRequest, err.Error())
	case pricing.IsInvalidArgument(err):
		writeInvalid(w, []string{err.Error()})
	default:
		h.logger.Error(msg,
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("correlationId", middleware.GetCorrelationID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, msg)
	}
}
