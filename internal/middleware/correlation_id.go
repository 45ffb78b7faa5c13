package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	HeaderCorrelationID = "X-Correlation-Id"

	maxCorrelationIDLen = 128
)

type correlationKey struct{}

// CorrelationID adopts the caller's X-Correlation-Id, or mints a uuid when it is
// missing or oversized, and echoes it on the response.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := strings.TrimSpace(r.Header.Get(HeaderCorrelationID))
		if cid == "" || len(cid) > maxCorrelationIDLen {
			cid = uuid.NewString()
		}
		w.Header().Set(HeaderCorrelationID, cid)
		next.ServeHTTP(w, r.WithContext(WithCorrelationID(r.Context(), cid)))
	})
}

func WithCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationKey{}, cid)
}

// GetCorrelationID returns "" outside a request.
func GetCorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(correlationKey{}).(string)
	return cid
}
