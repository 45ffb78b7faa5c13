package middleware

import (
	"net/http"
	"strings"
)

const (
	corsMethods = "GET,POST,PATCH,DELETE,OPTIONS"
	corsHeaders = "Content-Type, X-Correlation-Id"
	// the quote PDF filename travels in Content-Disposition
	corsExposed = "X-Correlation-Id, Content-Disposition"
)

type corsPolicy struct {
	any     bool
	origins map[string]struct{}
}

func newCORSPolicy(allowOrigins []string) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{}, len(allowOrigins))}
	for _, o := range allowOrigins {
		o = strings.ToLower(strings.TrimSpace(o))
		if o == "*" {
			p.any = true
		}
		p.origins[o] = struct{}{}
	}
	return p
}

func (p corsPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.any {
		return true
	}
	_, ok := p.origins[strings.ToLower(strings.TrimSpace(origin))]
	return ok
}

// CORS answers preflights with 204 and decorates other responses for allowed origins.
// Allowed origins are reflected rather than answered with "*".
func CORS(allowOrigins []string) func(http.Handler) http.Handler {
	policy := newCORSPolicy(allowOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); policy.allows(origin) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Methods", corsMethods)
				h.Set("Access-Control-Allow-Headers", corsHeaders)
				h.Set("Access-Control-Expose-Headers", corsExposed)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
