package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andreasstove999/costify/internal/cart"
	"github.com/andreasstove999/costify/internal/catalog"
	"github.com/andreasstove999/costify/internal/middleware"
	"github.com/andreasstove999/costify/internal/quote"
)

type Deps struct {
	Logger           *zap.Logger
	Catalog          catalog.Repository
	Sessions         *cart.Sessions
	Quotes           *quote.Service
	CORSAllowOrigins []string
	RequestTimeout   time.Duration
}

type Handler struct {
	catalog  catalog.Repository
	sessions *cart.Sessions
	quotes   *quote.Service
	timeout  time.Duration
	logger   *zap.Logger
}

const quoteTimeout = 5 * time.Second

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Handler{
		catalog:  d.Catalog,
		sessions: d.Sessions,
		quotes:   d.Quotes,
		timeout:  timeout,
		logger:   logger,
	}
}

func NewRouter(d Deps) http.Handler {
	h := NewHandler(d)
	origins := d.CORSAllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Logging(h.logger))
	r.Use(middleware.Recover(h.logger))
	r.Use(middleware.CORS(origins))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
		})
		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", h.ListIngredients)
			r.Post("/", h.CreateIngredient)
			r.Patch("/{ingredientId}", h.UpdateIngredientPrice)
		})
		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", h.ListRecipes)
			r.Post("/", h.CreateRecipe)
			r.Get("/{recipeId}", h.GetRecipe)
		})
		r.Route("/packets", func(r chi.Router) {
			r.Get("/", h.ListPackets)
			r.Post("/", h.CreatePacket)
			r.Get("/{packetId}", h.GetPacket)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Post("/quote", h.Quote)

			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Delete("/", h.ClearCart)
				r.Get("/totals", h.CartTotals)
				r.Post("/items", h.AddItem)
				r.Patch("/items/{itemId}", h.UpdateItem)
				r.Delete("/items/{itemId}", h.RemoveItem)
				r.Post("/packets/{packetId}", h.AddPacket)
				r.Post("/quote", h.QuoteSession)
			})
		})

		r.Post("/quotes/pdf", h.QuotePDF)
	})

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "costify"})
}
