package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	cartapp "github.com/m7one/storefront/internal/cart/app"
	catalogapp "github.com/m7one/storefront/internal/catalog/app"
	checkoutapp "github.com/m7one/storefront/internal/checkout/app"
)

// ThemeStore is the slice of preference storage the API exposes.
type ThemeStore interface {
	Theme() string
	SetTheme(theme string) error
}

// Readiness reports whether downstream collaborators are reachable.
type Readiness func() error

// Server bundles the handlers with their dependencies.
type Server struct {
	catalog  *catalogapp.Service
	cart     *cartapp.Service
	checkout *checkoutapp.Manager
	cartPort checkoutapp.Cart
	theme    ThemeStore
	ready    Readiness
	log      *slog.Logger

	rateLimitEnabled bool
	rateLimit        float64
	rateBurst        int
}

type Options struct {
	Catalog  *catalogapp.Service
	Cart     *cartapp.Service
	Checkout *checkoutapp.Manager
	// CartPort is the checkout view of the cart, usually the adapter
	// over Cart.
	CartPort checkoutapp.Cart
	Theme    ThemeStore
	Ready    Readiness
	Log      *slog.Logger

	RateLimitEnabled bool
	RateLimit        float64
	RateBurst        int
}

func NewServer(opts Options) *Server {
	return &Server{
		catalog:          opts.Catalog,
		cart:             opts.Cart,
		checkout:         opts.Checkout,
		cartPort:         opts.CartPort,
		theme:            opts.Theme,
		ready:            opts.Ready,
		log:              opts.Log,
		rateLimitEnabled: opts.RateLimitEnabled,
		rateLimit:        opts.RateLimit,
		rateBurst:        opts.RateBurst,
	}
}

// Router builds the chi mux with the full API surface.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestID)
	r.Use(RequestLogger(s.log))
	if s.rateLimitEnabled {
		r.Use(RateLimit(rate.Limit(s.rateLimit), s.rateBurst))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handleListProducts)
			r.Get("/{id}", s.handleGetProduct)
		})
		r.Get("/categories", s.handleListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.handleGetCart)
			r.Delete("/", s.handleClearCart)
			r.Post("/items", s.handleAddItem)
			r.Put("/items/{id}", s.handleSetQuantity)
			r.Delete("/items/{id}", s.handleRemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", s.handleBeginCheckout)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleAbandonCheckout)
				r.Post("/shipping", s.handleSubmitShipping)
				r.Post("/payment", s.handleSubmitPayment)
				r.Post("/back", s.handleRetreat)
				r.Post("/step", s.handleJumpTo)
				r.Post("/promo", s.handleApplyPromo)
				r.Post("/place", s.handlePlaceOrder)
			})
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/theme", s.handleGetTheme)
			r.Put("/theme", s.handleSetTheme)
		})
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if s.ready != nil {
		if err := s.ready(); err != nil {
			s.log.Warn("readiness check failed", slog.Any("err", err))
			writeErrorMsg(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
