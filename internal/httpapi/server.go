// Package httpapi exposes the storefront over HTTP: tenant and menu lookup,
// search, site content, carts, the reservation RPC and the payment callback.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/chrisdamba/foodsite/internal/cart"
	"github.com/chrisdamba/foodsite/internal/content"
	"github.com/chrisdamba/foodsite/internal/events"
	"github.com/chrisdamba/foodsite/internal/payment"
	"github.com/chrisdamba/foodsite/internal/repositories"
	"github.com/chrisdamba/foodsite/internal/reservation"
	"github.com/chrisdamba/foodsite/internal/search"
)

const previewCookie = "foodsite_preview"

// Searcher answers queries against one restaurant's menu.
type Searcher interface {
	Search(ctx context.Context, restaurantID, query string) (search.Results, error)
}

// Deps are the services a Server routes to. Content, Search and Payments may
// be nil; their routes then answer 404 or 503.
type Deps struct {
	Store        *repositories.Store
	Search       Searcher
	Content      *content.Store
	Carts        *cart.Registry
	Booking      reservation.RPC
	Payments     *payment.Bridge
	Publisher    *events.Publisher
	AwaitTimeout time.Duration
	Logger       zerolog.Logger
}

type Server struct {
	store        *repositories.Store
	search       Searcher
	content      *content.Store
	carts        *cart.Registry
	booking      reservation.RPC
	payments     *payment.Bridge
	publisher    *events.Publisher
	awaitTimeout time.Duration
	logger       zerolog.Logger
	now          func() time.Time
}

func New(d Deps) *Server {
	s := &Server{
		store:        d.Store,
		search:       d.Search,
		content:      d.Content,
		carts:        d.Carts,
		booking:      d.Booking,
		payments:     d.Payments,
		publisher:    d.Publisher,
		awaitTimeout: d.AwaitTimeout,
		logger:       d.Logger.With().Str("component", "httpapi").Logger(),
		now:          time.Now,
	}
	if s.carts == nil {
		s.carts = cart.NewRegistry(0)
	}
	if s.awaitTimeout <= 0 {
		s.awaitTimeout = 30 * time.Second
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.middleware()...)

	r.Route("/api", func(r chi.Router) {
		r.Get("/restaurants", s.getRestaurantByDomain)
		r.Get("/restaurants/{id}", s.getRestaurant)
		r.Get("/restaurants/{id}/menu", s.getMenu)
		r.Get("/restaurants/{id}/menu/{itemID}/pairings", s.getPairings)
		r.Get("/restaurants/{id}/search", s.searchMenu)

		r.Get("/content", s.getContent)
		r.Get("/content/{section}", s.getContentSection)
		r.Put("/preview", s.setPreview)

		r.Post("/carts", s.createCart)
		r.Route("/carts/{id}", func(r chi.Router) {
			r.Get("/", s.getCart)
			r.Delete("/", s.clearCart)
			r.Put("/drawer", s.setDrawer)
			r.Post("/items", s.addCartItem)
			r.Patch("/items/{itemID}", s.updateCartItem)
			r.Delete("/items/{itemID}", s.removeCartItem)
		})

		r.Post("/payments", s.openPayment)
		r.Get("/payments/{token}", s.getPayment)
		r.Delete("/payments/{token}", s.closePayment)
		r.Post("/payments/{token}/message", s.receivePaymentMessage)
	})

	r.Route("/rpc", func(r chi.Router) {
		r.Post("/time_slots", s.timeSlots)
		r.Post("/availability", s.availability)
		r.Post("/reservations", s.createReservation)
		r.Get("/reservations/{id}", s.getReservation)
		r.Post("/reservations/{id}/cancel", s.cancelReservation)
	})

	return r
}
