package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter assembles the checkout API surface with the standard
// middleware stack and tracing wrapper.
func NewRouter(checkout *CheckoutHandler, carts *CartHandler, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/checkout/sessions", func(r chi.Router) {
			r.Post("/", checkout.StartSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", checkout.GetSession)
				r.Get("/totals", checkout.Totals)
				r.Put("/customer", checkout.UpdateCustomer)
				r.Put("/address", checkout.UpdateAddress)
				r.Put("/delivery", checkout.UpdateDelivery)
				r.Put("/tip", checkout.SetTip)
				r.Post("/discount", checkout.ApplyDiscount)
				r.Delete("/discount", checkout.RemoveDiscount)
				r.Get("/steps", checkout.StepStates)
				r.Post("/steps/{step}/confirm", checkout.ConfirmStep)
				r.Post("/steps/{step}/edit", checkout.EditStep)
				r.Post("/pay", checkout.Pay)
			})
		})

		r.Route("/cart/{customerID}", func(r chi.Router) {
			r.Get("/", carts.GetCart)
			r.Put("/items/{itemID}", carts.UpdateQuantity)
		})
	})

	return otelhttp.NewHandler(r, "checkout-api")
}
