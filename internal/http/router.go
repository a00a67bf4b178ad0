package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dp-213/insoledger/internal/auth"
	allocationv1 "github.com/dp-213/insoledger/internal/http/allocation"
	breakdownv1 "github.com/dp-213/insoledger/internal/http/breakdown"
	forecastv1 "github.com/dp-213/insoledger/internal/http/forecast"
	ledgerv1 "github.com/dp-213/insoledger/internal/http/ledgerentry"
	sessionv1 "github.com/dp-213/insoledger/internal/http/session"
)

func New(
	authSvc *auth.Service,
	sessionV1 *sessionv1.Handler,
	entriesV1 *ledgerv1.Handler,
	breakdownsV1 *breakdownv1.Handler,
	allocationV1 *allocationv1.Handler,
	forecastV1 *forecastv1.Handler,
	allowedOrigins []string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			sessionV1.Routes(r)
		})

		r.Route("/cases/{caseID}", func(r chi.Router) {
			r.Use(authSvc.Middleware)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				entriesV1.Routes(r)
				allocationV1.Routes(r)
				forecastV1.Routes(r)
			})

			// Breakdown routes accept multipart uploads, so the
			// content-type guard stays off this group.
			breakdownsV1.Routes(r)
		})
	})

	return router
}
