package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lfarias/loyalty-api/internal/api"
	apiMiddleware "github.com/lfarias/loyalty-api/internal/api/middleware"
	"github.com/lfarias/loyalty-api/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))

	clientHandler := api.NewClientHandler(app.clientService)
	referralHandler := api.NewReferralHandler(app.referralService)

	r.Route("/api", func(r chi.Router) {
		// Client endpoints
		r.Post("/clients", clientHandler.CreateClient)
		r.Get("/clients/{cpf}", clientHandler.GetClient)
		r.Put("/clients/{cpf}", clientHandler.UpdateClient)
		r.Get("/clients/{cpf}/referrals", referralHandler.ListReferralsBySource)

		// Referral endpoints
		r.Post("/referrals", referralHandler.CreateReferral)
		r.Get("/referrals", referralHandler.ListReferrals)
		r.Get("/referrals/{cpf}", referralHandler.GetReferralByTarget)
		r.Put("/referrals/{cpf}", referralHandler.UpdateReferral)
	})

	// Index of endpoints
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		shared.RespondWithJSON(w, req, http.StatusOK, map[string]string{
			"clients":            "/api/clients",
			"client":             "/api/clients/{cpf}",
			"client_referrals":   "/api/clients/{cpf}/referrals",
			"referrals":          "/api/referrals",
			"referral_by_target": "/api/referrals/{cpf}",
			"health":             "/health",
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
