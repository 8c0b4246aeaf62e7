package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saged-tournament/cricket-league/handlers"
	"github.com/saged-tournament/cricket-league/middleware"
)

// SetupRoutes mounts the API. Mutating tournament routes do not require a
// user header: they are gated by the per-tournament admin code inside the
// engine.
func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	tournamentHandler *handlers.TournamentHandler,
	teamHandler *handlers.TeamHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.UserIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Cricket League API is running"))
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
	})
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.ListHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Post("/", teamHandler.CreateHandler)
			r.Delete("/{teamID}", teamHandler.DeleteHandler)
			r.Post("/{teamID}/logo", teamHandler.UploadLogoHandler)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Post("/", tournamentHandler.CreateHandler)
		})

		r.Put("/{tournamentID}/knockout-teams", tournamentHandler.SetKnockoutHandler)
		r.Put("/{tournamentID}/matches/{matchID}", tournamentHandler.RecordResultHandler)
		r.Patch("/{tournamentID}/status", tournamentHandler.UpdateStatusHandler)
		r.Post("/{tournamentID}/verify-admin", tournamentHandler.VerifyAdminHandler)
		r.Delete("/{tournamentID}", tournamentHandler.DeleteHandler)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
