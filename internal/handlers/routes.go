package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// WebSocket (no hub in tests)
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", h.handlePing)

		// Public reads
		r.Get("/tournaments", h.handleGetTournaments)
		r.Get("/tournaments/{id}", h.handleGetTournament)
		r.Get("/tournaments/{id}/rounds", h.handleGetRounds)
		r.Get("/tournaments/{id}/standings", h.handleGetTeamStandings)
		r.Get("/tournaments/{id}/speaker-standings", h.handleGetSpeakerStandings)
		r.Get("/rounds/{id}", h.handleGetRound)
		r.Get("/rounds/{id}/draw", h.handleGetDraw)
		r.Get("/rounds/{id}/motion", h.handleGetMotion)

		// Ballot entry by private key
		r.Get("/ballots/{key}", h.handleGetBallotForm)
		r.Post("/ballots/{key}", h.handleSubmitBallot)
		r.Post("/ballots/{key}/confirm", h.handleConfirmBallot)

		// Admin session
		r.Post("/admin/login", h.handleLogin)
		r.Post("/admin/logout", h.handleLogout)

		// Admin API (protected)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAuthAPI)

			// Tournaments
			r.Post("/admin/tournaments", h.handleCreateTournament)
			r.Put("/admin/tournaments/{id}", h.handleUpdateTournament)
			r.Delete("/admin/tournaments/{id}", h.handleDeleteTournament)
			r.Get("/admin/tournaments/{id}/stats", h.handleGetTournamentStats)
			r.Post("/admin/tournaments/{id}/import", h.handleImportRoster)

			// Institutions
			r.Get("/admin/institutions", h.handleGetInstitutions)
			r.Post("/admin/institutions", h.handleCreateInstitution)
			r.Put("/admin/institutions/{id}", h.handleUpdateInstitution)
			r.Delete("/admin/institutions/{id}", h.handleDeleteInstitution)

			// Teams and speakers
			r.Get("/admin/tournaments/{id}/teams", h.handleGetTeams)
			r.Post("/admin/tournaments/{id}/teams", h.handleCreateTeam)
			r.Get("/admin/teams/{id}", h.handleGetTeam)
			r.Put("/admin/teams/{id}", h.handleUpdateTeam)
			r.Delete("/admin/teams/{id}", h.handleDeleteTeam)
			r.Post("/admin/teams/{id}/speakers", h.handleCreateSpeaker)
			r.Put("/admin/speakers/{id}", h.handleUpdateSpeaker)
			r.Delete("/admin/speakers/{id}", h.handleDeleteSpeaker)

			// Adjudicators
			r.Get("/admin/tournaments/{id}/adjudicators", h.handleGetAdjudicators)
			r.Post("/admin/tournaments/{id}/adjudicators", h.handleCreateAdjudicator)
			r.Get("/admin/adjudicators/{id}", h.handleGetAdjudicator)
			r.Put("/admin/adjudicators/{id}", h.handleUpdateAdjudicator)
			r.Delete("/admin/adjudicators/{id}", h.handleDeleteAdjudicator)
			r.Get("/admin/adjudicators/{id}/qr.png", h.handleGetAdjudicatorQR)

			// Round lifecycle
			r.Post("/admin/tournaments/{id}/rounds", h.handleCreateRound)
			r.Post("/admin/rounds/{id}/draw", h.handleGenerateDraw)
			r.Post("/admin/rounds/{id}/start", h.handleStartRound)
			r.Post("/admin/rounds/{id}/complete", h.handleCompleteRound)
			r.Put("/admin/rounds/{id}/motion", h.handleSetMotion)

			// Staff ballot entry
			r.Get("/admin/debates/{id}/ballot", h.handleGetDebateBallot)
			r.Post("/admin/debates/{id}/ballot/confirm", h.handleConfirmDebateBallot)

			// Settings
			r.Get("/admin/settings", h.handleGetSettings)
			r.Put("/admin/settings", h.handleUpdateSettings)
		})
	})

	return r
}
