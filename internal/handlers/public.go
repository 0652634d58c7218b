package handlers

import (
	"net/http"

	"github.com/tabbitapp/tabbit/internal/models"
)

// ==================== Health ====================

func (h *Handlers) handlePing(w http.ResponseWriter, r *http.Request) {
	respondOK(w, PingResponse{Status: "ready"})
}

// ==================== Tournaments ====================

func (h *Handlers) handleGetTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.Tournaments.ListTournaments(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	if tournaments == nil {
		tournaments = []models.Tournament{}
	}
	respondOK(w, tournaments)
}

func (h *Handlers) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	tournament, err := h.Tournaments.GetTournament(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, tournament)
}

// ==================== Rounds ====================

func (h *Handlers) handleGetRounds(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	rounds, err := h.Rounds.ListRounds(r.Context(), tournamentID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if rounds == nil {
		rounds = []models.Round{}
	}
	respondOK(w, rounds)
}

func (h *Handlers) handleGetRound(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	round, err := h.Rounds.GetRound(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, round)
}

// handleGetDraw returns the released draw for a round. Pending rounds have
// no draw and respond with a conflict.
func (h *Handlers) handleGetDraw(w http.ResponseWriter, r *http.Request) {
	roundID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	data, err := h.Draws.GetDraw(r.Context(), roundID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, data)
}

func (h *Handlers) handleGetMotion(w http.ResponseWriter, r *http.Request) {
	roundID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	motion, err := h.Rounds.GetMotion(r.Context(), roundID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, motion)
}

// ==================== Standings ====================

func (h *Handlers) handleGetTeamStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	standings, err := h.Standings.GetTeamStandings(r.Context(), tournamentID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if standings == nil {
		standings = []models.TeamStanding{}
	}
	respondOK(w, standings)
}

func (h *Handlers) handleGetSpeakerStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	standings, err := h.Standings.GetSpeakerStandings(r.Context(), tournamentID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if standings == nil {
		standings = []models.SpeakerStanding{}
	}
	respondOK(w, standings)
}
