package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tabbitapp/tabbit/internal/services"
)

// The ballot key in the URL is the whole credential: these endpoints have
// no session and reveal nothing beyond the holder's own debate.

// handleGetBallotForm returns the ballot form for the key holder's current
// debate
func (h *Handlers) handleGetBallotForm(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		h.respondError(w, BadRequest("missing ballot key"))
		return
	}

	form, err := h.Ballots.GetBallotForm(r.Context(), key)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, form)
}

// handleSubmitBallot records a draft ballot for the key holder's current
// debate. Resubmitting replaces the draft with a higher version.
func (h *Handlers) handleSubmitBallot(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		h.respondError(w, BadRequest("missing ballot key"))
		return
	}

	var sub services.BallotSubmission
	if err := decodeJSON(r, &sub); err != nil {
		h.respondError(w, err)
		return
	}

	data, err := h.Ballots.SubmitBallot(r.Context(), key, sub)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondCreated(w, data)
}

// handleConfirmBallot confirms the latest draft ballot, making it count
// toward standings
func (h *Handlers) handleConfirmBallot(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		h.respondError(w, BadRequest("missing ballot key"))
		return
	}

	data, err := h.Ballots.ConfirmBallot(r.Context(), key)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, data)
}

// ==================== Staff Ballot Entry ====================

func (h *Handlers) handleGetDebateBallot(w http.ResponseWriter, r *http.Request) {
	debateID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	data, err := h.Ballots.GetDebateBallot(r.Context(), debateID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, data)
}

func (h *Handlers) handleConfirmDebateBallot(w http.ResponseWriter, r *http.Request) {
	debateID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	data, err := h.Ballots.ConfirmDebateBallot(r.Context(), debateID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, data)
}
