package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tabbitapp/tabbit/internal/models"
	"github.com/tabbitapp/tabbit/internal/services"
)

// ==================== Tournaments ====================

func (h *Handlers) handleCreateTournament(w http.ResponseWriter, r *http.Request) {
	var req TournamentCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	id, err := h.Tournaments.CreateTournament(r.Context(), services.Tournament{
		Name:                  req.Name,
		Abbreviation:          req.Abbreviation,
		Sides:                 req.SidesPerRoom,
		PanelSize:             req.PanelSize,
		AvoidInstitutionClash: req.AvoidInstitutionClash,
		ByePolicy:             req.ByePolicy,
		PairingMethod:         req.PairingMethod,
		TieBreakSeed:          req.TieBreakSeed,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	tournament, err := h.Tournaments.GetTournament(r.Context(), int(id))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, tournament)
}

func (h *Handlers) handleUpdateTournament(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	var req TournamentUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	err = h.Tournaments.UpdateTournament(r.Context(), id, services.Tournament{
		Name:                  req.Name,
		Abbreviation:          req.Abbreviation,
		Sides:                 req.SidesPerRoom,
		PanelSize:             req.PanelSize,
		AvoidInstitutionClash: req.AvoidInstitutionClash,
		ByePolicy:             req.ByePolicy,
		PairingMethod:         req.PairingMethod,
		TieBreakSeed:          req.TieBreakSeed,
	})
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

func (h *Handlers) handleDeleteTournament(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.Tournaments.DeleteTournament(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	respondDeleted(w)
}

func (h *Handlers) handleGetTournamentStats(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	stats, err := h.Tournaments.GetStats(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, stats)
}

// ==================== Institutions ====================

func (h *Handlers) handleGetInstitutions(w http.ResponseWriter, r *http.Request) {
	institutions, err := h.Registration.ListInstitutions(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, institutions)
}

func (h *Handlers) handleCreateInstitution(w http.ResponseWriter, r *http.Request) {
	var req InstitutionCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	id, err := h.Registration.CreateInstitution(r.Context(), req.Name, req.Code)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondCreated(w, InstitutionResponse{
		ID:   id,
		Name: strings.TrimSpace(req.Name),
		Code: strings.TrimSpace(req.Code),
	})
}

func (h *Handlers) handleUpdateInstitution(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	var req InstitutionUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.Registration.UpdateInstitution(r.Context(), id, req.Name, req.Code); err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, InstitutionResponse{
		ID:   int64(id),
		Name: strings.TrimSpace(req.Name),
		Code: strings.TrimSpace(req.Code),
	})
}

func (h *Handlers) handleDeleteInstitution(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.Registration.DeleteInstitution(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	respondDeleted(w)
}

// ==================== Teams ====================

func (h *Handlers) handleGetTeams(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	teams, err := h.Registration.ListTeams(r.Context(), tournamentID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, teams)
}

func (h *Handlers) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	team, err := h.Registration.GetTeam(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, team)
}

func (h *Handlers) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	var req TeamCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	id, err := h.Registration.CreateTeam(r.Context(), services.Team{
		TournamentID:  tournamentID,
		InstitutionID: req.InstitutionID,
		Name:          req.Name,
		Abbreviation:  req.Abbreviation,
		Speakers:      req.Speakers,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	team, err := h.Registration.GetTeam(r.Context(), int(id))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, team)
}

func (h *Handlers) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	var req TeamUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	err = h.Registration.UpdateTeam(r.Context(), id, services.Team{
		InstitutionID: req.InstitutionID,
		Name:          req.Name,
		Abbreviation:  req.Abbreviation,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	team, err := h.Registration.GetTeam(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, team)
}

func (h *Handlers) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.Registration.DeleteTeam(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	respondDeleted(w)
}

// ==================== Speakers ====================

func (h *Handlers) handleCreateSpeaker(w http.ResponseWriter, r *http.Request) {
	teamID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	var req SpeakerCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	speaker := &models.Speaker{
		TeamID:   teamID,
		Name:     req.Name,
		Position: req.Position,
	}
	id, err := h.Registration.CreateSpeaker(r.Context(), speaker)
	if err != nil {
		h.respondError(w, err)
		return
	}

	speaker.ID = int(id)
	respondCreated(w, speaker)
}

func (h *Handlers) handleUpdateSpeaker(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	var req SpeakerUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	speaker := &models.Speaker{
		ID:       id,
		Name:     req.Name,
		Position: req.Position,
	}
	if err := h.Registration.UpdateSpeaker(r.Context(), speaker); err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, speaker)
}

func (h *Handlers) handleDeleteSpeaker(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.Registration.DeleteSpeaker(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	respondDeleted(w)
}

// ==================== Adjudicators ====================

// adjudicatorResponse maps an adjudicator to its admin view, attaching the
// private ballot URL when a base URL is configured
func (h *Handlers) adjudicatorResponse(r *http.Request, adj *models.Adjudicator) AdjudicatorResponse {
	resp := AdjudicatorResponse{
		ID:            int64(adj.ID),
		TournamentID:  adj.TournamentID,
		InstitutionID: adj.InstitutionID,
		Name:          adj.Name,
		Experience:    adj.Experience,
		Independent:   adj.Independent,
		BallotKey:     adj.BallotKey,
	}
	if baseURL, err := h.Settings.GetBaseURL(r.Context()); err == nil && baseURL != "" {
		resp.BallotURL = fmt.Sprintf("%s/ballots/%s", strings.TrimSuffix(baseURL, "/"), adj.BallotKey)
	}
	return resp
}

func (h *Handlers) handleGetAdjudicators(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	adjudicators, err := h.Registration.ListAdjudicators(r.Context(), tournamentID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	responses := make([]AdjudicatorResponse, 0, len(adjudicators))
	for i := range adjudicators {
		responses = append(responses, h.adjudicatorResponse(r, &adjudicators[i]))
	}
	respondOK(w, responses)
}

func (h *Handlers) handleGetAdjudicator(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	adj, err := h.Registration.GetAdjudicator(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, h.adjudicatorResponse(r, adj))
}

func (h *Handlers) handleCreateAdjudicator(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	var req AdjudicatorCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	id, _, err := h.Registration.CreateAdjudicator(r.Context(), services.Adjudicator{
		TournamentID:  tournamentID,
		InstitutionID: req.InstitutionID,
		Name:          req.Name,
		Experience:    req.Experience,
		Independent:   req.Independent,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	adj, err := h.Registration.GetAdjudicator(r.Context(), int(id))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, h.adjudicatorResponse(r, adj))
}

func (h *Handlers) handleUpdateAdjudicator(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	var req AdjudicatorUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	err = h.Registration.UpdateAdjudicator(r.Context(), id, services.Adjudicator{
		InstitutionID: req.InstitutionID,
		Name:          req.Name,
		Experience:    req.Experience,
		Independent:   req.Independent,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	adj, err := h.Registration.GetAdjudicator(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, h.adjudicatorResponse(r, adj))
}

func (h *Handlers) handleDeleteAdjudicator(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.Registration.DeleteAdjudicator(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	respondDeleted(w)
}

func (h *Handlers) handleGetAdjudicatorQR(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	png, err := h.Registration.GenerateQRImage(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// ==================== Roster Import ====================

func (h *Handlers) handleImportRoster(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.respondError(w, BadRequest("failed to read request body"))
		return
	}
	if len(data) == 0 {
		h.respondError(w, BadRequest("request body is empty"))
		return
	}

	result, err := h.Registration.ImportRoster(r.Context(), tournamentID, data)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, result)
}

// ==================== Round Lifecycle ====================

func (h *Handlers) handleCreateRound(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	var req RoundCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	id, err := h.Rounds.CreateRound(r.Context(), tournamentID, req.Name, req.Abbreviation)
	if err != nil {
		h.respondError(w, err)
		return
	}

	round, err := h.Rounds.GetRound(r.Context(), int(id))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, round)
}

func (h *Handlers) handleGenerateDraw(w http.ResponseWriter, r *http.Request) {
	roundID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	data, err := h.Draws.GenerateDraw(r.Context(), roundID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, data)
}

func (h *Handlers) handleStartRound(w http.ResponseWriter, r *http.Request) {
	roundID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.Rounds.StartRound(r.Context(), roundID); err != nil {
		h.respondError(w, err)
		return
	}

	round, err := h.Rounds.GetRound(r.Context(), roundID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, round)
}

func (h *Handlers) handleCompleteRound(w http.ResponseWriter, r *http.Request) {
	roundID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.Rounds.CompleteRound(r.Context(), roundID); err != nil {
		h.respondError(w, err)
		return
	}

	round, err := h.Rounds.GetRound(r.Context(), roundID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, round)
}

func (h *Handlers) handleSetMotion(w http.ResponseWriter, r *http.Request) {
	roundID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}

	var req MotionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.Rounds.SetMotion(r.Context(), roundID, req.Text, req.InfoSlide); err != nil {
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

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	baseURL, err := h.Settings.GetBaseURL(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, SettingsResponse{BaseURL: baseURL})
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.Settings.SetBaseURL(r.Context(), req.BaseURL); err != nil {
		h.respondError(w, err)
		return
	}

	respondSuccess(w, "settings updated")
}
