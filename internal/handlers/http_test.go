package handlers_test

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/tabbitapp/tabbit/internal/errors"
	"github.com/tabbitapp/tabbit/internal/handlers"
	"github.com/tabbitapp/tabbit/internal/services"
)

func TestAPIErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *handlers.APIError
		wantStatus int
		wantCode   string
	}{
		{"bad request", handlers.BadRequest("bad payload"), http.StatusBadRequest, "invalid_input"},
		{"validation", handlers.Validation("name is required"), http.StatusBadRequest, "validation"},
		{"unauthorized", handlers.Unauthorized("who are you"), http.StatusUnauthorized, "unauthorized"},
		{"not found", handlers.NotFound("no such thing"), http.StatusNotFound, "not_found"},
		{"conflict", handlers.Conflict("already started"), http.StatusConflict, "conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Status != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.Status)
			}
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %q, got %q", tt.wantCode, tt.err.Code)
			}
			if tt.err.Message == "" {
				t.Error("expected a message")
			}
		})
	}
}

func TestAPIError_ErrorMethod(t *testing.T) {
	err := handlers.NotFound("tournament not found")
	if err.Error() != "tournament not found" {
		t.Errorf("expected Error() to return the message, got %q", err.Error())
	}
}

func TestToAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found kind", apperrors.NotFound("tournament not found"), http.StatusNotFound, "not_found"},
		{"validation kind", apperrors.Validation("name is required"), http.StatusBadRequest, "validation"},
		{"invalid input kind", apperrors.InvalidInput("unparseable payload"), http.StatusBadRequest, "invalid_input"},
		{"conflict kind", apperrors.Conflict("draw already released"), http.StatusConflict, "conflict"},
		{"infeasible kind", apperrors.Infeasible("no legal pairing exists"), http.StatusConflict, "infeasible"},
		{"integrity kind", apperrors.Integrity("debate references missing team"), http.StatusInternalServerError, "data_integrity"},
		{"wrapped app error", fmt.Errorf("listing rounds: %w", apperrors.NotFound("round not found")), http.StatusNotFound, "not_found"},
		{"round already started", services.ErrRoundAlreadyStarted, http.StatusConflict, "conflict"},
		{"round not drawn", services.ErrRoundNotDrawn, http.StatusConflict, "conflict"},
		{"ballots outstanding", services.ErrBallotsOutstanding, http.StatusConflict, "conflict"},
		{"ballot already confirmed", services.ErrBallotAlreadyConfirmed, http.StatusConflict, "conflict"},
		{"no current debate", services.ErrNoCurrentDebate, http.StatusNotFound, "not_found"},
		{"winner required", services.ErrWinnerRequired, http.StatusBadRequest, "validation"},
		{"scores incomplete", services.ErrScoresIncomplete, http.StatusBadRequest, "validation"},
		{"team not in debate", services.ErrTeamNotInDebate, http.StatusBadRequest, "validation"},
		{"speaker not in debate", services.ErrSpeakerNotInDebate, http.StatusBadRequest, "validation"},
		{"score out of range", services.ErrScoreOutOfRange, http.StatusBadRequest, "validation"},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := handlers.ToAPIError(tt.err)
			if apiErr.Status != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, apiErr.Status)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("expected code %q, got %q", tt.wantCode, apiErr.Code)
			}
		})
	}
}

func TestToAPIError_KeepsOperatorDetail(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"infeasible", apperrors.Infeasible("draw infeasible at room 2 (rematch): Arden A and Blackwood A have already met")},
		{"integrity", apperrors.Integrity("data integrity: team 42 appears in round history but not in the roster")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := handlers.ToAPIError(tt.err)
			if apiErr.Message != tt.err.Error() {
				t.Errorf("expected message %q, got %q", tt.err.Error(), apiErr.Message)
			}
		})
	}
}

func TestToAPIError_MasksInternalDetails(t *testing.T) {
	apiErr := handlers.ToAPIError(stderrors.New("pq: connection refused on 10.0.0.3"))

	if apiErr.Message != "internal server error" {
		t.Errorf("expected generic message, got %q", apiErr.Message)
	}
}

func TestErrorEnvelope_Shape(t *testing.T) {
	setup := newTestSetup(t)

	rec := publicRequest(t, setup, http.MethodGet, "/api/v1/tournaments/9999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}

	apiErr := decodeError(t, rec)
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("expected envelope status %d, got %d", http.StatusNotFound, apiErr.Status)
	}
	if apiErr.Code != "not_found" {
		t.Errorf("expected code 'not_found', got %q", apiErr.Code)
	}
	if apiErr.Message == "" {
		t.Error("expected a message in the envelope")
	}
}

func TestParseIntParam_InvalidID(t *testing.T) {
	setup := newTestSetup(t)

	rec := publicRequest(t, setup, http.MethodGet, "/api/v1/tournaments/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}

	apiErr := decodeError(t, rec)
	if apiErr.Code != "invalid_input" {
		t.Errorf("expected code 'invalid_input', got %q", apiErr.Code)
	}
}

func TestDecodeJSON_EmptyBody(t *testing.T) {
	setup := newTestSetup(t)

	rec := adminRequest(t, setup, http.MethodPost, "/api/v1/admin/tournaments", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}

	apiErr := decodeError(t, rec)
	if apiErr.Message != "request body is empty" {
		t.Errorf("expected empty-body message, got %q", apiErr.Message)
	}
}

func TestDecodeJSON_MalformedJSON(t *testing.T) {
	setup := newTestSetup(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/tournaments", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(setup.authCookie)
	rec := httptest.NewRecorder()
	setup.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}

	apiErr := decodeError(t, rec)
	if apiErr.Code != "invalid_input" {
		t.Errorf("expected code 'invalid_input', got %q", apiErr.Code)
	}
}

func TestInternalError_MasksDatabaseFailure(t *testing.T) {
	setup := newTestSetup(t)

	// Close the database to force a repository error
	setup.repo.DB().Close()

	rec := publicRequest(t, setup, http.MethodGet, "/api/v1/tournaments", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}

	apiErr := decodeError(t, rec)
	if apiErr.Code != "internal" {
		t.Errorf("expected code 'internal', got %q", apiErr.Code)
	}
	if apiErr.Message != "internal server error" {
		t.Errorf("expected generic message, got %q", apiErr.Message)
	}
}
