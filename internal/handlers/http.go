package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tabbitapp/tabbit/internal/errors"
	"github.com/tabbitapp/tabbit/internal/services"
)

// Error codes for standardized API error responses
const (
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeValidation   = "validation"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeInfeasible   = "infeasible"
	ErrCodeIntegrity    = "data_integrity"
	ErrCodeInternal     = "internal"
)

// APIError represents an error with an HTTP status code and error code
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

// errorEnvelope wraps every error response body
type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// BadRequest creates a 400 error for malformed requests
func BadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrCodeInvalidInput, Message: message}
}

// Validation creates a 400 error for requests that parse but fail validation
func Validation(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrCodeValidation, Message: message}
}

// Unauthorized creates a 401 error with custom message
func Unauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: message}
}

// NotFound creates a 404 error with custom message
func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: message}
}

// Conflict creates a 409 error with custom message
func Conflict(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Code: ErrCodeConflict, Message: message}
}

// internalError creates a 500 error hiding the underlying cause
func internalError() *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternal, Message: "internal server error"}
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondOK writes a 200 OK JSON response
func respondOK(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, data)
}

// respondCreated writes a 201 Created JSON response
func respondCreated(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusCreated, data)
}

// respondSuccess writes a 200 OK with a message
func respondSuccess(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, map[string]string{"message": message})
}

// respondDeleted writes a 204 No Content response
func respondDeleted(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// respondError writes an error response, logging internal failures
func (h *Handlers) respondError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*APIError)
	if !ok {
		apiErr = ToAPIError(err)
	}
	if apiErr.Status == http.StatusInternalServerError {
		h.Log.Error("Request failed", "error", err)
	}
	respondJSON(w, apiErr.Status, errorEnvelope{Error: apiErr})
}

// decodeJSON decodes JSON from request body into the target
func decodeJSON(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if err == io.EOF {
			return BadRequest("request body is empty")
		}
		return BadRequest("invalid JSON: " + err.Error())
	}
	return nil
}

// parseIntParam extracts and parses an integer URL parameter
func parseIntParam(r *http.Request, name string) (int, error) {
	param := chi.URLParam(r, name)
	if param == "" {
		return 0, BadRequest("missing " + name + " parameter")
	}
	id, err := strconv.Atoi(param)
	if err != nil {
		return 0, BadRequest("invalid " + name + " parameter")
	}
	return id, nil
}

// ToAPIError converts service errors to appropriate API errors
func ToAPIError(err error) *APIError {
	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		switch appErr.Kind {
		case errors.ErrNotFound:
			return NotFound(appErr.Message)
		case errors.ErrValidation:
			return Validation(appErr.Message)
		case errors.ErrInvalidInput:
			return BadRequest(appErr.Message)
		case errors.ErrConflict:
			return Conflict(appErr.Message)
		case errors.ErrInfeasible:
			return &APIError{Status: http.StatusConflict, Code: ErrCodeInfeasible, Message: appErr.Message}
		case errors.ErrDataIntegrity:
			// Stored data is inconsistent; keep the message so the operator
			// knows which entity to repair
			return &APIError{Status: http.StatusInternalServerError, Code: ErrCodeIntegrity, Message: appErr.Message}
		default:
			return internalError()
		}
	}

	var svcErr *services.ServiceError
	if stderrors.As(err, &svcErr) {
		switch svcErr {
		case services.ErrNoCurrentDebate:
			return NotFound(svcErr.Message)
		case services.ErrScoresIncomplete, services.ErrWinnerRequired,
			services.ErrTeamNotInDebate, services.ErrSpeakerNotInDebate,
			services.ErrScoreOutOfRange:
			return Validation(svcErr.Message)
		default:
			// Lifecycle guards: wrong round state, outstanding ballots,
			// double confirmation
			return Conflict(svcErr.Message)
		}
	}

	return internalError()
}
