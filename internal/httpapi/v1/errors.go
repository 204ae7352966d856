package v1

import (
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tinoosan/cuaderno/internal/errs"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "bad_request") }

// serviceError maps a domain error to a status code and error code.
// Unknown errors are 500.
func serviceError(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrAccountConflict):
		return http.StatusConflict, "account_conflict"
	case errors.Is(err, errs.ErrAccountNotActive):
		return http.StatusConflict, "account_not_active"
	case errors.Is(err, errs.ErrAccountNotFound):
		return http.StatusNotFound, "account_not_found"
	case errors.Is(err, errs.ErrMovementNotFound):
		return http.StatusNotFound, "movement_not_found"
	case errors.Is(err, errs.ErrClientNotFound):
		return http.StatusNotFound, "client_not_found"
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errs.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, "invalid_amount"
	case errors.Is(err, errs.ErrInvalid):
		return http.StatusBadRequest, "invalid"
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// writeServiceErr writes the mapped error. Internal errors are logged and
// their message is not exposed.
func (s *Server) writeServiceErr(w http.ResponseWriter, r *http.Request, err error) {
	status, code := serviceError(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "req_id", chimw.GetReqID(r.Context()), "err", err)
		writeErr(w, status, "internal error", code)
		return
	}
	if status == http.StatusConflict {
		s.log.Warn("rejected", "req_id", chimw.GetReqID(r.Context()), "code", code, "err", err)
	}
	writeErr(w, status, err.Error(), code)
}

