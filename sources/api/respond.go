package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"domainhub/sources/auth"
	"domainhub/sources/market"
	"domainhub/sources/platform"
	"domainhub/sources/repository"
	"domainhub/sources/tracing"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

var errBadBody = platform.NewValidationError("Invalid request body")

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "failed handling request", http.StatusInternalServerError)
	}
}

func WriteData(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Success: status < http.StatusBadRequest, Message: message})
}

// WriteError maps domain errors to HTTP statuses. Unknown errors are logged
// and answered with a generic message.
func WriteError(w http.ResponseWriter, log *tracing.Logger, err error) {
	var validation *platform.ValidationError

	switch {
	case errors.As(err, &validation):
		WriteMessage(w, http.StatusBadRequest, validation.Message)
	case errors.Is(err, repository.ErrDomainNotFound):
		WriteMessage(w, http.StatusNotFound, "Domain not found")
	case errors.Is(err, repository.ErrTicketNotFound):
		WriteMessage(w, http.StatusNotFound, "Ticket not found")
	case errors.Is(err, repository.ErrCommentNotFound):
		WriteMessage(w, http.StatusNotFound, "Comment not found")
	case errors.Is(err, repository.ErrSubscriberNotFound):
		WriteMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, repository.ErrDomainExists):
		WriteMessage(w, http.StatusConflict, "Domain already exists")
	case errors.Is(err, market.ErrInvalidTransition):
		WriteMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, market.ErrUnknownAction):
		WriteMessage(w, http.StatusBadRequest, "Invalid action. Use one of: sold, available, post, unpost, delete")
	case errors.Is(err, auth.ErrInvalidCredentials):
		WriteMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrInvalidToken):
		WriteMessage(w, http.StatusUnauthorized, "Invalid or expired token")
	default:
		log.E("Unhandled request error", tracing.InnerError, err)
		WriteMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errBadBody
}
