package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ValidationError is a malformed or incomplete request. It maps to 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError is a lookup of something that does not exist. It maps to 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// InternalError is an unexpected failure while handling a request. It maps
// to 500 and is logged; the client only sees a generic message.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

const internalErrorMessage = "Internal server error"

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

// writeError maps err to a status code and writes {"error": msg}.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Message})
		return
	}
	var nerr *NotFoundError
	if errors.As(err, &nerr) {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": nerr.Message})
		return
	}

	s.requestLogger(r).Error("Request failed", "error", err)
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": internalErrorMessage})
}
