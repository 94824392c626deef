package breaker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	domain "github.com/oshokin/circuit-breaker/internal/domain/breaker"
	"github.com/oshokin/circuit-breaker/internal/logger"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	Pause(ctx context.Context, actor *domain.Actor, duration *uint64) (*domain.Event, error)
	Unpause(ctx context.Context, actor *domain.Actor, ifElapsed bool) (*domain.Event, error)
	Status(ctx context.Context) (*domain.Status, error)
}

// Server implements the breaker control API over HTTP.
type Server struct {
	// service provides the business logic for breaker operations.
	service Service
}

// NewServer wires the provided service implementation into an HTTP handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Register mounts the control API on the provided router.
func (s *Server) Register(router *mux.Router) {
	router.HandleFunc("/v1/pause", s.handlePause).Methods(http.MethodPost)
	router.HandleFunc("/v1/unpause", s.handleUnpause).Methods(http.MethodPost)
	router.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)
}

// handlePause trips the breaker, indefinitely or for a duration.
func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	var req PauseRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if req.Actor == nil {
		writeError(w, r, http.StatusBadRequest, KindBadRequest, "actor is required")
		return
	}

	event, err := s.service.Pause(r.Context(), toDomainActor(req.Actor), req.DurationSeconds)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	// A zero-duration request deliberately changes nothing.
	if event == nil {
		writeJSON(w, r, http.StatusOK, &TransitionResponse{NoOp: true})
		return
	}

	writeJSON(w, r, http.StatusOK, &TransitionResponse{Event: toEventPayload(event)})
}

// handleUnpause lifts the pause via the authorized or the duration-gated path.
func (s *Server) handleUnpause(w http.ResponseWriter, r *http.Request) {
	var req UnpauseRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if req.Actor == nil {
		writeError(w, r, http.StatusBadRequest, KindBadRequest, "actor is required")
		return
	}

	event, err := s.service.Unpause(r.Context(), toDomainActor(req.Actor), req.IfElapsed)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, &TransitionResponse{Event: toEventPayload(event)})
}

// handleStatus returns the current breaker status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.Status(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toStatusResponse(status))
}

// decodeRequest parses the JSON body, answering 400 on malformed input.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, KindBadRequest, "malformed request body")
		return false
	}

	return true
}

// writeDomainError maps the failure taxonomy to HTTP statuses: precondition
// violations are conflicts with the current state, overflow is an
// unprocessable request, anything else is internal.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEnforcedPause):
		writeError(w, r, http.StatusConflict, KindEnforcedPause, err.Error())
	case errors.Is(err, domain.ErrExpectedPause):
		writeError(w, r, http.StatusConflict, KindExpectedPause, err.Error())
	case errors.Is(err, domain.ErrPauseDurationNotElapsed):
		writeError(w, r, http.StatusConflict, KindPauseDurationNotElapsed, err.Error())
	case errors.Is(err, domain.ErrDeadlineOverflow):
		writeError(w, r, http.StatusUnprocessableEntity, KindDeadlineOverflow, err.Error())
	default:
		logger.ErrorKV(r.Context(), "Unhandled service error", "error", err)
		writeError(w, r, http.StatusInternalServerError, KindInternal, "internal error")
	}
}

// writeError writes an ErrorResponse with the given status.
func writeError(w http.ResponseWriter, r *http.Request, status int, kind, message string) {
	writeJSON(w, r, status, &ErrorResponse{
		Kind:    kind,
		Message: message,
	})
}

// writeJSON serializes the payload with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.ErrorKV(r.Context(), "Failed to encode response", "error", err)
	}
}
