// Package http exposes the search session API over chi.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/naranjargal/search-service/internal/service"
	"github.com/naranjargal/search-service/internal/session"
	"github.com/naranjargal/search-service/pkg/httputil"
	"github.com/naranjargal/search-service/pkg/validator"
)

// SearchHandler handles HTTP requests for search endpoints.
type SearchHandler struct {
	service  *service.SearchService
	registry *session.Registry
	logger   *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, registry *session.Registry, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service:  svc,
		registry: registry,
		logger:   logger,
	}
}

// --- Request DTOs ---

// SubmitRequest is the JSON request body for submitting a search to a session.
type SubmitRequest struct {
	SessionID string `json:"session_id"`
	Field     string `json:"field" validate:"required,oneof=search brand keywords"`
	Term      string `json:"term" validate:"required,min=1"`
	Filters   []any  `json:"filters"`
	Sort      []any  `json:"sort"`
}

// VisibilityRequest is the JSON request body for a viewport observation.
type VisibilityRequest struct {
	Position int  `json:"position" validate:"gte=0"`
	InView   bool `json:"in_view"`
}

// SubmitResponse pairs the session id with the resulting snapshot so a
// client that submitted without an id learns the one it was assigned.
type SubmitResponse struct {
	SessionID string           `json:"session_id"`
	Snapshot  session.Snapshot `json:"snapshot"`
}

// --- Handlers ---

// Submit handles POST /api/v1/search/submit
func (h *SearchHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess := h.registry.GetOrCreate(req.SessionID)

	snapshot, err := sess.Submit(r.Context(), req.Field, strings.TrimSpace(req.Term), req.Filters, req.Sort)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: SubmitResponse{
		SessionID: sess.ID(),
		Snapshot:  snapshot,
	}})
}

// Preview handles GET /api/v1/search/preview
func (h *SearchHandler) Preview(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	result, err := h.service.Preview(r.Context(), term)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetSession handles GET /api/v1/search/session/{id}
func (h *SearchHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: SubmitResponse{
		SessionID: sess.ID(),
		Snapshot:  sess.Snapshot(),
	}})
}

// ResetSession handles POST /api/v1/search/session/{id}/reset
func (h *SearchHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	sess.Reset()

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"session_id": sess.ID(),
		"status":     "reset",
	}})
}

// Visibility handles POST /api/v1/search/session/{id}/visibility
func (h *SearchHandler) Visibility(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	var req VisibilityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess.Tracker().Observe(req.Position, req.InView)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "recorded"}})
}

// Progress handles GET /api/v1/search/session/{id}/progress
func (h *SearchHandler) Progress(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess.Tracker().Progress()})
}

func (h *SearchHandler) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := h.registry.Get(id)
	if !ok {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: "session " + id + " not found"},
		})
		return nil, false
	}
	return sess, true
}
