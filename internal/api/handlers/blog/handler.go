// Package blog provides the HTTP and WebSocket surface of a blog session.
// Handlers turn requests into actions on the session's store and render the
// derived state back.
package blog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Blogroll/internal/api/handlers"
	"Blogroll/internal/api/middleware"
	blogsessions "Blogroll/internal/api/sessions"
	"Blogroll/internal/core/blog"
)

const maxRequestBody = 64 << 10

// Handler serves the blog routes of the signed-in session
type Handler struct {
	sessions *middleware.SessionMiddleware
	logger   *slog.Logger
}

// NewHandler creates a blog handler
func NewHandler(sessions *middleware.SessionMiddleware, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{sessions: sessions, logger: logger}
}

// DispatchResponse is returned by every intent route
type DispatchResponse struct {
	Dispatched bool `json:"dispatched"`
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*blogsessions.Session, bool) {
	s := middleware.GetBlogSession(r)
	if s == nil {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthenticationRequired", "Session required")
		return nil, false
	}
	return s, true
}

// entryID parses the {id} path parameter
func entryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "entry id must be a positive integer")
		return 0, false
	}
	return id, true
}

// knownEntry resolves the entry the user is acting on. Only entries in the
// list or the focused entry can be voted or commented on.
func knownEntry(w http.ResponseWriter, s *blogsessions.Session, id int64) (*blog.Entry, bool) {
	entry := s.Store.Selectors().FindEntry(s.Store.State(), id)
	if entry == nil {
		handlers.WriteError(w, http.StatusNotFound, "EntryNotFound", "Entry is not loaded in this session")
		return nil, false
	}
	return entry, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) accepted(w http.ResponseWriter, dispatched bool) {
	h.writeJSON(w, http.StatusAccepted, DispatchResponse{Dispatched: dispatched})
}

// handleServiceError converts blog errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case blog.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "EntryNotFound", "Entry not found")
	case errors.Is(err, blog.ErrInvalidRating):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRating", "rating must be between 1 and 5")
	case errors.Is(err, blog.ErrCommentEmpty):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "text is required")
	case errors.Is(err, blog.ErrCommentTooLong):
		handlers.WriteError(w, http.StatusBadRequest, "CommentTooLong", "text exceeds 10000 characters")
	default:
		slog.Error("unexpected blog handler error", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Request failed")
	}
}
