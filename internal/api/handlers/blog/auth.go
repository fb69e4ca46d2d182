package blog

import (
	"net/http"
	"strings"

	"Blogroll/internal/api/handlers"
	"Blogroll/internal/core/blog"
)

// SignInRequest identifies the user opening a session
type SignInRequest struct {
	FullName string `json:"fullName"`
	Mail     string `json:"mail"`
	ID       int64  `json:"id"`
}

// SignInResponse describes the new session
type SignInResponse struct {
	SessionID string    `json:"sessionId"`
	User      blog.User `json:"user"`
}

// HandleSignIn opens a blog session for the given user
// POST /auth/session
//
// There is no credential check; identity comes from an upstream system.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.ID <= 0 {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "id must be a positive integer")
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "fullName is required")
		return
	}

	user := blog.User{ID: req.ID, FullName: req.FullName, Mail: strings.TrimSpace(req.Mail)}
	session, err := h.sessions.StartSession(w, r, user)
	if err != nil {
		h.logger.Error("failed to start session", "user_id", user.ID, "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to start session")
		return
	}

	h.logger.Info("user signed in", "user_id", user.ID, "session_id", session.ID)
	h.writeJSON(w, http.StatusCreated, SignInResponse{SessionID: session.ID, User: user})
}
