package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	blogsessions "Blogroll/internal/api/sessions"
	"Blogroll/internal/core/blog"
)

const (
	// SessionCookieName is the cookie holding the blog session id
	SessionCookieName = "blog_session"

	sessionIDValue = "sid"
	sessionMaxAge  = 7 * 24 * 60 * 60
)

// Context keys for storing session information
type contextKey string

const BlogSessionKey contextKey = "blog_session"

// SessionMiddleware ties the signed session cookie to a live blog session
type SessionMiddleware struct {
	cookies  sessions.Store
	registry *blogsessions.Registry
	logger   *slog.Logger
}

// NewSessionMiddleware creates a session middleware. secret signs the cookie
// and must be at least 32 bytes.
func NewSessionMiddleware(secret string, registry *blogsessions.Registry, logger *slog.Logger) (*SessionMiddleware, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("cookie secret must be at least 32 bytes")
	}
	if logger == nil {
		logger = slog.Default()
	}

	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionMiddleware{cookies: store, registry: registry, logger: logger}, nil
}

// RequireSession rejects requests without a live session and injects the
// session into the context
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := m.cookies.Get(r, SessionCookieName)
		if err != nil {
			m.logger.Warn("invalid session cookie", "remote_addr", r.RemoteAddr, "error", err)
			writeAuthError(w, "Invalid session cookie")
			return
		}

		id, _ := cookie.Values[sessionIDValue].(string)
		if id == "" {
			writeAuthError(w, "Missing session. Sign in via POST /auth/session")
			return
		}

		session, err := m.registry.Get(id)
		if errors.Is(err, blogsessions.ErrSessionNotFound) {
			writeAuthError(w, "Session expired. Sign in again")
			return
		}
		if err != nil {
			writeAuthError(w, "Invalid session")
			return
		}

		next.ServeHTTP(w, r.WithContext(SetBlogSession(r.Context(), session)))
	})
}

// StartSession opens a new blog session for user and stores its id in the
// cookie. Any session the cookie pointed at before is stopped.
func (m *SessionMiddleware) StartSession(w http.ResponseWriter, r *http.Request, user blog.User) (*blogsessions.Session, error) {
	// A tampered or stale cookie still yields a usable new session.
	cookie, _ := m.cookies.Get(r, SessionCookieName)

	if previous, ok := cookie.Values[sessionIDValue].(string); ok && previous != "" {
		m.registry.Remove(previous)
	}

	session := m.registry.Create(user)
	cookie.Values[sessionIDValue] = session.ID
	if err := cookie.Save(r, w); err != nil {
		m.registry.Remove(session.ID)
		return nil, fmt.Errorf("failed to save session cookie: %w", err)
	}
	return session, nil
}

// GetBlogSession extracts the blog session from the request context.
// Returns nil outside RequireSession.
func GetBlogSession(r *http.Request) *blogsessions.Session {
	s, _ := r.Context().Value(BlogSessionKey).(*blogsessions.Session)
	return s
}

// SetBlogSession stores the blog session in the context
func SetBlogSession(ctx context.Context, s *blogsessions.Session) context.Context {
	return context.WithValue(ctx, BlogSessionKey, s)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error":   "AuthenticationRequired",
		"message": message,
	}); err != nil {
		slog.Error("failed to write auth error response", "error", err)
	}
}
