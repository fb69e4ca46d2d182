package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blogsessions "Blogroll/internal/api/sessions"
	"Blogroll/internal/core/blog"
)

type noVoting struct{}

func (noVoting) GetVotingExperience(context.Context) (blog.VotingExperience, error) {
	return blog.VotingDisabled, nil
}

type noPermissions struct{}

func (noPermissions) GetPermissions(_ context.Context, u blog.User) (*blog.ToolsPermission, error) {
	return &blog.ToolsPermission{UserID: u.ID}, nil
}

var testSecret = strings.Repeat("k", 32)

func newTestSessionMiddleware(t *testing.T) (*SessionMiddleware, *blogsessions.Registry) {
	t.Helper()
	registry, err := blogsessions.NewRegistry(context.Background(), 4, blogsessions.Services{
		Voting:      noVoting{},
		Permissions: noPermissions{},
	}, nil, nil)
	require.NoError(t, err)
	t.Cleanup(registry.Close)

	m, err := NewSessionMiddleware(testSecret, registry, nil)
	require.NoError(t, err)
	return m, registry
}

func TestNewSessionMiddleware_ShortSecret(t *testing.T) {
	_, err := NewSessionMiddleware("short", nil, nil)
	assert.Error(t, err)
}

func TestSessionMiddleware_RoundTrip(t *testing.T) {
	m, registry := newTestSessionMiddleware(t)
	user := blog.User{ID: 3, FullName: "Carla", Mail: "carla@example.com"}

	rec := httptest.NewRecorder()
	session, err := m.StartSession(rec, httptest.NewRequest(http.MethodPost, "/auth/session", nil), user)
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	var seen *blogsessions.Session
	handler := m.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetBlogSession(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/blog/state", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, session, seen)

	// Signing in again replaces the session.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/session", nil)
	req.AddCookie(cookies[0])
	next, err := m.StartSession(rec, req, user)
	require.NoError(t, err)
	assert.NotEqual(t, session.ID, next.ID)
	assert.Equal(t, 1, registry.Len())
}

func TestSessionMiddleware_Rejects(t *testing.T) {
	m, registry := newTestSessionMiddleware(t)
	handler := m.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/state", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "AuthenticationRequired")
	})

	t.Run("tampered cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/blog/state", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("evicted session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		session, err := m.StartSession(rec, httptest.NewRequest(http.MethodPost, "/auth/session", nil), blog.User{ID: 9})
		require.NoError(t, err)
		registry.Remove(session.ID)

		req := httptest.NewRequest(http.MethodGet, "/blog/state", nil)
		req.AddCookie(rec.Result().Cookies()[0])
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "expired")
	})
}
