package blog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blogapi "Blogroll/internal/api/handlers/blog"
	"Blogroll/internal/api/middleware"
	"Blogroll/internal/api/routes"
	"Blogroll/internal/api/sessions"
	"Blogroll/internal/core/blog"
)

// fakeEntries serves entries from memory
type fakeEntries struct {
	entries map[int64]*blog.Entry
	likeErr error
	likes   []int64
	mu      sync.Mutex
}

func (f *fakeEntries) GetEntries(_ context.Context, ids []int64) ([]*blog.Entry, error) {
	var out []*blog.Entry
	for _, id := range ids {
		if e, ok := f.entries[id]; ok {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func (f *fakeEntries) GetEntry(_ context.Context, id int64) (*blog.Entry, error) {
	if e, ok := f.entries[id]; ok {
		return e.Clone(), nil
	}
	return nil, blog.ErrEntryNotFound
}

func (f *fakeEntries) LikeEntry(_ context.Context, id int64, _ blog.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likes = append(f.likes, id)
	return f.likeErr
}

func (f *fakeEntries) UnlikeEntry(context.Context, int64, blog.User) error { return nil }

func (f *fakeEntries) RateEntry(context.Context, int64, blog.User, int) error { return nil }

func (f *fakeEntries) Likes() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.likes...)
}

type fakeComments struct{}

func (fakeComments) GetComments(_ context.Context, id int64) ([]blog.Comment, error) {
	return []blog.Comment{{ID: 1, EntryID: id, Text: "first"}}, nil
}

func (fakeComments) AddComment(_ context.Context, id int64, user blog.User, text string) (*blog.Comment, error) {
	return &blog.Comment{ID: 2, EntryID: id, Author: user.Summary(), Text: text}, nil
}

type fakeVoting struct {
	experience blog.VotingExperience
}

func (f fakeVoting) GetVotingExperience(context.Context) (blog.VotingExperience, error) {
	return f.experience, nil
}

type fakePermissions struct{}

func (fakePermissions) GetPermissions(_ context.Context, u blog.User) (*blog.ToolsPermission, error) {
	return &blog.ToolsPermission{UserID: u.ID, CanUseTools: true}, nil
}

type testClient struct {
	t      *testing.T
	server *httptest.Server
	http   *http.Client
}

func newTestClient(t *testing.T, entries *fakeEntries, voting blog.VotingExperience) *testClient {
	t.Helper()
	registry, err := sessions.NewRegistry(context.Background(), 8, sessions.Services{
		Entries:     entries,
		Comments:    fakeComments{},
		Voting:      fakeVoting{experience: voting},
		Permissions: fakePermissions{},
		Locale:      blog.LocaleEnglish,
	}, nil, nil)
	require.NoError(t, err)

	sessionMiddleware, err := middleware.NewSessionMiddleware(strings.Repeat("x", 32), registry, nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	routes.RegisterBlogRoutes(r, blogapi.NewHandler(sessionMiddleware, nil), sessionMiddleware)
	server := httptest.NewServer(r)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		server.Close()
		registry.Close()
	})
	return &testClient{t: t, server: server, http: &http.Client{Jar: jar}}
}

func (c *testClient) do(method, path string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.server.URL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (c *testClient) signIn() {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/auth/session", map[string]interface{}{
		"id": 7, "fullName": "Alice", "mail": "alice@example.com",
	})
	require.Equal(c.t, http.StatusCreated, status)
	require.NotEmpty(c.t, body["sessionId"])
}

func (c *testClient) state() blogapi.StateView {
	c.t.Helper()
	resp, err := c.http.Get(c.server.URL + "/blog/state")
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(c.t, http.StatusOK, resp.StatusCode)

	var view blogapi.StateView
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&view))
	return view
}

// rawState returns the state JSON with enum names intact
func (c *testClient) rawState() map[string]interface{} {
	c.t.Helper()
	status, body := c.do(http.MethodGet, "/blog/state", nil)
	require.Equal(c.t, http.StatusOK, status)
	return body
}

func loadingState(body map[string]interface{}, key string) string {
	states, _ := body["loadingStates"].(map[string]interface{})
	s, _ := states[key].(string)
	return s
}

func testEntries() *fakeEntries {
	return &fakeEntries{entries: map[int64]*blog.Entry{
		1: {ID: 1, Title: "Older", PublishedDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Ratings: map[int64]int{}},
		2: {ID: 2, Title: "Newer", PublishedDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Ratings: map[int64]int{}},
		3: {ID: 3, Title: "Unlisted", Ratings: map[int64]int{}},
	}}
}

func TestBlogRoutes_RequireSession(t *testing.T) {
	c := newTestClient(t, testEntries(), blog.VotingLikes)

	status, body := c.do(http.MethodGet, "/blog/state", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AuthenticationRequired", body["error"])
}

func TestSignIn_Validation(t *testing.T) {
	c := newTestClient(t, testEntries(), blog.VotingLikes)

	status, _ := c.do(http.MethodPost, "/auth/session", map[string]interface{}{"id": 0, "fullName": "x"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.do(http.MethodPost, "/auth/session", map[string]interface{}{"id": 1, "fullName": "  "})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBlogRoutes_LoadAndLike(t *testing.T) {
	entries := testEntries()
	c := newTestClient(t, entries, blog.VotingLikes)
	c.signIn()

	status, body := c.do(http.MethodPost, "/blog/entries/load", map[string]interface{}{"ids": []int64{1, 2}})
	require.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, true, body["dispatched"])

	require.Eventually(t, func() bool {
		s := c.rawState()
		return loadingState(s, "content") == "loaded" && loadingState(s, "permission") == "loaded"
	}, time.Second, 10*time.Millisecond)

	view := c.state()
	require.Len(t, view.Entries, 2)
	assert.Equal(t, "Newer", view.Entries[0].Title)
	assert.Equal(t, int64(7), view.User.ID)
	require.NotNil(t, view.Permission)
	assert.True(t, view.Permission.CanUseTools)

	status, body = c.do(http.MethodPost, "/blog/entries/1/like", nil)
	require.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, true, body["dispatched"])

	require.Eventually(t, func() bool {
		status, e := c.do(http.MethodGet, "/blog/entries/1", nil)
		return status == http.StatusOK && e["likesCount"] == float64(1)
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []int64{1}, entries.Likes())

	// Ratings are ignored while the blog votes with likes.
	status, body = c.do(http.MethodPost, "/blog/entries/1/rate", map[string]int{"rating": 4})
	require.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, false, body["dispatched"])
}

func TestBlogRoutes_UnknownEntry(t *testing.T) {
	c := newTestClient(t, testEntries(), blog.VotingLikes)
	c.signIn()

	status, body := c.do(http.MethodPost, "/blog/entries/3/like", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "EntryNotFound", body["error"])

	status, _ = c.do(http.MethodGet, "/blog/entries/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBlogRoutes_OpenEntryAndComment(t *testing.T) {
	c := newTestClient(t, testEntries(), blog.VotingRatings)
	c.signIn()

	status, _ := c.do(http.MethodPost, "/blog/entries/3/open", nil)
	require.Equal(t, http.StatusAccepted, status)
	require.Eventually(t, func() bool {
		return loadingState(c.rawState(), "focusedEntry") == "loaded"
	}, time.Second, 10*time.Millisecond)

	status, _ = c.do(http.MethodPost, "/blog/entries/3/comments/load", nil)
	require.Equal(t, http.StatusAccepted, status)
	require.Eventually(t, func() bool {
		return loadingState(c.rawState(), "comments") == "loaded"
	}, time.Second, 10*time.Millisecond)

	status, body := c.do(http.MethodPost, "/blog/entries/3/comments", map[string]string{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "InvalidRequest", body["error"])

	status, _ = c.do(http.MethodPost, "/blog/entries/3/comments", map[string]string{"text": "<i>Great</i> read"})
	require.Equal(t, http.StatusAccepted, status)

	require.Eventually(t, func() bool {
		view := c.state()
		return len(view.Comments) == 2 && view.FocusedEntry != nil && view.FocusedEntry.NumberOfComments == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "Great read", c.state().Comments[1].Text)

	status, _ = c.do(http.MethodPost, "/blog/entries/3/rate", map[string]int{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = c.do(http.MethodPost, "/blog/entries/3/rate", map[string]int{"rating": 5})
	require.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, true, body["dispatched"])
	require.Eventually(t, func() bool {
		view := c.state()
		return view.FocusedEntry != nil && view.FocusedEntry.RatingCount == 1
	}, time.Second, 10*time.Millisecond)
}

func TestBlogRoutes_NotificationsAfterFailure(t *testing.T) {
	entries := testEntries()
	entries.likeErr = errors.New("boom")
	c := newTestClient(t, entries, blog.VotingLikes)
	c.signIn()

	c.do(http.MethodPost, "/blog/entries/load", map[string]interface{}{"ids": []int64{1}})
	require.Eventually(t, func() bool {
		return loadingState(c.rawState(), "content") == "loaded"
	}, time.Second, 10*time.Millisecond)

	_, body := c.do(http.MethodPost, "/blog/entries/1/like", nil)
	require.Equal(t, true, body["dispatched"])

	var messages []interface{}
	require.Eventually(t, func() bool {
		_, body := c.do(http.MethodGet, "/blog/notifications", nil)
		notes, _ := body["notifications"].([]interface{})
		messages = append(messages, notes...)
		return len(messages) > 0
	}, time.Second, 10*time.Millisecond)

	first := messages[0].(map[string]interface{})
	assert.Equal(t, blog.FailureMessage(blog.LocaleEnglish, blog.OpLikeEntry, 1), first["message"])
	assert.Equal(t, 0, c.state().Entries[0].LikesCount)
}

func TestBlogRoutes_Stream(t *testing.T) {
	c := newTestClient(t, testEntries(), blog.VotingLikes)
	c.signIn()

	wsURL := "ws" + strings.TrimPrefix(c.server.URL, "http") + "/blog/stream"
	header := http.Header{}
	for _, cookie := range c.http.Jar.Cookies(mustParseURL(t, c.server.URL)) {
		header.Add("Cookie", cookie.String())
	}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	_ = resp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var first blogapi.StreamMessage
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "state", first.Type)
	require.NotNil(t, first.State)
	assert.Equal(t, int64(7), first.State.User.ID)

	c.do(http.MethodPost, "/blog/entries/load", map[string]interface{}{"ids": []int64{2}})

	for {
		var raw map[string]interface{}
		require.NoError(t, conn.ReadJSON(&raw))
		state, _ := raw["state"].(map[string]interface{})
		if list, _ := state["entries"].([]interface{}); len(list) == 1 {
			break
		}
	}
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
