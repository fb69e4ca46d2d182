package blog

import (
	"net/http"

	"Blogroll/internal/core/blog"
)

// LoadEntriesRequest names the entries of the list
type LoadEntriesRequest struct {
	IDs []int64 `json:"ids"`
}

// RateRequest carries a 1..5 rating
type RateRequest struct {
	Rating int `json:"rating"`
}

// AddCommentRequest carries the comment text
type AddCommentRequest struct {
	Text string `json:"text"`
}

// HandleLoadEntries replaces the entry list
// POST /blog/entries/load
func (h *Handler) HandleLoadEntries(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req LoadEntriesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.Store.Dispatch(blog.LoadEntries{IDs: req.IDs})
	h.accepted(w, true)
}

// HandleOpenEntry focuses an entry, loading it if it isn't in the list
// POST /blog/entries/{id}/open
func (h *Handler) HandleOpenEntry(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := entryID(w, r)
	if !ok {
		return
	}
	s.Store.Dispatch(blog.LoadEntry{EntryID: id})
	h.accepted(w, true)
}

// HandleLoadComments loads the comments of an entry
// POST /blog/entries/{id}/comments/load
func (h *Handler) HandleLoadComments(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := entryID(w, r)
	if !ok {
		return
	}
	s.Store.Dispatch(blog.LoadComments{EntryID: id})
	h.accepted(w, true)
}

// HandleAddComment posts a comment as the session user
// POST /blog/entries/{id}/comments
func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := entryID(w, r)
	if !ok {
		return
	}
	var req AddCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	text, err := blog.NormalizeCommentText(req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	entry, ok := knownEntry(w, s, id)
	if !ok {
		return
	}

	s.Store.Dispatch(blog.AddComment{Entry: entry, User: s.User, Text: text})
	h.accepted(w, true)
}

// HandleLike likes an entry when the blog votes with likes
// POST /blog/entries/{id}/like
func (h *Handler) HandleLike(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, blog.LikeIntent)
}

// HandleUnlike withdraws a like when the blog votes with likes
// POST /blog/entries/{id}/unlike
func (h *Handler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, blog.UnlikeIntent)
}

func (h *Handler) vote(w http.ResponseWriter, r *http.Request, intent func(*blog.State, *blog.Entry, blog.User) (blog.Action, bool)) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := entryID(w, r)
	if !ok {
		return
	}
	entry, ok := knownEntry(w, s, id)
	if !ok {
		return
	}

	action, ok := intent(s.Store.State(), entry, s.User)
	if ok {
		s.Store.Dispatch(action)
	}
	h.accepted(w, ok)
}

// HandleRate rates an entry when the blog votes with ratings
// POST /blog/entries/{id}/rate
func (h *Handler) HandleRate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := entryID(w, r)
	if !ok {
		return
	}
	var req RateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := blog.ValidateRating(req.Rating); err != nil {
		handleServiceError(w, err)
		return
	}
	entry, ok := knownEntry(w, s, id)
	if !ok {
		return
	}

	action, ok := blog.RateIntent(s.Store.State(), entry, s.User, req.Rating)
	if ok {
		s.Store.Dispatch(action)
	}
	h.accepted(w, ok)
}

// HandleLoadVotingExperience reloads the blog-wide voting mode
// POST /blog/voting-experience/load
func (h *Handler) HandleLoadVotingExperience(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Store.Dispatch(blog.LoadVotingExperience{})
	h.accepted(w, true)
}

// HandleLoadPermissions reloads the session user's tools permission
// POST /blog/permissions/load
func (h *Handler) HandleLoadPermissions(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Store.Dispatch(blog.LoadPermissions{})
	h.accepted(w, true)
}
