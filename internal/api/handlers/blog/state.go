package blog

import (
	"net/http"

	blogsessions "Blogroll/internal/api/sessions"
	"Blogroll/internal/core/blog"
)

// LoadingStates reports every request lifecycle of the session
type LoadingStates struct {
	Entries          blog.LoadingState `json:"entries"`
	FocusedEntry     blog.LoadingState `json:"focusedEntry"`
	Comments         blog.LoadingState `json:"comments"`
	VotingExperience blog.LoadingState `json:"votingExperience"`
	Permission       blog.LoadingState `json:"permission"`
	Content          blog.LoadingState `json:"content"`
}

// StateView is the derived state rendered to views
type StateView struct {
	FocusedEntry     *blog.Entry           `json:"focusedEntry"`
	Permission       *blog.ToolsPermission `json:"permission"`
	User             blog.User             `json:"user"`
	Entries          []*blog.Entry         `json:"entries"`
	Comments         []blog.Comment        `json:"comments"`
	LoadingStates    LoadingStates         `json:"loadingStates"`
	VotingExperience blog.VotingExperience `json:"votingExperience"`
}

// NewStateView projects state through the session's selectors. Entries are
// sorted newest first.
func NewStateView(s *blogsessions.Session, state *blog.State) StateView {
	sel := s.Store.Selectors()

	entries := sel.SortedEntries.Select(state)
	if entries == nil {
		entries = []*blog.Entry{}
	}
	comments := sel.Comments.Select(state)
	if comments == nil {
		comments = []blog.Comment{}
	}

	return StateView{
		User:             s.User,
		Entries:          entries,
		FocusedEntry:     sel.FocusedEntry.Select(state),
		Comments:         comments,
		VotingExperience: sel.VotingExperience.Select(state),
		Permission:       sel.Permission.Select(state),
		LoadingStates: LoadingStates{
			Entries:          sel.EntriesLoadingState.Select(state),
			FocusedEntry:     sel.FocusedEntryLoadingState.Select(state),
			Comments:         sel.CommentsLoadingState.Select(state),
			VotingExperience: sel.VotingExperienceLoadingState.Select(state),
			Permission:       sel.PermissionLoadingState.Select(state),
			Content:          sel.ContentLoadingState.Select(state),
		},
	}
}

// HandleState renders the session's current state
// GET /blog/state
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, NewStateView(s, s.Store.State()))
}

// HandleGetEntry renders one loaded entry, preferring the focused copy
// GET /blog/entries/{id}
func (h *Handler) HandleGetEntry(w http.ResponseWriter, r *http.Request) {
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
	h.writeJSON(w, http.StatusOK, entry)
}

// NotificationsResponse carries the drained error messages
type NotificationsResponse struct {
	Notifications []blog.Notification `json:"notifications"`
}

// HandleNotifications drains the session's error inbox
// GET /blog/notifications
func (h *Handler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, NotificationsResponse{Notifications: s.Inbox.Drain()})
}
