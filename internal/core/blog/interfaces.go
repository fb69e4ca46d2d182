package blog

import "context"

// EntryService fetches entries and records likes and ratings
type EntryService interface {
	// GetEntries returns the entries with the given ids. Unknown ids are skipped.
	GetEntries(ctx context.Context, ids []int64) ([]*Entry, error)

	// GetEntry returns a single entry or ErrEntryNotFound
	GetEntry(ctx context.Context, id int64) (*Entry, error)

	// LikeEntry records a like; liking twice is not an error
	LikeEntry(ctx context.Context, entryID int64, user User) error

	// UnlikeEntry removes a like; removing a missing like is not an error
	UnlikeEntry(ctx context.Context, entryID int64, user User) error

	// RateEntry stores the user's rating, replacing an earlier one
	RateEntry(ctx context.Context, entryID int64, user User, rating int) error
}

// VotingService returns the blog-wide voting mode
type VotingService interface {
	GetVotingExperience(ctx context.Context) (VotingExperience, error)
}

// CommentService lists and creates comments
type CommentService interface {
	GetComments(ctx context.Context, entryID int64) ([]Comment, error)
	AddComment(ctx context.Context, entryID int64, user User, text string) (*Comment, error)
}

// PermissionService tells whether a user may use the authoring tools
type PermissionService interface {
	GetPermissions(ctx context.Context, user User) (*ToolsPermission, error)
}

// Notification is a user-facing error message
type Notification struct {
	Message string `json:"message"`
}

// Notifier is the global error channel. Notify must not block for long; the
// core never displays errors itself.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// CurrentUserProvider supplies the signed-in user
type CurrentUserProvider interface {
	CurrentUser(ctx context.Context) (User, bool)
}

// Dispatcher accepts actions for the transition queue. Actions passed in one
// call are queued back to back.
type Dispatcher interface {
	Dispatch(actions ...Action)
}

// Effect reacts to actions after the reducer applied them
type Effect interface {
	Handle(ctx context.Context, action Action, state *State)
}
