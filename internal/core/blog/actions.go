package blog

// Action is the closed set of intents and outcomes handled by the reducer and
// the effects. The unexported marker keeps the set closed to this package.
type Action interface {
	Type() string
	isAction()
}

// Request actions are handled by effects; success and fail actions are the
// outcomes effects dispatch back. Fail actions carry the collaborator error.

type LoadEntries struct {
	IDs []int64
}

type LoadEntriesSuccess struct {
	Entries []*Entry
}

type LoadEntriesFail struct {
	Err error
}

type LoadEntry struct {
	EntryID int64
}

type LoadEntrySuccess struct {
	Entry *Entry
}

type LoadEntryFail struct {
	Err     error
	EntryID int64
}

type LoadComments struct {
	EntryID int64
}

type LoadCommentsSuccess struct {
	Comments []Comment
}

type LoadCommentsFail struct {
	Err error
}

type LoadVotingExperience struct{}

type LoadVotingExperienceSuccess struct {
	Experience VotingExperience
}

type LoadVotingExperienceFail struct {
	Err error
}

// LikeEntry carries the entry as the user saw it; the success echoes it back
// unchanged and the reducer derives the new like state.
type LikeEntry struct {
	Entry *Entry
	User  User
}

type LikeEntrySuccess struct {
	Entry *Entry
	User  User
}

type LikeEntryFail struct {
	Err error
}

type UnlikeEntry struct {
	Entry *Entry
	User  User
}

type UnlikeEntrySuccess struct {
	Entry *Entry
	User  User
}

type UnlikeEntryFail struct {
	Err error
}

type RateEntry struct {
	Entry  *Entry
	User   User
	Rating int
}

type RateEntrySuccess struct {
	Entry  *Entry
	User   User
	Rating int
}

type RateEntryFail struct {
	Err error
}

type AddComment struct {
	Entry *Entry
	User  User
	Text  string
}

type AddCommentSuccess struct {
	Comment Comment
}

type AddCommentFail struct {
	Err error
}

type LoadPermissions struct{}

type LoadPermissionsSuccess struct {
	Permission *ToolsPermission
}

type LoadPermissionsFail struct {
	Err error
}

// ApplicationError is the global, user-facing error notification. Effects
// dispatch it right after every fail action.
type ApplicationError struct {
	Message string
}

func (LoadEntries) Type() string                 { return "[Blog] Load Entries" }
func (LoadEntriesSuccess) Type() string          { return "[Blog] Load Entries Success" }
func (LoadEntriesFail) Type() string             { return "[Blog] Load Entries Fail" }
func (LoadEntry) Type() string                   { return "[Blog] Load Entry" }
func (LoadEntrySuccess) Type() string            { return "[Blog] Load Entry Success" }
func (LoadEntryFail) Type() string               { return "[Blog] Load Entry Fail" }
func (LoadComments) Type() string                { return "[Blog] Load Comments" }
func (LoadCommentsSuccess) Type() string         { return "[Blog] Load Comments Success" }
func (LoadCommentsFail) Type() string            { return "[Blog] Load Comments Fail" }
func (LoadVotingExperience) Type() string        { return "[Blog] Load Voting Experience" }
func (LoadVotingExperienceSuccess) Type() string { return "[Blog] Load Voting Experience Success" }
func (LoadVotingExperienceFail) Type() string    { return "[Blog] Load Voting Experience Fail" }
func (LikeEntry) Type() string                   { return "[Blog] Like Entry" }
func (LikeEntrySuccess) Type() string            { return "[Blog] Like Entry Success" }
func (LikeEntryFail) Type() string               { return "[Blog] Like Entry Fail" }
func (UnlikeEntry) Type() string                 { return "[Blog] Unlike Entry" }
func (UnlikeEntrySuccess) Type() string          { return "[Blog] Unlike Entry Success" }
func (UnlikeEntryFail) Type() string             { return "[Blog] Unlike Entry Fail" }
func (RateEntry) Type() string                   { return "[Blog] Rate Entry" }
func (RateEntrySuccess) Type() string            { return "[Blog] Rate Entry Success" }
func (RateEntryFail) Type() string               { return "[Blog] Rate Entry Fail" }
func (AddComment) Type() string                  { return "[Blog] Add Comment" }
func (AddCommentSuccess) Type() string           { return "[Blog] Add Comment Success" }
func (AddCommentFail) Type() string              { return "[Blog] Add Comment Fail" }
func (LoadPermissions) Type() string             { return "[Blog] Load Permissions" }
func (LoadPermissionsSuccess) Type() string      { return "[Blog] Load Permissions Success" }
func (LoadPermissionsFail) Type() string         { return "[Blog] Load Permissions Fail" }
func (ApplicationError) Type() string            { return "[Error] Application Error" }

func (LoadEntries) isAction()                 {}
func (LoadEntriesSuccess) isAction()          {}
func (LoadEntriesFail) isAction()             {}
func (LoadEntry) isAction()                   {}
func (LoadEntrySuccess) isAction()            {}
func (LoadEntryFail) isAction()               {}
func (LoadComments) isAction()                {}
func (LoadCommentsSuccess) isAction()         {}
func (LoadCommentsFail) isAction()            {}
func (LoadVotingExperience) isAction()        {}
func (LoadVotingExperienceSuccess) isAction() {}
func (LoadVotingExperienceFail) isAction()    {}
func (LikeEntry) isAction()                   {}
func (LikeEntrySuccess) isAction()            {}
func (LikeEntryFail) isAction()               {}
func (UnlikeEntry) isAction()                 {}
func (UnlikeEntrySuccess) isAction()          {}
func (UnlikeEntryFail) isAction()             {}
func (RateEntry) isAction()                   {}
func (RateEntrySuccess) isAction()            {}
func (RateEntryFail) isAction()               {}
func (AddComment) isAction()                  {}
func (AddCommentSuccess) isAction()           {}
func (AddCommentFail) isAction()              {}
func (LoadPermissions) isAction()             {}
func (LoadPermissionsSuccess) isAction()      {}
func (LoadPermissionsFail) isAction()         {}
func (ApplicationError) isAction()            {}
