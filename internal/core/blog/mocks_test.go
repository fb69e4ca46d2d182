package blog

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

type mockEntryService struct {
	mock.Mock
}

func (m *mockEntryService) GetEntries(ctx context.Context, ids []int64) ([]*Entry, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Entry), args.Error(1)
}

func (m *mockEntryService) GetEntry(ctx context.Context, id int64) (*Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Entry), args.Error(1)
}

func (m *mockEntryService) LikeEntry(ctx context.Context, entryID int64, user User) error {
	args := m.Called(ctx, entryID, user)
	return args.Error(0)
}

func (m *mockEntryService) UnlikeEntry(ctx context.Context, entryID int64, user User) error {
	args := m.Called(ctx, entryID, user)
	return args.Error(0)
}

func (m *mockEntryService) RateEntry(ctx context.Context, entryID int64, user User, rating int) error {
	args := m.Called(ctx, entryID, user, rating)
	return args.Error(0)
}

type mockCommentService struct {
	mock.Mock
}

func (m *mockCommentService) GetComments(ctx context.Context, entryID int64) ([]Comment, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Comment), args.Error(1)
}

func (m *mockCommentService) AddComment(ctx context.Context, entryID int64, user User, text string) (*Comment, error) {
	args := m.Called(ctx, entryID, user, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Comment), args.Error(1)
}

type mockVotingService struct {
	mock.Mock
}

func (m *mockVotingService) GetVotingExperience(ctx context.Context) (VotingExperience, error) {
	args := m.Called(ctx)
	return args.Get(0).(VotingExperience), args.Error(1)
}

type mockPermissionService struct {
	mock.Mock
}

func (m *mockPermissionService) GetPermissions(ctx context.Context, user User) (*ToolsPermission, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ToolsPermission), args.Error(1)
}

// recordingDispatcher collects dispatched actions in order
type recordingDispatcher struct {
	actions []Action
	batches [][]Action
	mu      sync.Mutex
}

func (d *recordingDispatcher) Dispatch(actions ...Action) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actions = append(d.actions, actions...)
	d.batches = append(d.batches, append([]Action(nil), actions...))
}

func (d *recordingDispatcher) Actions() []Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Action(nil), d.actions...)
}

func (d *recordingDispatcher) Batches() [][]Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([][]Action(nil), d.batches...)
}

type recordingNotifier struct {
	notes []Notification
	mu    sync.Mutex
}

func (n *recordingNotifier) Notify(_ context.Context, note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *recordingNotifier) Notes() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.notes...)
}

type staticUser struct {
	user User
	ok   bool
}

func (s staticUser) CurrentUser(context.Context) (User, bool) {
	return s.user, s.ok
}
