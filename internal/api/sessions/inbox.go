package sessions

import (
	"context"
	"sync"

	"Blogroll/internal/core/blog"
)

const defaultInboxSize = 50

// Inbox is a session's error channel. It keeps the most recent
// notifications until a view drains them; older ones are dropped once the
// inbox is full.
type Inbox struct {
	wake  chan struct{}
	notes []blog.Notification
	size  int
	mu    sync.Mutex
}

// NewInbox creates an inbox holding at most size notifications
func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = defaultInboxSize
	}
	return &Inbox{size: size, wake: make(chan struct{}, 1)}
}

// Notify stores n and wakes a waiting reader. It never blocks.
func (i *Inbox) Notify(_ context.Context, n blog.Notification) {
	i.mu.Lock()
	if len(i.notes) == i.size {
		i.notes = append(i.notes[:0], i.notes[1:]...)
	}
	i.notes = append(i.notes, n)
	i.mu.Unlock()

	select {
	case i.wake <- struct{}{}:
	default:
	}
}

// Drain returns the pending notifications, oldest first, and empties the inbox
func (i *Inbox) Drain() []blog.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	notes := i.notes
	i.notes = nil
	if notes == nil {
		return []blog.Notification{}
	}
	return notes
}

// Ready fires after Notify. A receive does not guarantee Drain finds
// anything; another reader may have drained first.
func (i *Inbox) Ready() <-chan struct{} {
	return i.wake
}
