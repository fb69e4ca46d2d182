// Package sessions keeps one blog store per browser session.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"Blogroll/internal/core/blog"
)

// ErrSessionNotFound indicates an unknown or evicted session id
var ErrSessionNotFound = errors.New("session not found")

// Services are the collaborators shared by every session's orchestrator
type Services struct {
	Entries     blog.EntryService
	Comments    blog.CommentService
	Voting      blog.VotingService
	Permissions blog.PermissionService
	Metrics     *blog.Metrics
	Locale      blog.Locale

	RequestTimeout time.Duration
}

// Session is one user's store with its effects and error inbox
type Session struct {
	CreatedAt    time.Time
	Store        *blog.Store
	Orchestrator *blog.Orchestrator
	Inbox        *Inbox
	cancel       context.CancelFunc
	done         chan struct{}
	ID           string
	User         blog.User
	closeOnce    sync.Once
}

// CurrentUser returns the user who opened the session
func (s *Session) CurrentUser(context.Context) (blog.User, bool) {
	return s.User, s.User.ID != 0
}

// Done is closed once the session's store has stopped
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Registry is a bounded set of live sessions. When full, the least recently
// used session is stopped to make room.
type Registry struct {
	ctx      context.Context
	cache    *lru.Cache[string, *Session]
	logger   *slog.Logger
	active   prometheus.Gauge
	services Services
}

// NewRegistry creates a registry holding at most size sessions. Sessions
// stop when ctx is canceled. reg may be nil to skip metric registration.
func NewRegistry(ctx context.Context, size int, services Services, logger *slog.Logger, reg prometheus.Registerer) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		ctx:      ctx,
		logger:   logger,
		services: services,
		active: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "blog_sessions_active",
			Help: "Number of live blog sessions.",
		}),
	}

	cache, err := lru.NewWithEvict[string, *Session](size, r.onEvict)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	r.cache = cache
	return r, nil
}

// Create starts a session for user and kicks off the initial loads of the
// voting experience and the user's permissions
func (r *Registry) Create(user blog.User) *Session {
	ctx, cancel := context.WithCancel(r.ctx)
	id := uuid.NewString()
	logger := r.logger.With("session_id", id, "user_id", user.ID)

	s := &Session{
		ID:        id,
		User:      user,
		CreatedAt: time.Now(),
		Inbox:     NewInbox(defaultInboxSize),
		Store:     blog.NewStore(nil, logger),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	s.Orchestrator = blog.NewOrchestrator(blog.OrchestratorConfig{
		Entries:        r.services.Entries,
		Comments:       r.services.Comments,
		Voting:         r.services.Voting,
		Permissions:    r.services.Permissions,
		Notifier:       s.Inbox,
		Users:          s,
		Metrics:        r.services.Metrics,
		Logger:         logger,
		Locale:         r.services.Locale,
		RequestTimeout: r.services.RequestTimeout,
	}, s.Store, s.Store.Selectors())
	s.Store.AddEffect(s.Orchestrator)

	go func() {
		defer close(s.done)
		if err := s.Store.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("session store stopped", "error", err)
		}
	}()

	r.cache.Add(id, s)
	r.active.Set(float64(r.cache.Len()))
	logger.Info("blog session started")

	s.Store.Dispatch(blog.LoadVotingExperience{}, blog.LoadPermissions{})
	return s
}

// Get returns a live session
func (r *Registry) Get(id string) (*Session, error) {
	s, ok := r.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove stops and forgets a session
func (r *Registry) Remove(id string) {
	r.cache.Remove(id)
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	return r.cache.Len()
}

// Close stops every session
func (r *Registry) Close() {
	r.cache.Purge()
}

func (r *Registry) onEvict(id string, s *Session) {
	s.close()
	r.active.Set(float64(r.cache.Len()))
	r.logger.Info("blog session stopped", "session_id", id)
}
