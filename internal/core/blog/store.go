package blog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Store owns the blog state. Actions are queued by Dispatch and applied one at
// a time by Run, the only goroutine that ever calls Reduce. After each
// transition subscribers receive the new state and effects see the action.
type Store struct {
	state     atomic.Pointer[State]
	selectors *Selectors
	logger    *slog.Logger
	wake      chan struct{}

	subscribers map[uint64]chan *State
	queue       []Action
	effects     []Effect

	nextSubscriber uint64
	queueMu        sync.Mutex
	subMu          sync.Mutex
	effectsMu      sync.RWMutex
}

// NewStore creates a store holding initial, or InitialState when nil
func NewStore(initial *State, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if initial == nil {
		initial = InitialState()
	}
	s := &Store{
		selectors:   NewSelectors(),
		logger:      logger,
		wake:        make(chan struct{}, 1),
		subscribers: make(map[uint64]chan *State),
	}
	s.state.Store(initial)
	return s
}

// State returns the current state snapshot
func (s *Store) State() *State {
	return s.state.Load()
}

// Selectors returns the store's memoized selector set
func (s *Store) Selectors() *Selectors {
	return s.selectors
}

// AddEffect registers an effect. Effects see actions in dispatch order.
func (s *Store) AddEffect(e Effect) {
	s.effectsMu.Lock()
	defer s.effectsMu.Unlock()
	s.effects = append(s.effects, e)
}

// Dispatch queues actions. It never blocks and may be called from any
// goroutine, including effects and subscribers.
func (s *Store) Dispatch(actions ...Action) {
	if len(actions) == 0 {
		return
	}
	s.queueMu.Lock()
	s.queue = append(s.queue, actions...)
	s.queueMu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Subscribe returns a channel receiving the latest state after every
// transition, starting with the current one. A slow reader only misses
// intermediate states. Call the returned func to stop; it closes the channel.
func (s *Store) Subscribe() (<-chan *State, func()) {
	ch := make(chan *State, 1)

	// The state is stored before publish takes subMu, so reading it under the
	// lock cannot miss a transition.
	s.subMu.Lock()
	id := s.nextSubscriber
	s.nextSubscriber++
	s.subscribers[id] = ch
	ch <- s.State()
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			close(ch)
			s.subMu.Unlock()
		})
	}
}

// Run applies queued actions until ctx is done. Pending effect calls are not
// aborted when Run returns.
func (s *Store) Run(ctx context.Context) error {
	for {
		for {
			action, ok := s.next()
			if !ok {
				break
			}
			s.apply(ctx, action)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}
	}
}

func (s *Store) next() (Action, bool) {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	if len(s.queue) == 0 {
		return nil, false
	}
	action := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return action, true
}

func (s *Store) apply(ctx context.Context, action Action) {
	prev := s.state.Load()
	next := Reduce(prev, action)
	if next != prev {
		s.state.Store(next)
		s.publish(next)
	}

	s.logger.Debug("blog action applied",
		"action", action.Type(),
		"changed", next != prev)

	s.effectsMu.RLock()
	effects := s.effects
	s.effectsMu.RUnlock()
	for _, e := range effects {
		e.Handle(ctx, action, next)
	}
}

func (s *Store) publish(state *State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- state:
			continue
		default:
		}
		// Replace the unread state with the newer one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}
