package blog

import (
	"slices"
	"sync"
)

// Selector derives a value from the state and caches the result for the last
// state it saw. States are immutable, so the same pointer always yields the
// same value. Safe for concurrent use.
type Selector[T any] struct {
	project func(*State) T
	last    *State
	value   T
	evals   int
	mu      sync.Mutex
}

// NewSelector wraps a projection in a memoizing selector
func NewSelector[T any](project func(*State) T) *Selector[T] {
	return &Selector[T]{project: project}
}

// Select returns the projection of state, computing it only when state differs
// from the previous call
func (s *Selector[T]) Select(state *State) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last != nil && s.last == state {
		return s.value
	}
	s.value = s.project(state)
	s.last = state
	s.evals++
	return s.value
}

// Recomputations reports how many times the projection ran
func (s *Selector[T]) Recomputations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evals
}

// Derived composes a selector with a projection that reruns only when the
// identity of the input changes. A transition that replaces the state but
// keeps, for example, the entries slice does not recompute entry projections.
type Derived[I, T any] struct {
	input    *Selector[I]
	identity func(I) interface{}
	project  func(I) T
	lastKey  interface{}
	value    T
	evals    int
	mu       sync.Mutex
	hasValue bool
}

// NewDerived builds a Derived selector. identity must return a comparable value.
func NewDerived[I, T any](input *Selector[I], identity func(I) interface{}, project func(I) T) *Derived[I, T] {
	return &Derived[I, T]{input: input, identity: identity, project: project}
}

// Select returns the projection of the input selected from state
func (d *Derived[I, T]) Select(state *State) T {
	in := d.input.Select(state)
	key := d.identity(in)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.hasValue && d.lastKey == key {
		return d.value
	}
	d.value = d.project(in)
	d.lastKey = key
	d.hasValue = true
	d.evals++
	return d.value
}

// Recomputations reports how many times the projection ran
func (d *Derived[I, T]) Recomputations() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.evals
}

// entriesIdentity identifies a backing array; the reducer always allocates a
// new slice when an entry changes
type entriesIdentity struct {
	array **Entry
	n     int
}

func identityOfEntries(entries []*Entry) interface{} {
	if len(entries) == 0 {
		return entriesIdentity{}
	}
	return entriesIdentity{array: &entries[0], n: len(entries)}
}

// Selectors is the set of memoized read functions over one store's state.
// Each store gets its own set so their caches don't evict each other.
type Selectors struct {
	Entries                      *Selector[[]*Entry]
	EntriesLoadingState          *Selector[LoadingState]
	FocusedEntry                 *Selector[*Entry]
	FocusedEntryLoadingState     *Selector[LoadingState]
	Comments                     *Selector[[]Comment]
	CommentsLoadingState         *Selector[LoadingState]
	VotingExperience             *Selector[VotingExperience]
	VotingExperienceLoadingState *Selector[LoadingState]
	Permission                   *Selector[*ToolsPermission]
	PermissionLoadingState       *Selector[LoadingState]
	ContentLoadingState          *Selector[LoadingState]
	SortedEntries                *Derived[[]*Entry, []*Entry]

	byID struct {
		key   entryByIDKey
		value *Entry
		mu    sync.Mutex
		valid bool
	}
}

type entryByIDKey struct {
	entries interface{}
	id      int64
}

// NewSelectors builds a fresh selector set
func NewSelectors() *Selectors {
	s := &Selectors{
		Entries:                      NewSelector(func(st *State) []*Entry { return st.Entries }),
		EntriesLoadingState:          NewSelector(func(st *State) LoadingState { return st.EntriesLoadingState }),
		FocusedEntry:                 NewSelector(func(st *State) *Entry { return st.FocusedEntry }),
		FocusedEntryLoadingState:     NewSelector(func(st *State) LoadingState { return st.FocusedEntryLoadingState }),
		Comments:                     NewSelector(func(st *State) []Comment { return st.Comments }),
		CommentsLoadingState:         NewSelector(func(st *State) LoadingState { return st.CommentsLoadingState }),
		VotingExperience:             NewSelector(func(st *State) VotingExperience { return st.VotingExperience }),
		VotingExperienceLoadingState: NewSelector(func(st *State) LoadingState { return st.VotingExperienceLoadingState }),
		Permission:                   NewSelector(func(st *State) *ToolsPermission { return st.Permission }),
		PermissionLoadingState:       NewSelector(func(st *State) LoadingState { return st.PermissionLoadingState }),
		ContentLoadingState: NewSelector(func(st *State) LoadingState {
			return CombineLoadingStates(st.EntriesLoadingState, st.VotingExperienceLoadingState)
		}),
	}
	s.SortedEntries = NewDerived(s.Entries, identityOfEntries, sortByPublishedDesc)
	return s
}

// EntryByID looks an entry up in the list. This is a linear scan: the list
// holds at most one page of entries.
func (s *Selectors) EntryByID(state *State, id int64) *Entry {
	entries := s.Entries.Select(state)
	key := entryByIDKey{entries: identityOfEntries(entries), id: id}

	s.byID.mu.Lock()
	defer s.byID.mu.Unlock()

	if s.byID.valid && s.byID.key == key {
		return s.byID.value
	}

	var found *Entry
	for _, e := range entries {
		if e != nil && e.ID == id {
			found = e
			break
		}
	}
	s.byID.key = key
	s.byID.value = found
	s.byID.valid = true
	return found
}

// sortByPublishedDesc returns a newest-first copy of entries
func sortByPublishedDesc(entries []*Entry) []*Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b *Entry) int {
		return b.PublishedDate.Compare(a.PublishedDate)
	})
	return sorted
}

// CombineLoadingStates folds several slices into one indicator: Loaded when
// every slice is loaded, Failed when any slice failed, Loading otherwise.
func CombineLoadingStates(states ...LoadingState) LoadingState {
	allLoaded := true
	for _, l := range states {
		if l != Loaded {
			allLoaded = false
			break
		}
	}
	if allLoaded {
		return Loaded
	}
	if slices.Contains(states, Failed) {
		return Failed
	}
	return Loading
}
