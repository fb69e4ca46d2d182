package blog

// State is the blog feature state. A *State is never modified after the
// reducer returns it: every transition builds a new State that shares the
// untouched slices and entries with its predecessor.
type State struct {
	Permission                   *ToolsPermission
	FocusedEntry                 *Entry
	Entries                      []*Entry
	Comments                     []Comment
	EntriesLoadingState          LoadingState
	VotingExperience             VotingExperience
	VotingExperienceLoadingState LoadingState
	FocusedEntryLoadingState     LoadingState
	CommentsLoadingState         LoadingState
	PermissionLoadingState       LoadingState
}

// InitialState returns the state before any action was applied
func InitialState() *State {
	return &State{
		Entries:                      []*Entry{},
		EntriesLoadingState:          Indeterminate,
		VotingExperience:             VotingDisabled,
		VotingExperienceLoadingState: Indeterminate,
		FocusedEntryLoadingState:     Indeterminate,
		Comments:                     []Comment{},
		CommentsLoadingState:         Indeterminate,
		PermissionLoadingState:       Indeterminate,
	}
}

// loadingSlice names one independently tracked request lifecycle
type loadingSlice int

const (
	sliceEntries loadingSlice = iota
	sliceFocusedEntry
	sliceComments
	sliceVotingExperience
	slicePermission
)

func (s *State) loading(slice loadingSlice) LoadingState {
	switch slice {
	case sliceEntries:
		return s.EntriesLoadingState
	case sliceFocusedEntry:
		return s.FocusedEntryLoadingState
	case sliceComments:
		return s.CommentsLoadingState
	case sliceVotingExperience:
		return s.VotingExperienceLoadingState
	default:
		return s.PermissionLoadingState
	}
}

func (s *State) setLoading(slice loadingSlice, l LoadingState) {
	switch slice {
	case sliceEntries:
		s.EntriesLoadingState = l
	case sliceFocusedEntry:
		s.FocusedEntryLoadingState = l
	case sliceComments:
		s.CommentsLoadingState = l
	case sliceVotingExperience:
		s.VotingExperienceLoadingState = l
	default:
		s.PermissionLoadingState = l
	}
}

// copy returns a shallow copy; slices and entries stay shared
func (s *State) copy() *State {
	next := *s
	return &next
}
