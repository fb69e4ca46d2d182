package blog

// Voting controls only act in their own voting mode. In any other mode the
// click is ignored rather than reported as an error.

// LikeIntent returns the LikeEntry action, or false unless likes are enabled
func LikeIntent(state *State, entry *Entry, user User) (Action, bool) {
	if state == nil || entry == nil || state.VotingExperience != VotingLikes {
		return nil, false
	}
	return LikeEntry{Entry: entry, User: user}, true
}

// UnlikeIntent returns the UnlikeEntry action, or false unless likes are enabled
func UnlikeIntent(state *State, entry *Entry, user User) (Action, bool) {
	if state == nil || entry == nil || state.VotingExperience != VotingLikes {
		return nil, false
	}
	return UnlikeEntry{Entry: entry, User: user}, true
}

// RateIntent returns the RateEntry action, or false unless ratings are
// enabled. Call ValidateRating first.
func RateIntent(state *State, entry *Entry, user User, rating int) (Action, bool) {
	if state == nil || entry == nil || state.VotingExperience != VotingRatings {
		return nil, false
	}
	return RateEntry{Entry: entry, User: user, Rating: rating}, true
}

// ValidateRating rejects ratings outside MinRating..MaxRating
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// FindEntry returns the entry the user is looking at: the focused entry when
// it matches, otherwise the list copy
func (s *Selectors) FindEntry(state *State, id int64) *Entry {
	if focused := s.FocusedEntry.Select(state); focused != nil && focused.ID == id {
		return focused
	}
	return s.EntryByID(state, id)
}
