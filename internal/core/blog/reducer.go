package blog

// Reduce applies an action to the state and returns the resulting state.
//
// Reduce is pure: the given state is never modified. When an action leaves the
// state unchanged the same pointer is returned, which keeps selector results
// memoized across no-op transitions.
func Reduce(state *State, action Action) *State {
	if state == nil {
		state = InitialState()
	}

	switch a := action.(type) {
	case LoadEntries:
		return withLoading(state, sliceEntries, Loading)
	case LoadEntriesSuccess:
		next := withLoading(state, sliceEntries, Loaded).copy()
		next.Entries = a.Entries
		if next.Entries == nil {
			next.Entries = []*Entry{}
		}
		return next
	case LoadEntriesFail:
		return withLoading(state, sliceEntries, Failed)

	case LoadEntry:
		return withLoading(state, sliceFocusedEntry, Loading)
	case LoadEntrySuccess:
		next := withLoading(state, sliceFocusedEntry, Loaded).copy()
		next.FocusedEntry = a.Entry
		return next
	case LoadEntryFail:
		return withLoading(state, sliceFocusedEntry, Failed)

	case LoadComments:
		return withLoading(state, sliceComments, Loading)
	case LoadCommentsSuccess:
		next := withLoading(state, sliceComments, Loaded).copy()
		next.Comments = a.Comments
		if next.Comments == nil {
			next.Comments = []Comment{}
		}
		return next
	case LoadCommentsFail:
		return withLoading(state, sliceComments, Failed)

	case LoadVotingExperience:
		return withLoading(state, sliceVotingExperience, Loading)
	case LoadVotingExperienceSuccess:
		next := withLoading(state, sliceVotingExperience, Loaded)
		if next.VotingExperience == a.Experience {
			return next
		}
		next = next.copy()
		next.VotingExperience = a.Experience
		return next
	case LoadVotingExperienceFail:
		// A failed lookup must not leave voting controls enabled.
		next := withLoading(state, sliceVotingExperience, Failed)
		if next.VotingExperience == VotingDisabled {
			return next
		}
		next = next.copy()
		next.VotingExperience = VotingDisabled
		return next

	case LikeEntrySuccess:
		if a.Entry == nil {
			return state
		}
		return updateEntry(state, a.Entry.ID, likedBy(a.User))
	case UnlikeEntrySuccess:
		if a.Entry == nil {
			return state
		}
		return updateEntry(state, a.Entry.ID, unlikedBy(a.User))
	case RateEntrySuccess:
		if a.Entry == nil {
			return state
		}
		return updateEntry(state, a.Entry.ID, ratedBy(a.User, a.Rating))

	case AddCommentSuccess:
		return addComment(state, a.Comment)

	case LoadPermissions:
		return withLoading(state, slicePermission, Loading)
	case LoadPermissionsSuccess:
		next := withLoading(state, slicePermission, Loaded).copy()
		next.Permission = a.Permission
		return next
	case LoadPermissionsFail:
		return withLoading(state, slicePermission, Failed)
	}

	return state
}

func withLoading(state *State, slice loadingSlice, l LoadingState) *State {
	if state.loading(slice) == l {
		return state
	}
	next := state.copy()
	next.setLoading(slice, l)
	return next
}

// entryDelta returns the changed copy of an entry, or nil when the delta does
// not apply to it
type entryDelta func(e *Entry) *Entry

// updateEntry applies the delta to every list copy with the given id and to
// the focused entry. Each copy is checked on its own.
func updateEntry(state *State, id int64, delta entryDelta) *State {
	var entries []*Entry
	for i, e := range state.Entries {
		if e == nil || e.ID != id {
			continue
		}
		changed := delta(e)
		if changed == nil {
			continue
		}
		if entries == nil {
			entries = make([]*Entry, len(state.Entries))
			copy(entries, state.Entries)
		}
		entries[i] = changed
	}

	var focused *Entry
	if state.FocusedEntry != nil && state.FocusedEntry.ID == id {
		focused = delta(state.FocusedEntry)
	}

	if entries == nil && focused == nil {
		return state
	}

	next := state.copy()
	if entries != nil {
		next.Entries = entries
	}
	if focused != nil {
		next.FocusedEntry = focused
	}
	return next
}

func likedBy(user User) entryDelta {
	return func(e *Entry) *Entry {
		if e.IsLikedBy(user.ID) {
			return nil
		}
		c := e.Clone()
		c.LikesCount++
		c.LikedByUserIDs = append(c.LikedByUserIDs, user.ID)
		c.LikedBy = append(c.LikedBy, user.Summary())
		return c
	}
}

func unlikedBy(user User) entryDelta {
	return func(e *Entry) *Entry {
		if !e.IsLikedBy(user.ID) {
			return nil
		}
		c := e.Clone()
		if c.LikesCount > 0 {
			c.LikesCount--
		}

		ids := c.LikedByUserIDs[:0]
		for _, id := range c.LikedByUserIDs {
			if id != user.ID {
				ids = append(ids, id)
			}
		}
		c.LikedByUserIDs = ids

		likers := c.LikedBy[:0]
		for _, u := range c.LikedBy {
			if u.ID != user.ID {
				likers = append(likers, u)
			}
		}
		c.LikedBy = likers
		return c
	}
}

func ratedBy(user User, rating int) entryDelta {
	return func(e *Entry) *Entry {
		c := e.Clone()
		if c.Ratings == nil {
			c.Ratings = make(map[int64]int)
		}
		if _, rated := c.Ratings[user.ID]; !rated {
			c.RatingCount++
			c.RatedBy = append(c.RatedBy, user.Summary())
		}
		c.Ratings[user.ID] = rating
		c.AverageRating = averageRating(c.Ratings)
		return c
	}
}

// averageRating recomputes the mean over every rating instead of adjusting the
// previous average, so repeated updates cannot drift.
func averageRating(ratings map[int64]int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}

func addComment(state *State, comment Comment) *State {
	// The user may have opened another entry before the comment came back.
	if state.FocusedEntry == nil || state.FocusedEntry.ID != comment.EntryID {
		return state
	}

	next := state.copy()

	for i, e := range state.Entries {
		if e == nil || e.ID != comment.EntryID {
			continue
		}
		entries := make([]*Entry, len(state.Entries))
		copy(entries, state.Entries)
		c := e.Clone()
		c.NumberOfComments++
		entries[i] = c
		next.Entries = entries
		break
	}

	focused := state.FocusedEntry.Clone()
	focused.NumberOfComments++
	next.FocusedEntry = focused

	next.Comments = append(state.Comments[:len(state.Comments):len(state.Comments)], comment)
	return next
}
