package blog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVotingIntentsFollowVotingExperience(t *testing.T) {
	entry := testEntry(1)

	tests := []struct {
		mode       VotingExperience
		wantLike   bool
		wantRating bool
	}{
		{VotingDisabled, false, false},
		{VotingLikes, true, false},
		{VotingRatings, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			s := Reduce(InitialState(), LoadVotingExperienceSuccess{Experience: tt.mode})

			like, ok := LikeIntent(s, entry, alice)
			assert.Equal(t, tt.wantLike, ok)
			if ok {
				assert.Equal(t, LikeEntry{Entry: entry, User: alice}, like)
			}

			_, ok = UnlikeIntent(s, entry, alice)
			assert.Equal(t, tt.wantLike, ok)

			rate, ok := RateIntent(s, entry, alice, 4)
			assert.Equal(t, tt.wantRating, ok)
			if ok {
				assert.Equal(t, RateEntry{Entry: entry, User: alice, Rating: 4}, rate)
			}
		})
	}
}

func TestVotingIntents_MissingEntry(t *testing.T) {
	s := Reduce(InitialState(), LoadVotingExperienceSuccess{Experience: VotingLikes})

	_, ok := LikeIntent(s, nil, alice)
	assert.False(t, ok)
}

func TestValidateRating(t *testing.T) {
	for _, r := range []int{1, 3, 5} {
		assert.NoError(t, ValidateRating(r))
	}
	for _, r := range []int{-1, 0, 6} {
		assert.ErrorIs(t, ValidateRating(r), ErrInvalidRating)
		assert.True(t, IsValidationError(ValidateRating(r)))
	}
}

func TestVotingExperienceText(t *testing.T) {
	for _, v := range []VotingExperience{VotingDisabled, VotingLikes, VotingRatings} {
		text, err := v.MarshalText()
		assert.NoError(t, err)

		var parsed VotingExperience
		assert.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, v, parsed)
	}

	_, err := ParseVotingExperience("stars")
	assert.ErrorIs(t, err, ErrUnknownVotingExperience)
}

func TestLoadingStateText(t *testing.T) {
	for _, l := range []LoadingState{Indeterminate, Loading, Loaded, Failed} {
		text, err := l.MarshalText()
		assert.NoError(t, err)

		var parsed LoadingState
		assert.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, l, parsed)
	}

	var l LoadingState
	assert.Error(t, l.UnmarshalText([]byte("done")))
}
