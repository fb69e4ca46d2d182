package blog

import "errors"

var (
	// ErrEntryNotFound indicates the requested blog entry doesn't exist
	ErrEntryNotFound = errors.New("blog entry not found")

	// ErrInvalidRating indicates a rating outside the 1..5 range
	ErrInvalidRating = errors.New("invalid rating: must be between 1 and 5")

	// ErrCommentEmpty indicates comment text is empty after sanitizing
	ErrCommentEmpty = errors.New("comment text is required")

	// ErrCommentTooLong indicates comment text exceeds 10000 graphemes
	ErrCommentTooLong = errors.New("comment text exceeds 10000 graphemes")

	// ErrNoCurrentUser indicates an operation needed a signed-in user
	ErrNoCurrentUser = errors.New("no current user")

	// ErrUnknownVotingExperience indicates a stored voting mode that isn't recognized
	ErrUnknownVotingExperience = errors.New("unknown voting experience")

	// ErrEffectPanicked wraps a panic recovered inside an effect
	ErrEffectPanicked = errors.New("effect panicked")
)

// MinRating and MaxRating bound the values accepted by RateEntry
const (
	MinRating = 1
	MaxRating = 5
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrCommentEmpty) ||
		errors.Is(err, ErrCommentTooLong)
}
