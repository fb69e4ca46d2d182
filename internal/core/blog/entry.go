package blog

import (
	"fmt"
	"slices"
	"time"
)

// User is the signed-in user as supplied by the current-user provider
type User struct {
	FullName string `json:"fullName"`
	Mail     string `json:"mail"`
	ID       int64  `json:"id"`
}

// Summary projects the user onto the denormalized liker/rater shape
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, FullName: u.FullName, Mail: u.Mail}
}

// UserSummary is the id/name/mail triple stored on entries for likers,
// raters, authors and publishers
type UserSummary struct {
	FullName string `json:"fullName"`
	Mail     string `json:"mail"`
	ID       int64  `json:"id"`
}

// Entry is a published blog entry with its voting and commenting state.
//
// LikedByUserIDs and LikedBy always hold the same users. Ratings maps a user
// id to that user's rating; AverageRating is the mean of its values.
type Entry struct {
	PublishedDate    time.Time       `json:"publishedDate"`
	Ratings          map[int64]int   `json:"ratings"`
	Author           UserSummary     `json:"author"`
	Publisher        UserSummary     `json:"publisher"`
	ListID           string          `json:"listId"`
	Title            string          `json:"title"`
	Body             string          `json:"body"`
	TeaserBody       string          `json:"teaserBody"`
	Categories       []string        `json:"categories"`
	Tags             []string        `json:"tags"`
	LikedByUserIDs   []int64         `json:"likedByUserIds"`
	LikedBy          []UserSummary   `json:"likedBy"`
	RatedBy          []UserSummary   `json:"ratedBy"`
	AverageRating    float64         `json:"averageRating"`
	ID               int64           `json:"id"`
	NumberOfComments int             `json:"numberOfComments"`
	LikesCount       int             `json:"likesCount"`
	RatingCount      int             `json:"ratingCount"`
}

// IsLikedBy reports whether the user is among the entry's likers
func (e *Entry) IsLikedBy(userID int64) bool {
	for _, id := range e.LikedByUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasRatingFrom reports whether the user has rated the entry
func (e *Entry) HasRatingFrom(userID int64) bool {
	_, ok := e.Ratings[userID]
	return ok
}

// DisplayPublisher returns the publisher, falling back to the author for
// entries that were never published on someone else's behalf
func (e *Entry) DisplayPublisher() UserSummary {
	if e.Publisher.ID != 0 {
		return e.Publisher
	}
	return e.Author
}

// Clone returns a deep copy. The reducer clones an entry before changing it
// so earlier states keep their own copy.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	c.Categories = slices.Clone(e.Categories)
	c.Tags = slices.Clone(e.Tags)
	c.LikedByUserIDs = slices.Clone(e.LikedByUserIDs)
	c.LikedBy = slices.Clone(e.LikedBy)
	c.RatedBy = slices.Clone(e.RatedBy)
	if e.Ratings != nil {
		c.Ratings = make(map[int64]int, len(e.Ratings))
		for k, v := range e.Ratings {
			c.Ratings[k] = v
		}
	}
	return &c
}

// Comment is a comment on a blog entry
type Comment struct {
	CreatedAt time.Time   `json:"createdAt"`
	Author    UserSummary `json:"author"`
	Text      string      `json:"text"`
	ID        int64       `json:"id"`
	EntryID   int64       `json:"blogEntryId"`
}

// ToolsPermission tells whether the current user may use the authoring tools
type ToolsPermission struct {
	UserID      int64 `json:"userId"`
	CanUseTools bool  `json:"canUseTools"`
}

// VotingExperience selects which voting actions are available
type VotingExperience int

const (
	VotingDisabled VotingExperience = iota
	VotingLikes
	VotingRatings
)

var votingExperienceNames = map[VotingExperience]string{
	VotingDisabled: "disabled",
	VotingLikes:    "likes",
	VotingRatings:  "ratings",
}

func (v VotingExperience) String() string {
	if name, ok := votingExperienceNames[v]; ok {
		return name
	}
	return fmt.Sprintf("VotingExperience(%d)", int(v))
}

// ParseVotingExperience parses the textual form stored in settings
func ParseVotingExperience(s string) (VotingExperience, error) {
	for v, name := range votingExperienceNames {
		if name == s {
			return v, nil
		}
	}
	return VotingDisabled, fmt.Errorf("%w: %q", ErrUnknownVotingExperience, s)
}

func (v VotingExperience) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *VotingExperience) UnmarshalText(text []byte) error {
	parsed, err := ParseVotingExperience(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// LoadingState tracks one request lifecycle
type LoadingState int

const (
	Indeterminate LoadingState = iota
	Loading
	Loaded
	Failed
)

func (l LoadingState) String() string {
	switch l {
	case Indeterminate:
		return "indeterminate"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("LoadingState(%d)", int(l))
	}
}

func (l LoadingState) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *LoadingState) UnmarshalText(text []byte) error {
	for _, s := range []LoadingState{Indeterminate, Loading, Loaded, Failed} {
		if s.String() == string(text) {
			*l = s
			return nil
		}
	}
	return fmt.Errorf("unknown loading state %q", text)
}
