package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"Blogroll/internal/core/blog"

	"github.com/lib/pq"
)

type postgresEntryRepo struct {
	db *sql.DB
}

// NewEntryRepository creates a PostgreSQL-backed entry service
func NewEntryRepository(db *sql.DB) blog.EntryService {
	return &postgresEntryRepo{db: db}
}

const entryColumns = `
	e.id, e.list_id, e.title, e.body, e.teaser_body, e.published_at,
	e.categories, e.tags,
	e.author_id, e.author_name, e.author_mail,
	e.publisher_id, e.publisher_name, e.publisher_mail,
	(SELECT COUNT(*) FROM blog_entry_comments c WHERE c.entry_id = e.id)
`

// GetEntries loads the requested entries in the order the ids were given.
// Unknown ids are skipped.
func (r *postgresEntryRepo) GetEntries(ctx context.Context, ids []int64) ([]*blog.Entry, error) {
	if len(ids) == 0 {
		return []*blog.Entry{}, nil
	}

	query := `SELECT ` + entryColumns + `
		FROM blog_entries e
		WHERE e.id = ANY($1)
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[int64]*blog.Entry, len(ids))
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		byID[entry.ID] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	if err := r.loadVotes(ctx, byID); err != nil {
		return nil, err
	}

	result := make([]*blog.Entry, 0, len(byID))
	seen := make(map[int64]bool, len(byID))
	for _, id := range ids {
		if entry, ok := byID[id]; ok && !seen[id] {
			seen[id] = true
			result = append(result, entry)
		}
	}
	return result, nil
}

// GetEntry loads a single entry
func (r *postgresEntryRepo) GetEntry(ctx context.Context, id int64) (*blog.Entry, error) {
	query := `SELECT ` + entryColumns + `
		FROM blog_entries e
		WHERE e.id = $1
	`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, blog.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadVotes(ctx, map[int64]*blog.Entry{id: entry}); err != nil {
		return nil, err
	}
	return entry, nil
}

// LikeEntry records a like. Liking twice is a no-op.
func (r *postgresEntryRepo) LikeEntry(ctx context.Context, entryID int64, user blog.User) error {
	query := `
		INSERT INTO blog_entry_likes (entry_id, user_id, user_name, user_mail, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (entry_id, user_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, entryID, user.ID, user.FullName, user.Mail); err != nil {
		if isForeignKeyViolation(err) {
			return blog.ErrEntryNotFound
		}
		return fmt.Errorf("failed to like entry: %w", err)
	}
	return nil
}

// UnlikeEntry removes a like. Removing a missing like is a no-op.
func (r *postgresEntryRepo) UnlikeEntry(ctx context.Context, entryID int64, user blog.User) error {
	query := `DELETE FROM blog_entry_likes WHERE entry_id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, entryID, user.ID); err != nil {
		return fmt.Errorf("failed to unlike entry: %w", err)
	}
	return nil
}

// RateEntry stores the user's rating, replacing an earlier one
func (r *postgresEntryRepo) RateEntry(ctx context.Context, entryID int64, user blog.User, rating int) error {
	if err := blog.ValidateRating(rating); err != nil {
		return err
	}

	query := `
		INSERT INTO blog_entry_ratings (entry_id, user_id, user_name, user_mail, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (entry_id, user_id) DO UPDATE
		SET rating = EXCLUDED.rating,
		    user_name = EXCLUDED.user_name,
		    user_mail = EXCLUDED.user_mail,
		    updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, entryID, user.ID, user.FullName, user.Mail, rating); err != nil {
		if isForeignKeyViolation(err) {
			return blog.ErrEntryNotFound
		}
		if strings.Contains(err.Error(), "chk_rating_range") {
			return blog.ErrInvalidRating
		}
		return fmt.Errorf("failed to rate entry: %w", err)
	}
	return nil
}

// loadVotes fills likes and ratings for the given entries
func (r *postgresEntryRepo) loadVotes(ctx context.Context, entries map[int64]*blog.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}

	likes, err := r.db.QueryContext(ctx, `
		SELECT entry_id, user_id, user_name, user_mail
		FROM blog_entry_likes
		WHERE entry_id = ANY($1)
		ORDER BY created_at, user_id
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query likes: %w", err)
	}
	defer func() { _ = likes.Close() }()

	for likes.Next() {
		var entryID int64
		var liker blog.UserSummary
		if err := likes.Scan(&entryID, &liker.ID, &liker.FullName, &liker.Mail); err != nil {
			return fmt.Errorf("failed to scan like: %w", err)
		}
		e := entries[entryID]
		e.LikedByUserIDs = append(e.LikedByUserIDs, liker.ID)
		e.LikedBy = append(e.LikedBy, liker)
		e.LikesCount++
	}
	if err := likes.Err(); err != nil {
		return fmt.Errorf("error iterating likes: %w", err)
	}

	ratings, err := r.db.QueryContext(ctx, `
		SELECT entry_id, user_id, user_name, user_mail, rating
		FROM blog_entry_ratings
		WHERE entry_id = ANY($1)
		ORDER BY created_at, user_id
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query ratings: %w", err)
	}
	defer func() { _ = ratings.Close() }()

	sums := make(map[int64]int, len(entries))
	for ratings.Next() {
		var entryID int64
		var rater blog.UserSummary
		var rating int
		if err := ratings.Scan(&entryID, &rater.ID, &rater.FullName, &rater.Mail, &rating); err != nil {
			return fmt.Errorf("failed to scan rating: %w", err)
		}
		e := entries[entryID]
		e.Ratings[rater.ID] = rating
		e.RatedBy = append(e.RatedBy, rater)
		e.RatingCount++
		sums[entryID] += rating
	}
	if err := ratings.Err(); err != nil {
		return fmt.Errorf("error iterating ratings: %w", err)
	}

	for id, sum := range sums {
		e := entries[id]
		e.AverageRating = float64(sum) / float64(e.RatingCount)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*blog.Entry, error) {
	var (
		entry      blog.Entry
		categories pq.StringArray
		tags       pq.StringArray
	)

	err := row.Scan(
		&entry.ID, &entry.ListID, &entry.Title, &entry.Body, &entry.TeaserBody, &entry.PublishedDate,
		&categories, &tags,
		&entry.Author.ID, &entry.Author.FullName, &entry.Author.Mail,
		&entry.Publisher.ID, &entry.Publisher.FullName, &entry.Publisher.Mail,
		&entry.NumberOfComments,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}

	entry.Categories = []string(categories)
	entry.Tags = []string(tags)
	entry.Ratings = map[int64]int{}
	entry.LikedByUserIDs = []int64{}
	entry.LikedBy = []blog.UserSummary{}
	entry.RatedBy = []blog.UserSummary{}
	return &entry, nil
}

// isForeignKeyViolation reports a missing parent row (SQLSTATE 23503)
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
