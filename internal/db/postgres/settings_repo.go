package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Blogroll/internal/core/blog"
)

const votingExperienceKey = "voting_experience"

// SettingsRepo stores blog-wide settings
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepository creates a PostgreSQL-backed voting service
func NewSettingsRepository(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// GetVotingExperience reads the blog-wide voting mode. A missing row means
// voting is disabled.
func (r *SettingsRepo) GetVotingExperience(ctx context.Context) (blog.VotingExperience, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM blog_settings WHERE key = $1`, votingExperienceKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return blog.VotingDisabled, nil
	}
	if err != nil {
		return blog.VotingDisabled, fmt.Errorf("failed to get voting experience: %w", err)
	}
	return blog.ParseVotingExperience(value)
}

// SetVotingExperience stores the blog-wide voting mode
func (r *SettingsRepo) SetVotingExperience(ctx context.Context, v blog.VotingExperience) error {
	query := `
		INSERT INTO blog_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, votingExperienceKey, v.String()); err != nil {
		return fmt.Errorf("failed to set voting experience: %w", err)
	}
	return nil
}
