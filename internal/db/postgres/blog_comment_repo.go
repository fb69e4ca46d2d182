package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Blogroll/internal/core/blog"
)

type postgresBlogCommentRepo struct {
	db *sql.DB
}

// NewBlogCommentRepository creates a PostgreSQL-backed comment service
func NewBlogCommentRepository(db *sql.DB) blog.CommentService {
	return &postgresBlogCommentRepo{db: db}
}

// GetComments lists an entry's comments, oldest first
func (r *postgresBlogCommentRepo) GetComments(ctx context.Context, entryID int64) ([]blog.Comment, error) {
	query := `
		SELECT id, entry_id, author_id, author_name, author_mail, text, created_at
		FROM blog_entry_comments
		WHERE entry_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []blog.Comment{}
	for rows.Next() {
		var c blog.Comment
		if err := rows.Scan(
			&c.ID, &c.EntryID,
			&c.Author.ID, &c.Author.FullName, &c.Author.Mail,
			&c.Text, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return result, nil
}

// AddComment stores a sanitized comment and returns it with its id
func (r *postgresBlogCommentRepo) AddComment(ctx context.Context, entryID int64, user blog.User, text string) (*blog.Comment, error) {
	clean, err := blog.NormalizeCommentText(text)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO blog_entry_comments (entry_id, author_id, author_name, author_mail, text, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	comment := &blog.Comment{
		EntryID: entryID,
		Author:  user.Summary(),
		Text:    clean,
	}
	err = r.db.QueryRowContext(ctx, query, entryID, user.ID, user.FullName, user.Mail, clean).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, blog.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}
	return comment, nil
}
