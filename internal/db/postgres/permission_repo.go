package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Blogroll/internal/core/blog"
)

// PermissionRepo stores per-user tools permissions
type PermissionRepo struct {
	db *sql.DB
}

// NewPermissionRepository creates a PostgreSQL-backed permission service
func NewPermissionRepository(db *sql.DB) *PermissionRepo {
	return &PermissionRepo{db: db}
}

// GetPermissions returns the user's tools permission. Users without a row
// may not use the tools.
func (r *PermissionRepo) GetPermissions(ctx context.Context, user blog.User) (*blog.ToolsPermission, error) {
	perm := &blog.ToolsPermission{UserID: user.ID}
	err := r.db.QueryRowContext(ctx,
		`SELECT can_use_tools FROM blog_tools_permissions WHERE user_id = $1`, user.ID,
	).Scan(&perm.CanUseTools)
	if errors.Is(err, sql.ErrNoRows) {
		return perm, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tools permission: %w", err)
	}
	return perm, nil
}

// SetPermission grants or revokes tool access
func (r *PermissionRepo) SetPermission(ctx context.Context, userID int64, canUseTools bool) error {
	query := `
		INSERT INTO blog_tools_permissions (user_id, can_use_tools, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET can_use_tools = EXCLUDED.can_use_tools, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, canUseTools); err != nil {
		return fmt.Errorf("failed to set tools permission: %w", err)
	}
	return nil
}
