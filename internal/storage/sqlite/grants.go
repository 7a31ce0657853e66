package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sandevgo/tuskcmd/internal/core"
)

type GrantsRepo struct {
	db *sql.DB
}

func NewGrantsRepo(db *sql.DB) *GrantsRepo {
	return &GrantsRepo{db: db}
}

func (r *GrantsRepo) AddGrant(ctx context.Context, g core.Grant) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}

	query := `INSERT OR IGNORE INTO grants (subject, permission, granted_by, created_at) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, g.Subject, g.Permission, g.GrantedBy, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert grant: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return core.ErrGrantExists
	}
	return nil
}

func (r *GrantsRepo) RemoveGrant(ctx context.Context, subject, permission string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM grants WHERE subject = ? AND permission = ?`, subject, permission)
	if err != nil {
		return fmt.Errorf("failed to delete grant: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return core.ErrGrantNotFound
	}
	return nil
}

func (r *GrantsRepo) ListGrants(ctx context.Context, subject string) ([]core.Grant, error) {
	query := `SELECT subject, permission, granted_by, created_at FROM grants`
	var args []any
	if subject != "" {
		query += ` WHERE subject = ?`
		args = append(args, subject)
	}
	query += ` ORDER BY subject, permission`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query grants: %w", err)
	}
	defer rows.Close()

	var grants []core.Grant
	for rows.Next() {
		var g core.Grant
		if err := rows.Scan(&g.Subject, &g.Permission, &g.GrantedBy, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan grant: %w", err)
		}
		grants = append(grants, g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return grants, nil
}
