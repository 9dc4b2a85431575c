package db

import (
	"context"
	"fmt"
	"time"
)

// RecentComponent is one entry of the recently viewed list.
type RecentComponent struct {
	Key         string    `json:"key" yaml:"key"`
	Name        string    `json:"name" yaml:"name"`
	Qualifier   string    `json:"qualifier" yaml:"qualifier"`
	Branch      string    `json:"branch,omitempty" yaml:"branch,omitempty"`
	PullRequest string    `json:"pullRequest,omitempty" yaml:"pullRequest,omitempty"`
	ViewedAt    time.Time `json:"viewedAt" yaml:"viewedAt"`
}

// AddRecentComponent records a view of rc. Viewing a key again moves it to
// the front. The oldest entries beyond the configured cap are evicted.
func (db *DB) AddRecentComponent(ctx context.Context, rc RecentComponent) error {
	if rc.Key == "" {
		return fmt.Errorf("recent component key is required")
	}
	if rc.ViewedAt.IsZero() {
		rc.ViewedAt = time.Now()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recent_components (key, name, qualifier, branch, pull_request, viewed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			qualifier = excluded.qualifier,
			branch = excluded.branch,
			pull_request = excluded.pull_request,
			viewed_at = excluded.viewed_at
	`, rc.Key, rc.Name, rc.Qualifier, rc.Branch, rc.PullRequest, formatTime(rc.ViewedAt))
	if err != nil {
		return fmt.Errorf("failed to add recent component %s: %w", rc.Key, err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM recent_components WHERE key NOT IN (
			SELECT key FROM recent_components ORDER BY viewed_at DESC, key LIMIT ?
		)
	`, db.maxRecent)
	if err != nil {
		return fmt.Errorf("failed to trim recent components: %w", err)
	}
	return tx.Commit()
}

// ListRecentComponents returns up to limit entries, newest first. A
// non-positive limit returns everything kept.
func (db *DB) ListRecentComponents(ctx context.Context, limit int) ([]RecentComponent, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.QueryContext(ctx, `
		SELECT key, name, qualifier, branch, pull_request, viewed_at
		FROM recent_components
		ORDER BY viewed_at DESC, key
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent components: %w", err)
	}
	defer rows.Close()

	var result []RecentComponent
	for rows.Next() {
		var rc RecentComponent
		var viewedAt string
		if err := rows.Scan(&rc.Key, &rc.Name, &rc.Qualifier, &rc.Branch, &rc.PullRequest, &viewedAt); err != nil {
			return nil, err
		}
		if rc.ViewedAt, err = parseTime(viewedAt); err != nil {
			return nil, err
		}
		result = append(result, rc)
	}
	return result, rows.Err()
}
