package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Reasons recorded for a task transition.
const (
	ReasonTasksUpdated   = "tasks_updated"
	ReasonBranchAnalyzed = "branch_analyzed"
	ReasonRedirect       = "redirect"
)

// TaskTransition is one decision the container took after observing the
// background task queue.
type TaskTransition struct {
	ID           string    `json:"id" yaml:"id"`
	ComponentKey string    `json:"componentKey" yaml:"componentKey"`
	TaskID       string    `json:"taskId,omitempty" yaml:"taskId,omitempty"`
	TaskStatus   string    `json:"taskStatus,omitempty" yaml:"taskStatus,omitempty"`
	Reason       string    `json:"reason" yaml:"reason"`
	ObservedAt   time.Time `json:"observedAt" yaml:"observedAt"`
}

// RecordTaskTransition stores tt and returns its id, generating one when
// tt.ID is empty.
func (db *DB) RecordTaskTransition(ctx context.Context, tt TaskTransition) (string, error) {
	if tt.ComponentKey == "" {
		return "", fmt.Errorf("task transition component key is required")
	}
	if tt.ID == "" {
		tt.ID = uuid.NewString()
	}
	if tt.ObservedAt.IsZero() {
		tt.ObservedAt = time.Now()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO task_transitions (id, component_key, task_id, task_status, reason, observed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, tt.ID, tt.ComponentKey, tt.TaskID, tt.TaskStatus, tt.Reason, formatTime(tt.ObservedAt))
	if err != nil {
		return "", fmt.Errorf("failed to record task transition: %w", err)
	}
	return tt.ID, nil
}

// ListTaskTransitions returns the transitions for componentKey, newest
// first. A non-positive limit returns all of them.
func (db *DB) ListTaskTransitions(ctx context.Context, componentKey string, limit int) ([]TaskTransition, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, component_key, task_id, task_status, reason, observed_at
		FROM task_transitions
		WHERE component_key = ?
		ORDER BY observed_at DESC, id
		LIMIT ?
	`, componentKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list task transitions: %w", err)
	}
	defer rows.Close()

	var result []TaskTransition
	for rows.Next() {
		var tt TaskTransition
		var observedAt string
		if err := rows.Scan(&tt.ID, &tt.ComponentKey, &tt.TaskID, &tt.TaskStatus, &tt.Reason, &observedAt); err != nil {
			return nil, err
		}
		if tt.ObservedAt, err = parseTime(observedAt); err != nil {
			return nil, err
		}
		result = append(result, tt)
	}
	return result, rows.Err()
}
