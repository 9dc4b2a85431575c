package api

import (
	"context"

	"github.com/newhook/sqwatch/internal/tasks"
)

// TasksForComponent fetches the current task and the queue of a component.
func (c *Client) TasksForComponent(ctx context.Context, key string) (tasks.Queue, error) {
	var q tasks.Queue
	if err := c.getJSON(ctx, "/api/ce/component", params("component", key), &q); err != nil {
		return tasks.Queue{}, err
	}
	if q.Queue == nil {
		q.Queue = []tasks.Task{}
	}
	return q, nil
}
