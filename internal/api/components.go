package api

import (
	"context"

	"github.com/newhook/sqwatch/internal/component"
)

// BranchParameters scopes a request to a branch or pull request.
// Both empty means the main branch.
type BranchParameters struct {
	Branch      string
	PullRequest string
}

// ComponentNavigation fetches breadcrumbs and permissions for a component.
func (c *Client) ComponentNavigation(ctx context.Context, key string, bp BranchParameters) (component.Navigation, error) {
	var nav component.Navigation
	err := c.getJSON(ctx, "/api/navigation/component",
		params("component", key, "branch", bp.Branch, "pullRequest", bp.PullRequest), &nav)
	return nav, err
}

type componentShowResponse struct {
	Component component.Component `json:"component"`
}

// ComponentData fetches a component's detail, scoped by bp.
func (c *Client) ComponentData(ctx context.Context, key string, bp BranchParameters) (component.Component, error) {
	var resp componentShowResponse
	err := c.getJSON(ctx, "/api/components/show",
		params("component", key, "branch", bp.Branch, "pullRequest", bp.PullRequest), &resp)
	return resp.Component, err
}
