package api

import (
	"context"

	"github.com/newhook/sqwatch/internal/branchlike"
)

type branchesResponse struct {
	Branches []branchlike.Branch `json:"branches"`
}

// Branches lists the analyzed branches of a project.
func (c *Client) Branches(ctx context.Context, project string) ([]branchlike.Branch, error) {
	var resp branchesResponse
	if err := c.getJSON(ctx, "/api/project_branches/list", params("project", project), &resp); err != nil {
		return nil, err
	}
	return resp.Branches, nil
}

type pullRequestsResponse struct {
	PullRequests []branchlike.PullRequest `json:"pullRequests"`
}

// PullRequests lists the analyzed pull requests of a project.
func (c *Client) PullRequests(ctx context.Context, project string) ([]branchlike.PullRequest, error) {
	var resp pullRequestsResponse
	if err := c.getJSON(ctx, "/api/project_pull_requests/list", params("project", project), &resp); err != nil {
		return nil, err
	}
	return resp.PullRequests, nil
}
