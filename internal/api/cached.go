package api

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/newhook/sqwatch/internal/branchlike"
	"github.com/newhook/sqwatch/internal/querycache"
)

// BranchLister is the part of Client that CachedBranches wraps.
type BranchLister interface {
	Branches(ctx context.Context, project string) ([]branchlike.Branch, error)
	PullRequests(ctx context.Context, project string) ([]branchlike.PullRequest, error)
}

// CachedBranches answers branch-like queries from a short-lived cache.
type CachedBranches struct {
	lister       BranchLister
	staleTime    time.Duration
	branches     *querycache.Cache[[]branchlike.Branch]
	pullRequests *querycache.Cache[[]branchlike.PullRequest]
}

// NewCachedBranches wraps lister. Lists younger than staleTime are reused.
func NewCachedBranches(lister BranchLister, staleTime time.Duration) *CachedBranches {
	return &CachedBranches{
		lister:       lister,
		staleTime:    staleTime,
		branches:     querycache.New[[]branchlike.Branch]("branches", querycache.DefaultExpiration, querycache.DefaultCleanupInterval),
		pullRequests: querycache.New[[]branchlike.PullRequest]("pull-requests", querycache.DefaultExpiration, querycache.DefaultCleanupInterval),
	}
}

// Branches returns the project's branches, cached.
func (c *CachedBranches) Branches(ctx context.Context, project string) ([]branchlike.Branch, error) {
	return c.branches.Fetch(ctx, querycache.Key("branches", project), c.staleTime,
		func(ctx context.Context) ([]branchlike.Branch, error) {
			return c.lister.Branches(ctx, project)
		})
}

// PullRequests returns the project's pull requests, cached.
func (c *CachedBranches) PullRequests(ctx context.Context, project string) ([]branchlike.PullRequest, error) {
	return c.pullRequests.Fetch(ctx, querycache.Key("pull-requests", project), c.staleTime,
		func(ctx context.Context) ([]branchlike.PullRequest, error) {
			return c.lister.PullRequests(ctx, project)
		})
}

// CurrentBranchLike resolves q against the project's branches and pull
// requests. A nil result with a nil error means the branch-like does not exist.
func (c *CachedBranches) CurrentBranchLike(ctx context.Context, project string, q branchlike.Query) (*branchlike.BranchLike, error) {
	var (
		branches []branchlike.Branch
		prs      []branchlike.PullRequest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		branches, err = c.Branches(gctx, project)
		return err
	})
	g.Go(func() error {
		var err error
		prs, err = c.PullRequests(gctx, project)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return branchlike.Resolve(branches, prs, q), nil
}

// Invalidate forgets everything cached for project.
func (c *CachedBranches) Invalidate(project string) {
	c.branches.Invalidate(querycache.Key("branches", project))
	c.pullRequests.Invalidate(querycache.Key("pull-requests", project))
}
