// Package branchlike models branches and pull requests and resolves which of
// them a view is looking at.
package branchlike

// Branch is an analyzed code line of a project.
type Branch struct {
	Name         string `json:"name" yaml:"name"`
	IsMain       bool   `json:"isMain" yaml:"isMain"`
	Type         string `json:"type,omitempty" yaml:"type,omitempty"`
	AnalysisDate string `json:"analysisDate,omitempty" yaml:"analysisDate,omitempty"`
}

// PullRequest is an analyzed pull request of a project.
type PullRequest struct {
	Key          string `json:"key" yaml:"key"`
	Title        string `json:"title,omitempty" yaml:"title,omitempty"`
	Branch       string `json:"branch" yaml:"branch"`
	Base         string `json:"base,omitempty" yaml:"base,omitempty"`
	Target       string `json:"target,omitempty" yaml:"target,omitempty"`
	AnalysisDate string `json:"analysisDate,omitempty" yaml:"analysisDate,omitempty"`
}

// BranchLike is either a branch or a pull request. Exactly one field is set.
type BranchLike struct {
	Branch      *Branch
	PullRequest *PullRequest
}

// IsPullRequest reports whether b is a pull request.
func (b *BranchLike) IsPullRequest() bool {
	return b != nil && b.PullRequest != nil
}

// Name returns the branch name, or the pull request key.
func (b *BranchLike) Name() string {
	switch {
	case b == nil:
		return ""
	case b.Branch != nil:
		return b.Branch.Name
	case b.PullRequest != nil:
		return b.PullRequest.Key
	}
	return ""
}

// AnalysisDate returns the date of the latest analysis, empty if none.
func (b *BranchLike) AnalysisDate() string {
	switch {
	case b == nil:
		return ""
	case b.Branch != nil:
		return b.Branch.AnalysisDate
	case b.PullRequest != nil:
		return b.PullRequest.AnalysisDate
	}
	return ""
}

// Query selects a branch-like from a project's branches and pull requests.
type Query struct {
	Branch      string
	PullRequest string
	// FixedInPullRequest selects the branch that pull request targets.
	FixedInPullRequest string
}

// Resolve picks the branch-like designated by q, or nil when it does not exist.
// An empty query designates the main branch.
func Resolve(branches []Branch, pullRequests []PullRequest, q Query) *BranchLike {
	switch {
	case q.FixedInPullRequest != "":
		pr := findPullRequest(pullRequests, q.FixedInPullRequest)
		if pr == nil {
			return nil
		}
		target := pr.Target
		if target == "" {
			target = pr.Base
		}
		return wrapBranch(findBranch(branches, func(b Branch) bool { return b.Name == target }))
	case q.PullRequest != "":
		if pr := findPullRequest(pullRequests, q.PullRequest); pr != nil {
			return &BranchLike{PullRequest: pr}
		}
		return nil
	case q.Branch != "":
		return wrapBranch(findBranch(branches, func(b Branch) bool { return b.Name == q.Branch }))
	default:
		return wrapBranch(findBranch(branches, func(b Branch) bool { return b.IsMain }))
	}
}

func wrapBranch(b *Branch) *BranchLike {
	if b == nil {
		return nil
	}
	return &BranchLike{Branch: b}
}

func findBranch(branches []Branch, match func(Branch) bool) *Branch {
	for i := range branches {
		if match(branches[i]) {
			b := branches[i]
			return &b
		}
	}
	return nil
}

func findPullRequest(prs []PullRequest, key string) *PullRequest {
	for i := range prs {
		if prs[i].Key == key {
			pr := prs[i]
			return &pr
		}
	}
	return nil
}
