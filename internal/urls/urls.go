// Package urls builds links into the analysis server's web UI.
package urls

import (
	"net/url"
	"strings"

	"github.com/newhook/sqwatch/internal/component"
)

const dashboardPath = "/dashboard"

// build joins base and path and encodes the non-empty query parameters.
// params is a flat list of key/value pairs.
func build(base, path string, params ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(params); i += 2 {
		if params[i+1] != "" {
			q.Set(params[i], params[i+1])
		}
	}
	u := strings.TrimRight(base, "/") + path
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// ProjectURL links to a project dashboard, optionally scoped to a branch.
func ProjectURL(base, project, branch string) string {
	return build(base, dashboardPath, "id", project, "branch", branch)
}

// PullRequestURL links to a pull request dashboard.
func PullRequestURL(base, project, pullRequest string) string {
	return build(base, dashboardPath, "id", project, "pullRequest", pullRequest)
}

func PortfolioURL(base, key string) string {
	return build(base, "/portfolio", "id", key)
}

// BackgroundTasksURL links to the background task list of a component,
// optionally filtered by status and task type.
func BackgroundTasksURL(base, componentKey, status, taskType string) string {
	return build(base, "/project/background_tasks", "id", componentKey, "status", status, "taskType", taskType)
}

// OverviewURL links to the landing page of any component: portfolios get the
// portfolio page, everything else the dashboard.
func OverviewURL(base, key string, q component.Qualifier, branch, pullRequest string) string {
	if component.IsPortfolioLike(q) {
		return PortfolioURL(base, key)
	}
	if pullRequest != "" {
		return PullRequestURL(base, key, pullRequest)
	}
	return ProjectURL(base, key, branch)
}
