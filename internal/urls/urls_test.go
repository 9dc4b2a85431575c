package urls

import (
	"testing"

	"github.com/newhook/sqwatch/internal/component"
	"github.com/stretchr/testify/require"
)

func TestProjectURL(t *testing.T) {
	require.Equal(t, "/dashboard?id=foo", ProjectURL("", "foo", ""))
	require.Equal(t, "https://sq.example.com/dashboard?branch=feature%2Fx&id=foo",
		ProjectURL("https://sq.example.com/", "foo", "feature/x"))
}

func TestPullRequestURL(t *testing.T) {
	require.Equal(t, "/dashboard?id=foo&pullRequest=42", PullRequestURL("", "foo", "42"))
}

func TestPortfolioURL(t *testing.T) {
	require.Equal(t, "http://h/portfolio?id=pf", PortfolioURL("http://h", "pf"))
}

func TestBackgroundTasksURL(t *testing.T) {
	require.Equal(t, "/project/background_tasks?id=foo", BackgroundTasksURL("", "foo", "", ""))
	require.Equal(t, "/project/background_tasks?id=foo&status=FAILED&taskType=REPORT",
		BackgroundTasksURL("", "foo", "FAILED", "REPORT"))
}

func TestOverviewURL(t *testing.T) {
	tests := []struct {
		name        string
		qualifier   component.Qualifier
		branch      string
		pullRequest string
		want        string
	}{
		{name: "portfolio", qualifier: component.QualifierPortfolio, branch: "ignored", want: "/portfolio?id=k"},
		{name: "project main", qualifier: component.QualifierProject, want: "/dashboard?id=k"},
		{name: "project branch", qualifier: component.QualifierProject, branch: "dev", want: "/dashboard?branch=dev&id=k"},
		{name: "pull request wins", qualifier: component.QualifierProject, branch: "dev", pullRequest: "7", want: "/dashboard?id=k&pullRequest=7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, OverviewURL("", "k", tt.qualifier, tt.branch, tt.pullRequest))
		})
	}
}
