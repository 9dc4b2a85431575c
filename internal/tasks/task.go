// Package tasks models the server's background analysis queue and decides,
// after each poll, whether the locally held component is stale.
package tasks

// Status is the lifecycle state of a background task.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusSuccess    Status = "SUCCESS"
	StatusFailed     Status = "FAILED"
	StatusCanceled   Status = "CANCELED"
)

// Type is the kind of a background task.
type Type string

const (
	TypeReport      Type = "REPORT"
	TypeAppRefresh  Type = "APP_REFRESH"
	TypeViewRefresh Type = "VIEW_REFRESH"

	TypeProjectExport          Type = "PROJECT_EXPORT"
	TypeProjectImport          Type = "PROJECT_IMPORT"
	TypeAuditPurge             Type = "AUDIT_PURGE"
	TypeIssueSync              Type = "ISSUE_SYNC"
	TypeGitHubAuthProvisioning Type = "GITHUB_AUTH_PROVISIONING"
	TypeGitLabAuthProvisioning Type = "GITLAB_AUTH_PROVISIONING"
)

// Task is a background job as reported by the task queue endpoint.
type Task struct {
	ID            string `json:"id" yaml:"id"`
	Type          Type   `json:"type" yaml:"type"`
	Status        Status `json:"status" yaml:"status"`
	ComponentKey  string `json:"componentKey,omitempty" yaml:"componentKey,omitempty"`
	ComponentName string `json:"componentName,omitempty" yaml:"componentName,omitempty"`
	Branch        string `json:"branch,omitempty" yaml:"branch,omitempty"`
	PullRequest   string `json:"pullRequest,omitempty" yaml:"pullRequest,omitempty"`
	SubmittedAt   string `json:"submittedAt,omitempty" yaml:"submittedAt,omitempty"`
	StartedAt     string `json:"startedAt,omitempty" yaml:"startedAt,omitempty"`
	ExecutedAt    string `json:"executedAt,omitempty" yaml:"executedAt,omitempty"`
	ErrorMessage  string `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
}

// Queue is the payload of the component task endpoint: the most recent
// finished-or-running task and everything still queued.
type Queue struct {
	Current *Task  `json:"current,omitempty"`
	Queue   []Task `json:"queue"`
}

// BranchContext scopes which tasks are relevant to the current view.
// AnyBranch accepts tasks of every branch and pull request, as the
// onboarding flow does while waiting for the first analysis.
type BranchContext struct {
	Branch      string
	PullRequest string
	AnyBranch   bool
}

// Snapshot is the outcome of one status poll.
type Snapshot struct {
	Current    *Task
	InProgress []Task
	IsPending  bool
}
