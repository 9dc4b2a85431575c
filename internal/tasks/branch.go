package tasks

// IsSameBranch reports whether a task belongs to the given branch context.
// With neither branch nor pull request the task must target the main branch;
// otherwise the pull request takes precedence over the branch name.
func IsSameBranch(t Task, branch, pullRequest string) bool {
	if branch == "" && pullRequest == "" {
		return t.Branch == "" && t.PullRequest == ""
	}
	if pullRequest != "" {
		return pullRequest == t.PullRequest
	}
	return branch == t.Branch
}

// IsReportRelated is true for task types whose completion publishes new
// analysis data.
func IsReportRelated(t Task) bool {
	switch t.Type {
	case TypeReport, TypeAppRefresh, TypeViewRefresh:
		return true
	}
	return false
}

// CurrentTask filters the queue's current task down to one the view should
// show. Failed report tasks are always shown whatever their branch.
func CurrentTask(current *Task, bc BranchContext) *Task {
	if current == nil || !IsReportRelated(*current) {
		return nil
	}
	if current.Status == StatusFailed || bc.AnyBranch || IsSameBranch(*current, bc.Branch, bc.PullRequest) {
		return current
	}
	return nil
}

// ReportRelatedPendingTasks keeps the queued report tasks of the branch
// context, in queue order.
func ReportRelatedPendingTasks(queue []Task, bc BranchContext) []Task {
	out := []Task{}
	for _, t := range queue {
		if IsReportRelated(t) && (bc.AnyBranch || IsSameBranch(t, bc.Branch, bc.PullRequest)) {
			out = append(out, t)
		}
	}
	return out
}

// InProgressTasks keeps the tasks currently being processed, in order.
func InProgressTasks(ts []Task) []Task {
	out := []Task{}
	for _, t := range ts {
		if t.Status == StatusInProgress {
			out = append(out, t)
		}
	}
	return out
}

// AnyPending reports whether any task is still waiting to be picked up.
func AnyPending(ts []Task) bool {
	for _, t := range ts {
		if t.Status == StatusPending {
			return true
		}
	}
	return false
}

// Partition turns a raw queue into the snapshot the container keeps.
func Partition(q Queue, bc BranchContext) Snapshot {
	pending := ReportRelatedPendingTasks(q.Queue, bc)
	return Snapshot{
		Current:    CurrentTask(q.Current, bc),
		InProgress: InProgressTasks(pending),
		IsPending:  AnyPending(pending),
	}
}
