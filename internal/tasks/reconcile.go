package tasks

import "github.com/newhook/sqwatch/internal/component"

// ComputeHasUpdatedTasks decides whether a poll observed a change that can
// alter the component's measures.
//
// old is nil before the first poll. Any change to the in-progress set counts.
// A change of current task only counts when the component was never analyzed,
// or was analyzed and had work in progress before this poll.
func ComputeHasUpdatedTasks(old, updated []Task, oldCurrent, newCurrent *Task, c *component.Component) bool {
	progressHasChanged := old != nil &&
		(len(updated) != len(old) || !sameIDs(old, updated))

	currentTaskHasChanged := (oldCurrent == nil && newCurrent != nil) ||
		(oldCurrent != nil && newCurrent != nil && oldCurrent.ID != newCurrent.ID)

	if progressHasChanged {
		return true
	}
	if currentTaskHasChanged && c != nil {
		return c.AnalysisDate == "" || len(old) > 0
	}
	return false
}

// NeedsAnotherCheck reports whether another delayed poll should be scheduled.
// It is always false when hasUpdatedTasks is true: that case refetches the
// component instead.
func NeedsAnotherCheck(hasUpdatedTasks bool, c *component.Component, inProgress []Task) bool {
	return !hasUpdatedTasks && c != nil && (len(inProgress) > 0 || c.AnalysisDate == "")
}

// sameIDs is true when a and b hold the same set of task ids.
func sameIDs(a, b []Task) bool {
	ids := make(map[string]struct{}, len(a))
	for _, t := range a {
		ids[t.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(b))
	for _, t := range b {
		if _, ok := ids[t.ID]; !ok {
			return false
		}
		seen[t.ID] = struct{}{}
	}
	return len(seen) == len(ids)
}

// RedirectCandidate picks the task whose branch the onboarding flow should
// land on: the current task, else the first in-progress one. Nil when there
// is neither.
func RedirectCandidate(current *Task, inProgress []Task) *Task {
	if current != nil {
		return current
	}
	if len(inProgress) > 0 {
		t := inProgress[0]
		return &t
	}
	return nil
}
