package container

import (
	"strings"

	"github.com/newhook/sqwatch/internal/api"
	"github.com/newhook/sqwatch/internal/branchlike"
	"github.com/newhook/sqwatch/internal/component"
	"github.com/newhook/sqwatch/internal/tasks"
)

// Phase is the polling state of a container.
type Phase int

const (
	// PhaseIdle means no poll is scheduled and no fetch is in flight.
	PhaseIdle Phase = iota
	// PhasePolling means a status poll is scheduled or in flight.
	PhasePolling
	// PhaseRefetching means a component fetch is in flight.
	PhaseRefetching
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePolling:
		return "polling"
	case PhaseRefetching:
		return "refetching"
	}
	return "unknown"
}

// EventKind says what caused an event.
type EventKind int

const (
	Mounted EventKind = iota
	ComponentLoaded
	StatusUpdated
	BindingErrorsLoaded
	BranchResolved
	ComponentChanged
	PollStarted
	RefreshStarted
	Redirected
)

func (k EventKind) String() string {
	switch k {
	case Mounted:
		return "mounted"
	case ComponentLoaded:
		return "component-loaded"
	case StatusUpdated:
		return "status-updated"
	case BindingErrorsLoaded:
		return "binding-errors-loaded"
	case BranchResolved:
		return "branch-resolved"
	case ComponentChanged:
		return "component-changed"
	case PollStarted:
		return "poll-started"
	case RefreshStarted:
		return "refresh-started"
	case Redirected:
		return "redirected"
	}
	return "unknown"
}

// Event is published on every state change. URL is set for Redirected.
type Event struct {
	Kind EventKind
	View View
	URL  string
}

// View is a read-only snapshot of a container's state. It shares no memory
// with the container.
type View struct {
	Key string
	// Component carries the project's tags when it has none of its own.
	Component        *component.Component
	ProjectComponent *component.Component
	CurrentTask      *tasks.Task
	InProgress       []tasks.Task
	IsInProgress     bool
	IsPending        bool
	BindingErrors    *api.BindingErrors
	BranchLike       *branchlike.BranchLike

	Loading           bool
	NotFound          bool
	NotFoundPortfolio bool
	// Forbidden is set when the last component fetch was refused.
	Forbidden bool
	Phase     Phase
	// PollScheduled is set while a delayed status poll is pending.
	PollScheduled bool
	// Polled is set once a task status poll has completed, successfully or not.
	Polled bool
	// Settled is set when nothing is scheduled or in flight.
	Settled bool
}

func (c *Container) view() View {
	st := &c.st
	v := View{
		Key:              c.opts.Key,
		Component:        component.WithTags(st.component, st.project),
		ProjectComponent: st.project.Clone(),
		CurrentTask:      cloneTask(st.current),
		IsInProgress:     len(st.inProgress) > 0,
		IsPending:        st.isPending,
		BindingErrors:    cloneBindingErrors(st.bindingErrors),
		BranchLike:       cloneBranchLike(st.branchLike),
		Loading:          st.loading,
		Forbidden:        st.forbidden,
		Phase:            c.phase(),
		PollScheduled:    st.timer != nil,
		Polled:           st.polled,
	}
	if st.inProgress != nil {
		v.InProgress = append([]tasks.Task{}, st.inProgress...)
	}

	branchMissing := c.opts.FixedInPullRequest != "" && st.branchFetched && !st.branchInFlight && st.branchLike == nil
	v.NotFound = !st.loading && (st.component == nil || branchMissing)
	v.NotFoundPortfolio = v.NotFound && strings.Contains(c.opts.Path, "portfolio")
	v.Settled = !st.loading && v.Phase == PhaseIdle && !st.branchInFlight && (v.NotFound || st.polled)
	return v
}

// clone returns a copy of v that shares no memory with it.
func (v View) clone() View {
	out := v
	out.Component = v.Component.Clone()
	out.ProjectComponent = v.ProjectComponent.Clone()
	out.CurrentTask = cloneTask(v.CurrentTask)
	if v.InProgress != nil {
		out.InProgress = append([]tasks.Task{}, v.InProgress...)
	}
	out.BindingErrors = cloneBindingErrors(v.BindingErrors)
	out.BranchLike = cloneBranchLike(v.BranchLike)
	return out
}

func (c *Container) phase() Phase {
	switch {
	case c.st.componentInFlight:
		return PhaseRefetching
	case c.st.timer != nil || c.st.statusInFlight:
		return PhasePolling
	}
	return PhaseIdle
}

func cloneTask(t *tasks.Task) *tasks.Task {
	if t == nil {
		return nil
	}
	out := *t
	return &out
}

func cloneBindingErrors(b *api.BindingErrors) *api.BindingErrors {
	if b == nil {
		return nil
	}
	return &api.BindingErrors{Scope: b.Scope, Errors: append([]string(nil), b.Errors...)}
}

func cloneBranchLike(b *branchlike.BranchLike) *branchlike.BranchLike {
	if b == nil {
		return nil
	}
	out := &branchlike.BranchLike{}
	if b.Branch != nil {
		br := *b.Branch
		out.Branch = &br
	}
	if b.PullRequest != nil {
		pr := *b.PullRequest
		out.PullRequest = &pr
	}
	return out
}
