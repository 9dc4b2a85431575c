package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/newhook/sqwatch/internal/api"
	"github.com/newhook/sqwatch/internal/container"
	"github.com/newhook/sqwatch/internal/tasks"
)

var (
	errForbidden = &api.HTTPError{StatusCode: http.StatusForbidden}
	errNotFound  = &api.HTTPError{StatusCode: http.StatusNotFound}
)

// formatEvent renders one container event as a single line.
func formatEvent(ev container.Event) string {
	return fmt.Sprintf("%-21s %s", ev.Kind, describeEvent(ev))
}

func describeEvent(ev container.Event) string {
	v := ev.View
	switch ev.Kind {
	case container.Mounted:
		return v.Key
	case container.ComponentLoaded, container.ComponentChanged:
		return describeComponent(v)
	case container.StatusUpdated:
		return describeStatus(v)
	case container.BindingErrorsLoaded:
		if v.BindingErrors == nil {
			return "binding ok"
		}
		return "binding errors: " + v.BindingErrors.Message()
	case container.BranchResolved:
		if v.BranchLike == nil {
			return "branch not found"
		}
		date := v.BranchLike.AnalysisDate()
		if date == "" {
			date = "never"
		}
		return fmt.Sprintf("%s analyzed %s", v.BranchLike.Name(), date)
	case container.PollStarted:
		return "checking background tasks"
	case container.RefreshStarted:
		return "reloading"
	case container.Redirected:
		return ev.URL
	}
	return ""
}

func describeComponent(v container.View) string {
	switch {
	case v.Forbidden:
		return "not authorized"
	case v.NotFoundPortfolio:
		return "portfolio not found"
	case v.NotFound:
		return "component not found"
	case v.Component == nil:
		return "loading"
	}
	c := v.Component
	date := c.AnalysisDate
	if date == "" {
		date = "never"
	}
	s := fmt.Sprintf("%s (%s) analyzed %s", c.Name, c.Qualifier, date)
	if len(c.Tags) > 0 {
		s += " [" + strings.Join(c.Tags, ",") + "]"
	}
	return s
}

func describeStatus(v container.View) string {
	var state string
	switch {
	case v.IsInProgress:
		state = fmt.Sprintf("in progress (%d)", len(v.InProgress))
	case v.IsPending:
		state = "pending"
	default:
		state = "idle"
	}
	if v.CurrentTask != nil {
		state += fmt.Sprintf(", last %s", describeTask(*v.CurrentTask))
	}
	if v.Phase == container.PhaseRefetching {
		state += "; new analysis, reloading"
	}
	return state
}

func describeTask(t tasks.Task) string {
	s := fmt.Sprintf("%s %s", t.ID, t.Status)
	if t.ErrorMessage != "" {
		s += ": " + t.ErrorMessage
	}
	return s
}
