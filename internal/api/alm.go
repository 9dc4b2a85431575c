package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// BindingErrors describes why a project's DevOps platform binding is broken.
type BindingErrors struct {
	Scope  string   `json:"scope,omitempty" yaml:"scope,omitempty"`
	Errors []string `json:"errors" yaml:"errors"`
}

// Message joins the individual errors into one line.
func (b *BindingErrors) Message() string {
	if b == nil {
		return ""
	}
	return strings.Join(b.Errors, "; ")
}

type bindingErrorsResponse struct {
	Errors []struct {
		Msg string `json:"msg"`
	} `json:"errors"`
}

// ValidateProjectAlmBinding checks the project's DevOps platform binding.
// It returns nil, nil when the binding is healthy or the project is unbound.
func (c *Client) ValidateProjectAlmBinding(ctx context.Context, project string) (*BindingErrors, error) {
	_, err := c.get(ctx, "/api/alm_settings/validate_binding", params("project", project))
	if err == nil || IsNotFound(err) {
		return nil, nil
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusBadRequest {
		return nil, err
	}

	var resp bindingErrorsResponse
	if jsonErr := json.Unmarshal([]byte(httpErr.Body), &resp); jsonErr != nil || len(resp.Errors) == 0 {
		return &BindingErrors{Scope: "project", Errors: []string{strings.TrimSpace(httpErr.Body)}}, nil
	}
	out := &BindingErrors{Scope: "project"}
	for _, e := range resp.Errors {
		out.Errors = append(out.Errors, e.Msg)
	}
	return out, nil
}
