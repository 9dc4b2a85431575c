package api

import "context"

// QualityGate is the gate a project is evaluated against.
type QualityGate struct {
	Name      string `json:"name" yaml:"name"`
	IsDefault bool   `json:"default" yaml:"isDefault"`
}

type gateForProjectResponse struct {
	QualityGate QualityGate `json:"qualityGate"`
}

// GateForProject returns the quality gate associated with a project.
func (c *Client) GateForProject(ctx context.Context, project string) (QualityGate, error) {
	var resp gateForProjectResponse
	err := c.getJSON(ctx, "/api/qualitygates/get_by_project", params("project", project), &resp)
	return resp.QualityGate, err
}

// Condition is one evaluated quality gate condition.
type Condition struct {
	Status         string `json:"status" yaml:"status"`
	MetricKey      string `json:"metricKey" yaml:"metricKey"`
	Comparator     string `json:"comparator,omitempty" yaml:"comparator,omitempty"`
	ErrorThreshold string `json:"errorThreshold,omitempty" yaml:"errorThreshold,omitempty"`
	ActualValue    string `json:"actualValue,omitempty" yaml:"actualValue,omitempty"`
}

// ProjectStatus is the quality gate verdict of a branch or pull request.
type ProjectStatus struct {
	Status     string      `json:"status" yaml:"status"`
	Conditions []Condition `json:"conditions" yaml:"conditions"`
}

type projectStatusResponse struct {
	ProjectStatus ProjectStatus `json:"projectStatus"`
}

// ProjectStatus returns the quality gate status of a project, scoped by bp.
func (c *Client) ProjectStatus(ctx context.Context, project string, bp BranchParameters) (ProjectStatus, error) {
	var resp projectStatusResponse
	err := c.getJSON(ctx, "/api/qualitygates/project_status",
		params("projectKey", project, "branch", bp.Branch, "pullRequest", bp.PullRequest), &resp)
	return resp.ProjectStatus, err
}

// IsValidLicense reports whether the server's commercial license is valid.
func (c *Client) IsValidLicense(ctx context.Context) (bool, error) {
	var resp struct {
		IsValidLicense bool `json:"isValidLicense"`
	}
	err := c.getJSON(ctx, "/api/editions/is_valid_license", nil, &resp)
	return resp.IsValidLicense, err
}
