// Package component models the entities tracked by the analysis server:
// projects, applications, portfolios and the files inside them.
package component

import "strings"

// Qualifier tags the kind of a component.
type Qualifier string

const (
	QualifierProject      Qualifier = "TRK"
	QualifierApplication  Qualifier = "APP"
	QualifierPortfolio    Qualifier = "VW"
	QualifierSubPortfolio Qualifier = "SVW"
	QualifierDirectory    Qualifier = "DIR"
	QualifierFile         Qualifier = "FIL"
	QualifierTestFile     Qualifier = "UTS"
	QualifierModule       Qualifier = "BRC"
)

// Qualifiers lists every known qualifier.
var Qualifiers = []Qualifier{
	QualifierProject,
	QualifierApplication,
	QualifierPortfolio,
	QualifierSubPortfolio,
	QualifierDirectory,
	QualifierFile,
	QualifierTestFile,
	QualifierModule,
}

func IsPortfolioLike(q Qualifier) bool {
	return q == QualifierPortfolio || q == QualifierSubPortfolio
}

func IsApplication(q Qualifier) bool { return q == QualifierApplication }

func IsProject(q Qualifier) bool { return q == QualifierProject }

// IsView is true for portfolios, sub-portfolios and applications.
func IsView(q Qualifier) bool {
	return IsPortfolioLike(q) || IsApplication(q)
}

func IsFile(q Qualifier) bool {
	return q == QualifierFile || q == QualifierTestFile
}

// IsJupyterNotebookFile reports whether the component key names a notebook.
func IsJupyterNotebookFile(key string) bool {
	return strings.HasSuffix(key, ".ipynb")
}

// Breadcrumb is one ancestor in a component's navigation path.
type Breadcrumb struct {
	Key       string    `json:"key" yaml:"key"`
	Name      string    `json:"name" yaml:"name"`
	Qualifier Qualifier `json:"qualifier" yaml:"qualifier"`
}

// Configuration carries the permissions the navigation endpoint reports.
type Configuration struct {
	ShowSettings        bool `json:"showSettings,omitempty" yaml:"showSettings,omitempty"`
	ShowHistory         bool `json:"showHistory,omitempty" yaml:"showHistory,omitempty"`
	ShowPermissions     bool `json:"showPermissions,omitempty" yaml:"showPermissions,omitempty"`
	ShowBackgroundTasks bool `json:"showBackgroundTasks,omitempty" yaml:"showBackgroundTasks,omitempty"`
	ShowQualityGates    bool `json:"showQualityGates,omitempty" yaml:"showQualityGates,omitempty"`
}

// Component is a project, application, portfolio or file.
// AnalysisDate is empty until the first analysis lands.
type Component struct {
	Key           string         `json:"key" yaml:"key"`
	Name          string         `json:"name" yaml:"name"`
	Qualifier     Qualifier      `json:"qualifier" yaml:"qualifier"`
	AnalysisDate  string         `json:"analysisDate,omitempty" yaml:"analysisDate,omitempty"`
	Branch        string         `json:"branch,omitempty" yaml:"branch,omitempty"`
	PullRequest   string         `json:"pullRequest,omitempty" yaml:"pullRequest,omitempty"`
	Tags          []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
	Breadcrumbs   []Breadcrumb   `json:"breadcrumbs,omitempty" yaml:"breadcrumbs,omitempty"`
	Configuration *Configuration `json:"configuration,omitempty" yaml:"configuration,omitempty"`
}

// HasAnalysis reports whether the component has been analyzed at least once.
func (c *Component) HasAnalysis() bool {
	return c != nil && c.AnalysisDate != ""
}

// Clone returns a deep copy so that views never alias container state.
func (c *Component) Clone() *Component {
	if c == nil {
		return nil
	}
	out := *c
	if c.Tags != nil {
		out.Tags = append([]string{}, c.Tags...)
	}
	out.Breadcrumbs = append([]Breadcrumb(nil), c.Breadcrumbs...)
	if c.Configuration != nil {
		cfg := *c.Configuration
		out.Configuration = &cfg
	}
	return &out
}

// Navigation is the payload of the component navigation endpoint.
type Navigation struct {
	Key           string         `json:"key"`
	Name          string         `json:"name"`
	Breadcrumbs   []Breadcrumb   `json:"breadcrumbs"`
	Configuration *Configuration `json:"configuration,omitempty"`
}

// WithQualifier merges navigation metadata with component detail and tags the
// result with the qualifier of the last breadcrumb. Detail fields win over
// navigation fields, as the detail endpoint is branch-scoped.
func WithQualifier(nav Navigation, detail Component) Component {
	out := detail
	if out.Key == "" {
		out.Key = nav.Key
	}
	if out.Name == "" {
		out.Name = nav.Name
	}
	if len(out.Breadcrumbs) == 0 {
		out.Breadcrumbs = nav.Breadcrumbs
	}
	if out.Configuration == nil {
		out.Configuration = nav.Configuration
	}
	if n := len(out.Breadcrumbs); n > 0 {
		out.Qualifier = out.Breadcrumbs[n-1].Qualifier
	}
	return out
}

// WithTags returns a copy of c whose tags fall back to the project's tags.
// Tags the component carries itself take precedence.
func WithTags(c, project *Component) *Component {
	if c == nil {
		return nil
	}
	out := c.Clone()
	// An explicit empty list is the component's own and is kept.
	if out.Tags == nil && project != nil {
		out.Tags = append([]string(nil), project.Tags...)
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

// Changes is a partial update emitted by a view. Nil fields are left untouched.
type Changes struct {
	Name         *string
	AnalysisDate *string
	Tags         []string
}

// Apply returns a copy of c with the changes applied.
func (c *Component) Apply(ch Changes) *Component {
	out := c.Clone()
	if out == nil {
		return nil
	}
	if ch.Name != nil {
		out.Name = *ch.Name
	}
	if ch.AnalysisDate != nil {
		out.AnalysisDate = *ch.AnalysisDate
	}
	if ch.Tags != nil {
		out.Tags = append([]string(nil), ch.Tags...)
	}
	return out
}
