package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/newhook/sqwatch/internal/api"
	"github.com/newhook/sqwatch/internal/branchlike"
	"github.com/newhook/sqwatch/internal/component"
	"github.com/newhook/sqwatch/internal/container"
	"github.com/newhook/sqwatch/internal/db"
	"github.com/newhook/sqwatch/internal/tasks"
	"github.com/stretchr/testify/require"
)

// PollInterval is the poll interval of containers built by the harness.
const PollInterval = 20 * time.Millisecond

// TestHarness provides a fake analysis server, a client pointed at it and an
// in-memory history database.
type TestHarness struct {
	T      *testing.T
	DB     *db.DB
	Server *httptest.Server
	Client *api.Client

	mu            sync.Mutex
	components    map[string]component.Component
	queues        map[string]tasks.Queue
	branches      map[string][]branchlike.Branch
	pullRequests  map[string][]branchlike.PullRequest
	bindingErrors map[string][]string
	statusCodes   map[string]int
	gates         map[string]api.QualityGate
	gateStatus    map[string]api.ProjectStatus
	requests      map[string]int
}

// NewTestHarness starts the fake server and opens an in-memory database.
func NewTestHarness(t *testing.T) *TestHarness {
	t.Helper()

	testDB, err := db.OpenPath(context.Background(), ":memory:")
	require.NoError(t, err, "failed to open in-memory database")

	h := &TestHarness{
		T:             t,
		DB:            testDB,
		components:    make(map[string]component.Component),
		queues:        make(map[string]tasks.Queue),
		branches:      make(map[string][]branchlike.Branch),
		pullRequests:  make(map[string][]branchlike.PullRequest),
		bindingErrors: make(map[string][]string),
		statusCodes:   make(map[string]int),
		gates:         make(map[string]api.QualityGate),
		gateStatus:    make(map[string]api.ProjectStatus),
		requests:      make(map[string]int),
	}
	h.Server = httptest.NewServer(h.routes())

	h.Client, err = api.NewClient(h.Server.URL, "test-token", time.Second)
	require.NoError(t, err)
	return h
}

// Cleanup releases resources used by the harness.
// Should be called with defer after NewTestHarness.
func (h *TestHarness) Cleanup() {
	h.Server.Close()
	if h.DB != nil {
		if err := h.DB.Close(); err != nil {
			h.T.Logf("warning: failed to close database: %v", err)
		}
	}
}

// AddComponent registers c. Its qualifier is served as the last breadcrumb.
func (h *TestHarness) AddComponent(c component.Component) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.components[c.Key] = c
}

// AddProject registers a project. An empty analysisDate means never analyzed.
func (h *TestHarness) AddProject(key, name, analysisDate string) {
	h.AddComponent(component.Component{
		Key:          key,
		Name:         name,
		Qualifier:    component.QualifierProject,
		AnalysisDate: analysisDate,
	})
}

// SetAnalysisDate changes the analysis date served for key.
func (h *TestHarness) SetAnalysisDate(key, date string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.components[key]
	c.AnalysisDate = date
	h.components[key] = c
}

// SetQueue replaces the background task queue of key.
func (h *TestHarness) SetQueue(key string, q tasks.Queue) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queues[key] = q
}

// SetBranches replaces the branches of project.
func (h *TestHarness) SetBranches(project string, branches ...branchlike.Branch) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.branches[project] = branches
}

// SetPullRequests replaces the pull requests of project.
func (h *TestHarness) SetPullRequests(project string, prs ...branchlike.PullRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pullRequests[project] = prs
}

// SetBindingErrors makes the binding validation of project fail with msgs.
func (h *TestHarness) SetBindingErrors(project string, msgs ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bindingErrors[project] = msgs
}

// SetStatusCode forces the component endpoints to answer code for key.
// Zero restores normal answers.
func (h *TestHarness) SetStatusCode(key string, code int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statusCodes[key] = code
}

// SetGate sets the quality gate and its verdict for project.
func (h *TestHarness) SetGate(project string, gate api.QualityGate, status api.ProjectStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gates[project] = gate
	h.gateStatus[project] = status
}

// Requests returns how many requests path received.
func (h *TestHarness) Requests(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.requests[path]
}

// ContainerOptions wires a container for key to the harness.
func (h *TestHarness) ContainerOptions(key string) container.Options {
	return container.Options{
		Key:           key,
		BranchSupport: true,
		PollInterval:  PollInterval,
		BaseURL:       h.Server.URL,
		Fetcher:       h.Client,
		Branches:      api.NewCachedBranches(h.Client, 0),
		Store:         h.DB,
	}
}

func (h *TestHarness) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/navigation/component", h.componentHandler(func(w http.ResponseWriter, c component.Component) {
		writeJSON(w, component.Navigation{
			Key:  c.Key,
			Name: c.Name,
			Breadcrumbs: []component.Breadcrumb{
				{Key: c.Key, Name: c.Name, Qualifier: c.Qualifier},
			},
		})
	}))
	mux.HandleFunc("/api/components/show", h.componentHandler(func(w http.ResponseWriter, c component.Component) {
		writeJSON(w, map[string]any{"component": c})
	}))
	mux.HandleFunc("/api/ce/component", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		q := h.queues[r.URL.Query().Get("component")]
		h.mu.Unlock()
		if q.Queue == nil {
			q.Queue = []tasks.Task{}
		}
		writeJSON(w, q)
	})
	mux.HandleFunc("/api/alm_settings/validate_binding", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		msgs := h.bindingErrors[r.URL.Query().Get("project")]
		h.mu.Unlock()
		if len(msgs) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		type msg struct {
			Msg string `json:"msg"`
		}
		var errs []msg
		for _, m := range msgs {
			errs = append(errs, msg{Msg: m})
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"errors": errs})
	})
	mux.HandleFunc("/api/project_branches/list", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		bs := h.branches[r.URL.Query().Get("project")]
		h.mu.Unlock()
		writeJSON(w, map[string]any{"branches": nonNil(bs)})
	})
	mux.HandleFunc("/api/project_pull_requests/list", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		prs := h.pullRequests[r.URL.Query().Get("project")]
		h.mu.Unlock()
		writeJSON(w, map[string]any{"pullRequests": nonNil(prs)})
	})
	mux.HandleFunc("/api/qualitygates/get_by_project", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		gate, ok := h.gates[r.URL.Query().Get("project")]
		h.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, map[string]any{"qualityGate": gate})
	})
	mux.HandleFunc("/api/qualitygates/project_status", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		status, ok := h.gateStatus[r.URL.Query().Get("projectKey")]
		h.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, map[string]any{"projectStatus": status})
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.requests[r.URL.Path]++
		h.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
}

// componentHandler looks up the requested component, scopes it to the
// requested branch or pull request and hands it to write.
func (h *TestHarness) componentHandler(write func(http.ResponseWriter, component.Component)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		key := query.Get("component")

		h.mu.Lock()
		c, ok := h.components[key]
		code := h.statusCodes[key]
		h.mu.Unlock()

		switch {
		case code != 0:
			http.Error(w, `{"errors":[{"msg":"forced"}]}`, code)
			return
		case !ok:
			http.Error(w, `{"errors":[{"msg":"Component not found"}]}`, http.StatusNotFound)
			return
		}
		c.Branch = query.Get("branch")
		c.PullRequest = query.Get("pullRequest")
		write(w, c)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
