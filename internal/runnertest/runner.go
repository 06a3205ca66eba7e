// Package runnertest provides an in-memory stand-in for the remote JMeter
// test runner, for tests and local development.
package runnertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Runner endpoint paths.
const (
	SubmitPath  = "/internal/RunJMeterTest.aspx"
	StatusPath  = "/internal/ViewTestStatus.aspx"
	ListingPath = "/internal/ViewTestList.aspx"
)

// Submission is one accepted run request.
type Submission struct {
	Name      string
	AccountID string
}

// Runner serves the submit, status and listing endpoints.
type Runner struct {
	mu           sync.Mutex
	json         bool
	tests        []string
	submitStatus int
	submissions  []Submission
}

// New creates a Runner that lists tests.
func New(tests ...string) *Runner {
	return &Runner{tests: tests, submitStatus: http.StatusOK}
}

// UseJSON makes the listing answer with a JSON array of {"name": ...}
// objects instead of the comma separated page.
func (r *Runner) UseJSON(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.json = on
}

// FailSubmissions makes every later submission answer with status.
func (r *Runner) FailSubmissions(status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitStatus = status
}

// Submissions returns the accepted submissions in arrival order.
func (r *Runner) Submissions() []Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Submission(nil), r.submissions...)
}

// ServeHTTP implements http.Handler.
func (r *Runner) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	switch req.URL.Path {
	case SubmitPath:
		r.submit(w, req)
	case StatusPath:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<!DOCTYPE html><html><body>Tests are running</body></html>")
	case ListingPath:
		r.list(w)
	case "/health":
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "healthy")
	default:
		http.NotFound(w, req)
	}
}

func (r *Runner) submit(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	name := q.Get("name")

	r.mu.Lock()
	status := r.submitStatus
	if status < 300 && name != "" {
		r.submissions = append(r.submissions, Submission{Name: name, AccountID: q.Get("accountID")})
	}
	r.mu.Unlock()

	if name == "" {
		http.Error(w, "missing test name", http.StatusBadRequest)
		return
	}
	w.WriteHeader(status)
}

func (r *Runner) list(w http.ResponseWriter) {
	r.mu.Lock()
	tests := append([]string(nil), r.tests...)
	asJSON := r.json
	r.mu.Unlock()

	if asJSON {
		entries := make([]map[string]string, len(tests))
		for i, name := range tests {
			entries[i] = map[string]string{"name": name}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(entries)
		return
	}

	pairs := make([]string, 0, len(tests)*2)
	for i, name := range tests {
		pairs = append(pairs, fmt.Sprint(i+1), name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, strings.Join(pairs, ","))
	fmt.Fprint(w, "\r\n<!DOCTYPE html><html><body></body></html>")
}

// NewServer starts an httptest.Server backed by r. The caller closes it.
func NewServer(r *Runner) *httptest.Server {
	return httptest.NewServer(r)
}
