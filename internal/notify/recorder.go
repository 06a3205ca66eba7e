package notify

import "sync"

// Failure is a failure captured by a Recorder.
type Failure struct {
	Message string
	Cause   error
}

// Recorder is a Sink that keeps everything it receives in memory.
type Recorder struct {
	mu       sync.Mutex
	failures []Failure
	lines    []string
	opened   []string
}

// Failure implements Sink.
func (r *Recorder) Failure(message string, cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, Failure{Message: message, Cause: cause})
}

// Log implements Sink.
func (r *Recorder) Log(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

// OpenStatusPage implements Sink.
func (r *Recorder) OpenStatusPage(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, url)
}

// Failures returns the recorded failures.
func (r *Recorder) Failures() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Failure(nil), r.failures...)
}

// Lines returns the recorded log lines in arrival order.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Opened returns the status pages that were requested.
func (r *Recorder) Opened() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.opened...)
}
