// Package metrics provides a simple Prometheus-compatible metrics endpoint.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds runtime counters for the workflow engine
type Metrics struct {
	// Task lifecycle
	TaskCreations      atomic.Int64
	TaskCreationErrors atomic.Int64
	Transitions        atomic.Int64
	TransitionErrors   atomic.Int64
	NotesAppended      atomic.Int64

	// Authorization and concurrency
	ForbiddenAttempts atomic.Int64
	Conflicts         atomic.Int64

	// Notification bus
	NotifyPublishes atomic.Int64
	NotifyFailures  atomic.Int64

	startTime time.Time
}

var (
	global     *Metrics
	globalOnce sync.Once
)

// Global returns the global metrics instance
func Global() *Metrics {
	globalOnce.Do(func() {
		global = &Metrics{
			startTime: time.Now(),
		}
	})
	return global
}

// RecordCreate records a task creation attempt
func (m *Metrics) RecordCreate(success bool) {
	m.TaskCreations.Add(1)
	if !success {
		m.TaskCreationErrors.Add(1)
	}
}

// RecordTransition records a state-transition commit attempt
func (m *Metrics) RecordTransition(success bool) {
	m.Transitions.Add(1)
	if !success {
		m.TransitionErrors.Add(1)
	}
}

// RecordNote records an appended note entry
func (m *Metrics) RecordNote() {
	m.NotesAppended.Add(1)
}

// RecordForbidden records a rejected authorization attempt
func (m *Metrics) RecordForbidden() {
	m.ForbiddenAttempts.Add(1)
}

// RecordConflict records a lost concurrent-update race
func (m *Metrics) RecordConflict() {
	m.Conflicts.Add(1)
}

// RecordNotify records a post-commit notification attempt
func (m *Metrics) RecordNotify(success bool) {
	m.NotifyPublishes.Add(1)
	if !success {
		m.NotifyFailures.Add(1)
	}
}

// Handler returns an HTTP handler for /metrics endpoint
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")

		uptime := time.Since(m.startTime).Seconds()

		fmt.Fprintf(w, "# HELP tms_uptime_seconds Time since TMS started\n")
		fmt.Fprintf(w, "# TYPE tms_uptime_seconds gauge\n")
		fmt.Fprintf(w, "tms_uptime_seconds %.2f\n\n", uptime)

		fmt.Fprintf(w, "# HELP tms_task_creations_total Total task creation attempts\n")
		fmt.Fprintf(w, "# TYPE tms_task_creations_total counter\n")
		fmt.Fprintf(w, "tms_task_creations_total %d\n\n", m.TaskCreations.Load())

		fmt.Fprintf(w, "# HELP tms_task_creation_errors_total Total task creation failures\n")
		fmt.Fprintf(w, "# TYPE tms_task_creation_errors_total counter\n")
		fmt.Fprintf(w, "tms_task_creation_errors_total %d\n\n", m.TaskCreationErrors.Load())

		fmt.Fprintf(w, "# HELP tms_transitions_total Total state-transition commits\n")
		fmt.Fprintf(w, "# TYPE tms_transitions_total counter\n")
		fmt.Fprintf(w, "tms_transitions_total %d\n\n", m.Transitions.Load())

		fmt.Fprintf(w, "# HELP tms_transition_errors_total Total failed transition commits\n")
		fmt.Fprintf(w, "# TYPE tms_transition_errors_total counter\n")
		fmt.Fprintf(w, "tms_transition_errors_total %d\n\n", m.TransitionErrors.Load())

		fmt.Fprintf(w, "# HELP tms_notes_appended_total Total note entries appended\n")
		fmt.Fprintf(w, "# TYPE tms_notes_appended_total counter\n")
		fmt.Fprintf(w, "tms_notes_appended_total %d\n\n", m.NotesAppended.Load())

		fmt.Fprintf(w, "# HELP tms_forbidden_attempts_total Total rejected authorization attempts\n")
		fmt.Fprintf(w, "# TYPE tms_forbidden_attempts_total counter\n")
		fmt.Fprintf(w, "tms_forbidden_attempts_total %d\n\n", m.ForbiddenAttempts.Load())

		fmt.Fprintf(w, "# HELP tms_conflicts_total Total lost concurrent-update races\n")
		fmt.Fprintf(w, "# TYPE tms_conflicts_total counter\n")
		fmt.Fprintf(w, "tms_conflicts_total %d\n\n", m.Conflicts.Load())

		fmt.Fprintf(w, "# HELP tms_notify_publishes_total Total notification publish attempts\n")
		fmt.Fprintf(w, "# TYPE tms_notify_publishes_total counter\n")
		fmt.Fprintf(w, "tms_notify_publishes_total %d\n\n", m.NotifyPublishes.Load())

		fmt.Fprintf(w, "# HELP tms_notify_failures_total Total failed notification publishes\n")
		fmt.Fprintf(w, "# TYPE tms_notify_failures_total counter\n")
		fmt.Fprintf(w, "tms_notify_failures_total %d\n", m.NotifyFailures.Load())
	}
}

// Server wraps the metrics HTTP server
type Server struct {
	srv *http.Server
}

// NewServer creates a metrics server on the given port
func NewServer(port int) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", Global().Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return &Server{
		srv: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}
}

// Start starts the metrics server in background
func (s *Server) Start() error {
	go s.srv.ListenAndServe()
	return nil
}

// Stop gracefully shuts down the metrics server
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
