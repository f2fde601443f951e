package domain

import (
	"strconv"
	"time"

	"github.com/SebastinST/tms-backend/internal/audit"
)

// Task is a unit of work moving through the lifecycle of its owning
// application. The ID is assigned once at creation and never re-derived.
type Task struct {
	ID          string      `json:"task_id"`
	Name        string      `json:"task_name"`
	Description string      `json:"task_description,omitempty"`
	AppAcronym  string      `json:"task_app_acronym"`
	Plan        string      `json:"task_plan,omitempty"`
	State       State       `json:"task_state"`
	Creator     string      `json:"task_creator"`
	Owner       string      `json:"task_owner"`
	Notes       audit.Trail `json:"task_notes"`
	CreateDate  time.Time   `json:"task_create_date"`

	// Version guards the read-modify-write cycle. Every committed
	// mutation increments it; a stale update affects zero rows.
	Version int64 `json:"-"`
}

// TaskID derives a task identifier from the application acronym and its
// running number at creation time: plain concatenation, no separator,
// no padding. Uniqueness holds because the running number is per-acronym
// monotonic and never reset or reused; the scheme is otherwise lexically
// ambiguous (acronym "AB1" number 23 reads the same as "AB" number 123)
// and callers must treat IDs as opaque.
func TaskID(acronym string, runningNumber int64) string {
	return acronym + strconv.FormatInt(runningNumber, 10)
}
