// Package notify carries post-commit task events to interested parties.
// Publishing is strictly best-effort: the workflow commit has already
// happened by the time an event exists, and no delivery failure may
// surface as an operation error.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/SebastinST/tms-backend/internal/domain"
)

// EventType classifies task events on the bus.
type EventType string

const (
	// EventTaskDone fires when a promotion lands a task in Done.
	EventTaskDone EventType = "task.done"
	// EventTaskCreated fires after a successful creation.
	EventTaskCreated EventType = "task.created"
)

// Event is a task lifecycle notification emitted after commit.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TaskID    string    `json:"task_id"`
	TaskName  string    `json:"task_name"`
	App       string    `json:"app"`
	Actor     string    `json:"actor"`
	FromState string    `json:"from_state,omitempty"`
	ToState   string    `json:"to_state,omitempty"`
	At        time.Time `json:"at"`
}

// NewEvent builds an event for a committed task mutation.
func NewEvent(typ EventType, task *domain.Task, actor string, from, to domain.State, at time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		TaskID:    task.ID,
		TaskName:  task.Name,
		App:       task.AppAcronym,
		Actor:     actor,
		FromState: string(from),
		ToState:   string(to),
		At:        at.UTC(),
	}
}

// Publisher delivers events to a transport.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop is a Publisher that drops every event. Used when no transport is
// configured.
type Nop struct{}

// Publish discards the event.
func (Nop) Publish(ctx context.Context, event Event) error { return nil }
