// Package audit provides the append-only note trail attached to tasks.
// Entries are structured records ordered newest-first; serialization to
// the storage form happens only at the store boundary.
package audit

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Action classifies the operation that produced a trail entry.
type Action string

const (
	ActionCreate     Action = "create"
	ActionPromote    Action = "promote"
	ActionReject     Action = "reject"
	ActionReturn     Action = "return"
	ActionAssignPlan Action = "assign-plan"
	ActionNotes      Action = "notes"
)

// Entry is a single immutable note record. FromState/ToState are set
// only for state-changing actions.
type Entry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    Action    `json:"action"`
	FromState string    `json:"from_state,omitempty"`
	ToState   string    `json:"to_state,omitempty"`
	Plan      string    `json:"plan,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text,omitempty"`
}

// NewEntry builds an entry stamped with the given commit-attempt time.
// The same timestamp must be reused for every field of the single entry
// being written so one operation never drifts across clock reads. The
// ID's time prefix comes from that timestamp too; ordering within one
// millisecond comes from the trail position, not the ID.
func NewEntry(actor string, action Action, at time.Time) Entry {
	return Entry{
		ID:        ulid.MustNew(ulid.Timestamp(at), rand.Reader).String(),
		Actor:     actor,
		Action:    action,
		Timestamp: at.UTC(),
	}
}

// Summary renders the audit line for the entry in the historical
// "<actor> moved <task> from <state> to <state>" shape.
func (e Entry) Summary(taskName string) string {
	switch e.Action {
	case ActionCreate:
		return fmt.Sprintf("%s created %s", e.Actor, taskName)
	case ActionPromote, ActionReject, ActionReturn:
		return fmt.Sprintf("%s moved %s from %s to %s", e.Actor, taskName, e.FromState, e.ToState)
	case ActionAssignPlan:
		if e.Plan == "" {
			return fmt.Sprintf("%s removed %s from its plan", e.Actor, taskName)
		}
		return fmt.Sprintf("%s assigned %s to %s", e.Actor, taskName, e.Plan)
	default:
		return fmt.Sprintf("%s updated notes on %s", e.Actor, taskName)
	}
}

// Trail is the ordered note history of a task, newest entry first.
// It only ever grows; existing entries are never rewritten, reordered
// or truncated.
type Trail []Entry

// Prepend returns a new trail with e as the newest entry. The receiver
// is not modified.
func (t Trail) Prepend(e Entry) Trail {
	out := make(Trail, 0, len(t)+1)
	out = append(out, e)
	out = append(out, t...)
	return out
}

// Newest returns the most recent entry, if any.
func (t Trail) Newest() (Entry, bool) {
	if len(t) == 0 {
		return Entry{}, false
	}
	return t[0], true
}

// Render produces the newest-first plain-text view of the trail for
// display surfaces that still expect the concatenated form.
func (t Trail) Render(taskName string) string {
	var sb strings.Builder
	for i, e := range t {
		if i > 0 {
			sb.WriteString("\n")
		}
		if e.Text != "" {
			sb.WriteString(e.Text)
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("[%s] %s", e.Timestamp.Format(time.RFC3339), e.Summary(taskName)))
	}
	return sb.String()
}
