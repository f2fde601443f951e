package audit

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.FixedZone("SGT", 8*3600))
	e := NewEntry("alice", ActionPromote, at)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "alice", e.Actor)
	assert.Equal(t, ActionPromote, e.Action)
	assert.Equal(t, at.UTC(), e.Timestamp)

	// Entry IDs are unique even for the same instant.
	e2 := NewEntry("alice", ActionPromote, at)
	assert.NotEqual(t, e.ID, e2.ID)
}

func TestPrependLeavesReceiverIntact(t *testing.T) {
	base := time.Now()
	first := NewEntry("alice", ActionCreate, base)
	trail := Trail{first}

	second := NewEntry("bob", ActionNotes, base.Add(time.Minute))
	grown := trail.Prepend(second)

	// The receiver is untouched and the new trail is newest-first.
	require.Len(t, trail, 1)
	require.Len(t, grown, 2)
	assert.Equal(t, first.ID, trail[0].ID)
	assert.Equal(t, second.ID, grown[0].ID)
	assert.Equal(t, first.ID, grown[1].ID)
}

func TestNewest(t *testing.T) {
	_, ok := Trail{}.Newest()
	assert.False(t, ok)

	e := NewEntry("alice", ActionCreate, time.Now())
	got, ok := Trail{e}.Newest()
	require.True(t, ok)
	assert.Equal(t, e.ID, got.ID)
}

func TestSummary(t *testing.T) {
	e := Entry{Actor: "alice", Action: ActionCreate}
	assert.Equal(t, "alice created fix bug", e.Summary("fix bug"))

	e = Entry{Actor: "alice", Action: ActionPromote, FromState: "Open", ToState: "ToDo"}
	assert.Equal(t, "alice moved fix bug from Open to ToDo", e.Summary("fix bug"))

	e = Entry{Actor: "bob", Action: ActionReject, FromState: "Done", ToState: "Doing"}
	assert.Equal(t, "bob moved fix bug from Done to Doing", e.Summary("fix bug"))

	e = Entry{Actor: "alice", Action: ActionAssignPlan, Plan: "sprint-1"}
	assert.Equal(t, "alice assigned fix bug to sprint-1", e.Summary("fix bug"))

	e = Entry{Actor: "alice", Action: ActionAssignPlan}
	assert.Equal(t, "alice removed fix bug from its plan", e.Summary("fix bug"))

	e = Entry{Actor: "bob", Action: ActionNotes}
	assert.Equal(t, "bob updated notes on fix bug", e.Summary("fix bug"))
}

func TestRender(t *testing.T) {
	at := time.Date(2025, 3, 14, 1, 0, 0, 0, time.UTC)
	create := NewEntry("alice", ActionCreate, at)
	note := NewEntry("bob", ActionNotes, at.Add(time.Hour))
	note.Text = "blocked on review"

	out := Trail{create}.Prepend(note).Render("fix bug")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "blocked on review", lines[0])
	assert.Contains(t, lines[1], "bob updated notes on fix bug")
	assert.Contains(t, lines[2], "alice created fix bug")
	assert.Contains(t, lines[2], "2025-03-14T01:00:00Z")
}
