package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) Event {
	t.Helper()
	var e Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	return e
}

func TestInfoEvent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("engine", &buf)

	log.Info("task_created", map[string]interface{}{"state": "Open"})

	e := decode(t, &buf)
	assert.Equal(t, LevelInfo, e.Level)
	assert.Equal(t, "engine", e.Component)
	assert.Equal(t, "task_created", e.Event)
	assert.Equal(t, "Open", e.Extra["state"])
	assert.NotEmpty(t, e.Timestamp)
}

func TestErrorCarriesMessage(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("engine", &buf)

	log.Error("commit_failed", nil, errors.New("stale write"))

	e := decode(t, &buf)
	assert.Equal(t, LevelError, e.Level)
	assert.Equal(t, "stale write", e.Error)
}

func TestWithContextDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithWriter("engine", &buf)
	child := parent.WithTask("ABC0").WithApp("ABC").WithActor("alice")

	child.Info("promoted", nil)
	e := decode(t, &buf)
	assert.Equal(t, "ABC0", e.Task)
	assert.Equal(t, "ABC", e.App)
	assert.Equal(t, "alice", e.Actor)

	buf.Reset()
	parent.Info("promoted", nil)
	e = decode(t, &buf)
	assert.Empty(t, e.Task)
	assert.Empty(t, e.App)
	assert.Empty(t, e.Actor)
}
