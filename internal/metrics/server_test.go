package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := &Metrics{}

	m.RecordCreate(true)
	m.RecordCreate(false)
	m.RecordTransition(true)
	m.RecordTransition(true)
	m.RecordTransition(false)
	m.RecordNote()
	m.RecordForbidden()
	m.RecordConflict()
	m.RecordNotify(true)
	m.RecordNotify(false)

	assert.Equal(t, int64(2), m.TaskCreations.Load())
	assert.Equal(t, int64(1), m.TaskCreationErrors.Load())
	assert.Equal(t, int64(3), m.Transitions.Load())
	assert.Equal(t, int64(1), m.TransitionErrors.Load())
	assert.Equal(t, int64(1), m.NotesAppended.Load())
	assert.Equal(t, int64(1), m.ForbiddenAttempts.Load())
	assert.Equal(t, int64(1), m.Conflicts.Load())
	assert.Equal(t, int64(2), m.NotifyPublishes.Load())
	assert.Equal(t, int64(1), m.NotifyFailures.Load())
}

func TestHandlerOutput(t *testing.T) {
	m := &Metrics{}
	m.RecordCreate(true)
	m.RecordConflict()

	rec := httptest.NewRecorder()
	m.Handler()(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, rec.Result().Header.Get("Content-Type"), "text/plain")
	assert.Contains(t, out, "tms_task_creations_total 1")
	assert.Contains(t, out, "tms_conflicts_total 1")
	assert.Contains(t, out, "tms_transitions_total 0")
	assert.True(t, strings.Contains(out, "# TYPE tms_task_creations_total counter"))
}

func TestGlobalIsSingleton(t *testing.T) {
	assert.Same(t, Global(), Global())
}
