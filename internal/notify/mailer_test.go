package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SebastinST/tms-backend/internal/domain"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func testMailer(capture *[]sentMail, err error) *Mailer {
	m := NewMailer("mail.example.com", 2525, "tms@example.com", []string{"lead@example.com", "qa@example.com"})
	m.send = func(addr, from string, to []string, msg []byte) error {
		if err != nil {
			return err
		}
		*capture = append(*capture, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return m
}

func doneEvent() Event {
	task := &domain.Task{ID: "ABC0", Name: "fix bug", AppAcronym: "ABC"}
	return NewEvent(EventTaskDone, task, "alice", domain.StateDoing, domain.StateDone, time.Now())
}

func TestMailerSendsOnDone(t *testing.T) {
	var sent []sentMail
	m := testMailer(&sent, nil)

	m.Handle(doneEvent())

	require.Len(t, sent, 1)
	assert.Equal(t, "mail.example.com:2525", sent[0].addr)
	assert.Equal(t, "tms@example.com", sent[0].from)
	assert.Equal(t, []string{"lead@example.com", "qa@example.com"}, sent[0].to)
	assert.Contains(t, sent[0].msg, "Subject: Task ABC0 is ready for review")
	assert.Contains(t, sent[0].msg, `alice moved task "fix bug" (ABC0) from Doing to Done.`)
}

func TestMailerIgnoresOtherEvents(t *testing.T) {
	var sent []sentMail
	m := testMailer(&sent, nil)

	task := &domain.Task{ID: "ABC0", Name: "fix bug"}
	m.Handle(NewEvent(EventTaskCreated, task, "alice", "", domain.StateOpen, time.Now()))

	assert.Empty(t, sent)
}

func TestMailerSwallowsSendFailures(t *testing.T) {
	m := testMailer(nil, errors.New("connection refused"))

	// Must not panic or propagate.
	m.Handle(doneEvent())
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	task := &domain.Task{ID: "ABC3", Name: "fix bug", AppAcronym: "ABC"}

	ev := NewEvent(EventTaskDone, task, "alice", domain.StateDoing, domain.StateDone, at)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, EventTaskDone, ev.Type)
	assert.Equal(t, "ABC3", ev.TaskID)
	assert.Equal(t, "fix bug", ev.TaskName)
	assert.Equal(t, "ABC", ev.App)
	assert.Equal(t, "alice", ev.Actor)
	assert.Equal(t, "Doing", ev.FromState)
	assert.Equal(t, "Done", ev.ToState)
	assert.Equal(t, at, ev.At)
}

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "tms.task.done", subjectFor(EventTaskDone))
	assert.Equal(t, "tms.task.created", subjectFor(EventTaskCreated))
}
