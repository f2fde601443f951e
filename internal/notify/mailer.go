package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/SebastinST/tms-backend/internal/logging"
)

// Mailer sends task notification emails over SMTP. It is a consumer of
// the event bus, never called inline by the workflow engine.
type Mailer struct {
	host string
	port int
	from string
	to   []string
	log  *logging.Logger

	// send is swappable in tests.
	send func(addr, from string, to []string, msg []byte) error
}

// NewMailer creates a mailer for the given SMTP endpoint. Recipients
// receive every Done-transition notice.
func NewMailer(host string, port int, from string, to []string) *Mailer {
	return &Mailer{
		host: host,
		port: port,
		from: from,
		to:   to,
		log:  logging.New("mailer"),
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

// Handle consumes a task event. Only Done transitions produce mail.
// Failures are logged and swallowed; notification is best-effort.
func (m *Mailer) Handle(event Event) {
	if event.Type != EventTaskDone {
		return
	}
	if err := m.sendDone(event); err != nil {
		m.log.Error("send_failed", map[string]interface{}{
			"task": event.TaskID,
		}, err)
		return
	}
	m.log.Info("sent", map[string]interface{}{
		"task":  event.TaskID,
		"actor": event.Actor,
	})
}

func (m *Mailer) sendDone(event Event) error {
	subject := fmt.Sprintf("Task %s is ready for review", event.TaskID)
	body := fmt.Sprintf("%s moved task %q (%s) from %s to %s.",
		event.Actor, event.TaskName, event.TaskID, event.FromState, event.ToState)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(m.to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	return m.send(addr, m.from, m.to, []byte(msg.String()))
}
