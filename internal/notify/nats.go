package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// SubjectPrefix is the root of the task-event subject space. Events are
// published to "<prefix>.<event type>", e.g. tms.task.done.
const SubjectPrefix = "tms"

// NATSPublisher publishes task events to a NATS subject.
type NATSPublisher struct {
	nc *nats.Conn
}

var _ Publisher = (*NATSPublisher)(nil)

// Connect dials the NATS server at url and returns a publisher.
func Connect(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("tms-backend"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{nc: nc}, nil
}

// Publish sends the event to its subject. Core NATS publish is
// fire-and-forget; only serialization and connection faults error.
func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.nc.Publish(subjectFor(event.Type), data)
}

// Subscribe registers handler for every task event under the subject
// prefix. Used by the notifier consumer in serve mode.
func (p *NATSPublisher) Subscribe(handler func(Event)) (*nats.Subscription, error) {
	return p.nc.Subscribe(SubjectPrefix+".task.>", func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return
		}
		handler(event)
	})
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	p.nc.Close()
}

func subjectFor(typ EventType) string {
	return SubjectPrefix + "." + string(typ)
}
