// Package events publishes domain events on NATS subjects of the form
// clinica.<entity>.<event>.<id>, with the id as payload.
package events

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

const prefix = "clinica"

type Event struct {
	Entity string
	Name   string
}

var (
	AppointmentCreated     = Event{"appointment", "created"}
	AppointmentRescheduled = Event{"appointment", "rescheduled"}
	AppointmentCancelled   = Event{"appointment", "cancelled"}
	AppointmentCompleted   = Event{"appointment", "completed"}
	EmployeeCreated        = Event{"employee", "created"}
	PayrollPaid            = Event{"payroll", "paid"}
)

// Subject returns the concrete subject for id.
func (e Event) Subject(id uuid.UUID) string {
	return strings.Join([]string{prefix, e.Entity, e.Name, id.String()}, ".")
}

// Wildcard returns the subscription subject matching every id.
func (e Event) Wildcard() string {
	return strings.Join([]string{prefix, e.Entity, e.Name, "*"}, ".")
}

func (e Event) String() string {
	return e.Entity + "." + e.Name
}

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// NopPublisher drops every event. Used when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(string, []byte) error { return nil }

// Emit publishes e for id. Failures are logged and never returned: events are
// emitted after the owning transaction committed.
func Emit(ctx context.Context, p Publisher, e Event, id uuid.UUID) {
	if p == nil {
		return
	}
	if err := p.Publish(e.Subject(id), []byte(id.String())); err != nil {
		slog.WarnContext(ctx, "event publish failed", "event", e.String(), "id", id, "err", err)
	}
}

// ParseID extracts the id from a message payload.
func ParseID(data []byte) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(string(data)))
}
