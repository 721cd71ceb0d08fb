package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/Alijeyrad/clinica_backend/pkg/email"
	"github.com/Alijeyrad/clinica_backend/pkg/events"
)

type call struct {
	kind   string
	notice email.AppointmentNotice
	id     uuid.UUID
}

type fakeNotifier struct {
	calls []call
	err   error
}

func (f *fakeNotifier) AppointmentChanged(_ context.Context, n email.AppointmentNotice, id uuid.UUID) error {
	f.calls = append(f.calls, call{"appointment", n, id})
	return f.err
}

func (f *fakeNotifier) EmployeeCreated(_ context.Context, id uuid.UUID) error {
	f.calls = append(f.calls, call{kind: "employee", id: id})
	return f.err
}

func (f *fakeNotifier) PayrollPaid(_ context.Context, id uuid.UUID) error {
	f.calls = append(f.calls, call{kind: "payroll", id: id})
	return f.err
}

type fakeSubscriber struct {
	subjects map[string]nats.MsgHandler
	queues   map[string]bool
}

func (f *fakeSubscriber) QueueSubscribe(subj, queue string, cb nats.MsgHandler) (*nats.Subscription, error) {
	f.subjects[subj] = cb
	f.queues[queue] = true
	return &nats.Subscription{Subject: subj}, nil
}

func TestWorkerRoutes(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		event events.Event
		want  call
	}{
		{events.AppointmentCreated, call{"appointment", email.NoticeCreated, id}},
		{events.AppointmentRescheduled, call{"appointment", email.NoticeRescheduled, id}},
		{events.AppointmentCancelled, call{"appointment", email.NoticeCancelled, id}},
		{events.EmployeeCreated, call{kind: "employee", id: id}},
		{events.PayrollPaid, call{kind: "payroll", id: id}},
	}

	notif := &fakeNotifier{}
	w := &worker{notif: notif}
	sub := &fakeSubscriber{subjects: map[string]nats.MsgHandler{}, queues: map[string]bool{}}
	subs, err := w.subscribe(sub)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if len(subs) != len(tests) {
		t.Fatalf("subscriptions = %d, want %d", len(subs), len(tests))
	}
	if !sub.queues[queueGroup] || len(sub.queues) != 1 {
		t.Errorf("queues = %v", sub.queues)
	}
	if _, ok := sub.subjects[events.AppointmentCompleted.Wildcard()]; ok {
		t.Error("completed appointments should not notify")
	}

	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			notif.calls = nil
			cb, ok := sub.subjects[tt.event.Wildcard()]
			if !ok {
				t.Fatalf("no subscription for %s", tt.event.Wildcard())
			}
			cb(&nats.Msg{Subject: tt.event.Subject(id), Data: []byte(id.String())})
			if len(notif.calls) != 1 || notif.calls[0] != tt.want {
				t.Errorf("calls = %+v, want %+v", notif.calls, tt.want)
			}
		})
	}
}

func TestWorkerHandlerSwallowsErrors(t *testing.T) {
	notif := &fakeNotifier{err: errors.New("smtp down")}
	w := &worker{notif: notif}
	h := w.handler(events.EmployeeCreated, notif.EmployeeCreated)

	h(&nats.Msg{Data: []byte("not-a-uuid")})
	if len(notif.calls) != 0 {
		t.Fatal("handler called with a bad payload")
	}

	h(&nats.Msg{Data: []byte(" " + uuid.NewString() + "\n")})
	if len(notif.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(notif.calls))
	}
}
