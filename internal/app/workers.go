package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Alijeyrad/clinica_backend/internal/service/notification"
	"github.com/Alijeyrad/clinica_backend/pkg/email"
	"github.com/Alijeyrad/clinica_backend/pkg/events"
	"github.com/Alijeyrad/clinica_backend/pkg/observability"
)

// WorkerModule registers the NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

// queueGroup makes each event handled by one instance only.
const queueGroup = "clinica-notify"

const handleTimeout = 30 * time.Second

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	NC       *nats.Conn `optional:"true"`
	NotifSvc notification.Service
	Metrics  *observability.EventMetrics `optional:"true"`
}

// Subscriber is satisfied by *nats.Conn.
type Subscriber interface {
	QueueSubscribe(subj, queue string, cb nats.MsgHandler) (*nats.Subscription, error)
}

type eventHandler func(ctx context.Context, id uuid.UUID) error

type worker struct {
	notif   notification.Service
	metrics *observability.EventMetrics
}

func RegisterWorkers(p WorkerParams) {
	if p.NC == nil {
		return
	}
	w := &worker{notif: p.NotifSvc, metrics: p.Metrics}
	var subs []*nats.Subscription

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			subs, err = w.subscribe(p.NC)
			return err
		},
		OnStop: func(ctx context.Context) error {
			for _, s := range subs {
				if err := s.Unsubscribe(); err != nil {
					slog.Debug("notification_worker: unsubscribe failed", "subject", s.Subject, "err", err)
				}
			}
			return nil
		},
	})
}

func (w *worker) routes() map[events.Event]eventHandler {
	appt := func(n email.AppointmentNotice) eventHandler {
		return func(ctx context.Context, id uuid.UUID) error {
			return w.notif.AppointmentChanged(ctx, n, id)
		}
	}
	return map[events.Event]eventHandler{
		events.AppointmentCreated:     appt(email.NoticeCreated),
		events.AppointmentRescheduled: appt(email.NoticeRescheduled),
		events.AppointmentCancelled:   appt(email.NoticeCancelled),
		events.EmployeeCreated:        w.notif.EmployeeCreated,
		events.PayrollPaid:            w.notif.PayrollPaid,
	}
}

func (w *worker) subscribe(nc Subscriber) ([]*nats.Subscription, error) {
	var subs []*nats.Subscription
	for ev, h := range w.routes() {
		s, err := nc.QueueSubscribe(ev.Wildcard(), queueGroup, w.handler(ev, h))
		if err != nil {
			slog.Error("notification_worker: subscribe failed", "event", ev.String(), "err", err)
			return subs, err
		}
		subs = append(subs, s)
	}
	slog.Info("notification_worker: started", "subscriptions", len(subs))
	return subs, nil
}

func (w *worker) handler(ev events.Event, h eventHandler) nats.MsgHandler {
	return func(msg *nats.Msg) {
		id, err := events.ParseID(msg.Data)
		if err != nil {
			slog.Warn("notification_worker: bad payload", "subject", msg.Subject, "err", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		defer cancel()

		start := time.Now()
		err = h(ctx, id)
		w.metrics.Observe(ctx, ev.String(), start, err)
		if err != nil {
			slog.Warn("notification_worker: handle failed", "event", ev.String(), "id", id, "err", err)
		}
	}
}
