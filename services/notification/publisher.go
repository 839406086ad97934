package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"astrobook/models"
	"astrobook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Publisher receives booking transitions. Implementations must not block the
// caller for long; delivery happens elsewhere.
type Publisher interface {
	Publish(ctx context.Context, ev models.BookingEvent) error
}

// Enqueuer is the subset of *asynq.Client used for publishing.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqPublisher hands events to the asynq worker and schedules reminders
// for accepted consultations.
type AsynqPublisher struct {
	Client       Enqueuer
	ReminderLead time.Duration
	Logger       *zap.Logger
	Now          func() time.Time
}

func NewAsynqPublisher(client Enqueuer, reminderLead time.Duration, logger *zap.Logger) *AsynqPublisher {
	return &AsynqPublisher{Client: client, ReminderLead: reminderLead, Logger: logger, Now: time.Now}
}

func (p *AsynqPublisher) Publish(ctx context.Context, ev models.BookingEvent) error {
	task, opts, err := tasks.NewBookingEventTask(ev)
	if err != nil {
		return fmt.Errorf("build booking event task: %w", err)
	}
	if _, err := p.Client.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("enqueue booking event %s: %w", ev.Type, err)
	}

	if !wantsReminder(ev) {
		return nil
	}
	fireAt := ev.StartsAt.Add(-p.ReminderLead)
	if !fireAt.After(p.Now()) {
		return nil
	}
	reminder, ropts, err := tasks.NewReminderTask(models.ReminderPayload{
		BookingID: ev.BookingID,
		Date:      ev.Date,
		Start:     ev.Start,
		StartsAt:  ev.StartsAt,
	}, fireAt)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}
	if _, err := p.Client.EnqueueContext(ctx, reminder, ropts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("enqueue reminder for %s: %w", ev.BookingID, err)
	}
	p.Logger.Debug("reminder scheduled", zap.String("bookingId", ev.BookingID), zap.Time("fireAt", fireAt))
	return nil
}

// wantsReminder is true for events that leave an accepted consultation on the calendar.
func wantsReminder(ev models.BookingEvent) bool {
	if ev.ProviderStatus != models.ProviderAccepted {
		return false
	}
	return ev.Type == models.EventBookingAccepted || ev.Type == models.EventBookingRescheduled
}

// LogPublisher only logs events; used when no queue is configured.
type LogPublisher struct {
	Logger *zap.Logger
}

func (p LogPublisher) Publish(_ context.Context, ev models.BookingEvent) error {
	p.Logger.Info("booking event",
		zap.String("type", string(ev.Type)),
		zap.String("bookingId", ev.BookingID),
		zap.String("providerId", ev.ProviderID),
		zap.String("date", ev.Date),
		zap.String("start", ev.Start.String()),
	)
	return nil
}
