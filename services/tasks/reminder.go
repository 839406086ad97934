package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"astrobook/models"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingEvent = "booking:event"
	TypeSendReminder = "reminder:send"
)

// NewBookingEventTask wraps a booking event for the notification worker.
func NewBookingEventTask(ev models.BookingEvent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingEvent, b)
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.TaskID(fmt.Sprintf("%s:%s:%d", ev.Type, ev.BookingID, ev.Version)),
	}
	return task, opts, nil
}

// NewReminderTask schedules a reminder to fire at fireAt.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(fmt.Sprintf("reminder:%s:%s:%s", payload.BookingID, payload.Date, payload.Start)),
	}

	return task, opts, nil
}

// ParseBookingEvent decodes a TypeBookingEvent payload.
func ParseBookingEvent(task *asynq.Task) (models.BookingEvent, error) {
	var ev models.BookingEvent
	if err := json.Unmarshal(task.Payload(), &ev); err != nil {
		return ev, fmt.Errorf("invalid booking event payload: %w", err)
	}
	return ev, nil
}

// ParseReminder decodes a TypeSendReminder payload.
func ParseReminder(task *asynq.Task) (models.ReminderPayload, error) {
	var p models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid reminder payload: %w", err)
	}
	return p, nil
}
