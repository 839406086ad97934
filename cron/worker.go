package cron

import (
	"context"
	"fmt"
	"time"

	"astrobook/config"
	"astrobook/models"
	"astrobook/services/booking"
	"astrobook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// BookingLookup is the read side of the scheduling engine used by reminders.
type BookingLookup interface {
	GetBooking(ctx context.Context, itemID string) (*models.BookingItem, error)
}

// EventHandler delivers booking events and reminders.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev models.BookingEvent) error
	SendReminder(ctx context.Context, item models.BookingItem) error
}

// NewServeMux routes queued tasks to their handlers.
func NewServeMux(lookup BookingLookup, handler EventHandler, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingEvent, handleBookingEvent(handler, logger))
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(lookup, handler, logger))
	return mux
}

// InitNotificationWorker runs the async worker in background and returns the
// server so the caller can shut it down.
func InitNotificationWorker(lookup BookingLookup, handler EventHandler, logger *zap.Logger) *asynq.Server {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)
	mux := NewServeMux(lookup, handler, logger)

	// Start async worker with retry logic
	go func() {
		logger.Info("starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("notification worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("notification worker: max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
		}
	}()
	return srv
}

func handleBookingEvent(handler EventHandler, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		ev, err := tasks.ParseBookingEvent(task)
		if err != nil {
			logger.Error("dropping booking event", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := handler.HandleEvent(ctx, ev); err != nil {
			logger.Warn("booking event delivery failed",
				zap.String("type", string(ev.Type)), zap.String("bookingId", ev.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}

func handleReminderTask(lookup BookingLookup, handler EventHandler, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseReminder(task)
		if err != nil {
			logger.Error("dropping reminder", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		item, err := lookup.GetBooking(ctx, p.BookingID)
		if err != nil {
			if booking.IsNotFound(err) {
				logger.Info("reminder for unknown booking skipped", zap.String("bookingId", p.BookingID))
				return nil
			}
			return err
		}
		if reason := staleReminder(item, p); reason != "" {
			logger.Debug("reminder skipped",
				zap.String("bookingId", p.BookingID), zap.String("reason", reason))
			return nil
		}

		logger.Info("sending consultation reminder",
			zap.String("bookingId", item.ID), zap.Time("startsAt", p.StartsAt))
		return handler.SendReminder(ctx, *item)
	}
}

// staleReminder explains why a reminder no longer applies, or returns "".
func staleReminder(item *models.BookingItem, p models.ReminderPayload) string {
	switch {
	case !item.IsActive():
		return "booking no longer active"
	case item.ProviderStatus != models.ProviderAccepted:
		return "booking not accepted"
	case item.Date != p.Date || item.StartTime != p.Start:
		return "booking was moved"
	}
	return ""
}
