package notification

import (
	"context"
	"fmt"
	"strings"

	"astrobook/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// PushSender delivers a push message to every device subscribed to topic.
type PushSender interface {
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error
}

// FCMSender is the Firebase Cloud Messaging implementation of PushSender.
type FCMSender struct {
	Client *messaging.Client
}

func (s *FCMSender) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	if _, err := s.Client.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendToTopic: failed to send FCM message to %s: %w", topic, err)
	}
	return nil
}

// CustomerTopic and ProviderTopic are the FCM topics apps subscribe to.
func CustomerTopic(id string) string { return "customer_" + id }
func ProviderTopic(id string) string { return "provider_" + id }

// Dispatcher turns booking events and reminders into push messages.
type Dispatcher struct {
	Sender PushSender
	Logger *zap.Logger
}

type message struct {
	topic string
	title string
	body  string
}

// messagesFor renders the pushes for ev. Admin blocks notify nobody.
func messagesFor(ev models.BookingEvent) []message {
	when := fmt.Sprintf("%s at %s", ev.Date, ev.Start)
	var out []message
	toCustomer := func(title, body string) {
		if ev.CustomerID != "" {
			out = append(out, message{CustomerTopic(ev.CustomerID), title, body})
		}
	}
	toProvider := func(title, body string) {
		out = append(out, message{ProviderTopic(ev.ProviderID), title, body})
	}

	switch ev.Type {
	case models.EventBookingCreated:
		toProvider("New consultation request", "A customer requested "+when+".")
		toCustomer("Request sent", "Your consultation on "+when+" is awaiting confirmation.")
	case models.EventBookingAccepted:
		body := "Your consultation on " + when + " is confirmed."
		if ev.SessionLink != "" {
			body += " Join at " + ev.SessionLink
		}
		toCustomer("Consultation confirmed", body)
	case models.EventBookingRejected:
		body := "Your consultation on " + when + " was declined."
		if r := strings.TrimSpace(ev.Reason); r != "" {
			body += " Reason: " + r
		}
		toCustomer("Consultation declined", body)
	case models.EventBookingPaid:
		toProvider("Payment received", "The consultation on "+when+" has been paid.")
		toCustomer("Payment received", "Thanks! Your consultation on "+when+" is paid.")
	case models.EventBookingCancelled:
		toProvider("Consultation cancelled", "The consultation on "+when+" was cancelled.")
		toCustomer("Consultation cancelled", "Your consultation on "+when+" was cancelled.")
	case models.EventBookingRefunded:
		toCustomer("Refund issued", "Your payment for "+when+" has been refunded.")
	case models.EventBookingRescheduled:
		toProvider("Consultation moved", "A consultation now takes place on "+when+".")
		toCustomer("Consultation moved", "Your consultation now takes place on "+when+".")
	}
	return out
}

// HandleEvent sends every push rendered for ev; it stops at the first failure
// so the queue retries the task.
func (d *Dispatcher) HandleEvent(ctx context.Context, ev models.BookingEvent) error {
	data := map[string]string{
		"type":      string(ev.Type),
		"bookingId": ev.BookingID,
		"date":      ev.Date,
		"start":     ev.Start.String(),
	}
	for _, m := range messagesFor(ev) {
		if err := d.Sender.SendToTopic(ctx, m.topic, m.title, m.body, data); err != nil {
			return err
		}
	}
	d.Logger.Debug("booking event dispatched", zap.String("type", string(ev.Type)), zap.String("bookingId", ev.BookingID))
	return nil
}

// SendReminder pushes the pre-consultation reminder to both parties.
func (d *Dispatcher) SendReminder(ctx context.Context, item models.BookingItem) error {
	when := fmt.Sprintf("%s at %s", item.Date, item.StartTime)
	data := map[string]string{"type": "reminder", "bookingId": item.ID}
	if item.SessionLink != "" {
		data["sessionLink"] = item.SessionLink
	}
	if err := d.Sender.SendToTopic(ctx, ProviderTopic(item.ProviderID), "Upcoming consultation", "You have a consultation on "+when+".", data); err != nil {
		return err
	}
	if item.CustomerID == "" {
		return nil
	}
	return d.Sender.SendToTopic(ctx, CustomerTopic(item.CustomerID), "Your consultation starts soon", "Your consultation on "+when+" starts soon.", data)
}
