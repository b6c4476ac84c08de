package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/adityavermaa/sahayata-backend/internal/models"
)

// Recipient is one resolved broadcast target. Email is always present
// (registration requires it); Phone is empty when the subscriber did not
// register one.
type Recipient struct {
	Email string
	Phone string
}

// SubscriberSource resolves the subscriber set for a broadcast.
type SubscriberSource interface {
	// RecipientsByLocation returns all subscribers whose location matches
	// case-insensitively, or every subscriber when location is empty.
	RecipientsByLocation(ctx context.Context, location string) ([]Recipient, error)
}

// SMSSender sends a single SMS.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// EmailSender sends the same message to many addresses over one transport
// session. It returns one failure entry per address that could not be sent.
type EmailSender interface {
	SendBulk(ctx context.Context, to []string, subject, body string) []models.DeliveryFailure
}

// DeliveryLogger persists the structured outcome of a broadcast.
type DeliveryLogger interface {
	Record(ctx context.Context, rec models.DeliveryRecord) error
}

// BroadcastResult is the structured outcome of one broadcast. Recipients is
// the number of distinct subscribers for whom at least one send was
// attempted; it is a dispatch tally, not a delivery receipt count.
type BroadcastResult struct {
	PhonesAttempted int
	PhonesSent      int
	EmailsAttempted int
	EmailsSent      int
	Recipients      int
	Failures        []models.DeliveryFailure
}

// Broadcaster fans a new alert out to subscribers over SMS and email.
//
// Delivery is best-effort: individual transport failures are collected into
// the result and logged, and never abort delivery to other recipients or the
// other channel. There are no retries. The caller owns the wait: Broadcast
// joins all of its sends before returning, and the passed context bounds the
// total fan-out time.
type Broadcaster struct {
	Subscribers SubscriberSource
	SMS         SMSSender // nil when the SMS transport is not configured
	Email       EmailSender
	Deliveries  DeliveryLogger // nil disables the delivery log
	Workers     int            // concurrent SMS sends, default 5
}

// Broadcast resolves the subscriber set for location, dispatches the alert
// text to every phone and email, and returns the tally. Channels without a
// configured transport are skipped and do not count as attempts. When no
// subscriber has a deliverable channel it returns a zero result without
// contacting any transport.
func (b *Broadcaster) Broadcast(ctx context.Context, alertID, title, message, location string) (*BroadcastResult, error) {
	recipients, err := b.Subscribers.RecipientsByLocation(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("resolve subscribers: %w", err)
	}

	var phones, emails []string
	skippedPhones, skippedEmails := 0, 0
	reachable := 0
	for _, r := range recipients {
		hasChannel := false
		if r.Phone != "" {
			if b.SMS != nil {
				phones = append(phones, r.Phone)
				hasChannel = true
			} else {
				skippedPhones++
			}
		}
		if r.Email != "" {
			if b.Email != nil {
				emails = append(emails, r.Email)
				hasChannel = true
			} else {
				skippedEmails++
			}
		}
		if hasChannel {
			reachable++
		}
	}

	if skippedPhones > 0 {
		slog.Warn("sms transport not configured, skipping phone recipients", "count", skippedPhones)
	}
	if skippedEmails > 0 {
		slog.Warn("email transport not configured, skipping email recipients", "count", skippedEmails)
	}

	if len(phones) == 0 && len(emails) == 0 {
		slog.Info("no deliverable subscribers, skipping broadcast", "alert_id", alertID)
		return &BroadcastResult{}, nil
	}

	body := "🚨 ALERT: " + title + "\n\n" + message
	startedAt := time.Now().UTC()

	result := &BroadcastResult{
		PhonesAttempted: len(phones),
		EmailsAttempted: len(emails),
		Recipients:      reachable,
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	if len(phones) > 0 {
		workers := b.Workers
		if workers <= 0 {
			workers = 5
		}

		sms, smsCtx := errgroup.WithContext(gctx)
		sms.SetLimit(workers)
		g.Go(func() error {
			for _, phone := range phones {
				phone := phone
				sms.Go(func() error {
					if err := b.SMS.SendSMS(smsCtx, phone, body); err != nil {
						slog.Warn("sms send failed", "to", phone, "error", err)
						mu.Lock()
						result.Failures = append(result.Failures, models.DeliveryFailure{
							Channel:   "sms",
							Recipient: phone,
							Error:     err.Error(),
						})
						mu.Unlock()
						return nil
					}
					mu.Lock()
					result.PhonesSent++
					mu.Unlock()
					return nil
				})
			}
			return sms.Wait()
		})
	}

	if len(emails) > 0 {
		g.Go(func() error {
			failures := b.Email.SendBulk(gctx, emails, title, body)
			mu.Lock()
			result.EmailsSent = len(emails) - len(failures)
			result.Failures = append(result.Failures, failures...)
			mu.Unlock()
			return nil
		})
	}

	// Per-recipient errors are collected, never returned, so Wait only
	// reports context cancellation.
	_ = g.Wait()

	b.record(alertID, title, location, startedAt, result)

	slog.Info("broadcast finished",
		"alert_id", alertID,
		"recipients", result.Recipients,
		"phones_sent", result.PhonesSent,
		"emails_sent", result.EmailsSent,
		"failures", len(result.Failures),
	)

	return result, nil
}

// record writes the delivery log document. Best-effort, on a fresh context
// because the broadcast context may already be expired.
func (b *Broadcaster) record(alertID, title, location string, startedAt time.Time, result *BroadcastResult) {
	if b.Deliveries == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec := models.DeliveryRecord{
		AlertID:         alertID,
		Title:           title,
		Location:        location,
		StartedAt:       startedAt,
		FinishedAt:      time.Now().UTC(),
		PhonesAttempted: result.PhonesAttempted,
		PhonesSent:      result.PhonesSent,
		EmailsAttempted: result.EmailsAttempted,
		EmailsSent:      result.EmailsSent,
		Recipients:      result.Recipients,
		Failures:        result.Failures,
	}
	if err := b.Deliveries.Record(ctx, rec); err != nil {
		slog.Warn("failed to record delivery log", "alert_id", alertID, "error", err)
	}
}
