package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/adityavermaa/sahayata-backend/internal/models"
)

// fakeSource filters an in-memory subscriber list the way the Postgres
// source does: case-insensitive exact location match, empty means all.
type fakeSource struct {
	subscribers []struct {
		email, phone, location string
	}
	err error
}

func (f *fakeSource) RecipientsByLocation(ctx context.Context, location string) ([]Recipient, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Recipient
	for _, s := range f.subscribers {
		if location != "" && !strings.EqualFold(s.location, location) {
			continue
		}
		out = append(out, Recipient{Email: s.email, Phone: s.phone})
	}
	return out, nil
}

type fakeSMS struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]error
}

func (f *fakeSMS) SendSMS(ctx context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeEmail struct {
	mu      sync.Mutex
	batches [][]string
	failFor map[string]error
}

func (f *fakeEmail) SendBulk(ctx context.Context, to []string, subject, body string) []models.DeliveryFailure {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, to)
	var failures []models.DeliveryFailure
	for _, addr := range to {
		if err, ok := f.failFor[addr]; ok {
			failures = append(failures, models.DeliveryFailure{Channel: "email", Recipient: addr, Error: err.Error()})
		}
	}
	return failures
}

type fakeDeliveryLog struct {
	mu      sync.Mutex
	records []models.DeliveryRecord
}

func (f *fakeDeliveryLog) Record(ctx context.Context, rec models.DeliveryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return nil
}

func subscriber(email, phone, location string) struct{ email, phone, location string } {
	return struct{ email, phone, location string }{email, phone, location}
}

func TestBroadcastNoSubscribers(t *testing.T) {
	sms := &fakeSMS{}
	email := &fakeEmail{}
	b := &Broadcaster{Subscribers: &fakeSource{}, SMS: sms, Email: email}

	result, err := b.Broadcast(context.Background(), "a1", "Flood", "Evacuate", "")
	if err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}
	if result.Recipients != 0 {
		t.Errorf("recipients = %d, want 0", result.Recipients)
	}
	if len(sms.sent) != 0 || len(email.batches) != 0 {
		t.Error("transports were contacted with zero subscribers")
	}
}

func TestBroadcastLocationFilter(t *testing.T) {
	src := &fakeSource{subscribers: []struct{ email, phone, location string }{
		subscriber("a@x.com", "+910000000001", "Pune"),
		subscriber("b@x.com", "", "Mumbai"),
	}}
	sms := &fakeSMS{}
	email := &fakeEmail{}
	b := &Broadcaster{Subscribers: src, SMS: sms, Email: email}

	result, err := b.Broadcast(context.Background(), "a1", "Flood", "Evacuate", "pune")
	if err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}

	if len(sms.sent) != 1 || sms.sent[0] != "+910000000001" {
		t.Errorf("sms sends = %v, want exactly one to +910000000001", sms.sent)
	}
	if result.Recipients != 1 {
		t.Errorf("recipients = %d, want 1", result.Recipients)
	}
	if result.PhonesSent != 1 {
		t.Errorf("phones sent = %d, want 1", result.PhonesSent)
	}
	if len(email.batches) != 1 || len(email.batches[0]) != 1 || email.batches[0][0] != "a@x.com" {
		t.Errorf("email batches = %v, want one batch containing only a@x.com", email.batches)
	}
}

func TestBroadcastAllLocations(t *testing.T) {
	src := &fakeSource{subscribers: []struct{ email, phone, location string }{
		subscriber("a@x.com", "+910000000001", "Pune"),
		subscriber("b@x.com", "+910000000002", "Mumbai"),
		subscriber("c@x.com", "", "Delhi"),
	}}
	sms := &fakeSMS{}
	email := &fakeEmail{}
	b := &Broadcaster{Subscribers: src, SMS: sms, Email: email, Workers: 2}

	result, err := b.Broadcast(context.Background(), "a1", "Cyclone", "Stay indoors", "")
	if err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}

	if result.Recipients != 3 {
		t.Errorf("recipients = %d, want 3", result.Recipients)
	}
	if result.PhonesAttempted != 2 || result.PhonesSent != 2 {
		t.Errorf("phones attempted/sent = %d/%d, want 2/2", result.PhonesAttempted, result.PhonesSent)
	}
	if result.EmailsAttempted != 3 || result.EmailsSent != 3 {
		t.Errorf("emails attempted/sent = %d/%d, want 3/3", result.EmailsAttempted, result.EmailsSent)
	}
}

func TestBroadcastPartialFailure(t *testing.T) {
	src := &fakeSource{subscribers: []struct{ email, phone, location string }{
		subscriber("a@x.com", "+910000000001", "Pune"),
		subscriber("b@x.com", "+910000000002", "Pune"),
	}}
	sms := &fakeSMS{failFor: map[string]error{"+910000000001": errors.New("invalid number")}}
	email := &fakeEmail{failFor: map[string]error{"b@x.com": errors.New("mailbox full")}}
	log := &fakeDeliveryLog{}
	b := &Broadcaster{Subscribers: src, SMS: sms, Email: email, Deliveries: log}

	result, err := b.Broadcast(context.Background(), "a1", "Flood", "Evacuate", "Pune")
	if err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}

	if result.PhonesSent != 1 {
		t.Errorf("phones sent = %d, want 1 (one failure must not abort the rest)", result.PhonesSent)
	}
	if result.EmailsSent != 1 {
		t.Errorf("emails sent = %d, want 1", result.EmailsSent)
	}
	if len(result.Failures) != 2 {
		t.Fatalf("failures = %v, want 2 entries", result.Failures)
	}
	if result.Recipients != 2 {
		t.Errorf("recipients = %d, want 2 (attempted tally, not delivery receipts)", result.Recipients)
	}

	if len(log.records) != 1 {
		t.Fatalf("delivery log records = %d, want 1", len(log.records))
	}
	rec := log.records[0]
	if rec.AlertID != "a1" || rec.PhonesSent != 1 || rec.EmailsSent != 1 || len(rec.Failures) != 2 {
		t.Errorf("delivery record = %+v", rec)
	}
}

func TestBroadcastWithoutSMSTransport(t *testing.T) {
	src := &fakeSource{subscribers: []struct{ email, phone, location string }{
		subscriber("a@x.com", "+910000000001", "Pune"),
	}}
	email := &fakeEmail{}
	b := &Broadcaster{Subscribers: src, Email: email}

	result, err := b.Broadcast(context.Background(), "a1", "Flood", "Evacuate", "")
	if err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}
	if result.PhonesAttempted != 0 || result.PhonesSent != 0 {
		t.Errorf("phones attempted/sent = %d/%d, want 0/0 without a transport",
			result.PhonesAttempted, result.PhonesSent)
	}
	if result.EmailsAttempted != 1 || result.EmailsSent != 1 {
		t.Errorf("emails attempted/sent = %d/%d, want 1/1", result.EmailsAttempted, result.EmailsSent)
	}
	if result.Recipients != 1 {
		t.Errorf("recipients = %d, want 1 (reached over email)", result.Recipients)
	}
}

func TestBroadcastNoConfiguredTransports(t *testing.T) {
	src := &fakeSource{subscribers: []struct{ email, phone, location string }{
		subscriber("a@x.com", "+910000000001", "Pune"),
		subscriber("b@x.com", "", "Pune"),
	}}
	log := &fakeDeliveryLog{}
	b := &Broadcaster{Subscribers: src, Deliveries: log}

	result, err := b.Broadcast(context.Background(), "a1", "Flood", "Evacuate", "")
	if err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}

	if result.Recipients != 0 {
		t.Errorf("recipients = %d, want 0 when nothing can be attempted", result.Recipients)
	}
	if result.PhonesAttempted != 0 || result.EmailsAttempted != 0 {
		t.Errorf("attempted phones/emails = %d/%d, want 0/0 with no transports",
			result.PhonesAttempted, result.EmailsAttempted)
	}
	if len(log.records) != 0 {
		t.Errorf("delivery records = %d, want none for a skipped broadcast", len(log.records))
	}
}

// cancellingSMS sends one SMS successfully and then cancels the broadcast
// context, so later sends observe an expired context.
type cancellingSMS struct {
	mu     sync.Mutex
	sent   int
	cancel context.CancelFunc
}

func (c *cancellingSMS) SendSMS(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent++
	if c.sent == 1 {
		c.cancel()
	}
	return nil
}

func TestBroadcastCancelledContextPartialTallies(t *testing.T) {
	src := &fakeSource{subscribers: []struct{ email, phone, location string }{
		subscriber("", "+910000000001", "Pune"),
		subscriber("", "+910000000002", "Pune"),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sms := &cancellingSMS{cancel: cancel}
	b := &Broadcaster{Subscribers: src, SMS: sms, Workers: 1}

	result, err := b.Broadcast(ctx, "a1", "Flood", "Evacuate", "")
	if err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}

	if result.PhonesAttempted != 2 {
		t.Errorf("phones attempted = %d, want 2", result.PhonesAttempted)
	}
	if result.PhonesSent != 1 {
		t.Errorf("phones sent = %d, want 1 before cancellation", result.PhonesSent)
	}
	if len(result.Failures) != 1 {
		t.Errorf("failures = %v, want the cancelled send recorded", result.Failures)
	}
}

func TestBroadcastSourceError(t *testing.T) {
	b := &Broadcaster{Subscribers: &fakeSource{err: errors.New("db down")}}
	if _, err := b.Broadcast(context.Background(), "a1", "Flood", "Evacuate", ""); err == nil {
		t.Fatal("Broadcast did not surface subscriber resolution error")
	}
}
