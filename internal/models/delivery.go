package models

import "time"

// DeliveryFailure records a single failed transport send during a broadcast.
type DeliveryFailure struct {
	Channel   string `json:"channel" bson:"channel"` // "sms" or "email"
	Recipient string `json:"recipient" bson:"recipient"`
	Error     string `json:"error" bson:"error"`
}

// DeliveryRecord is the per-broadcast delivery log document stored in the
// MongoDB delivery_log collection. Counts are attempted/succeeded per
// channel; Recipients is the number of distinct subscribers for whom at
// least one send was attempted.
type DeliveryRecord struct {
	AlertID         string            `json:"alert_id" bson:"alert_id"`
	Title           string            `json:"title" bson:"title"`
	Location        string            `json:"location,omitempty" bson:"location,omitempty"`
	StartedAt       time.Time         `json:"started_at" bson:"started_at"`
	FinishedAt      time.Time         `json:"finished_at" bson:"finished_at"`
	PhonesAttempted int               `json:"phones_attempted" bson:"phones_attempted"`
	PhonesSent      int               `json:"phones_sent" bson:"phones_sent"`
	EmailsAttempted int               `json:"emails_attempted" bson:"emails_attempted"`
	EmailsSent      int               `json:"emails_sent" bson:"emails_sent"`
	Recipients      int               `json:"recipients" bson:"recipients"`
	Failures        []DeliveryFailure `json:"failures,omitempty" bson:"failures,omitempty"`
}
