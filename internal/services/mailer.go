package services

import (
	"context"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/adityavermaa/sahayata-backend/internal/models"
)

// SMTPMailer sends alert emails over SMTP. All recipients of one broadcast
// share a single dialed connection; a failed dial marks every address as
// failed.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
}

func NewSMTPMailer(host string, port int, user, pass string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, pass: pass}
}

// SendBulk implements EmailSender.
func (m *SMTPMailer) SendBulk(ctx context.Context, to []string, subject, body string) []models.DeliveryFailure {
	if len(to) == 0 {
		return nil
	}

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	if m.port == 465 {
		d.SSL = true
	}

	sender, err := d.Dial()
	if err != nil {
		slog.Warn("smtp dial failed", "host", m.host, "error", err)
		failures := make([]models.DeliveryFailure, 0, len(to))
		for _, addr := range to {
			failures = append(failures, models.DeliveryFailure{
				Channel:   "email",
				Recipient: addr,
				Error:     err.Error(),
			})
		}
		return failures
	}
	defer sender.Close()

	msg := gomail.NewMessage()
	var failures []models.DeliveryFailure
	for _, addr := range to {
		if err := ctx.Err(); err != nil {
			failures = append(failures, models.DeliveryFailure{
				Channel:   "email",
				Recipient: addr,
				Error:     err.Error(),
			})
			continue
		}

		msg.Reset()
		msg.SetHeader("From", m.user)
		msg.SetHeader("To", addr)
		msg.SetHeader("Subject", subject)
		msg.SetBody("text/plain", body)

		if err := gomail.Send(sender, msg); err != nil {
			slog.Warn("email send failed", "to", addr, "error", err)
			failures = append(failures, models.DeliveryFailure{
				Channel:   "email",
				Recipient: addr,
				Error:     err.Error(),
			})
		}
	}
	return failures
}
