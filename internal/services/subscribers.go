package services

import (
	"context"

	"github.com/adityavermaa/sahayata-backend/internal/database"
)

// PostgresSubscriberSource resolves broadcast recipients from the
// subscribers table.
type PostgresSubscriberSource struct{}

// RecipientsByLocation returns the email/phone pairs of all subscribers, or
// only those whose location equals location case-insensitively.
func (PostgresSubscriberSource) RecipientsByLocation(ctx context.Context, location string) ([]Recipient, error) {
	query := `SELECT email, COALESCE(phone, '') FROM subscribers`
	args := []interface{}{}
	if location != "" {
		query += ` WHERE LOWER(location) = LOWER($1)`
		args = append(args, location)
	}

	rows, err := database.PostgresDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []Recipient
	for rows.Next() {
		var r Recipient
		if err := rows.Scan(&r.Email, &r.Phone); err != nil {
			return nil, err
		}
		recipients = append(recipients, r)
	}
	return recipients, rows.Err()
}
