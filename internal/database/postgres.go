package database

import (
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/adityavermaa/sahayata-backend/pkg/utils"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL and bootstraps the schema.
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	slog.Info("connected to PostgreSQL")

	if err = InitPostgresTables(); err != nil {
		return err
	}

	return SeedDefaultAdmin()
}

// InitPostgresTables creates all necessary tables if they don't exist.
func InitPostgresTables() error {
	queries := []string{
		// Subscribers: citizens registered to receive alerts for a location.
		// Email is stored lowercase; the unique index is the backstop for the
		// duplicate guard under concurrent registrations.
		`CREATE TABLE IF NOT EXISTS subscribers (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			email VARCHAR(255) NOT NULL UNIQUE,
			phone VARCHAR(20),
			location VARCHAR(255) NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS volunteers (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			name VARCHAR(255) NOT NULL,
			age INTEGER NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			phone VARCHAR(20),
			location VARCHAR(255),
			skills TEXT,
			availability VARCHAR(100),
			profile_pic_url TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS missing_persons (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			name VARCHAR(255) NOT NULL,
			age INTEGER NOT NULL,
			gender VARCHAR(20) NOT NULL,
			location VARCHAR(255) NOT NULL,
			date_seen VARCHAR(50) NOT NULL,
			description TEXT NOT NULL,
			notes TEXT,
			reporter_name VARCHAR(255) NOT NULL,
			reporter_contact VARCHAR(255) NOT NULL,
			reporter_relation VARCHAR(100) NOT NULL,
			photo_url TEXT,
			status VARCHAR(20) NOT NULL DEFAULT 'active'
		)`,

		`CREATE TABLE IF NOT EXISTS admins (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			username VARCHAR(50) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL
		)`,

		// Alerts are append-only; rows are never updated after insert.
		`CREATE TABLE IF NOT EXISTS alerts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			title VARCHAR(255) NOT NULL,
			message TEXT NOT NULL,
			location VARCHAR(255)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_subscribers_email ON subscribers(LOWER(email))`,
		`CREATE INDEX IF NOT EXISTS idx_subscribers_location ON subscribers(LOWER(location))`,
		`CREATE INDEX IF NOT EXISTS idx_volunteers_email ON volunteers(LOWER(email))`,
		`CREATE INDEX IF NOT EXISTS idx_missing_persons_status ON missing_persons(status)`,
		`CREATE INDEX IF NOT EXISTS idx_missing_persons_created_at ON missing_persons(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_admins_username ON admins(username)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts(created_at)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	slog.Info("PostgreSQL tables initialized")
	return nil
}

// SeedDefaultAdmin inserts the default admin account on first startup.
// Credentials are admin/admin123; change the password immediately in any
// real deployment.
func SeedDefaultAdmin() error {
	var exists bool
	err := PostgresDB.QueryRow(`SELECT EXISTS(SELECT 1 FROM admins WHERE username = 'admin')`).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}

	_, err = PostgresDB.Exec(`INSERT INTO admins (username, password_hash) VALUES ('admin', $1)`, hash)
	if err != nil {
		return err
	}

	slog.Info("seeded default admin account", "username", "admin")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection.
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
