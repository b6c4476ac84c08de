package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adityavermaa/sahayata-backend/internal/config"
	"github.com/adityavermaa/sahayata-backend/internal/database"
	"github.com/adityavermaa/sahayata-backend/internal/models"
	"github.com/adityavermaa/sahayata-backend/internal/services"
)

var (
	broadcaster      *services.Broadcaster
	broadcastTimeout = 30 * time.Second
)

// InitBroadcaster wires the alert broadcaster from configuration. Transports
// that are not configured are left nil; the broadcaster skips them and the
// alert log still grows.
func InitBroadcaster(cfg *config.Config, withDeliveryLog bool) {
	b := &services.Broadcaster{
		Subscribers: services.PostgresSubscriberSource{},
		Workers:     cfg.BroadcastWorkers,
	}

	if cfg.HasTwilio() {
		b.SMS = services.NewTwilioSMS(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom)
	} else {
		slog.Warn("Twilio credentials not set; alert SMS disabled")
	}

	if cfg.HasSMTP() {
		b.Email = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	} else {
		slog.Warn("SMTP credentials not set; alert emails disabled")
	}

	if withDeliveryLog {
		b.Deliveries = services.MongoDeliveryLog{}
	}

	broadcaster = b
	broadcastTimeout = cfg.BroadcastTimeout
}

// CreateAlertRequest represents an admin alert-creation request.
type CreateAlertRequest struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

// CreateAlertResponse is returned after an alert is created and broadcast.
// Recipients counts distinct subscribers for whom at least one send was
// attempted; Failures counts individual failed sends.
type CreateAlertResponse struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
	Alert      *models.Alert `json:"alert,omitempty"`
	Recipients int           `json:"recipients"`
	Failures   int           `json:"failures"`
}

// ListAlertsResponse lists alerts newest-first.
type ListAlertsResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Alerts  []models.Alert `json:"alerts"`
	Total   int            `json:"total"`
}

// CreateAlert persists a new alert and broadcasts it to subscribers (admin
// only). The alert row is written before any transport is contacted, so a
// transport outage never loses the alert log. The handler waits for the
// fan-out up to the configured broadcast timeout.
func CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	message := strings.TrimSpace(req.Message)
	location := strings.TrimSpace(req.Location)

	if title == "" || message == "" {
		writeMessage(w, http.StatusBadRequest, false, "Title and message are required")
		return
	}

	alert := models.Alert{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Title:     title,
		Message:   message,
		Location:  location,
	}

	_, err := database.PostgresDB.Exec(`
		INSERT INTO alerts (id, created_at, title, message, location)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
	`, alert.ID, alert.CreatedAt, alert.Title, alert.Message, alert.Location)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, false, "Failed to store alert")
		return
	}

	// Push to the live feed; WebSocket clients see the alert even when
	// every transport send fails.
	if err := services.PublishAlert(r.Context(), alert); err != nil {
		slog.Warn("failed to publish alert to live feed", "alert_id", alert.ID, "error", err)
	}

	ctx, cancel := context.WithTimeout(r.Context(), broadcastTimeout)
	defer cancel()

	result, err := broadcaster.Broadcast(ctx, alert.ID.String(), alert.Title, alert.Message, alert.Location)
	if err != nil {
		slog.Error("broadcast failed", "alert_id", alert.ID, "error", err)
		writeJSON(w, http.StatusCreated, CreateAlertResponse{
			Success: true,
			Message: "Alert stored, but broadcast failed",
			Alert:   &alert,
		})
		return
	}

	msg := "Alert stored and sent to " + strconv.Itoa(result.Recipients) + " subscribers"
	if result.Recipients == 0 {
		msg = "Alert stored, but no subscribers received it"
	}

	writeJSON(w, http.StatusCreated, CreateAlertResponse{
		Success:    true,
		Message:    msg,
		Alert:      &alert,
		Recipients: result.Recipients,
		Failures:   len(result.Failures),
	})
}

// ListAlerts returns the alert log, newest-first.
func ListAlerts(w http.ResponseWriter, r *http.Request) {
	rows, err := database.PostgresDB.Query(`
		SELECT id, created_at, title, message, COALESCE(location, '')
		FROM alerts
		ORDER BY created_at DESC
	`)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ListAlertsResponse{
			Success: false, Message: "Failed to fetch alerts", Alerts: []models.Alert{},
		})
		return
	}
	defer rows.Close()

	alerts := make([]models.Alert, 0)
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.CreatedAt, &a.Title, &a.Message, &a.Location); err != nil {
			writeJSON(w, http.StatusInternalServerError, ListAlertsResponse{
				Success: false, Message: "Failed to scan alerts", Alerts: []models.Alert{},
			})
			return
		}
		alerts = append(alerts, a)
	}

	writeJSON(w, http.StatusOK, ListAlertsResponse{
		Success: true,
		Alerts:  alerts,
		Total:   len(alerts),
	})
}

// ListDisasters returns alerts in the legacy disaster-feed shape consumed by
// the map frontend.
func ListDisasters(w http.ResponseWriter, r *http.Request) {
	rows, err := database.PostgresDB.Query(`
		SELECT id, created_at, title, message, COALESCE(location, '')
		FROM alerts
		ORDER BY created_at DESC
	`)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, false, "Failed to fetch disasters")
		return
	}
	defer rows.Close()

	result := make([]map[string]interface{}, 0)
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.CreatedAt, &a.Title, &a.Message, &a.Location); err != nil {
			writeMessage(w, http.StatusInternalServerError, false, "Failed to scan disasters")
			return
		}
		loc := a.Location
		if loc == "" {
			loc = "General Area"
		}
		result = append(result, map[string]interface{}{
			"id":            a.ID.String(),
			"disaster_type": a.Title,
			"location":      loc,
			"datetime":      a.CreatedAt,
			"message":       a.Message,
		})
	}

	writeJSON(w, http.StatusOK, result)
}

// ListDeliveriesResponse lists broadcast delivery records.
type ListDeliveriesResponse struct {
	Success    bool                    `json:"success"`
	Message    string                  `json:"message,omitempty"`
	Deliveries []models.DeliveryRecord `json:"deliveries"`
	Total      int                     `json:"total"`
}

// ListDeliveries returns the broadcast delivery log, newest-first (admin
// only).
func ListDeliveries(w http.ResponseWriter, r *http.Request) {
	if database.MongoDB == nil {
		writeJSON(w, http.StatusServiceUnavailable, ListDeliveriesResponse{
			Success: false, Message: "Delivery log is not available", Deliveries: []models.DeliveryRecord{},
		})
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	records, err := services.RecentDeliveries(ctx, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ListDeliveriesResponse{
			Success: false, Message: "Failed to fetch delivery log", Deliveries: []models.DeliveryRecord{},
		})
		return
	}

	writeJSON(w, http.StatusOK, ListDeliveriesResponse{
		Success:    true,
		Deliveries: records,
		Total:      len(records),
	})
}
