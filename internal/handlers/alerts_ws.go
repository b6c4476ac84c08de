package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/adityavermaa/sahayata-backend/internal/services"
)

var alertsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is handled at the HTTP layer; the feed is public and
		// read-only.
		return true
	},
}

// AlertsWebSocket streams newly created alerts to connected clients. The
// feed is public: clients receive every alert published on the Redis feed
// channel, with no location filtering.
func AlertsWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := alertsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	alerts, unsubscribe := services.SubscribeAlertFeed()
	defer unsubscribe()

	done := make(chan struct{})

	// Reader loop: clients send nothing meaningful; reading services
	// ping/pong and detects disconnects.
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case alert, ok := <-alerts:
			if !ok {
				return
			}
			if err := conn.WriteJSON(alert); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
