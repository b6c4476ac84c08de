package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/adityavermaa/sahayata-backend/internal/config"
	"github.com/adityavermaa/sahayata-backend/internal/database"
	"github.com/adityavermaa/sahayata-backend/internal/handlers"
	"github.com/adityavermaa/sahayata-backend/internal/middleware"
	"github.com/adityavermaa/sahayata-backend/internal/routes"
	"github.com/adityavermaa/sahayata-backend/internal/services"
	"github.com/adityavermaa/sahayata-backend/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}
	logging.Setup()

	cfg := config.Load()

	slog.Info("connecting to PostgreSQL")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer database.DisconnectPostgres()

	slog.Info("connecting to Redis")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		slog.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer database.DisconnectRedis()

	// The delivery log is best-effort; the portal runs without it.
	slog.Info("connecting to MongoDB")
	withDeliveryLog := true
	if err := database.ConnectMongo(cfg.MongoURI); err != nil {
		slog.Warn("failed to connect to MongoDB; broadcast delivery log disabled", "error", err)
		withDeliveryLog = false
	} else {
		defer database.DisconnectMongo()
	}

	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			slog.Warn("failed to initialize Cloudinary; photo uploads disabled", "error", err)
		} else {
			slog.Info("Cloudinary service initialized")
		}
	} else {
		slog.Warn("Cloudinary credentials not found; photo uploads disabled")
	}

	handlers.InitBroadcaster(cfg, withDeliveryLog)

	// Fan newly created alerts out to WebSocket clients on every instance.
	services.StartAlertFeedSubscriber(context.Background())

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r)

	slog.Info("sahayata backend running", "port", cfg.Port, "env", cfg.Environment)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
