package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/adityavermaa/sahayata-backend/internal/handlers"
	"github.com/adityavermaa/sahayata-backend/internal/middleware"
)

func SetupRoutes(r *chi.Mux) {
	// Public routes
	r.Post("/api/subscribers", handlers.RegisterSubscriber)
	r.Post("/api/volunteers", handlers.EnrollVolunteer)
	r.Get("/api/volunteers", handlers.ListVolunteers)
	r.Post("/api/missing", handlers.ReportMissingPerson)
	r.Get("/api/missing", handlers.ListMissingPersons)
	r.Get("/api/alerts", handlers.ListAlerts)
	r.Get("/api/disasters", handlers.ListDisasters)
	r.Post("/api/upload", handlers.UploadFile)

	// Live alert feed
	r.Get("/ws/alerts", handlers.AlertsWebSocket)

	// Admin auth
	r.Post("/api/admin/signin", handlers.AdminSignin)

	// Admin routes (session required)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)

		r.Post("/api/admin/signout", handlers.AdminSignout)

		r.Post("/api/admin/alerts", handlers.CreateAlert)
		r.Get("/api/admin/deliveries", handlers.ListDeliveries)

		r.Get("/api/admin/subscribers", handlers.ListSubscribers)
		r.Delete("/api/admin/subscribers", handlers.DeleteSubscriber)

		r.Get("/api/admin/volunteers", handlers.ListVolunteers)
		r.Delete("/api/admin/volunteers", handlers.DeleteVolunteer)

		r.Get("/api/admin/missing", handlers.AdminListMissingPersons)
		r.Put("/api/admin/missing/status", handlers.UpdateMissingPersonStatus)
		r.Delete("/api/admin/missing", handlers.DeleteMissingPerson)
	})
}
