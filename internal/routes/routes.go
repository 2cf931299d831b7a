package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mindmate-backend/internal/handlers"
	"github.com/AnshRaj112/mindmate-backend/internal/middleware"
	"github.com/AnshRaj112/mindmate-backend/internal/services"
)

// SetupRoutes mounts the API. authLimit guards register and login; pass nil
// to leave them unthrottled.
func SetupRoutes(r chi.Router, h *handlers.Handler, sessions *services.SessionManager, authLimit func(http.Handler) http.Handler) {
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if authLimit != nil {
					r.Use(authLimit)
				}
				r.Post("/register", h.Register)
				r.Post("/login", h.Login)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSession(sessions))
				r.Post("/logout", h.Logout)
				r.Get("/me", h.Me)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessions))

			r.Get("/journals", h.ListJournals)
			r.Post("/journals", h.CreateJournal)
			r.Get("/journals/{id}", h.GetJournal)
			r.Put("/journals/{id}", h.UpdateJournal)
			r.Delete("/journals/{id}", h.DeleteJournal)

			r.Get("/mood", h.MoodHistory)
			r.Post("/mood", h.RecordMood)
			r.Get("/mood/today", h.TodayMood)
			r.Get("/mood/weekly", h.WeeklyMood)

			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.UpdateSettings)
			r.Post("/settings/theme/toggle", h.ToggleTheme)
		})
	})
}
