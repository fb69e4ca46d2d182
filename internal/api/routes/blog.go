package routes

import (
	"github.com/go-chi/chi/v5"

	"Blogroll/internal/api/handlers/blog"
	"Blogroll/internal/api/middleware"
)

// RegisterBlogRoutes registers the sign-in endpoint and the session-scoped
// blog endpoints on the router
func RegisterBlogRoutes(r chi.Router, handler *blog.Handler, sessions *middleware.SessionMiddleware) {
	r.Post("/auth/session", handler.HandleSignIn)

	r.Route("/blog", func(r chi.Router) {
		r.Use(sessions.RequireSession)

		// Queries
		r.Get("/state", handler.HandleState)
		r.Get("/entries/{id}", handler.HandleGetEntry)
		r.Get("/notifications", handler.HandleNotifications)
		r.Get("/stream", handler.HandleStream)

		// Intents
		r.Post("/entries/load", handler.HandleLoadEntries)
		r.Post("/entries/{id}/open", handler.HandleOpenEntry)
		r.Post("/entries/{id}/comments/load", handler.HandleLoadComments)
		r.Post("/entries/{id}/comments", handler.HandleAddComment)
		r.Post("/entries/{id}/like", handler.HandleLike)
		r.Post("/entries/{id}/unlike", handler.HandleUnlike)
		r.Post("/entries/{id}/rate", handler.HandleRate)
		r.Post("/voting-experience/load", handler.HandleLoadVotingExperience)
		r.Post("/permissions/load", handler.HandleLoadPermissions)
	})
}
