package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-user-activation/internal/middlewares"
)

// AccountService is everything the user routes need from the lifecycle layer.
type AccountService interface {
	Registerer
	Activator
	Resender
}

// RegisterRoutes mounts the user and health routes on r.
func RegisterRoutes(r chi.Router, svc AccountService, p Pinger) {
	r.Get("/health", NewHealthHandler(p))

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", NewRegisterHandler(svc))

		r.Group(func(r chi.Router) {
			r.Use(middlewares.BasicAuthMiddleware(""))
			r.Post("/activate", NewActivateHandler(svc))
			r.Post("/activate/resend", NewResendHandler(svc))
		})
	})
}
