package api

import (
	"time"

	"github.com/St1cky1/taskboard/internal/api/handlers"
	"github.com/St1cky1/taskboard/internal/api/middleware"
	"github.com/St1cky1/taskboard/internal/entity"
	"github.com/St1cky1/taskboard/internal/usecase"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	TaskService *usecase.TaskService
	AuthService *usecase.AuthService
	Store       handlers.Pinger
	StoreName   string
	// Limiter is optional; nil disables rate limiting.
	Limiter middleware.Limiter
}

func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	taskHandler := handlers.NewTaskHandler(deps.TaskService)
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	healthHandler := handlers.NewHealthHandler(deps.Store, deps.StoreName)

	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		if deps.Limiter != nil {
			r.Use(middleware.RateLimit(deps.Limiter))
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(middleware.Auth(deps.AuthService))

			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.CreateTask)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTask)
				r.Put("/", taskHandler.UpdateTask)
				r.With(middleware.RequireRole(entity.RoleAdmin)).Delete("/", taskHandler.DeleteTask)
				r.Get("/history", taskHandler.TaskHistory)
			})
		})
	})

	return r
}
