package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/linemk/coin-users/internal/app/handlers"
	"github.com/linemk/coin-users/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/coin-users/internal/lib/logger/handlers/urllog"
	"github.com/linemk/coin-users/internal/service"
)

// Pinger — то, что умеет проверить доступность БД (*sql.DB подходит)
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps зависимости HTTP-слоя
type RouterDeps struct {
	AuthService    service.AuthServiceInterface
	UserService    service.UserService
	JWTSecret      string
	AllowedOrigins []string
	DB             Pinger // может быть nil
}

// NewRouter собирает таблицу маршрутов.
// /auth/* и POST /users публичные, остальное под JWT.
func NewRouter(log *slog.Logger, deps RouterDeps) http.Handler {
	router := chi.NewRouter()

	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	router.Get("/health", healthHandler(log, deps.DB))

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", handlers.RegisterHandler(log, deps.AuthService))
		r.Post("/login", handlers.LoginHandler(log, deps.AuthService))
	})

	router.Route("/users", func(r chi.Router) {
		// создание пользователя доступно без токена
		r.Post("/", handlers.CreateUserHandler(log, deps.UserService))

		r.Group(func(r chi.Router) {
			r.Use(jwtmiddleware.NewJWTMiddleware(deps.JWTSecret))
			r.Get("/", handlers.ListUsersHandler(log, deps.UserService))
			r.Get("/{id}", handlers.GetUserHandler(log, deps.UserService))
			r.Patch("/{id}", handlers.UpdateUserHandler(log, deps.UserService))
			r.Delete("/{id}", handlers.DeleteUserHandler(log, deps.UserService))
		})
	})

	return router
}

func healthHandler(log *slog.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, payload := http.StatusOK, map[string]string{"status": "ok"}

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				log.Error("health probe failed", slog.Any("error", err))
				status, payload = http.StatusServiceUnavailable, map[string]string{"status": "degraded"}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}
}
