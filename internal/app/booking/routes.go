package booking

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/room-booking/internal/config"
	"github.com/magabrotheeeer/room-booking/internal/http/handlers/health"
	"github.com/magabrotheeeer/room-booking/internal/http/handlers/meeting"
	"github.com/magabrotheeeer/room-booking/internal/http/handlers/room"
	"github.com/magabrotheeeer/room-booking/internal/http/handlers/team"
	"github.com/magabrotheeeer/room-booking/internal/http/handlers/user/create"
	"github.com/magabrotheeeer/room-booking/internal/http/handlers/user/login"
	"github.com/magabrotheeeer/room-booking/internal/http/handlers/user/logout"
	"github.com/magabrotheeeer/room-booking/internal/http/handlers/user/read"
	"github.com/magabrotheeeer/room-booking/internal/http/handlers/user/remove"
	"github.com/magabrotheeeer/room-booking/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/room-booking/internal/http/middlewarectx"
)

// Services набор зависимостей, из которых собираются маршруты.
type Services struct {
	Auth     AuthService
	Users    UserService
	Rooms    room.Service
	Teams    team.Service
	Meetings meeting.Service
	DB       health.Pinger
}

// UserService объединяет операции над учётными записями.
type UserService interface {
	create.Service
	read.Service
	update.Service
	remove.Service
}

// AuthService объединяет вход, выход и проверку токена.
type AuthService interface {
	login.Service
	logout.Service
	middlewarectx.TokenValidator
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, svc Services, reg *prometheus.Registry) {
	metrics := middlewarectx.NewMetrics(reg)

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Создание пользователей доступно только оператору
		r.With(middlewarectx.OperatorMiddleware(cfg.OperatorSecret, logger)).
			Post("/users", create.New(logger, svc.Users).ServeHTTP)

		r.With(middlewarectx.RateLimitMiddleware(logger, cfg.LoginRPS, cfg.LoginBurst)).
			Post("/users/login", login.New(logger, svc.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Auth, logger))

			r.Post("/users/logout", logout.New(logger, svc.Auth).ServeHTTP)
			r.Get("/users/{id}", read.New(logger, svc.Users).ServeHTTP)
			r.Put("/users/{id}", update.New(logger, svc.Users).ServeHTTP)
			r.Delete("/users/{id}", remove.New(logger, svc.Users).ServeHTTP)

			rooms := room.New(logger, svc.Rooms)
			r.Post("/rooms", rooms.Create)
			r.Get("/rooms", rooms.List)
			r.Get("/rooms/{id}", rooms.Get)
			r.Put("/rooms/{id}", rooms.Update)
			r.Delete("/rooms/{id}", rooms.Delete)

			teams := team.New(logger, svc.Teams)
			r.Post("/teams", teams.Create)
			r.Get("/teams", teams.List)
			r.Get("/teams/{id}", teams.Get)
			r.Put("/teams/{id}", teams.Update)
			r.Delete("/teams/{id}", teams.Delete)

			meetings := meeting.New(logger, svc.Meetings)
			r.Post("/meetings", meetings.Create)
			r.Get("/meetings", meetings.List)
			r.Get("/meetings/{id}", meetings.Get)
			r.Put("/meetings/{id}", meetings.Update)
			r.Delete("/meetings/{id}", meetings.Delete)
		})
	})

	r.Get("/health", health.New(logger, svc.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
