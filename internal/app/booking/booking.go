// Package booking собирает приложение: хранилище, кэш, брокер событий,
// сервисы и HTTP-маршруты.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/room-booking/internal/cache"
	"github.com/magabrotheeeer/room-booking/internal/config"
	"github.com/magabrotheeeer/room-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/room-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/room-booking/internal/lib/sl"
	"github.com/magabrotheeeer/room-booking/internal/migrations"
	authservice "github.com/magabrotheeeer/room-booking/internal/services/auth"
	meetingservice "github.com/magabrotheeeer/room-booking/internal/services/meeting"
	roomservice "github.com/magabrotheeeer/room-booking/internal/services/room"
	teamservice "github.com/magabrotheeeer/room-booking/internal/services/team"
	userservice "github.com/magabrotheeeer/room-booking/internal/services/user"
	"github.com/magabrotheeeer/room-booking/internal/storage"
)

const shutdownTimeout = 15 * time.Second

type eventPublisher interface {
	meetingservice.EventPublisher
	Close() error
}

// App HTTP-приложение сервиса бронирования.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *storage.Storage
	cache     *cache.Cache
	publisher eventPublisher
}

// New инициализирует зависимости и применяет миграции.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	publisher, err := newPublisher(cfg.RabbitMQ, logger)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	svc := Services{
		Auth:     authservice.NewAuthService(db, cacheRedis, jwtMaker),
		Users:    userservice.NewUserService(db, cacheRedis, cfg.TokenTTL, logger),
		Rooms:    roomservice.NewRoomService(db, db, cacheRedis, logger),
		Teams:    teamservice.NewTeamService(db, db),
		Meetings: meetingservice.NewMeetingService(db, db, publisher, logger),
		DB:       db,
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, svc, reg)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		cache:     cacheRedis,
		publisher: publisher,
	}, nil
}

// newPublisher подключается к RabbitMQ, если задан URL. Иначе события только логируются.
func newPublisher(cfg config.RabbitMQ, logger *slog.Logger) (eventPublisher, error) {
	if cfg.URL == "" {
		logger.Info("rabbitmq url is empty, meeting events go to log")
		return rabbitmq.NewLogPublisher(logger), nil
	}
	return rabbitmq.NewPublisher(cfg.URL, cfg.Exchange, cfg.MaxRetries, cfg.RetryDelay)
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Error("failed to close publisher", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
