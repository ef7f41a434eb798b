// Package notifier собирает воркер, который читает события о встречах
// из RabbitMQ и рассылает уведомления.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/room-booking/internal/config"
	"github.com/magabrotheeeer/room-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/room-booking/internal/lib/sl"
	"github.com/magabrotheeeer/room-booking/internal/lib/smtp"
	notifierservice "github.com/magabrotheeeer/room-booking/internal/services/notifier"
)

// App представляет приложение воркера уведомлений.
type App struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	queue    string
	notifier *notifierservice.NotifierService
	logger   *slog.Logger
}

// New подключается к брокеру и привязывает очередь уведомлений ко всем событиям о встречах.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.notifier.New"
	if cfg.URL == "" {
		return nil, errors.New("rabbitmq url is required for the notifier")
	}

	conn, err := rabbitmq.Connect(cfg.URL, cfg.RabbitMQ.MaxRetries, cfg.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = rabbitmq.BindQueue(ch, cfg.Exchange, cfg.Queue,
		rabbitmq.EventMeetingCreated,
		rabbitmq.EventMeetingUpdated,
		rabbitmq.EventMeetingCancelled,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var transport smtp.TransportInterface
	if cfg.SMTPHost != "" {
		transport = smtp.NewTransport(cfg.Notifier, logger)
	} else {
		logger.Info("smtp host is empty, notifications go to log")
	}

	return &App{
		conn:     conn,
		ch:       ch,
		queue:    cfg.Queue,
		notifier: notifierservice.NewNotifierService(transport, cfg.MailTo, logger),
		logger:   logger,
	}, nil
}

// Run читает очередь до отмены ctx. Канал и соединение закрываются
// после завершения всех начатых обработчиков.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("notifier consuming", slog.String("queue", a.queue))
	err := rabbitmq.ConsumerMessage(ctx, a.ch, a.queue, a.notifier.HandleMeetingEvent, a.logger)
	if err != nil {
		a.logger.Error("consumer stopped", slog.String("queue", a.queue), sl.Err(err))
	} else {
		a.logger.Info("notifier shutting down gracefully")
	}

	if cerr := a.ch.Close(); cerr != nil {
		a.logger.Error("failed to close channel", sl.Err(cerr))
	}
	if cerr := a.conn.Close(); cerr != nil {
		a.logger.Error("failed to close connection", sl.Err(cerr))
	}
	return err
}
