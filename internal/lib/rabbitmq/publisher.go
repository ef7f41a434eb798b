// Package rabbitmq публикует события о встречах в RabbitMQ и читает их из очередей.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/room-booking/internal/models"
)

// Типы событий о встречах, они же routing key.
const (
	EventMeetingCreated   = "meeting.created"
	EventMeetingUpdated   = "meeting.updated"
	EventMeetingCancelled = "meeting.cancelled"
)

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Publisher отправляет события в exchange. Канал amqp не потокобезопасен,
// поэтому публикация идёт под мьютексом.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	mu       sync.Mutex
}

// NewPublisher подключается к брокеру и готовит exchange.
func NewPublisher(url, exchange string, retries int, delay time.Duration) (*Publisher, error) {
	const op = "rabbitmq.NewPublisher"
	conn, err := Connect(url, retries, delay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := SetupChannel(conn, exchange)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishMeetingEvent публикует событие с routing key, равным его типу.
func (p *Publisher) PublishMeetingEvent(_ context.Context, event models.MeetingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PublishMessage(p.ch, p.exchange, event.Type, event)
}

// Close закрывает канал и соединение.
func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// LogPublisher пишет события в лог. Используется, когда брокер не настроен.
type LogPublisher struct {
	log *slog.Logger
}

// NewLogPublisher создаёт LogPublisher.
func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

// PublishMeetingEvent логирует событие.
func (p *LogPublisher) PublishMeetingEvent(_ context.Context, event models.MeetingEvent) error {
	p.log.Info("meeting event",
		slog.String("type", event.Type),
		slog.Int64("meeting_id", event.Meeting.ID),
		slog.Int64("actor_id", event.ActorID),
	)
	return nil
}

// Close ничего не делает.
func (p *LogPublisher) Close() error {
	return nil
}
