package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/room-booking/internal/lib/sl"
)

// ErrDrop помечает сообщение, которое бессмысленно доставлять повторно.
// Такое сообщение отклоняется без возврата в очередь.
var ErrDrop = errors.New("drop message")

// ErrDeliveryClosed возвращается, если брокер закрыл доставку до отмены контекста.
var ErrDeliveryClosed = errors.New("delivery channel closed")

// maxInFlight ограничивает число одновременно обрабатываемых сообщений.
const maxInFlight = 10

// BindQueue объявляет долговечную очередь и привязывает её к exchange
// по каждому из ключей.
func BindQueue(ch *amqp.Channel, exchange, queue string, keys ...string) error {
	const op = "rabbitmq.BindQueue"
	_, err := ch.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, key := range keys {
		if err = ch.QueueBind(queue, key, exchange, false, nil); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// ConsumerMessage читает очередь queueName и передаёт тело каждого сообщения в handler.
//
// Успех подтверждается ack. Ошибка с ErrDrop отклоняет сообщение,
// любая другая возвращает его в очередь. Функция блокируется до отмены ctx
// или закрытия доставки (тогда ErrDeliveryClosed) и возвращается только
// после завершения всех запущенных обработчиков.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, handler func([]byte) error, log *slog.Logger) error {
	const op = "rabbitmq.ConsumerMessage"

	if err := ch.Qos(maxInFlight, 0, false); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	consume(ctx, delivery, handler, log)
	if ctx.Err() == nil {
		return fmt.Errorf("%s: %w", op, ErrDeliveryClosed)
	}
	return nil
}

// consume раздаёт сообщения не более чем maxInFlight обработчикам и ждёт их завершения.
func consume(ctx context.Context, delivery <-chan amqp.Delivery, handler func([]byte) error, log *slog.Logger) {
	var wg sync.WaitGroup
	defer wg.Wait()

	sem := make(chan struct{}, maxInFlight)
	for {
		select {
		case d, ok := <-delivery:
			if !ok {
				return
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				settle(d, fmt.Errorf("shutting down: %w", ctx.Err()), log)
				return
			}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				settle(d, handler(d.Body), log)
			}(d)
		case <-ctx.Done():
			return
		}
	}
}

func settle(d amqp.Delivery, err error, log *slog.Logger) {
	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			log.Error("failed to ack message", sl.Err(ackErr))
		}
	case errors.Is(err, ErrDrop):
		log.Warn("dropping message", slog.String("routing_key", d.RoutingKey), sl.Err(err))
		if nackErr := d.Nack(false, false); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
	default:
		log.Error("failed to handle message, requeue", slog.String("routing_key", d.RoutingKey), sl.Err(err))
		if nackErr := d.Nack(false, true); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
	}
}
