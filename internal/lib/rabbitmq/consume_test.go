package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settlement struct {
	tag     uint64
	ack     bool
	requeue bool
}

// fakeAcknowledger записывает, как было закрыто каждое сообщение.
type fakeAcknowledger struct {
	mu   sync.Mutex
	done []settlement
}

func (f *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.done = append(f.done, settlement{tag: tag, ack: true})
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.done = append(f.done, settlement{tag: tag, requeue: requeue})
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func (f *fakeAcknowledger) settled() []settlement {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]settlement(nil), f.done...)
}

func TestConsume_SettlesByHandlerResult(t *testing.T) {
	ack := &fakeAcknowledger{}
	delivery := make(chan amqp.Delivery, 3)
	delivery <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("ok")}
	delivery <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("drop")}
	delivery <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte("retry")}
	close(delivery)

	handler := func(body []byte) error {
		switch string(body) {
		case "drop":
			return fmt.Errorf("bad payload: %w", ErrDrop)
		case "retry":
			return errors.New("smtp down")
		}
		return nil
	}

	consume(context.Background(), delivery, handler, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.ElementsMatch(t, []settlement{
		{tag: 1, ack: true},
		{tag: 2, requeue: false},
		{tag: 3, requeue: true},
	}, ack.settled())
}

func TestConsume_WaitsForHandlersOnCancel(t *testing.T) {
	ack := &fakeAcknowledger{}
	delivery := make(chan amqp.Delivery, 1)
	delivery <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: []byte("slow")}

	started := make(chan struct{})
	release := make(chan struct{})
	handler := func(_ []byte) error {
		close(started)
		<-release
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	returned := make(chan struct{})
	go func() {
		consume(ctx, delivery, handler, slog.New(slog.NewTextHandler(io.Discard, nil)))
		close(returned)
	}()

	<-started
	cancel()

	select {
	case <-returned:
		t.Fatal("consume returned while a handler was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("consume did not return after handlers finished")
	}
	require.Equal(t, []settlement{{tag: 7, ack: true}}, ack.settled())
}
