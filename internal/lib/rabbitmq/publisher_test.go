//go:build integration

package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/room-booking/internal/models"
)

func TestPublisher_PublishMeetingEvent(t *testing.T) {
	ctx := context.Background()
	uri := setupRabbitMQ(ctx, t)

	const exchange = "booking.events.publish"
	p, err := NewPublisher(uri, exchange, 5, time.Second)
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	ch, err := p.conn.Channel()
	require.NoError(t, err)
	defer func() { _ = ch.Close() }()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "meeting.*", exchange, false, nil))

	deliveries, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	require.NoError(t, err)

	event := models.MeetingEvent{
		Type:    EventMeetingCreated,
		Meeting: models.Meeting{ID: 11, Title: "Standup", RoomID: 1, OrganizerID: 7},
		ActorID: 7,
	}
	require.NoError(t, p.PublishMeetingEvent(ctx, event))

	select {
	case d := <-deliveries:
		assert.Equal(t, EventMeetingCreated, d.RoutingKey)
		assert.Equal(t, "application/json", d.ContentType)
		var got models.MeetingEvent
		require.NoError(t, json.Unmarshal(d.Body, &got))
		assert.Equal(t, int64(11), got.Meeting.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for meeting event")
	}
}
