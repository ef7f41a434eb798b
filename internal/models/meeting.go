package models

import "time"

// Meeting бронирование комнаты на интервал [StartAt, EndAt).
type Meeting struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	RoomID      int64     `json:"room_id"`
	TeamID      *int64    `json:"team_id,omitempty"`
	OrganizerID int64     `json:"organizer_id"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Overlaps сообщает, пересекается ли встреча с интервалом [start, end).
func (m *Meeting) Overlaps(start, end time.Time) bool {
	return m.StartAt.Before(end) && start.Before(m.EndAt)
}

// DummyMeeting тело запроса на создание и изменение встречи. Время в RFC 3339.
type DummyMeeting struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	RoomID  int64  `json:"room_id" validate:"required,min=1"`
	TeamID  *int64 `json:"team_id" validate:"omitempty,min=1"`
	StartAt string `json:"start_at" validate:"required"`
	EndAt   string `json:"end_at" validate:"required"`
}

// MeetingFilter параметры выборки встреч.
type MeetingFilter struct {
	RoomID *int64
	Limit  int
	Offset int
}

// MeetingEvent сообщение, публикуемое в брокер при изменении встречи.
type MeetingEvent struct {
	Type       string    `json:"type"`
	Meeting    Meeting   `json:"meeting"`
	ActorID    int64     `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
