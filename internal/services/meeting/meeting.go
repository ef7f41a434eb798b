// Package meeting содержит бизнес-логику бронирования комнат.
package meeting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/room-booking/internal/lib/apperr"
	"github.com/magabrotheeeer/room-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/room-booking/internal/lib/sl"
	"github.com/magabrotheeeer/room-booking/internal/models"
	"github.com/magabrotheeeer/room-booking/internal/services/access"
)

// Ограничения страницы выборки.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// MeetingRepository определяет методы для работы со встречами в хранилище.
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, m models.Meeting) (*models.Meeting, error)
	GetMeeting(ctx context.Context, id int64) (*models.Meeting, error)
	ListMeetings(ctx context.Context, filter models.MeetingFilter) ([]*models.Meeting, error)
	UpdateMeeting(ctx context.Context, id int64, m models.Meeting) (*models.Meeting, error)
	SoftDeleteMeeting(ctx context.Context, id int64) error
}

// EventPublisher отправляет события о встречах.
type EventPublisher interface {
	PublishMeetingEvent(ctx context.Context, event models.MeetingEvent) error
}

// MeetingService реализует бронирование. Менять встречу может её организатор
// или администратор.
type MeetingService struct {
	repo      MeetingRepository
	users     access.UserGetter
	publisher EventPublisher
	log       *slog.Logger
	now       func() time.Time
}

// NewMeetingService создает новый экземпляр MeetingService.
func NewMeetingService(repo MeetingRepository, users access.UserGetter, publisher EventPublisher, log *slog.Logger) *MeetingService {
	return &MeetingService{
		repo:      repo,
		users:     users,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func parseInterval(req models.DummyMeeting) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start_at: %w", apperr.ErrBadRequest, err)
	}
	end, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end_at: %w", apperr.ErrBadRequest, err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_at must be after start_at", apperr.ErrBadRequest)
	}
	return start.UTC(), end.UTC(), nil
}

// Create бронирует комнату от имени actorID.
func (s *MeetingService) Create(ctx context.Context, actorID int64, req models.DummyMeeting) (*models.Meeting, error) {
	const op = "meeting.Create"

	start, end, err := parseInterval(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	actor, err := access.Actor(ctx, s.users, actorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.repo.CreateMeeting(ctx, models.Meeting{
		Title:       req.Title,
		RoomID:      req.RoomID,
		TeamID:      req.TeamID,
		OrganizerID: actor.ID,
		StartAt:     start,
		EndAt:       end,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.publish(ctx, rabbitmq.EventMeetingCreated, *created, actor.ID)
	return created, nil
}

// Get возвращает встречу по ID.
func (s *MeetingService) Get(ctx context.Context, id int64) (*models.Meeting, error) {
	const op = "meeting.Get"
	m, err := s.repo.GetMeeting(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// List возвращает встречи по фильтру. Лимит приводится к [1, MaxLimit].
func (s *MeetingService) List(ctx context.Context, filter models.MeetingFilter) ([]*models.Meeting, error) {
	const op = "meeting.List"
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultLimit
	case filter.Limit > MaxLimit:
		filter.Limit = MaxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	meetings, err := s.repo.ListMeetings(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return meetings, nil
}

// Update переносит или переименовывает встречу.
func (s *MeetingService) Update(ctx context.Context, actorID, id int64, req models.DummyMeeting) (*models.Meeting, error) {
	const op = "meeting.Update"

	start, end, err := parseInterval(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	existing, actor, err := s.authorize(ctx, actorID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.repo.UpdateMeeting(ctx, id, models.Meeting{
		Title:       req.Title,
		RoomID:      req.RoomID,
		TeamID:      req.TeamID,
		OrganizerID: existing.OrganizerID,
		StartAt:     start,
		EndAt:       end,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.publish(ctx, rabbitmq.EventMeetingUpdated, *updated, actor.ID)
	return updated, nil
}

// Delete отменяет встречу.
func (s *MeetingService) Delete(ctx context.Context, actorID, id int64) error {
	const op = "meeting.Delete"

	existing, actor, err := s.authorize(ctx, actorID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.repo.SoftDeleteMeeting(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.publish(ctx, rabbitmq.EventMeetingCancelled, *existing, actor.ID)
	return nil
}

// authorize загружает встречу и проверяет, что actorID её организатор или администратор.
func (s *MeetingService) authorize(ctx context.Context, actorID, id int64) (*models.Meeting, *models.User, error) {
	actor, err := access.Actor(ctx, s.users, actorID)
	if err != nil {
		return nil, nil, err
	}
	existing, err := s.repo.GetMeeting(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !actor.CanAccess(existing.OrganizerID) {
		return nil, nil, fmt.Errorf("%w: only the organizer or an admin may change a meeting", apperr.ErrForbidden)
	}
	return existing, actor, nil
}

func (s *MeetingService) publish(ctx context.Context, eventType string, m models.Meeting, actorID int64) {
	event := models.MeetingEvent{
		Type:       eventType,
		Meeting:    m,
		ActorID:    actorID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishMeetingEvent(ctx, event); err != nil {
		s.log.Error("failed to publish meeting event",
			slog.String("type", eventType), slog.Int64("meeting_id", m.ID), sl.Err(err))
	}
}
