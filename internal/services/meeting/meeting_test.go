package meeting

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/room-booking/internal/lib/apperr"
	"github.com/magabrotheeeer/room-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/room-booking/internal/models"
)

type MeetingRepoMock struct {
	mock.Mock
}

func (m *MeetingRepoMock) CreateMeeting(ctx context.Context, mt models.Meeting) (*models.Meeting, error) {
	args := m.Called(ctx, mt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MeetingRepoMock) GetMeeting(ctx context.Context, id int64) (*models.Meeting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MeetingRepoMock) ListMeetings(ctx context.Context, filter models.MeetingFilter) ([]*models.Meeting, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meeting), args.Error(1)
}

func (m *MeetingRepoMock) UpdateMeeting(ctx context.Context, id int64, mt models.Meeting) (*models.Meeting, error) {
	args := m.Called(ctx, id, mt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MeetingRepoMock) SoftDeleteMeeting(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) PublishMeetingEvent(ctx context.Context, event models.MeetingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type usersStub map[int64]*models.User

func (s usersStub) GetUser(_ context.Context, id int64) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, apperr.ErrNotFound
}

var users = usersStub{
	1: {ID: 1, Role: models.RoleAdmin},
	7: {ID: 7, Role: models.RoleUser},
	9: {ID: 9, Role: models.RoleUser},
}

var (
	start = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	end   = start.Add(time.Hour)
)

func validRequest() models.DummyMeeting {
	return models.DummyMeeting{
		Title:   "Planning",
		RoomID:  3,
		StartAt: start.Format(time.RFC3339),
		EndAt:   end.Format(time.RFC3339),
	}
}

func newService() (*MeetingService, *MeetingRepoMock, *PublisherMock) {
	repo := new(MeetingRepoMock)
	pub := new(PublisherMock)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMeetingService(repo, users, pub, log), repo, pub
}

func eventOfType(eventType string) any {
	return mock.MatchedBy(func(e models.MeetingEvent) bool { return e.Type == eventType })
}

func TestMeetingService_Create(t *testing.T) {
	t.Run("books room for actor", func(t *testing.T) {
		svc, repo, pub := newService()
		want := mock.MatchedBy(func(m models.Meeting) bool {
			return m.Title == "Planning" && m.RoomID == 3 && m.OrganizerID == 7 &&
				m.TeamID == nil && m.StartAt.Equal(start) && m.EndAt.Equal(end)
		})
		repo.On("CreateMeeting", mock.Anything, want).Return(&models.Meeting{ID: 11, Title: "Planning", RoomID: 3, OrganizerID: 7, StartAt: start, EndAt: end}, nil).Once()
		pub.On("PublishMeetingEvent", mock.Anything, eventOfType(rabbitmq.EventMeetingCreated)).Return(nil).Once()

		got, err := svc.Create(context.Background(), 7, validRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(11), got.ID)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("publish failure does not fail booking", func(t *testing.T) {
		svc, repo, pub := newService()
		repo.On("CreateMeeting", mock.Anything, mock.Anything).Return(&models.Meeting{ID: 11}, nil).Once()
		pub.On("PublishMeetingEvent", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

		_, err := svc.Create(context.Background(), 7, validRequest())
		require.NoError(t, err)
	})

	t.Run("overlap", func(t *testing.T) {
		svc, repo, pub := newService()
		repo.On("CreateMeeting", mock.Anything, mock.Anything).Return(nil, apperr.ErrConflict).Once()

		_, err := svc.Create(context.Background(), 7, validRequest())
		assert.ErrorIs(t, err, apperr.ErrConflict)
		pub.AssertNotCalled(t, "PublishMeetingEvent", mock.Anything, mock.Anything)
	})

	invalid := []struct {
		name string
		edit func(r *models.DummyMeeting)
	}{
		{name: "bad start", edit: func(r *models.DummyMeeting) { r.StartAt = "tomorrow" }},
		{name: "bad end", edit: func(r *models.DummyMeeting) { r.EndAt = "14-10-2026" }},
		{name: "end before start", edit: func(r *models.DummyMeeting) { r.StartAt, r.EndAt = r.EndAt, r.StartAt }},
		{name: "empty interval", edit: func(r *models.DummyMeeting) { r.EndAt = r.StartAt }},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService()
			req := validRequest()
			tt.edit(&req)

			_, err := svc.Create(context.Background(), 7, req)
			assert.ErrorIs(t, err, apperr.ErrBadRequest)
			repo.AssertNotCalled(t, "CreateMeeting", mock.Anything, mock.Anything)
		})
	}
}

func TestMeetingService_UpdateAndDelete(t *testing.T) {
	existing := &models.Meeting{ID: 11, Title: "Planning", RoomID: 3, OrganizerID: 7, StartAt: start, EndAt: end}

	t.Run("organizer moves meeting", func(t *testing.T) {
		svc, repo, pub := newService()
		repo.On("GetMeeting", mock.Anything, int64(11)).Return(existing, nil).Once()
		repo.On("UpdateMeeting", mock.Anything, int64(11), mock.MatchedBy(func(m models.Meeting) bool {
			return m.OrganizerID == 7 && m.StartAt.Equal(start)
		})).Return(existing, nil).Once()
		pub.On("PublishMeetingEvent", mock.Anything, eventOfType(rabbitmq.EventMeetingUpdated)).Return(nil).Once()

		_, err := svc.Update(context.Background(), 7, 11, validRequest())
		require.NoError(t, err)
		pub.AssertExpectations(t)
	})

	t.Run("other user cannot update", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetMeeting", mock.Anything, int64(11)).Return(existing, nil).Once()

		_, err := svc.Update(context.Background(), 9, 11, validRequest())
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		repo.AssertNotCalled(t, "UpdateMeeting", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin cancels", func(t *testing.T) {
		svc, repo, pub := newService()
		repo.On("GetMeeting", mock.Anything, int64(11)).Return(existing, nil).Once()
		repo.On("SoftDeleteMeeting", mock.Anything, int64(11)).Return(nil).Once()
		pub.On("PublishMeetingEvent", mock.Anything, mock.MatchedBy(func(e models.MeetingEvent) bool {
			return e.Type == rabbitmq.EventMeetingCancelled && e.ActorID == 1 && e.Meeting.ID == 11
		})).Return(nil).Once()

		require.NoError(t, svc.Delete(context.Background(), 1, 11))
		pub.AssertExpectations(t)
	})

	t.Run("missing meeting", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetMeeting", mock.Anything, int64(12)).Return(nil, apperr.ErrNotFound).Once()

		assert.ErrorIs(t, svc.Delete(context.Background(), 7, 12), apperr.ErrNotFound)
	})
}

func TestMeetingService_List(t *testing.T) {
	tests := []struct {
		name      string
		in        models.MeetingFilter
		wantLimit int
	}{
		{name: "default limit", in: models.MeetingFilter{}, wantLimit: DefaultLimit},
		{name: "capped limit", in: models.MeetingFilter{Limit: 1000}, wantLimit: MaxLimit},
		{name: "kept limit", in: models.MeetingFilter{Limit: 5}, wantLimit: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService()
			repo.On("ListMeetings", mock.Anything, mock.MatchedBy(func(f models.MeetingFilter) bool {
				return f.Limit == tt.wantLimit && f.Offset == 0
			})).Return([]*models.Meeting{}, nil).Once()

			_, err := svc.List(context.Background(), tt.in)
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}
