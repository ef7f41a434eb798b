package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/room-booking/internal/lib/apperr"
	"github.com/magabrotheeeer/room-booking/internal/models"
)

var roomCols = []string{"id", "name", "capacity", "location", "created_at", "updated_at"}

func TestStorage_CreateRoom(t *testing.T) {
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(`INSERT INTO rooms \(name, capacity, location\)`).
			WithArgs("Blue", 8, "3rd floor").
			WillReturnRows(sqlmock.NewRows(roomCols).AddRow(int64(1), "Blue", 8, "3rd floor", now, now))

		r, err := s.CreateRoom(context.Background(), models.Room{Name: "Blue", Capacity: 8, Location: "3rd floor"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), r.ID)
		assert.Equal(t, 8, r.Capacity)
	})

	t.Run("duplicate name", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(`INSERT INTO rooms`).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "rooms_name_key"})

		_, err := s.CreateRoom(context.Background(), models.Room{Name: "Blue", Capacity: 8})
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})
}

func TestStorage_ListRooms(t *testing.T) {
	now := time.Now()
	s, mock := newStorageWithMock(t)
	mock.ExpectQuery(`FROM rooms\s+WHERE deleted_at IS NULL\s+ORDER BY id\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(roomCols).
			AddRow(int64(1), "Blue", 8, "", now, now).
			AddRow(int64(2), "Red", 4, "", now, now))

	rooms, err := s.ListRooms(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "Red", rooms[1].Name)
}

func TestStorage_ListRooms_Empty(t *testing.T) {
	s, mock := newStorageWithMock(t)
	mock.ExpectQuery(`FROM rooms`).
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows(roomCols))

	rooms, err := s.ListRooms(context.Background(), 10, 20)
	require.NoError(t, err)
	assert.NotNil(t, rooms)
	assert.Empty(t, rooms)
}

func TestStorage_GetRoom_NotFound(t *testing.T) {
	s, mock := newStorageWithMock(t)
	mock.ExpectQuery(`FROM rooms\s+WHERE id = \$1 AND deleted_at IS NULL`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(roomCols))

	_, err := s.GetRoom(context.Background(), 5)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStorage_UpdateRoom(t *testing.T) {
	now := time.Now()
	s, mock := newStorageWithMock(t)
	mock.ExpectQuery(`UPDATE rooms\s+SET name = \$2, capacity = \$3, location = \$4`).
		WithArgs(int64(1), "Blue", 12, "4th floor").
		WillReturnRows(sqlmock.NewRows(roomCols).AddRow(int64(1), "Blue", 12, "4th floor", now, now))

	r, err := s.UpdateRoom(context.Background(), 1, models.Room{Name: "Blue", Capacity: 12, Location: "4th floor"})
	require.NoError(t, err)
	assert.Equal(t, 12, r.Capacity)
}

func TestStorage_SoftDeleteRoom(t *testing.T) {
	s, mock := newStorageWithMock(t)
	mock.ExpectExec(`UPDATE rooms\s+SET deleted_at = NOW\(\)`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.SoftDeleteRoom(context.Background(), 1), apperr.ErrNotFound)
}
