package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/room-booking/internal/lib/apperr"
	"github.com/magabrotheeeer/room-booking/internal/models"
)

var teamCols = []string{"id", "name", "description", "created_at", "updated_at"}

func TestStorage_Teams(t *testing.T) {
	now := time.Now()

	t.Run("create", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(`INSERT INTO teams \(name, description\)`).
			WithArgs("Core", "platform team").
			WillReturnRows(sqlmock.NewRows(teamCols).AddRow(int64(3), "Core", "platform team", now, now))

		team, err := s.CreateTeam(context.Background(), models.Team{Name: "Core", Description: "platform team"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), team.ID)
	})

	t.Run("get", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(`FROM teams\s+WHERE id = \$1 AND deleted_at IS NULL`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(teamCols).AddRow(int64(3), "Core", "", now, now))

		team, err := s.GetTeam(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, "Core", team.Name)
	})

	t.Run("list", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(`FROM teams\s+WHERE deleted_at IS NULL`).
			WithArgs(50, 0).
			WillReturnRows(sqlmock.NewRows(teamCols).AddRow(int64(3), "Core", "", now, now))

		teams, err := s.ListTeams(context.Background(), 50, 0)
		require.NoError(t, err)
		assert.Len(t, teams, 1)
	})

	t.Run("update missing", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(`UPDATE teams\s+SET name = \$2, description = \$3`).
			WithArgs(int64(3), "Core", "").
			WillReturnRows(sqlmock.NewRows(teamCols))

		_, err := s.UpdateTeam(context.Background(), 3, models.Team{Name: "Core"})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectExec(`UPDATE teams\s+SET deleted_at = NOW\(\)`).
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.SoftDeleteTeam(context.Background(), 3))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
