package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/room-booking/internal/lib/apperr"
	"github.com/magabrotheeeer/room-booking/internal/models"
)

const meetingColumns = `id, title, room_id, team_id, organizer_id, start_at, end_at, created_at, updated_at`

// liveRefsCond требует живую комнату $3 и, если задана, живую команду $4.
const liveRefsCond = `EXISTS (SELECT 1 FROM rooms WHERE id = $3::bigint AND deleted_at IS NULL)
			    AND ($4::bigint IS NULL OR EXISTS (SELECT 1 FROM teams WHERE id = $4::bigint AND deleted_at IS NULL))`

func scanMeeting(row scanner) (*models.Meeting, error) {
	m := &models.Meeting{}
	var teamID sql.NullInt64
	if err := row.Scan(&m.ID, &m.Title, &m.RoomID, &teamID, &m.OrganizerID,
		&m.StartAt, &m.EndAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if teamID.Valid {
		m.TeamID = &teamID.Int64
	}
	return m, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// CreateMeeting бронирует комнату. Пересечение с живой встречей в той же
// комнате отсекает ограничение meetings_no_overlap (apperr.ErrConflict).
// Удалённая или несуществующая комната или команда даёт apperr.ErrBadRequest.
func (s *Storage) CreateMeeting(ctx context.Context, m models.Meeting) (*models.Meeting, error) {
	const op = "storage.CreateMeeting"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO meetings (title, organizer_id, room_id, team_id, start_at, end_at)
			  SELECT $1::text, $2::bigint, $3::bigint, $4::bigint, $5::timestamptz, $6::timestamptz
			  WHERE ` + liveRefsCond + `
			  RETURNING ` + meetingColumns
	created, err := scanMeeting(s.DB.QueryRowContext(ctx, query,
		m.Title, m.OrganizerID, m.RoomID, nullInt64(m.TeamID), m.StartAt, m.EndAt))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.missingRef(ctx, op, m)
	}
	if err != nil {
		return nil, mapError(op, err)
	}
	return created, nil
}

// missingRef выясняет, какая из ссылок встречи не указывает на живую запись.
func (s *Storage) missingRef(ctx context.Context, op string, m models.Meeting) error {
	var roomOK, teamOK bool
	err := s.DB.QueryRowContext(ctx, `SELECT
			EXISTS (SELECT 1 FROM rooms WHERE id = $1 AND deleted_at IS NULL),
			$2::bigint IS NULL OR EXISTS (SELECT 1 FROM teams WHERE id = $2::bigint AND deleted_at IS NULL)`,
		m.RoomID, nullInt64(m.TeamID)).Scan(&roomOK, &teamOK)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch {
	case !roomOK:
		return fmt.Errorf("%s: %w: room %d not found", op, apperr.ErrBadRequest, m.RoomID)
	case !teamOK:
		return fmt.Errorf("%s: %w: team %d not found", op, apperr.ErrBadRequest, *m.TeamID)
	}
	return fmt.Errorf("%s: %w: room or team changed concurrently", op, apperr.ErrConflict)
}

// GetMeeting возвращает неудалённую встречу по ID.
func (s *Storage) GetMeeting(ctx context.Context, id int64) (*models.Meeting, error) {
	const op = "storage.GetMeeting"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + meetingColumns + `
			  FROM meetings
			  WHERE id = $1 AND deleted_at IS NULL`
	m, err := scanMeeting(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return m, nil
}

// ListMeetings возвращает встречи по фильтру, упорядоченные по времени начала.
func (s *Storage) ListMeetings(ctx context.Context, filter models.MeetingFilter) ([]*models.Meeting, error) {
	const op = "storage.ListMeetings"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + meetingColumns + `
			  FROM meetings
			  WHERE deleted_at IS NULL
			    AND ($1::bigint IS NULL OR room_id = $1::bigint)
			  ORDER BY start_at, id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, nullInt64(filter.RoomID), filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Meeting, 0)
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateMeeting переносит встречу. Пересечения отсекает то же ограничение,
// что и при создании. Если строка не вернулась, отдельным запросом
// выясняется причина: ErrNotFound для встречи, ErrBadRequest для ссылок.
func (s *Storage) UpdateMeeting(ctx context.Context, id int64, m models.Meeting) (*models.Meeting, error) {
	const op = "storage.UpdateMeeting"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE meetings
			  SET title = $1::text, room_id = $3::bigint, team_id = $4::bigint,
			      start_at = $5::timestamptz, end_at = $6::timestamptz, updated_at = NOW()
			  WHERE id = $2::bigint AND deleted_at IS NULL
			    AND ` + liveRefsCond + `
			  RETURNING ` + meetingColumns
	updated, err := scanMeeting(s.DB.QueryRowContext(ctx, query,
		m.Title, id, m.RoomID, nullInt64(m.TeamID), m.StartAt, m.EndAt))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, mapError(op, err)
	}

	var exists bool
	if err = s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM meetings WHERE id = $1 AND deleted_at IS NULL)`, id).
		Scan(&exists); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil, s.missingRef(ctx, op, m)
}

// SoftDeleteMeeting отменяет встречу.
func (s *Storage) SoftDeleteMeeting(ctx context.Context, id int64) error {
	const op = "storage.SoftDeleteMeeting"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE meetings
			  SET deleted_at = NOW(), updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOne(op, res)
}
