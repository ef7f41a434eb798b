package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/room-booking/internal/models"
)

const roomColumns = `id, name, capacity, location, created_at, updated_at`

func scanRoom(row scanner) (*models.Room, error) {
	r := &models.Room{}
	if err := row.Scan(&r.ID, &r.Name, &r.Capacity, &r.Location, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return r, nil
}

// CreateRoom добавляет комнату и возвращает её с присвоенным ID.
func (s *Storage) CreateRoom(ctx context.Context, room models.Room) (*models.Room, error) {
	const op = "storage.CreateRoom"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO rooms (name, capacity, location)
			  VALUES ($1, $2, $3)
			  RETURNING ` + roomColumns
	r, err := scanRoom(s.DB.QueryRowContext(ctx, query, room.Name, room.Capacity, room.Location))
	if err != nil {
		return nil, mapError(op, err)
	}
	return r, nil
}

// GetRoom возвращает неудалённую комнату по ID.
func (s *Storage) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	const op = "storage.GetRoom"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + roomColumns + `
			  FROM rooms
			  WHERE id = $1 AND deleted_at IS NULL`
	r, err := scanRoom(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return r, nil
}

// ListRooms возвращает страницу неудалённых комнат, упорядоченных по ID.
func (s *Storage) ListRooms(ctx context.Context, limit, offset int) ([]*models.Room, error) {
	const op = "storage.ListRooms"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + roomColumns + `
			  FROM rooms
			  WHERE deleted_at IS NULL
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Room, 0)
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateRoom перезаписывает поля комнаты одним условным UPDATE.
func (s *Storage) UpdateRoom(ctx context.Context, id int64, room models.Room) (*models.Room, error) {
	const op = "storage.UpdateRoom"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE rooms
			  SET name = $2, capacity = $3, location = $4, updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL
			  RETURNING ` + roomColumns
	r, err := scanRoom(s.DB.QueryRowContext(ctx, query, id, room.Name, room.Capacity, room.Location))
	if err != nil {
		return nil, mapError(op, err)
	}
	return r, nil
}

// SoftDeleteRoom помечает комнату удалённой.
func (s *Storage) SoftDeleteRoom(ctx context.Context, id int64) error {
	const op = "storage.SoftDeleteRoom"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE rooms
			  SET deleted_at = NOW(), updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOne(op, res)
}
