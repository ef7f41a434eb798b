package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/room-booking/internal/models"
)

const teamColumns = `id, name, description, created_at, updated_at`

func scanTeam(row scanner) (*models.Team, error) {
	t := &models.Team{}
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTeam добавляет команду и возвращает её с присвоенным ID.
func (s *Storage) CreateTeam(ctx context.Context, team models.Team) (*models.Team, error) {
	const op = "storage.CreateTeam"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO teams (name, description)
			  VALUES ($1, $2)
			  RETURNING ` + teamColumns
	t, err := scanTeam(s.DB.QueryRowContext(ctx, query, team.Name, team.Description))
	if err != nil {
		return nil, mapError(op, err)
	}
	return t, nil
}

// GetTeam возвращает неудалённую команду по ID.
func (s *Storage) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	const op = "storage.GetTeam"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + teamColumns + `
			  FROM teams
			  WHERE id = $1 AND deleted_at IS NULL`
	t, err := scanTeam(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return t, nil
}

// ListTeams возвращает страницу неудалённых команд.
func (s *Storage) ListTeams(ctx context.Context, limit, offset int) ([]*models.Team, error) {
	const op = "storage.ListTeams"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + teamColumns + `
			  FROM teams
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

	result := make([]*models.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateTeam перезаписывает поля команды.
func (s *Storage) UpdateTeam(ctx context.Context, id int64, team models.Team) (*models.Team, error) {
	const op = "storage.UpdateTeam"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE teams
			  SET name = $2, description = $3, updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL
			  RETURNING ` + teamColumns
	t, err := scanTeam(s.DB.QueryRowContext(ctx, query, id, team.Name, team.Description))
	if err != nil {
		return nil, mapError(op, err)
	}
	return t, nil
}

// SoftDeleteTeam помечает команду удалённой.
func (s *Storage) SoftDeleteTeam(ctx context.Context, id int64) error {
	const op = "storage.SoftDeleteTeam"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE teams
			  SET deleted_at = NOW(), updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOne(op, res)
}
