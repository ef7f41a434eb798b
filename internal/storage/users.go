package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/room-booking/internal/models"
)

const userColumns = `id, username, password_hash, role, authen_token, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	var token sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &token,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if token.Valid {
		u.AuthenToken = &token.String
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его ID.
// Занятое имя даёт apperr.ErrConflict.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO users (username, password_hash, role)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var id int64
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, string(user.Role)).Scan(&id); err != nil {
		return 0, mapError(op, err)
	}
	return id, nil
}

// GetUser возвращает неудалённого пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE id = $1 AND deleted_at IS NULL`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// GetUserByUsername возвращает неудалённого пользователя по имени.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1 AND deleted_at IS NULL`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// UpdateUser меняет имя и, если задан, хеш пароля одним условным UPDATE
// и возвращает обновлённую запись.
func (s *Storage) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	const op = "storage.UpdateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE users
			  SET username = $2,
			      password_hash = COALESCE($3, password_hash),
			      updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL
			  RETURNING ` + userColumns
	var hash sql.NullString
	if upd.PasswordHash != nil {
		hash = sql.NullString{String: *upd.PasswordHash, Valid: true}
	}
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id, upd.Username, hash))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// SetAuthenToken записывает токен текущей сессии. Nil очищает поле.
func (s *Storage) SetAuthenToken(ctx context.Context, id int64, token *string) error {
	const op = "storage.SetAuthenToken"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users
			  SET authen_token = $2
			  WHERE id = $1 AND deleted_at IS NULL`
	var value sql.NullString
	if token != nil {
		value = sql.NullString{String: *token, Valid: true}
	}
	res, err := s.DB.ExecContext(ctx, query, id, value)
	if err != nil {
		return mapError(op, err)
	}
	return expectOne(op, res)
}

// SoftDeleteUser очищает токен сессии и помечает пользователя удалённым.
func (s *Storage) SoftDeleteUser(ctx context.Context, id int64) error {
	const op = "storage.SoftDeleteUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users
			  SET authen_token = NULL,
			      deleted_at = NOW(),
			      updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL`
	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOne(op, res)
}
