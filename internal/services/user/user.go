// Package user реализует управление учётными записями по правилу «сам или администратор».
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/room-booking/internal/lib/apperr"
	"github.com/magabrotheeeer/room-booking/internal/lib/password"
	"github.com/magabrotheeeer/room-booking/internal/lib/sl"
	"github.com/magabrotheeeer/room-booking/internal/models"
	"github.com/magabrotheeeer/room-booking/internal/services/access"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (int64, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	SoftDeleteUser(ctx context.Context, id int64) error
}

// Revoker отзывает токены пользователя.
type Revoker interface {
	Revoke(ctx context.Context, userID int64, at time.Time, ttl time.Duration) error
}

// UserService бизнес-логика учётных записей.
type UserService struct {
	repo     UserRepository
	revoker  Revoker
	tokenTTL time.Duration
	log      *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
// Удаление пользователя отзывает его токены на срок tokenTTL.
func NewUserService(repo UserRepository, revoker Revoker, tokenTTL time.Duration, log *slog.Logger) *UserService {
	return &UserService{
		repo:     repo,
		revoker:  revoker,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// Create заводит пользователя. Пустая роль означает models.RoleUser.
func (s *UserService) Create(ctx context.Context, username, rawPassword string, role models.Role) (int64, error) {
	const op = "user.Create"

	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return 0, fmt.Errorf("%s: %w: unknown role %q", op, apperr.ErrBadRequest, role)
	}
	hash, err := password.Hash(rawPassword)
	if errors.Is(err, password.ErrEmpty) {
		return 0, fmt.Errorf("%s: %w: %w", op, apperr.ErrBadRequest, err)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Get возвращает пользователя targetID, если actorID это он сам или администратор.
func (s *UserService) Get(ctx context.Context, actorID, targetID int64) (*models.User, error) {
	const op = "user.Get"

	actor, err := access.SelfOrAdmin(ctx, s.repo, actorID, targetID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if actor.ID == targetID {
		return actor, nil
	}
	target, err := s.repo.GetUser(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return target, nil
}

// Update меняет имя пользователя и, если rawPassword не пуст, пароль.
func (s *UserService) Update(ctx context.Context, actorID, targetID int64, username, rawPassword string) (*models.User, error) {
	const op = "user.Update"

	if _, err := access.SelfOrAdmin(ctx, s.repo, actorID, targetID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	upd := models.UserUpdate{Username: username}
	if rawPassword != "" {
		hash, err := password.Hash(rawPassword)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		upd.PasswordHash = &hash
	}

	updated, err := s.repo.UpdateUser(ctx, targetID, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// Delete очищает токен и мягко удаляет пользователя targetID.
func (s *UserService) Delete(ctx context.Context, actorID, targetID int64) error {
	const op = "user.Delete"

	if _, err := access.SelfOrAdmin(ctx, s.repo, actorID, targetID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SoftDeleteUser(ctx, targetID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// удаление уже состоялось, сбой отзыва только логируем
	if err := s.revoker.Revoke(ctx, targetID, time.Now(), s.tokenTTL); err != nil {
		s.log.Warn("failed to revoke tokens of deleted user",
			sl.Op(op), slog.Int64("user_id", targetID), sl.Err(err))
	}
	return nil
}
