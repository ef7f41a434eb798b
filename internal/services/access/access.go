// Package access проверяет права действующего пользователя.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/room-booking/internal/lib/apperr"
	"github.com/magabrotheeeer/room-booking/internal/models"
)

// UserGetter возвращает живого пользователя по ID.
type UserGetter interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// Actor превращает ID из токена в запись пользователя.
// Удалённый или несуществующий пользователь даёт apperr.ErrUnauthorized.
func Actor(ctx context.Context, users UserGetter, actorID int64) (*models.User, error) {
	const op = "access.Actor"
	if actorID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrUnauthorized)
	}
	actor, err := users.GetUser(ctx, actorID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return actor, nil
}

// SelfOrAdmin разрешает действие над записью ownerID её владельцу или администратору.
func SelfOrAdmin(ctx context.Context, users UserGetter, actorID, ownerID int64) (*models.User, error) {
	const op = "access.SelfOrAdmin"
	actor, err := Actor(ctx, users, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(ownerID) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}
	return actor, nil
}

// Admin разрешает действие только администратору.
func Admin(ctx context.Context, users UserGetter, actorID int64) (*models.User, error) {
	const op = "access.Admin"
	actor, err := Actor(ctx, users, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}
	return actor, nil
}
