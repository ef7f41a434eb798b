// Package auth содержит вход, выход и проверку токенов доступа.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/room-booking/internal/lib/apperr"
	"github.com/magabrotheeeer/room-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/room-booking/internal/lib/password"
	"github.com/magabrotheeeer/room-booking/internal/models"
)

// UserRepository описывает доступ к пользователям, нужный для входа и выхода.
type UserRepository interface {
	// GetUserByUsername возвращает живого пользователя по имени.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// SetAuthenToken записывает или очищает токен текущей сессии.
	SetAuthenToken(ctx context.Context, id int64, token *string) error
}

// Revoker хранит отозванные токены и моменты удаления пользователей.
type Revoker interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	TokenRevoked(ctx context.Context, tokenID string) (bool, error)
	RevokedAt(ctx context.Context, userID int64) (time.Time, bool, error)
}

// AuthService выпускает и проверяет токены.
type AuthService struct {
	users    UserRepository
	revoker  Revoker
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, revoker Revoker, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		revoker:  revoker,
		jwtMaker: jwtMaker,
	}
}

// Login проверяет пароль и выдаёт токен. Для неизвестного имени и неверного
// пароля возвращается одна и та же ошибка apperr.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", fmt.Errorf("%s: %w: invalid credentials", op, apperr.ErrUnauthorized)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	err = password.Compare(user.PasswordHash, rawPassword)
	if errors.Is(err, password.ErrMismatch) {
		return "", fmt.Errorf("%s: %w: invalid credentials", op, apperr.ErrUnauthorized)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err = s.users.SetAuthenToken(ctx, user.ID, &token); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Logout очищает токен сессии и отзывает предъявленный токен по его jti.
// Токены следующих входов остаются действительными.
func (s *AuthService) Logout(ctx context.Context, userID int64, tokenID string) error {
	const op = "auth.Logout"

	err := s.users.SetAuthenToken(ctx, userID, nil)
	if errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, apperr.ErrUnauthorized)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.revoker.RevokeToken(ctx, tokenID, s.jwtMaker.TTL()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ValidateToken проверяет подпись, срок действия и отзыв токена.
// Отклоняются токены без jti, токены, отозванные при выходе, и токены
// удалённого пользователя, выпущенные не позже момента удаления.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error) {
	const op = "auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, apperr.ErrUnauthorized, err)
	}

	if claims.ID == "" {
		return nil, fmt.Errorf("%s: %w: token without id", op, apperr.ErrUnauthorized)
	}
	revoked, err := s.revoker.TokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if revoked {
		return nil, fmt.Errorf("%s: %w: token revoked", op, apperr.ErrUnauthorized)
	}

	cutoff, ok, err := s.revoker.RevokedAt(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if ok && (claims.IssuedAt == nil || !claims.IssuedAt.After(cutoff)) {
		return nil, fmt.Errorf("%s: %w: token revoked", op, apperr.ErrUnauthorized)
	}
	return claims, nil
}
