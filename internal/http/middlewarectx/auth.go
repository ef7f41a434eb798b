// Package middlewarectx содержит HTTP middleware сервиса бронирования.
//
// JWTMiddleware проверяет токен из заголовка Authorization и кладёт в контекст
// Identity пользователя. OperatorMiddleware пропускает только запросы
// с секретом оператора. RateLimitMiddleware и Metrics обслуживают остальные
// сквозные задачи.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/room-booking/internal/http/response"
	"github.com/magabrotheeeer/room-booking/internal/lib/apperr"
	"github.com/magabrotheeeer/room-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/room-booking/internal/lib/sl"
)

// TokenValidator описывает проверку токена доступа.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Отсутствующий, невалидный, просроченный или отозванный токен даёт 401.
// Обращения к базе на этом шаге нет.
func JWTMiddleware(validator TokenValidator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(tokenStr) == "" {
				log.Info("missing or invalid authorization header")
				response.Render(w, r, response.Error(http.StatusUnauthorized, "missing or invalid authorization header"))
				return
			}

			claims, err := validator.ValidateToken(r.Context(), strings.TrimSpace(tokenStr))
			if err != nil {
				if errors.Is(err, apperr.ErrUnauthorized) {
					log.Info("invalid, expired or revoked token", sl.Err(err))
					response.Render(w, r, response.Error(http.StatusUnauthorized, "invalid or expired token"))
					return
				}
				log.Error("failed to validate token", sl.Err(err))
				response.Render(w, r, response.FromError(err))
				return
			}

			id := Identity{UserID: claims.UserID, TokenID: claims.ID}
			if claims.IssuedAt != nil {
				id.IssuedAt = claims.IssuedAt.Time
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
