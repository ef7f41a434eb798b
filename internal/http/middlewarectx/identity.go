package middlewarectx

import (
	"context"
	"time"
)

type identityKey struct{}

// Identity данные аутентифицированного запроса, извлечённые из токена.
type Identity struct {
	UserID   int64
	TokenID  string
	IssuedAt time.Time
}

// WithIdentity кладёт Identity в контекст.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom достаёт Identity из контекста. ok=false для анонимного запроса.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID > 0
}
