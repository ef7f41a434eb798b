package middlewarectx

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/room-booking/internal/http/response"
)

// OperatorHeader заголовок с секретом оператора.
const OperatorHeader = "X-Operator-Key"

// OperatorMiddleware пропускает запрос, только если OperatorHeader совпадает
// с secret. Пустой secret закрывает доступ всем. Иначе 403.
func OperatorMiddleware(secret string, log *slog.Logger) func(http.Handler) http.Handler {
	want := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.OperatorMiddleware"

			got := []byte(r.Header.Get(OperatorHeader))
			if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
				log.Warn("operator credential rejected",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				response.Render(w, r, response.Error(http.StatusForbidden, "forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
