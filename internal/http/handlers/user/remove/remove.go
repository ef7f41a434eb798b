// Package remove реализует HTTP-обработчик удаления пользователя.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/room-booking/internal/http/handlers/params"
	"github.com/magabrotheeeer/room-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/room-booking/internal/http/response"
	"github.com/magabrotheeeer/room-booking/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики удаления пользователя.
type Service interface {
	Delete(ctx context.Context, actorID, targetID int64) error
}

// Handler обрабатывает DELETE /users/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удаление пользователя
// @Description Очищает токен и мягко удаляет запись. Сам пользователь или администратор.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		log.Error("identity missing in context")
		response.Render(w, r, response.Error(http.StatusUnauthorized, "unauthorized"))
		return
	}

	id, err := params.ID(r)
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		response.Render(w, r, response.Error(http.StatusBadRequest, "failed to decode id from url"))
		return
	}

	if err = h.service.Delete(r.Context(), identity.UserID, id); err != nil {
		log.Error("failed to delete user", slog.Int64("id", id), sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	log.Info("user deleted", slog.Int64("id", id), slog.Int64("actor_id", identity.UserID))
	response.Render(w, r, response.OK("deleted"))
}
