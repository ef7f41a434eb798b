// Package read реализует HTTP-обработчик получения пользователя по ID.
//
// Читать запись может сам пользователь или администратор.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/room-booking/internal/http/handlers/params"
	"github.com/magabrotheeeer/room-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/room-booking/internal/http/response"
	"github.com/magabrotheeeer/room-booking/internal/lib/sl"
	"github.com/magabrotheeeer/room-booking/internal/models"
)

// Response тело успешного ответа.
type Response struct {
	ID       int64  `json:"id" example:"42"`
	Username string `json:"username" example:"alice"`
	Role     string `json:"role" example:"user"`
}

// Service описывает интерфейс бизнес-логики чтения пользователя.
type Service interface {
	Get(ctx context.Context, actorID, targetID int64) (*models.User, error)
}

// Handler обрабатывает GET /users/{id}.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики пользователей
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Пользователь по ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.read"

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

	user, err := h.service.Get(r.Context(), identity.UserID, id)
	if err != nil {
		log.Error("failed to read user", slog.Int64("id", id), sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	render.JSON(w, r, Response{
		ID:       user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
}
