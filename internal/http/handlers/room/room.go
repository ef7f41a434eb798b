// Package room реализует HTTP-обработчики переговорных комнат.
//
// Читать комнаты может любой авторизованный пользователь,
// изменять только администратор.
package room

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/room-booking/internal/http/handlers/params"
	"github.com/magabrotheeeer/room-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/room-booking/internal/http/response"
	"github.com/magabrotheeeer/room-booking/internal/lib/sl"
	"github.com/magabrotheeeer/room-booking/internal/models"
)

// Service описывает бизнес-логику комнат.
type Service interface {
	Create(ctx context.Context, actorID int64, req models.DummyRoom) (*models.Room, error)
	Get(ctx context.Context, id int64) (*models.Room, error)
	List(ctx context.Context, limit, offset int) ([]*models.Room, error)
	Update(ctx context.Context, actorID, id int64, req models.DummyRoom) (*models.Room, error)
	Delete(ctx context.Context, actorID, id int64) error
}

// Handler обрабатывает запросы /rooms.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Create godoc
// @Summary Создание комнаты
// @Tags Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyRoom true "Комната"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /rooms [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.room.Create")

	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Render(w, r, response.Error(http.StatusUnauthorized, "unauthorized"))
		return
	}

	var req models.DummyRoom
	if resp, ok := params.Body(r, h.validate, &req); !ok {
		log.Info("invalid request", slog.String("message", resp.Message))
		response.Render(w, r, resp)
		return
	}

	room, err := h.service.Create(r.Context(), identity.UserID, req)
	if err != nil {
		log.Error("failed to create room", sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	log.Info("room created", slog.Int64("id", room.ID))
	response.Render(w, r, response.OKWithData("room created", room))
}

// Get godoc
// @Summary Комната по ID
// @Tags Rooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID комнаты"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /rooms/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.room.Get")

	id, err := params.ID(r)
	if err != nil {
		response.Render(w, r, response.Error(http.StatusBadRequest, "failed to decode id from url"))
		return
	}

	room, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to read room", slog.Int64("id", id), sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	response.Render(w, r, response.OKWithData("ok", room))
}

// List godoc
// @Summary Список комнат
// @Tags Rooms
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Количество записей"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Router /rooms [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.room.List")

	limit, offset, err := params.Page(r)
	if err != nil {
		response.Render(w, r, response.FromError(err))
		return
	}

	rooms, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list rooms", sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	log.Info("list rooms", "count", len(rooms))
	response.Render(w, r, response.OKWithData("ok", map[string]any{
		"list_count": len(rooms),
		"entries":    rooms,
	}))
}

// Update godoc
// @Summary Изменение комнаты
// @Tags Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID комнаты"
// @Param request body models.DummyRoom true "Комната"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /rooms/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.room.Update")

	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Render(w, r, response.Error(http.StatusUnauthorized, "unauthorized"))
		return
	}

	id, err := params.ID(r)
	if err != nil {
		response.Render(w, r, response.Error(http.StatusBadRequest, "failed to decode id from url"))
		return
	}

	var req models.DummyRoom
	if resp, ok := params.Body(r, h.validate, &req); !ok {
		response.Render(w, r, resp)
		return
	}

	room, err := h.service.Update(r.Context(), identity.UserID, id, req)
	if err != nil {
		log.Error("failed to update room", slog.Int64("id", id), sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	log.Info("room updated", slog.Int64("id", id))
	response.Render(w, r, response.OKWithData("room updated", room))
}

// Delete godoc
// @Summary Удаление комнаты
// @Tags Rooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID комнаты"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /rooms/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.room.Delete")

	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Render(w, r, response.Error(http.StatusUnauthorized, "unauthorized"))
		return
	}

	id, err := params.ID(r)
	if err != nil {
		response.Render(w, r, response.Error(http.StatusBadRequest, "failed to decode id from url"))
		return
	}

	if err = h.service.Delete(r.Context(), identity.UserID, id); err != nil {
		log.Error("failed to delete room", slog.Int64("id", id), sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	log.Info("room deleted", slog.Int64("id", id))
	response.Render(w, r, response.OK("deleted"))
}
