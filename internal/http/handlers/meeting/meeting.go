// Package meeting реализует HTTP-обработчики бронирований.
//
// Встречу создаёт любой авторизованный пользователь, он становится
// организатором. Переносить и отменять может организатор или администратор.
package meeting

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

// Service описывает бизнес-логику встреч.
type Service interface {
	Create(ctx context.Context, actorID int64, req models.DummyMeeting) (*models.Meeting, error)
	Get(ctx context.Context, id int64) (*models.Meeting, error)
	List(ctx context.Context, filter models.MeetingFilter) ([]*models.Meeting, error)
	Update(ctx context.Context, actorID, id int64, req models.DummyMeeting) (*models.Meeting, error)
	Delete(ctx context.Context, actorID, id int64) error
}

// Handler обрабатывает запросы /meetings.
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

// Create godoc
// @Summary Бронирование комнаты
// @Description Пересечение с живой встречей в той же комнате даёт 409.
// @Tags Meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyMeeting true "Встреча"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /meetings [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meeting.Create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Render(w, r, response.Error(http.StatusUnauthorized, "unauthorized"))
		return
	}

	var req models.DummyMeeting
	if resp, ok := params.Body(r, h.validate, &req); !ok {
		log.Info("invalid request", slog.String("message", resp.Message))
		response.Render(w, r, resp)
		return
	}

	m, err := h.service.Create(r.Context(), identity.UserID, req)
	if err != nil {
		log.Error("failed to create meeting", sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	log.Info("meeting created", slog.Int64("id", m.ID), slog.Int64("room_id", m.RoomID))
	response.Render(w, r, response.OKWithData("meeting created", m))
}

// Get godoc
// @Summary Встреча по ID
// @Tags Meetings
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID встречи"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /meetings/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meeting.Get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := params.ID(r)
	if err != nil {
		response.Render(w, r, response.Error(http.StatusBadRequest, "failed to decode id from url"))
		return
	}

	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to read meeting", slog.Int64("id", id), sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	response.Render(w, r, response.OKWithData("ok", m))
}

// List godoc
// @Summary Список встреч
// @Tags Meetings
// @Produce json
// @Security BearerAuth
// @Param room_id query int false "Фильтр по комнате"
// @Param limit query int false "Количество записей"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Router /meetings [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meeting.List"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, offset, err := params.Page(r)
	if err != nil {
		response.Render(w, r, response.FromError(err))
		return
	}
	filter := models.MeetingFilter{Limit: limit, Offset: offset}
	if raw := r.URL.Query().Get("room_id"); raw != "" {
		roomID, err := params.PositiveInt64(raw, "room_id")
		if err != nil {
			response.Render(w, r, response.FromError(err))
			return
		}
		filter.RoomID = &roomID
	}

	meetings, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list meetings", sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	log.Info("list meetings", "count", len(meetings))
	response.Render(w, r, response.OKWithData("ok", map[string]any{
		"list_count": len(meetings),
		"entries":    meetings,
	}))
}

// Update godoc
// @Summary Перенос встречи
// @Tags Meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID встречи"
// @Param request body models.DummyMeeting true "Встреча"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /meetings/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meeting.Update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	var req models.DummyMeeting
	if resp, ok := params.Body(r, h.validate, &req); !ok {
		response.Render(w, r, resp)
		return
	}

	m, err := h.service.Update(r.Context(), identity.UserID, id, req)
	if err != nil {
		log.Error("failed to update meeting", slog.Int64("id", id), sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	log.Info("meeting updated", slog.Int64("id", id))
	response.Render(w, r, response.OKWithData("meeting updated", m))
}

// Delete godoc
// @Summary Отмена встречи
// @Tags Meetings
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID встречи"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /meetings/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meeting.Delete"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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
		log.Error("failed to cancel meeting", slog.Int64("id", id), sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	log.Info("meeting cancelled", slog.Int64("id", id))
	response.Render(w, r, response.OK("deleted"))
}
