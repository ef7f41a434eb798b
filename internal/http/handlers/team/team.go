// Package team реализует HTTP-обработчики команд.
//
// Читать команды может любой авторизованный пользователь,
// изменять только администратор.
package team

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

// Service описывает бизнес-логику команд.
type Service interface {
	Create(ctx context.Context, actorID int64, req models.DummyTeam) (*models.Team, error)
	Get(ctx context.Context, id int64) (*models.Team, error)
	List(ctx context.Context, limit, offset int) ([]*models.Team, error)
	Update(ctx context.Context, actorID, id int64, req models.DummyTeam) (*models.Team, error)
	Delete(ctx context.Context, actorID, id int64) error
}

// Handler обрабатывает запросы /teams.
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
// @Summary Создание команды
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyTeam true "Команда"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /teams [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.team.Create")

	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Render(w, r, response.Error(http.StatusUnauthorized, "unauthorized"))
		return
	}

	var req models.DummyTeam
	if resp, ok := params.Body(r, h.validate, &req); !ok {
		log.Info("invalid request", slog.String("message", resp.Message))
		response.Render(w, r, resp)
		return
	}

	team, err := h.service.Create(r.Context(), identity.UserID, req)
	if err != nil {
		log.Error("failed to create team", sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	log.Info("team created", slog.Int64("id", team.ID))
	response.Render(w, r, response.OKWithData("team created", team))
}

// Get godoc
// @Summary Команда по ID
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID команды"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /teams/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.team.Get")

	id, err := params.ID(r)
	if err != nil {
		response.Render(w, r, response.Error(http.StatusBadRequest, "failed to decode id from url"))
		return
	}

	team, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to read team", slog.Int64("id", id), sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	response.Render(w, r, response.OKWithData("ok", team))
}

// List godoc
// @Summary Список команд
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Количество записей"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Router /teams [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.team.List")

	limit, offset, err := params.Page(r)
	if err != nil {
		response.Render(w, r, response.FromError(err))
		return
	}

	teams, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list teams", sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	log.Info("list teams", "count", len(teams))
	response.Render(w, r, response.OKWithData("ok", map[string]any{
		"list_count": len(teams),
		"entries":    teams,
	}))
}

// Update godoc
// @Summary Изменение команды
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID команды"
// @Param request body models.DummyTeam true "Команда"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /teams/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.team.Update")

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

	var req models.DummyTeam
	if resp, ok := params.Body(r, h.validate, &req); !ok {
		response.Render(w, r, resp)
		return
	}

	team, err := h.service.Update(r.Context(), identity.UserID, id, req)
	if err != nil {
		log.Error("failed to update team", slog.Int64("id", id), sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	log.Info("team updated", slog.Int64("id", id))
	response.Render(w, r, response.OKWithData("team updated", team))
}

// Delete godoc
// @Summary Удаление команды
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID команды"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /teams/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.team.Delete")

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
		log.Error("failed to delete team", slog.Int64("id", id), sl.Err(err))
		response.Render(w, r, response.FromError(err))
		return
	}

	log.Info("team deleted", slog.Int64("id", id))
	response.Render(w, r, response.OK("deleted"))
}
