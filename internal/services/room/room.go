// Package room содержит бизнес-логику комнат с кешированием карточек в Redis.
package room

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/room-booking/internal/lib/sl"
	"github.com/magabrotheeeer/room-booking/internal/models"
	"github.com/magabrotheeeer/room-booking/internal/services/access"
)

const cacheTTL = 10 * time.Minute

// RoomRepository определяет методы для работы с комнатами в хранилище.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room models.Room) (*models.Room, error)
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	ListRooms(ctx context.Context, limit, offset int) ([]*models.Room, error)
	UpdateRoom(ctx context.Context, id int64, room models.Room) (*models.Room, error)
	SoftDeleteRoom(ctx context.Context, id int64) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// RoomService реализует бизнес-логику работы с комнатами.
// Изменять комнаты может только администратор.
type RoomService struct {
	repo  RoomRepository
	users access.UserGetter
	cache Cache
	log   *slog.Logger
}

// NewRoomService создает новый экземпляр RoomService.
func NewRoomService(repo RoomRepository, users access.UserGetter, cache Cache, log *slog.Logger) *RoomService {
	return &RoomService{
		repo:  repo,
		users: users,
		cache: cache,
		log:   log,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("room:%d", id)
}

// Create добавляет комнату и кладёт её в кеш.
func (s *RoomService) Create(ctx context.Context, actorID int64, req models.DummyRoom) (*models.Room, error) {
	const op = "room.Create"

	if _, err := access.Admin(ctx, s.users, actorID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	created, err := s.repo.CreateRoom(ctx, models.Room{
		Name:     req.Name,
		Capacity: req.Capacity,
		Location: req.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.store(ctx, created)
	return created, nil
}

// Get возвращает комнату, сначала пытаясь прочитать её из кеша.
func (s *RoomService) Get(ctx context.Context, id int64) (*models.Room, error) {
	const op = "room.Get"

	var cached models.Room
	found, err := s.cache.Get(ctx, cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read room from cache", sl.Op(op), slog.Int64("id", id), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	r, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.store(ctx, r)
	return r, nil
}

// List возвращает страницу комнат.
func (s *RoomService) List(ctx context.Context, limit, offset int) ([]*models.Room, error) {
	const op = "room.List"
	rooms, err := s.repo.ListRooms(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rooms, nil
}

// Update перезаписывает комнату и обновляет кеш.
func (s *RoomService) Update(ctx context.Context, actorID, id int64, req models.DummyRoom) (*models.Room, error) {
	const op = "room.Update"

	if _, err := access.Admin(ctx, s.users, actorID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	updated, err := s.repo.UpdateRoom(ctx, id, models.Room{
		Name:     req.Name,
		Capacity: req.Capacity,
		Location: req.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.store(ctx, updated)
	return updated, nil
}

// Delete мягко удаляет комнату и убирает её из кеша.
func (s *RoomService) Delete(ctx context.Context, actorID, id int64) error {
	const op = "room.Delete"

	if _, err := access.Admin(ctx, s.users, actorID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SoftDeleteRoom(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(ctx, cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate room cache", sl.Op(op), slog.Int64("id", id), sl.Err(err))
	}
	return nil
}

func (s *RoomService) store(ctx context.Context, r *models.Room) {
	if err := s.cache.Set(ctx, cacheKey(r.ID), r, cacheTTL); err != nil {
		s.log.Warn("failed to cache room", slog.Int64("id", r.ID), sl.Err(err))
	}
}
