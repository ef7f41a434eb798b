// Package team содержит бизнес-логику команд.
package team

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/room-booking/internal/models"
	"github.com/magabrotheeeer/room-booking/internal/services/access"
)

// TeamRepository определяет методы для работы с командами в хранилище.
type TeamRepository interface {
	CreateTeam(ctx context.Context, team models.Team) (*models.Team, error)
	GetTeam(ctx context.Context, id int64) (*models.Team, error)
	ListTeams(ctx context.Context, limit, offset int) ([]*models.Team, error)
	UpdateTeam(ctx context.Context, id int64, team models.Team) (*models.Team, error)
	SoftDeleteTeam(ctx context.Context, id int64) error
}

// TeamService реализует бизнес-логику работы с командами.
type TeamService struct {
	repo  TeamRepository
	users access.UserGetter
}

// NewTeamService создает новый экземпляр TeamService.
func NewTeamService(repo TeamRepository, users access.UserGetter) *TeamService {
	return &TeamService{repo: repo, users: users}
}

// Create добавляет команду. Только для администратора.
func (s *TeamService) Create(ctx context.Context, actorID int64, req models.DummyTeam) (*models.Team, error) {
	const op = "team.Create"
	if _, err := access.Admin(ctx, s.users, actorID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	t, err := s.repo.CreateTeam(ctx, models.Team{Name: req.Name, Description: req.Description})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// Get возвращает команду по ID.
func (s *TeamService) Get(ctx context.Context, id int64) (*models.Team, error) {
	const op = "team.Get"
	t, err := s.repo.GetTeam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// List возвращает страницу команд.
func (s *TeamService) List(ctx context.Context, limit, offset int) ([]*models.Team, error) {
	const op = "team.List"
	teams, err := s.repo.ListTeams(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return teams, nil
}

// Update перезаписывает команду. Только для администратора.
func (s *TeamService) Update(ctx context.Context, actorID, id int64, req models.DummyTeam) (*models.Team, error) {
	const op = "team.Update"
	if _, err := access.Admin(ctx, s.users, actorID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	t, err := s.repo.UpdateTeam(ctx, id, models.Team{Name: req.Name, Description: req.Description})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// Delete мягко удаляет команду. Только для администратора.
func (s *TeamService) Delete(ctx context.Context, actorID, id int64) error {
	const op = "team.Delete"
	if _, err := access.Admin(ctx, s.users, actorID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SoftDeleteTeam(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
