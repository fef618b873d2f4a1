package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/score-predictor/internal/domain/fixture"
	"github.com/riskibarqy/score-predictor/internal/domain/gameweek"
)

type FixtureService struct {
	gameweekRepo gameweek.Repository
	fixtureRepo  fixture.Repository
}

func NewFixtureService(gameweekRepo gameweek.Repository, fixtureRepo fixture.Repository) *FixtureService {
	return &FixtureService{
		gameweekRepo: gameweekRepo,
		fixtureRepo:  fixtureRepo,
	}
}

func (s *FixtureService) ListGameweeks(ctx context.Context) ([]gameweek.Gameweek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListGameweeks")
	defer span.End()

	items, err := s.gameweekRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gameweeks: %w", err)
	}
	return items, nil
}

func (s *FixtureService) CurrentGameweek(ctx context.Context) (gameweek.Gameweek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.CurrentGameweek")
	defer span.End()

	gw, exists, err := s.gameweekRepo.Current(ctx)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get current gameweek: %w", err)
	}
	if !exists {
		return gameweek.Gameweek{}, fmt.Errorf("%w: no current gameweek", ErrNotFound)
	}
	return gw, nil
}

func (s *FixtureService) ListByGameweek(ctx context.Context, gameweekID int) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListByGameweek")
	defer span.End()

	if gameweekID <= 0 {
		return nil, fmt.Errorf("%w: gameweek must be greater than zero", ErrInvalidInput)
	}

	_, exists, err := s.gameweekRepo.GetByID(ctx, gameweekID)
	if err != nil {
		return nil, fmt.Errorf("get gameweek: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: gameweek=%d", ErrNotFound, gameweekID)
	}

	fixtures, err := s.fixtureRepo.ListByGameweek(ctx, gameweekID)
	if err != nil {
		return nil, fmt.Errorf("list fixtures by gameweek: %w", err)
	}

	return fixtures, nil
}
