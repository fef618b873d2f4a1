package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/fixture"
	"github.com/riskibarqy/score-predictor/internal/domain/gameweek"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	"github.com/riskibarqy/score-predictor/internal/platform/id"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

type SubmitInput struct {
	UserID   string
	UserName string
	Gameweek int
	Picks    []prediction.Pick
}

type PredictionService struct {
	gameweekRepo   gameweek.Repository
	fixtureRepo    fixture.Repository
	predictionRepo prediction.Repository
	idGen          id.Generator
	invalidator    LeaderboardInvalidator
	logger         *logging.Logger
	now            func() time.Time
}

func NewPredictionService(
	gameweekRepo gameweek.Repository,
	fixtureRepo fixture.Repository,
	predictionRepo prediction.Repository,
	idGen id.Generator,
	invalidator LeaderboardInvalidator,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		gameweekRepo:   gameweekRepo,
		fixtureRepo:    fixtureRepo,
		predictionRepo: predictionRepo,
		idGen:          idGen,
		invalidator:    invalidator,
		logger:         logger,
		now:            time.Now,
	}
}

// Submit stores a new prediction set. Earlier submissions for the same
// gameweek are kept.
func (s *PredictionService) Submit(ctx context.Context, input SubmitInput) (prediction.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return prediction.Submission{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if input.Gameweek <= 0 {
		return prediction.Submission{}, fmt.Errorf("%w: gameweek must be greater than zero", ErrInvalidInput)
	}

	gw, exists, err := s.gameweekRepo.GetByID(ctx, input.Gameweek)
	if err != nil {
		return prediction.Submission{}, fmt.Errorf("get gameweek: %w", err)
	}
	if !exists {
		return prediction.Submission{}, fmt.Errorf("%w: gameweek=%d", ErrNotFound, input.Gameweek)
	}

	now := s.now().UTC()
	if !gw.IsOpen(now) {
		return prediction.Submission{}, fmt.Errorf("%w: gameweek=%d deadline=%s", ErrDeadlinePassed, gw.ID, gw.DeadlineAt.Format(time.RFC3339))
	}

	fixtures, err := s.fixtureRepo.ListByGameweek(ctx, gw.ID)
	if err != nil {
		return prediction.Submission{}, fmt.Errorf("list fixtures by gameweek: %w", err)
	}
	if len(fixtures) == 0 {
		return prediction.Submission{}, fmt.Errorf("%w: gameweek=%d has no fixtures", ErrInvalidInput, gw.ID)
	}

	fixtureIDs := make([]int64, 0, len(fixtures))
	for _, f := range fixtures {
		fixtureIDs = append(fixtureIDs, f.ID)
	}
	if err := prediction.ValidateComplete(input.Picks, fixtureIDs); err != nil {
		return prediction.Submission{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	submissionID, err := s.idGen.NewID()
	if err != nil {
		return prediction.Submission{}, fmt.Errorf("generate submission id: %w", err)
	}

	item := prediction.Submission{
		ID:          submissionID,
		UserID:      input.UserID,
		UserName:    strings.TrimSpace(input.UserName),
		Gameweek:    gw.ID,
		Picks:       append([]prediction.Pick(nil), input.Picks...),
		SubmittedAt: now,
	}
	if err := s.predictionRepo.Insert(ctx, item); err != nil {
		return prediction.Submission{}, fmt.Errorf("insert submission: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
	s.logger.InfoContext(ctx, "prediction submitted",
		"submission_id", item.ID,
		"user_id", item.UserID,
		"gameweek", item.Gameweek,
		"picks", len(item.Picks),
	)

	return item, nil
}

// GetLatest returns the newest submission of a user for a gameweek.
func (s *PredictionService) GetLatest(ctx context.Context, userID string, gameweekID int) (prediction.Submission, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.GetLatest")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return prediction.Submission{}, false, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if gameweekID <= 0 {
		return prediction.Submission{}, false, fmt.Errorf("%w: gameweek must be greater than zero", ErrInvalidInput)
	}

	items, err := s.predictionRepo.List(ctx, prediction.Filter{
		UserID:      userID,
		Gameweek:    gameweekID,
		Limit:       1,
		NewestFirst: true,
	})
	if err != nil {
		return prediction.Submission{}, false, fmt.Errorf("list submissions: %w", err)
	}
	if len(items) == 0 {
		return prediction.Submission{}, false, nil
	}
	return items[0], true, nil
}

func (s *PredictionService) ListMine(ctx context.Context, userID string) ([]prediction.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListMine")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	items, err := s.predictionRepo.List(ctx, prediction.Filter{UserID: userID, NewestFirst: true})
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return items, nil
}
