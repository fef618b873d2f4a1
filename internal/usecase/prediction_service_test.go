package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/fixture"
	"github.com/riskibarqy/score-predictor/internal/domain/gameweek"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	fixturemock "github.com/riskibarqy/score-predictor/internal/mocks/domain/fixture"
	gameweekmock "github.com/riskibarqy/score-predictor/internal/mocks/domain/gameweek"
	predictionmock "github.com/riskibarqy/score-predictor/internal/mocks/domain/prediction"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

var predictionTestNow = time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC)

type predictionFixture struct {
	service        *PredictionService
	gameweekRepo   *gameweekmock.Repository
	fixtureRepo    *fixturemock.Repository
	predictionRepo *predictionmock.Repository
	invalidator    *invalidatorSpy
}

func newPredictionFixture(t *testing.T) predictionFixture {
	t.Helper()

	f := predictionFixture{
		gameweekRepo:   gameweekmock.NewRepository(t),
		fixtureRepo:    fixturemock.NewRepository(t),
		predictionRepo: predictionmock.NewRepository(t),
		invalidator:    &invalidatorSpy{},
	}
	f.service = NewPredictionService(f.gameweekRepo, f.fixtureRepo, f.predictionRepo, &sequenceIDGenerator{}, f.invalidator, logging.NewNop())
	f.service.now = func() time.Time { return predictionTestNow }
	return f
}

func openGameweek() gameweek.Gameweek {
	return gameweek.Gameweek{ID: 4, Name: "Gameweek 4", DeadlineAt: predictionTestNow.Add(2 * time.Hour), IsNext: true}
}

func gameweekFixtures() []fixture.Fixture {
	return []fixture.Fixture{{ID: 31, Gameweek: 4}, {ID: 32, Gameweek: 4}}
}

func TestPredictionService_Submit_Success(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	f.gameweekRepo.On("GetByID", mock.Anything, 4).Return(openGameweek(), true, nil).Once()
	f.fixtureRepo.On("ListByGameweek", mock.Anything, 4).Return(gameweekFixtures(), nil).Once()
	f.predictionRepo.
		On("Insert", mock.Anything, mock.MatchedBy(func(s prediction.Submission) bool {
			return s.ID == "sub-1" && s.UserID == "u1" && s.Gameweek == 4 && len(s.Picks) == 2 && s.SubmittedAt.Equal(predictionTestNow)
		})).
		Return(nil).
		Once()

	got, err := f.service.Submit(context.Background(), SubmitInput{
		UserID:   "u1",
		UserName: "Sam",
		Gameweek: 4,
		Picks: []prediction.Pick{
			{FixtureID: 31, Home: intPtr(2), Away: intPtr(1)},
			{FixtureID: 32, Home: intPtr(0), Away: intPtr(0)},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.ID != "sub-1" || got.UserName != "Sam" {
		t.Fatalf("unexpected submission: %+v", got)
	}
	if f.invalidator.calls.Load() != 1 {
		t.Fatalf("expected leaderboard invalidation")
	}
}

func TestPredictionService_Submit_DeadlinePassed(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	closed := openGameweek()
	closed.DeadlineAt = predictionTestNow.Add(-time.Minute)
	f.gameweekRepo.On("GetByID", mock.Anything, 4).Return(closed, true, nil).Once()

	_, err := f.service.Submit(context.Background(), SubmitInput{UserID: "u1", Gameweek: 4})
	if !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("expected ErrDeadlinePassed, got %v", err)
	}
}

func TestPredictionService_Submit_RejectsIncompletePicks(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	f.gameweekRepo.On("GetByID", mock.Anything, 4).Return(openGameweek(), true, nil).Once()
	f.fixtureRepo.On("ListByGameweek", mock.Anything, 4).Return(gameweekFixtures(), nil).Once()

	_, err := f.service.Submit(context.Background(), SubmitInput{
		UserID:   "u1",
		Gameweek: 4,
		Picks:    []prediction.Pick{{FixtureID: 31, Home: intPtr(2), Away: intPtr(1)}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !errors.Is(err, prediction.ErrIncompletePrediction) {
		t.Fatalf("expected ErrIncompletePrediction, got %v", err)
	}
	f.predictionRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestPredictionService_Submit_UnknownGameweek(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	f.gameweekRepo.On("GetByID", mock.Anything, 40).Return(gameweek.Gameweek{}, false, nil).Once()

	_, err := f.service.Submit(context.Background(), SubmitInput{UserID: "u1", Gameweek: 40})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPredictionService_Submit_RequiresUser(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	if _, err := f.service.Submit(context.Background(), SubmitInput{Gameweek: 4}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestPredictionService_GetLatest(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	latest := prediction.Submission{ID: "sub-9", UserID: "u1", Gameweek: 4}
	f.predictionRepo.
		On("List", mock.Anything, prediction.Filter{UserID: "u1", Gameweek: 4, Limit: 1, NewestFirst: true}).
		Return([]prediction.Submission{latest}, nil).
		Once()
	f.predictionRepo.
		On("List", mock.Anything, prediction.Filter{UserID: "u1", Gameweek: 5, Limit: 1, NewestFirst: true}).
		Return(nil, nil).
		Once()

	got, ok, err := f.service.GetLatest(context.Background(), "u1", 4)
	if err != nil || !ok || got.ID != "sub-9" {
		t.Fatalf("unexpected latest: %+v ok=%v err=%v", got, ok, err)
	}

	_, ok, err = f.service.GetLatest(context.Background(), "u1", 5)
	if err != nil || ok {
		t.Fatalf("expected no submission, ok=%v err=%v", ok, err)
	}
}

func TestPredictionService_ListMine(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	f.predictionRepo.
		On("List", mock.Anything, prediction.Filter{UserID: "u1", NewestFirst: true}).
		Return([]prediction.Submission{{ID: "b"}, {ID: "a"}}, nil).
		Once()

	got, err := f.service.ListMine(context.Background(), " u1 ")
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" {
		t.Fatalf("unexpected submissions: %+v", got)
	}
}
