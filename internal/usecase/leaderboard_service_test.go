package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/fixture"
	"github.com/riskibarqy/score-predictor/internal/domain/leaderboard"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	fixturemock "github.com/riskibarqy/score-predictor/internal/mocks/domain/fixture"
	predictionmock "github.com/riskibarqy/score-predictor/internal/mocks/domain/prediction"
	"github.com/riskibarqy/score-predictor/internal/platform/cache"
	"github.com/stretchr/testify/mock"
)

var leaderboardBase = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func finished(id int64, gw, home, away int) fixture.Fixture {
	return fixture.Fixture{ID: id, Gameweek: gw, Finished: true, HomeScore: intPtr(home), AwayScore: intPtr(away)}
}

func submission(id, user string, gw int, minute int, picks ...prediction.Pick) prediction.Submission {
	return prediction.Submission{
		ID:          id,
		UserID:      user,
		UserName:    "name-" + user,
		Gameweek:    gw,
		Picks:       picks,
		SubmittedAt: leaderboardBase.Add(time.Duration(minute) * time.Minute),
	}
}

func pick(fixtureID int64, home, away int) prediction.Pick {
	return prediction.Pick{FixtureID: fixtureID, Home: intPtr(home), Away: intPtr(away)}
}

func TestLeaderboardService_Gameweek_MaxPolicyAndCache(t *testing.T) {
	t.Parallel()

	predictionRepo := predictionmock.NewRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)
	service := NewLeaderboardService(predictionRepo, fixtureRepo, cache.NewStore(time.Minute), DuplicatePolicyMax)

	predictionRepo.
		On("List", mock.Anything, prediction.Filter{Gameweek: 1}).
		Return([]prediction.Submission{
			submission("s1", "u1", 1, 0, pick(10, 2, 1)), // 5
			submission("s2", "u2", 1, 1, pick(10, 1, 0)), // 2
			submission("s3", "u2", 1, 2, pick(10, 0, 1)), // 0
		}, nil).
		Once()
	fixtureRepo.
		On("ListByGameweek", mock.Anything, 1).
		Return([]fixture.Fixture{finished(10, 1, 2, 1), {ID: 11, Gameweek: 1}}, nil).
		Once()

	want := []leaderboard.UserScore{
		{UserID: "u1", UserName: "name-u1", Points: 5},
		{UserID: "u2", UserName: "name-u2", Points: 2},
	}
	for i := 0; i < 2; i++ {
		got, err := service.Gameweek(context.Background(), 1)
		if err != nil {
			t.Fatalf("gameweek leaderboard: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("call %d: got %+v want %+v", i, got, want)
		}
	}
}

func TestLeaderboardService_Gameweek_LatestPolicy(t *testing.T) {
	t.Parallel()

	predictionRepo := predictionmock.NewRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)
	service := NewLeaderboardService(predictionRepo, fixtureRepo, nil, DuplicatePolicyLatest)

	predictionRepo.
		On("List", mock.Anything, prediction.Filter{Gameweek: 1}).
		Return([]prediction.Submission{
			submission("s1", "u2", 1, 0, pick(10, 2, 1)), // 5, superseded
			submission("s2", "u1", 1, 1, pick(10, 1, 0)), // 2
			submission("s3", "u2", 1, 2, pick(10, 0, 1)), // 0, newest for u2
		}, nil).
		Once()
	fixtureRepo.On("ListByGameweek", mock.Anything, 1).Return([]fixture.Fixture{finished(10, 1, 2, 1)}, nil).Once()

	got, err := service.Gameweek(context.Background(), 1)
	if err != nil {
		t.Fatalf("gameweek leaderboard: %v", err)
	}
	want := []leaderboard.UserScore{
		{UserID: "u1", UserName: "name-u1", Points: 2},
		{UserID: "u2", UserName: "name-u2", Points: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestLeaderboardService_Overall_InvalidateReloads(t *testing.T) {
	t.Parallel()

	predictionRepo := predictionmock.NewRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)
	service := NewLeaderboardService(predictionRepo, fixtureRepo, cache.NewStore(time.Hour), DuplicatePolicyMax)

	submissions := []prediction.Submission{
		submission("s1", "u1", 1, 0, pick(10, 2, 1)), // 5
		submission("s2", "u1", 2, 1, pick(20, 1, 1)), // 2
		submission("s3", "u2", 2, 2, pick(20, 0, 0)), // 5
	}
	fixtures := []fixture.Fixture{finished(10, 1, 2, 1), finished(20, 2, 0, 0), finished(30, 3, 1, 0)}

	predictionRepo.On("List", mock.Anything, prediction.Filter{}).Return(submissions, nil).Twice()
	fixtureRepo.On("ListAll", mock.Anything).Return(fixtures, nil).Twice()

	first, err := service.Overall(context.Background())
	if err != nil {
		t.Fatalf("overall leaderboard: %v", err)
	}
	want := []leaderboard.UserScore{
		{UserID: "u1", UserName: "name-u1", Points: 7},
		{UserID: "u2", UserName: "name-u2", Points: 5},
	}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("got %+v want %+v", first, want)
	}

	if _, err := service.Overall(context.Background()); err != nil {
		t.Fatalf("cached overall leaderboard: %v", err)
	}
	service.Invalidate(context.Background())
	if _, err := service.Overall(context.Background()); err != nil {
		t.Fatalf("reloaded overall leaderboard: %v", err)
	}
}

func TestLeaderboardService_StoreFailureIsDependencyError(t *testing.T) {
	t.Parallel()

	predictionRepo := predictionmock.NewRepository(t)
	service := NewLeaderboardService(predictionRepo, fixturemock.NewRepository(t), nil, DuplicatePolicyMax)
	predictionRepo.On("List", mock.Anything, prediction.Filter{}).Return(nil, errors.New("connection reset")).Once()

	if _, err := service.Overall(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestLeaderboardService_UserBreakdown(t *testing.T) {
	t.Parallel()

	predictionRepo := predictionmock.NewRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)
	service := NewLeaderboardService(predictionRepo, fixtureRepo, nil, DuplicatePolicyMax)

	predictionRepo.
		On("List", mock.Anything, prediction.Filter{UserID: "u1"}).
		Return([]prediction.Submission{
			submission("s1", "u1", 2, 0, pick(20, 1, 1)),
			submission("s2", "u1", 1, 1, pick(10, 2, 1)),
		}, nil).
		Once()
	fixtureRepo.On("ListAll", mock.Anything).Return([]fixture.Fixture{finished(10, 1, 2, 1), finished(20, 2, 0, 0)}, nil).Once()

	got, err := service.UserBreakdown(context.Background(), "u1")
	if err != nil {
		t.Fatalf("user breakdown: %v", err)
	}
	want := UserBreakdown{
		UserID:    "u1",
		Total:     7,
		Gameweeks: []GameweekPoints{{Gameweek: 1, Points: 5}, {Gameweek: 2, Points: 2}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	if p, err := ParseDuplicatePolicy(""); err != nil || p != DuplicatePolicyMax {
		t.Fatalf("empty policy: %v %v", p, err)
	}
	if p, err := ParseDuplicatePolicy(" LATEST "); err != nil || p != DuplicatePolicyLatest {
		t.Fatalf("latest policy: %v %v", p, err)
	}
	if _, err := ParseDuplicatePolicy("sum"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
