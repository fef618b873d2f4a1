package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/score-predictor/internal/domain/fixture"
	"github.com/riskibarqy/score-predictor/internal/domain/leaderboard"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	"github.com/riskibarqy/score-predictor/internal/domain/scoring"
	"github.com/riskibarqy/score-predictor/internal/platform/cache"
)

// DuplicatePolicy decides which submissions count when a user submitted more
// than once for a gameweek.
type DuplicatePolicy string

const (
	// DuplicatePolicyMax scores every submission and keeps the best.
	DuplicatePolicyMax DuplicatePolicy = "max"
	// DuplicatePolicyLatest scores only the newest submission.
	DuplicatePolicyLatest DuplicatePolicy = "latest"

	leaderboardCachePrefix = "leaderboard:"
)

func ParseDuplicatePolicy(v string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(v))) {
	case "", DuplicatePolicyMax:
		return DuplicatePolicyMax, nil
	case DuplicatePolicyLatest:
		return DuplicatePolicyLatest, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q", v)
	}
}

type GameweekPoints struct {
	Gameweek int `json:"gameweek"`
	Points   int `json:"points"`
}

type UserBreakdown struct {
	UserID    string           `json:"userId"`
	Total     int              `json:"total"`
	Gameweeks []GameweekPoints `json:"gameweeks"`
}

type LeaderboardService struct {
	predictionRepo prediction.Repository
	fixtureRepo    fixture.Repository
	cache          *cache.Store
	policy         DuplicatePolicy
}

// NewLeaderboardService builds the service. store may be nil to disable
// result caching.
func NewLeaderboardService(
	predictionRepo prediction.Repository,
	fixtureRepo fixture.Repository,
	store *cache.Store,
	policy DuplicatePolicy,
) *LeaderboardService {
	if policy == "" {
		policy = DuplicatePolicyMax
	}
	return &LeaderboardService{
		predictionRepo: predictionRepo,
		fixtureRepo:    fixtureRepo,
		cache:          store,
		policy:         policy,
	}
}

func (s *LeaderboardService) Gameweek(ctx context.Context, gameweekID int) ([]leaderboard.UserScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Gameweek")
	defer span.End()

	if gameweekID <= 0 {
		return nil, fmt.Errorf("%w: gameweek must be greater than zero", ErrInvalidInput)
	}

	key := leaderboardCachePrefix + "gw:" + strconv.Itoa(gameweekID)
	return s.cached(ctx, key, func(ctx context.Context) ([]leaderboard.UserScore, error) {
		records, tables, err := s.load(ctx, prediction.Filter{Gameweek: gameweekID})
		if err != nil {
			return nil, err
		}
		return leaderboard.Aggregate(records, tables, leaderboard.ModeSingleGameweek, gameweekID), nil
	})
}

func (s *LeaderboardService) Overall(ctx context.Context) ([]leaderboard.UserScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Overall")
	defer span.End()

	return s.cached(ctx, leaderboardCachePrefix+"overall", func(ctx context.Context) ([]leaderboard.UserScore, error) {
		records, tables, err := s.load(ctx, prediction.Filter{})
		if err != nil {
			return nil, err
		}
		return leaderboard.Aggregate(records, tables, leaderboard.ModeOverall, 0), nil
	})
}

func (s *LeaderboardService) UserBreakdown(ctx context.Context, userID string) (UserBreakdown, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.UserBreakdown")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return UserBreakdown{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	records, tables, err := s.load(ctx, prediction.Filter{UserID: userID})
	if err != nil {
		return UserBreakdown{}, err
	}

	perGameweek := leaderboard.GameweekBreakdown(records, tables, userID)
	out := UserBreakdown{UserID: userID, Gameweeks: make([]GameweekPoints, 0, len(perGameweek))}
	for gw, points := range perGameweek {
		out.Gameweeks = append(out.Gameweeks, GameweekPoints{Gameweek: gw, Points: points})
		out.Total += points
	}
	sort.Slice(out.Gameweeks, func(i, j int) bool {
		return out.Gameweeks[i].Gameweek < out.Gameweeks[j].Gameweek
	})
	return out, nil
}

// Invalidate drops every cached leaderboard.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.DeletePrefix(ctx, leaderboardCachePrefix)
}

func (s *LeaderboardService) cached(
	ctx context.Context,
	key string,
	build func(context.Context) ([]leaderboard.UserScore, error),
) ([]leaderboard.UserScore, error) {
	if s.cache == nil {
		return build(ctx)
	}

	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return build(ctx)
	})
	if err != nil {
		return nil, err
	}
	scores, ok := value.([]leaderboard.UserScore)
	if !ok {
		return nil, fmt.Errorf("unexpected cached leaderboard type %T", value)
	}
	return append([]leaderboard.UserScore(nil), scores...), nil
}

// load reads submissions oldest first so users keep their first-submission
// order on ties, then builds result tables for the gameweeks they reference.
func (s *LeaderboardService) load(ctx context.Context, filter prediction.Filter) ([]leaderboard.Record, map[int]leaderboard.GameweekTable, error) {
	filter.NewestFirst = false
	submissions, err := s.predictionRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: list submissions: %w", ErrDependencyUnavailable, err)
	}
	if s.policy == DuplicatePolicyLatest {
		submissions = latestPerUserGameweek(submissions)
	}

	records := make([]leaderboard.Record, 0, len(submissions))
	wanted := make(map[int]struct{})
	for _, sub := range submissions {
		records = append(records, sub.Record())
		wanted[sub.Gameweek] = struct{}{}
	}

	tables, err := s.loadTables(ctx, filter.Gameweek, wanted)
	if err != nil {
		return nil, nil, err
	}
	return records, tables, nil
}

func (s *LeaderboardService) loadTables(ctx context.Context, gameweekID int, wanted map[int]struct{}) (map[int]leaderboard.GameweekTable, error) {
	var (
		fixtures []fixture.Fixture
		err      error
	)
	switch {
	case len(wanted) == 0:
		return map[int]leaderboard.GameweekTable{}, nil
	case gameweekID > 0:
		fixtures, err = s.fixtureRepo.ListByGameweek(ctx, gameweekID)
	default:
		fixtures, err = s.fixtureRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list fixtures: %w", ErrDependencyUnavailable, err)
	}

	tables := make(map[int]leaderboard.GameweekTable, len(wanted))
	for _, f := range fixtures {
		if _, ok := wanted[f.Gameweek]; !ok {
			continue
		}
		table, ok := tables[f.Gameweek]
		if !ok {
			table = leaderboard.GameweekTable{Results: make(map[int64]scoring.ScoreLine)}
		}
		table.Fixtures = append(table.Fixtures, f.ID)
		if result, ok := f.Result(); ok {
			table.Results[f.ID] = result
		}
		tables[f.Gameweek] = table
	}
	return tables, nil
}

// latestPerUserGameweek keeps the newest submission per (user, gameweek) at
// the position of that pair's first submission. Input must be oldest first.
func latestPerUserGameweek(items []prediction.Submission) []prediction.Submission {
	type key struct {
		userID   string
		gameweek int
	}
	index := make(map[key]int, len(items))
	out := make([]prediction.Submission, 0, len(items))
	for _, item := range items {
		k := key{userID: item.UserID, gameweek: item.Gameweek}
		if i, ok := index[k]; ok {
			if !item.SubmittedAt.Before(out[i].SubmittedAt) {
				out[i] = item
			}
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}
	return out
}
