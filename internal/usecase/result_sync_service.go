package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/score-predictor/internal/domain/fixture"
	"github.com/riskibarqy/score-predictor/internal/domain/gameweek"
	"github.com/riskibarqy/score-predictor/internal/domain/team"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

const defaultSyncWorkers = 4

// SeasonDecoder turns raw provider documents into season data.
type SeasonDecoder interface {
	DecodeSeason(fixtures, bootstrap json.RawMessage) (ExternalSeason, error)
}

type ExternalSeason struct {
	Teams     []ExternalTeam
	Gameweeks []ExternalGameweek
	Fixtures  []ExternalFixture
}

type ExternalTeam struct {
	ExternalID int
	Name       string
	ShortName  string
}

type ExternalGameweek struct {
	ID         int
	Name       string
	DeadlineAt time.Time
	IsCurrent  bool
	IsNext     bool
	Finished   bool
}

type ExternalFixture struct {
	ExternalID int64
	// Gameweek is zero while the provider has not scheduled the fixture.
	Gameweek   int
	HomeTeamID int
	AwayTeamID int
	KickoffAt  time.Time
	Started    bool
	Finished   bool
	HomeScore  *int
	AwayScore  *int
}

// LeaderboardInvalidator drops cached standings after data changes.
type LeaderboardInvalidator interface {
	Invalidate(ctx context.Context)
}

type SyncResult struct {
	Teams      int   `json:"teams"`
	Gameweeks  int   `json:"gameweeks"`
	Fixtures   int   `json:"fixtures"`
	Failed     int   `json:"failed"`
	Workers    int   `json:"workers"`
	DurationMs int64 `json:"durationMs"`
}

type ResultSyncConfig struct {
	Workers int
}

type ResultSyncService struct {
	source       *SportsDataService
	decoder      SeasonDecoder
	teamRepo     team.Repository
	gameweekRepo gameweek.Repository
	fixtureRepo  fixture.Repository
	invalidator  LeaderboardInvalidator
	workers      int
	logger       *logging.Logger
	running      atomic.Bool
}

func NewResultSyncService(
	source *SportsDataService,
	decoder SeasonDecoder,
	teamRepo team.Repository,
	gameweekRepo gameweek.Repository,
	fixtureRepo fixture.Repository,
	invalidator LeaderboardInvalidator,
	cfg ResultSyncConfig,
	logger *logging.Logger,
) *ResultSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultSyncWorkers
	}

	return &ResultSyncService{
		source:       source,
		decoder:      decoder,
		teamRepo:     teamRepo,
		gameweekRepo: gameweekRepo,
		fixtureRepo:  fixtureRepo,
		invalidator:  invalidator,
		workers:      workers,
		logger:       logger,
	}
}

// Sync pulls the season from the provider and upserts teams, gameweeks and
// fixtures. Fixture writes run per gameweek on a worker pool; a failed
// gameweek is counted and the rest still land.
func (s *ResultSyncService) Sync(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultSyncService.Sync")
	defer span.End()

	if s.source == nil || s.decoder == nil {
		return SyncResult{}, fmt.Errorf("%w: result sync is not configured", ErrDependencyUnavailable)
	}
	if !s.running.CompareAndSwap(false, true) {
		return SyncResult{}, fmt.Errorf("%w: sync already running", ErrConflict)
	}
	defer s.running.Store(false)

	start := time.Now()
	payload, err := s.source.FetchJoined(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	season, err := s.decoder.DecodeSeason(payload.FixturesData, payload.TeamsData)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: decode season: %w", ErrDependencyUnavailable, err)
	}

	teams, names := mapExternalTeams(season.Teams)
	if err := s.teamRepo.UpsertMany(ctx, teams); err != nil {
		return SyncResult{}, fmt.Errorf("upsert teams: %w", err)
	}

	gameweeks := mapExternalGameweeks(season.Gameweeks)
	if err := s.gameweekRepo.UpsertMany(ctx, gameweeks); err != nil {
		return SyncResult{}, fmt.Errorf("upsert gameweeks: %w", err)
	}

	grouped := groupFixturesByGameweek(season.Fixtures, names)
	result := SyncResult{
		Teams:     len(teams),
		Gameweeks: len(gameweeks),
		Workers:   min(s.workers, max(len(grouped), 1)),
	}

	written, failed, err := s.upsertFixtureGroups(ctx, grouped, result.Workers)
	if err != nil {
		return SyncResult{}, err
	}
	result.Fixtures = written
	result.Failed = failed
	result.DurationMs = time.Since(start).Milliseconds()

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}

	s.logger.InfoContext(ctx, "result sync finished",
		"teams", result.Teams,
		"gameweeks", result.Gameweeks,
		"fixtures", result.Fixtures,
		"failed_gameweeks", result.Failed,
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

func (s *ResultSyncService) upsertFixtureGroups(ctx context.Context, grouped map[int][]fixture.Fixture, workers int) (int, int, error) {
	if len(grouped) == 0 {
		return 0, 0, nil
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return 0, 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	keys := make([]int, 0, len(grouped))
	for gw := range grouped {
		keys = append(keys, gw)
	}
	sort.Ints(keys)

	var written atomic.Int32
	var failed atomic.Int32
	var wg sync.WaitGroup
	for _, gw := range keys {
		items := grouped[gw]
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := s.fixtureRepo.UpsertMany(ctx, items); err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "upsert gameweek fixtures failed", "gameweek", gw, "error", err)
				return
			}
			written.Add(int32(len(items)))
		}); err != nil {
			wg.Done()
			wg.Wait()
			return 0, 0, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	wg.Wait()

	return int(written.Load()), int(failed.Load()), nil
}

func mapExternalTeams(items []ExternalTeam) ([]team.Team, map[int]string) {
	out := make([]team.Team, 0, len(items))
	names := make(map[int]string, len(items))
	for _, item := range items {
		t := team.Team{ID: item.ExternalID, Name: item.Name, ShortName: item.ShortName}
		if t.Validate() != nil {
			continue
		}
		out = append(out, t)
		names[t.ID] = t.Name
	}
	return out, names
}

func mapExternalGameweeks(items []ExternalGameweek) []gameweek.Gameweek {
	out := make([]gameweek.Gameweek, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		out = append(out, gameweek.Gameweek{
			ID:         item.ID,
			Name:       item.Name,
			DeadlineAt: item.DeadlineAt,
			IsCurrent:  item.IsCurrent,
			IsNext:     item.IsNext,
			Finished:   item.Finished,
		})
	}
	return out
}

// groupFixturesByGameweek drops unscheduled fixtures.
func groupFixturesByGameweek(items []ExternalFixture, teamNames map[int]string) map[int][]fixture.Fixture {
	out := make(map[int][]fixture.Fixture)
	for _, item := range items {
		if item.Gameweek <= 0 || item.ExternalID <= 0 {
			continue
		}
		out[item.Gameweek] = append(out[item.Gameweek], fixture.Fixture{
			ID:         item.ExternalID,
			Gameweek:   item.Gameweek,
			HomeTeamID: item.HomeTeamID,
			AwayTeamID: item.AwayTeamID,
			HomeTeam:   teamNames[item.HomeTeamID],
			AwayTeam:   teamNames[item.AwayTeamID],
			KickoffAt:  item.KickoffAt,
			Started:    item.Started,
			Finished:   item.Finished,
			HomeScore:  item.HomeScore,
			AwayScore:  item.AwayScore,
		})
	}
	return out
}
