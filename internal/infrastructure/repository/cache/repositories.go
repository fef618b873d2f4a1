package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/score-predictor/internal/domain/fixture"
	"github.com/riskibarqy/score-predictor/internal/domain/gameweek"
	"github.com/riskibarqy/score-predictor/internal/domain/team"
	basecache "github.com/riskibarqy/score-predictor/internal/platform/cache"
)

const (
	gameweekPrefix = "gameweek:"
	fixturePrefix  = "fixture:"
	teamPrefix     = "team:"
)

type GameweekRepository struct {
	next  gameweek.Repository
	cache *basecache.Store
}

func NewGameweekRepository(next gameweek.Repository, cache *basecache.Store) *GameweekRepository {
	return &GameweekRepository{next: next, cache: cache}
}

func (r *GameweekRepository) List(ctx context.Context) ([]gameweek.Gameweek, error) {
	v, err := r.cache.GetOrLoad(ctx, gameweekPrefix+"list", func(ctx context.Context) (any, error) {
		return r.next.List(ctx)
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]gameweek.Gameweek)
	return append([]gameweek.Gameweek(nil), items...), nil
}

func (r *GameweekRepository) GetByID(ctx context.Context, id int) (gameweek.Gameweek, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, gameweekPrefix+"id:"+strconv.Itoa(id), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return lookup[gameweek.Gameweek]{value: item, exists: exists}, nil
	})
	if err != nil {
		return gameweek.Gameweek{}, false, err
	}

	cached, _ := v.(lookup[gameweek.Gameweek])
	return cached.value, cached.exists, nil
}

func (r *GameweekRepository) Current(ctx context.Context) (gameweek.Gameweek, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, gameweekPrefix+"current", func(ctx context.Context) (any, error) {
		item, exists, err := r.next.Current(ctx)
		if err != nil {
			return nil, err
		}
		return lookup[gameweek.Gameweek]{value: item, exists: exists}, nil
	})
	if err != nil {
		return gameweek.Gameweek{}, false, err
	}

	cached, _ := v.(lookup[gameweek.Gameweek])
	return cached.value, cached.exists, nil
}

func (r *GameweekRepository) UpsertMany(ctx context.Context, items []gameweek.Gameweek) error {
	defer r.cache.DeletePrefix(ctx, gameweekPrefix)
	return r.next.UpsertMany(ctx, items)
}

type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store
}

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) ListByGameweek(ctx context.Context, gw int) ([]fixture.Fixture, error) {
	return r.list(ctx, fixturePrefix+"gw:"+strconv.Itoa(gw), func(ctx context.Context) ([]fixture.Fixture, error) {
		return r.next.ListByGameweek(ctx, gw)
	})
}

func (r *FixtureRepository) ListAll(ctx context.Context) ([]fixture.Fixture, error) {
	return r.list(ctx, fixturePrefix+"all", r.next.ListAll)
}

// UpsertMany drops every fixture key; sync writes gameweeks concurrently.
func (r *FixtureRepository) UpsertMany(ctx context.Context, items []fixture.Fixture) error {
	defer r.cache.DeletePrefix(ctx, fixturePrefix)
	return r.next.UpsertMany(ctx, items)
}

func (r *FixtureRepository) list(ctx context.Context, key string, load func(context.Context) ([]fixture.Fixture, error)) ([]fixture.Fixture, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fixture.Fixture)
	return append([]fixture.Fixture(nil), items...), nil
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, teamPrefix+"list", func(ctx context.Context) (any, error) {
		return r.next.List(ctx)
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) UpsertMany(ctx context.Context, items []team.Team) error {
	defer r.cache.DeletePrefix(ctx, teamPrefix)
	return r.next.UpsertMany(ctx, items)
}

type lookup[T any] struct {
	value  T
	exists bool
}
