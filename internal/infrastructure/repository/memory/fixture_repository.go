package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/score-predictor/internal/domain/fixture"
)

type FixtureRepository struct {
	mu       sync.RWMutex
	fixtures map[int64]fixture.Fixture
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	r := &FixtureRepository{fixtures: make(map[int64]fixture.Fixture, len(fixtures))}
	for _, item := range fixtures {
		r.fixtures[item.ID] = item
	}
	return r
}

func (r *FixtureRepository) ListByGameweek(_ context.Context, gameweek int) ([]fixture.Fixture, error) {
	return r.collect(func(item fixture.Fixture) bool { return item.Gameweek == gameweek }), nil
}

func (r *FixtureRepository) ListAll(_ context.Context) ([]fixture.Fixture, error) {
	return r.collect(func(fixture.Fixture) bool { return true }), nil
}

func (r *FixtureRepository) UpsertMany(_ context.Context, items []fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.fixtures[item.ID] = item
	}
	return nil
}

// collect returns matches ordered by kickoff, then id.
func (r *FixtureRepository) collect(match func(fixture.Fixture) bool) []fixture.Fixture {
	r.mu.RLock()
	out := make([]fixture.Fixture, 0, len(r.fixtures))
	for _, item := range r.fixtures {
		if match(item) {
			out = append(out, item)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
