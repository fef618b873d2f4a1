package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/score-predictor/internal/domain/gameweek"
)

type GameweekRepository struct {
	mu        sync.RWMutex
	gameweeks map[int]gameweek.Gameweek
}

func NewGameweekRepository(gameweeks []gameweek.Gameweek) *GameweekRepository {
	r := &GameweekRepository{gameweeks: make(map[int]gameweek.Gameweek, len(gameweeks))}
	for _, item := range gameweeks {
		r.gameweeks[item.ID] = item
	}
	return r
}

func (r *GameweekRepository) List(_ context.Context) ([]gameweek.Gameweek, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gameweek.Gameweek, 0, len(r.gameweeks))
	for _, item := range r.gameweeks {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *GameweekRepository) GetByID(_ context.Context, id int) (gameweek.Gameweek, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.gameweeks[id]
	return item, ok, nil
}

// Current returns the gameweek flagged current, else the next one.
func (r *GameweekRepository) Current(ctx context.Context) (gameweek.Gameweek, bool, error) {
	items, _ := r.List(ctx)
	for _, item := range items {
		if item.IsCurrent {
			return item, true, nil
		}
	}
	for _, item := range items {
		if item.IsNext {
			return item, true, nil
		}
	}
	return gameweek.Gameweek{}, false, nil
}

func (r *GameweekRepository) UpsertMany(_ context.Context, items []gameweek.Gameweek) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.gameweeks[item.ID] = item
	}
	return nil
}
