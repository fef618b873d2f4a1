package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/score-predictor/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[int]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	r := &TeamRepository{teams: make(map[int]team.Team, len(teams))}
	for _, item := range teams {
		r.teams[item.ID] = item
	}
	return r
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, item := range r.teams {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) UpsertMany(_ context.Context, items []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.teams[item.ID] = item
	}
	return nil
}
