package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
)

// PredictionRepository keeps submissions in insertion order.
type PredictionRepository struct {
	mu    sync.RWMutex
	items []prediction.Submission
	ids   map[string]struct{}
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{ids: make(map[string]struct{})}
}

func (r *PredictionRepository) Insert(_ context.Context, item prediction.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ids[item.ID]; exists {
		return fmt.Errorf("submission %s already exists", item.ID)
	}
	item.Picks = append([]prediction.Pick(nil), item.Picks...)
	r.items = append(r.items, item)
	r.ids[item.ID] = struct{}{}
	return nil
}

func (r *PredictionRepository) List(_ context.Context, filter prediction.Filter) ([]prediction.Submission, error) {
	r.mu.RLock()
	out := make([]prediction.Submission, 0, len(r.items))
	for _, item := range r.items {
		if filter.UserID != "" && item.UserID != filter.UserID {
			continue
		}
		if filter.Gameweek > 0 && item.Gameweek != filter.Gameweek {
			continue
		}
		item.Picks = append([]prediction.Pick(nil), item.Picks...)
		out = append(out, item)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	if filter.NewestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
