package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/fixture"
	"github.com/riskibarqy/score-predictor/internal/domain/gameweek"
	fixturemock "github.com/riskibarqy/score-predictor/internal/mocks/domain/fixture"
	gameweekmock "github.com/riskibarqy/score-predictor/internal/mocks/domain/gameweek"
	basecache "github.com/riskibarqy/score-predictor/internal/platform/cache"
	"github.com/stretchr/testify/mock"
)

func TestFixtureRepository_CachesUntilUpsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := fixturemock.NewRepository(t)
	repo := NewFixtureRepository(next, basecache.NewStore(time.Minute))

	next.On("ListByGameweek", mock.Anything, 1).Return([]fixture.Fixture{{ID: 1, Gameweek: 1}}, nil).Twice()
	next.On("UpsertMany", mock.Anything, mock.Anything).Return(nil).Once()

	for i := 0; i < 3; i++ {
		items, err := repo.ListByGameweek(ctx, 1)
		if err != nil || len(items) != 1 {
			t.Fatalf("list: %v %+v", err, items)
		}
	}

	if err := repo.UpsertMany(ctx, []fixture.Fixture{{ID: 1, Gameweek: 1, Finished: true}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := repo.ListByGameweek(ctx, 1); err != nil {
		t.Fatalf("list after upsert: %v", err)
	}
}

func TestGameweekRepository_CachesMisses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := gameweekmock.NewRepository(t)
	repo := NewGameweekRepository(next, basecache.NewStore(time.Minute))

	next.On("GetByID", mock.Anything, 9).Return(gameweek.Gameweek{}, false, nil).Once()

	for i := 0; i < 2; i++ {
		_, exists, err := repo.GetByID(ctx, 9)
		if err != nil || exists {
			t.Fatalf("get: exists=%v err=%v", exists, err)
		}
	}
}
