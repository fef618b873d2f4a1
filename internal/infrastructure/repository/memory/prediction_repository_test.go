package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
)

func TestPredictionRepository_ListFiltersOrdersAndLimits(t *testing.T) {
	ctx := context.Background()
	repo := NewPredictionRepository()
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	inserts := []prediction.Submission{
		{ID: "a", UserID: "u1", Gameweek: 1, SubmittedAt: base},
		{ID: "b", UserID: "u2", Gameweek: 1, SubmittedAt: base.Add(time.Minute)},
		{ID: "c", UserID: "u1", Gameweek: 1, SubmittedAt: base.Add(2 * time.Minute)},
		{ID: "d", UserID: "u1", Gameweek: 2, SubmittedAt: base.Add(3 * time.Minute)},
	}
	for _, item := range inserts {
		if err := repo.Insert(ctx, item); err != nil {
			t.Fatalf("insert %s: %v", item.ID, err)
		}
	}
	if err := repo.Insert(ctx, inserts[0]); err == nil {
		t.Fatalf("expected duplicate id to be rejected")
	}

	tests := []struct {
		name   string
		filter prediction.Filter
		want   []string
	}{
		{name: "all oldest first", filter: prediction.Filter{}, want: []string{"a", "b", "c", "d"}},
		{name: "by user", filter: prediction.Filter{UserID: "u1"}, want: []string{"a", "c", "d"}},
		{name: "by user and gameweek newest", filter: prediction.Filter{UserID: "u1", Gameweek: 1, NewestFirst: true}, want: []string{"c", "a"}},
		{name: "latest only", filter: prediction.Filter{UserID: "u1", Gameweek: 1, NewestFirst: true, Limit: 1}, want: []string{"c"}},
		{name: "no match", filter: prediction.Filter{UserID: "u9"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			got := make([]string, 0, len(items))
			for _, item := range items {
				got = append(got, item.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSeed_DemoGameweekIsOpenWithFiveFixtures(t *testing.T) {
	now := time.Now()
	gws := SeedGameweeks(now)
	if len(gws) != 1 || !gws[0].IsOpen(now) {
		t.Fatalf("expected one open demo gameweek, got %+v", gws)
	}

	fixtures := SeedFixtures(now)
	if len(fixtures) != 5 {
		t.Fatalf("expected 5 fixtures, got %d", len(fixtures))
	}
	if fixtures[0].HomeTeam != "Man Utd" || fixtures[0].AwayTeam != "Liverpool" {
		t.Fatalf("unexpected first fixture: %+v", fixtures[0])
	}
	for _, f := range fixtures {
		if f.HomeTeam == "" || f.AwayTeam == "" {
			t.Fatalf("fixture %d missing team names", f.ID)
		}
	}
}
