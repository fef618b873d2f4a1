package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

type fakeSportsProvider struct {
	fixtures     json.RawMessage
	bootstrap    json.RawMessage
	fixturesErr  error
	bootstrapErr error
}

func (f *fakeSportsProvider) FetchFixtures(ctx context.Context) (json.RawMessage, error) {
	if f.fixturesErr != nil {
		return nil, f.fixturesErr
	}
	return f.fixtures, ctx.Err()
}

func (f *fakeSportsProvider) FetchBootstrap(ctx context.Context) (json.RawMessage, error) {
	if f.bootstrapErr != nil {
		return nil, f.bootstrapErr
	}
	return f.bootstrap, ctx.Err()
}

func TestSportsDataService_FetchJoined(t *testing.T) {
	t.Parallel()

	provider := &fakeSportsProvider{
		fixtures:  json.RawMessage(`[{"id":1}]`),
		bootstrap: json.RawMessage(`{"teams":[]}`),
	}
	service := NewSportsDataService(provider, logging.NewNop())

	got, err := service.FetchJoined(context.Background())
	if err != nil {
		t.Fatalf("fetch joined: %v", err)
	}
	if string(got.FixturesData) != `[{"id":1}]` || string(got.TeamsData) != `{"teams":[]}` {
		t.Fatalf("unexpected payload: %s %s", got.FixturesData, got.TeamsData)
	}
}

func TestSportsDataService_FetchJoined_AnyFailureFailsAll(t *testing.T) {
	t.Parallel()

	upstream := errors.New("upstream 503")
	tests := []struct {
		name     string
		provider *fakeSportsProvider
	}{
		{
			name:     "fixtures fail",
			provider: &fakeSportsProvider{fixturesErr: upstream, bootstrap: json.RawMessage(`{}`)},
		},
		{
			name:     "bootstrap fails",
			provider: &fakeSportsProvider{fixtures: json.RawMessage(`[]`), bootstrapErr: upstream},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSportsDataService(tt.provider, logging.NewNop())
			got, err := service.FetchJoined(context.Background())
			if !errors.Is(err, ErrDependencyUnavailable) || !errors.Is(err, upstream) {
				t.Fatalf("expected wrapped upstream error, got %v", err)
			}
			if got.FixturesData != nil || got.TeamsData != nil {
				t.Fatalf("expected no partial payload, got %+v", got)
			}
		})
	}
}
