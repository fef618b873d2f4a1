package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

// SportsDataProvider returns the upstream FPL documents untouched.
type SportsDataProvider interface {
	FetchFixtures(ctx context.Context) (json.RawMessage, error)
	FetchBootstrap(ctx context.Context) (json.RawMessage, error)
}

// ProxyPayload is the joined document served to browsers.
type ProxyPayload struct {
	FixturesData json.RawMessage `json:"fixturesData"`
	TeamsData    json.RawMessage `json:"teamsData"`
}

type SportsDataService struct {
	provider SportsDataProvider
	logger   *logging.Logger
}

func NewSportsDataService(provider SportsDataProvider, logger *logging.Logger) *SportsDataService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SportsDataService{provider: provider, logger: logger}
}

// FetchJoined fetches fixtures and bootstrap data concurrently. Either
// failure fails the whole call; there is no retry and no partial payload.
func (s *SportsDataService) FetchJoined(ctx context.Context) (ProxyPayload, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportsDataService.FetchJoined")
	defer span.End()

	if s.provider == nil {
		return ProxyPayload{}, fmt.Errorf("%w: sports data provider is not configured", ErrDependencyUnavailable)
	}

	start := time.Now()
	var out ProxyPayload
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		raw, err := s.provider.FetchFixtures(ctx)
		if err != nil {
			return fmt.Errorf("fetch fixtures: %w", err)
		}
		out.FixturesData = raw
		return nil
	})
	p.Go(func(ctx context.Context) error {
		raw, err := s.provider.FetchBootstrap(ctx)
		if err != nil {
			return fmt.Errorf("fetch bootstrap: %w", err)
		}
		out.TeamsData = raw
		return nil
	})

	if err := p.Wait(); err != nil {
		s.logger.WarnContext(ctx, "sports data fetch failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return ProxyPayload{}, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}

	return out, nil
}
