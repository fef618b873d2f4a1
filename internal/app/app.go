package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/score-predictor/external/fpl"
	"github.com/riskibarqy/score-predictor/internal/config"
	"github.com/riskibarqy/score-predictor/internal/domain/fixture"
	"github.com/riskibarqy/score-predictor/internal/domain/gameweek"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	"github.com/riskibarqy/score-predictor/internal/domain/team"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/account/session"
	cacherepo "github.com/riskibarqy/score-predictor/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/scheduler"
	"github.com/riskibarqy/score-predictor/internal/interfaces/httpapi"
	"github.com/riskibarqy/score-predictor/internal/platform/cache"
	idgen "github.com/riskibarqy/score-predictor/internal/platform/id"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/riskibarqy/score-predictor/internal/usecase"
)

const syncJobTimeout = 2 * time.Minute

// App owns the HTTP server and the background pieces that share its
// lifetime.
type App struct {
	Server    *http.Server
	Scheduler *scheduler.Scheduler

	db     *sqlx.DB
	logger *logging.Logger
}

type repositories struct {
	teams       team.Repository
	gameweeks   gameweek.Repository
	fixtures    fixture.Repository
	predictions prediction.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}

	repos, err := a.buildRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.gameweeks = cacherepo.NewGameweekRepository(repos.gameweeks, store)
		repos.fixtures = cacherepo.NewFixtureRepository(repos.fixtures, store)
	}

	fplClient := fpl.NewClient(fpl.ClientConfig{
		BaseURL:        cfg.FPLBaseURL,
		FixturesPath:   cfg.FPLFixturesPath,
		BootstrapPath:  cfg.FPLBootstrapPath,
		UserAgent:      cfg.FPLUserAgent,
		Timeout:        cfg.FPLTimeout,
		Logger:         logger.Named("fpl"),
		CircuitBreaker: cfg.FPLCircuit,
	})

	leaderboardSvc := usecase.NewLeaderboardService(repos.predictions, repos.fixtures, store, cfg.DuplicatePolicy)
	fixtureSvc := usecase.NewFixtureService(repos.gameweeks, repos.fixtures)
	predictionSvc := usecase.NewPredictionService(
		repos.gameweeks,
		repos.fixtures,
		repos.predictions,
		idgen.NewUUIDGenerator(),
		leaderboardSvc,
		logger.Named("prediction"),
	)
	sportsDataSvc := usecase.NewSportsDataService(fplClient, logger.Named("sportsdata"))
	resultSyncSvc := usecase.NewResultSyncService(
		sportsDataSvc,
		fplClient,
		repos.teams,
		repos.gameweeks,
		repos.fixtures,
		leaderboardSvc,
		usecase.ResultSyncConfig{Workers: cfg.SyncWorkers},
		logger.Named("sync"),
	)

	verifier, err := buildVerifier(cfg, logger)
	if err != nil {
		a.closeDB()
		return nil, err
	}

	handler := httpapi.NewHandler(fixtureSvc, predictionSvc, leaderboardSvc, sportsDataSvc, resultSyncSvc, logger.Named("http"))
	router := httpapi.NewRouter(handler, verifier, logger.Named("http"), cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if cfg.SyncEnabled {
		a.Scheduler, err = scheduler.New(cfg.SyncSchedule, resultSyncSvc, syncJobTimeout, logger.Named("scheduler"))
		if err != nil {
			a.closeDB()
			return nil, fmt.Errorf("build sync scheduler: %w", err)
		}
	}

	return a, nil
}

func (a *App) buildRepositories(ctx context.Context, cfg config.Config) (repositories, error) {
	if !cfg.DBEnabled {
		now := time.Now()
		a.logger.Info("using in-memory repositories with demo season")
		return repositories{
			teams:       memory.NewTeamRepository(memory.SeedTeams()),
			gameweeks:   memory.NewGameweekRepository(memory.SeedGameweeks(now)),
			fixtures:    memory.NewFixtureRepository(memory.SeedFixtures(now)),
			predictions: memory.NewPredictionRepository(),
		}, nil
	}

	db, err := openPostgres(ctx, cfg)
	if err != nil {
		return repositories{}, err
	}
	a.db = db

	if err := postgres.BootstrapSeed(ctx, db, time.Now()); err != nil {
		a.closeDB()
		return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
	}
	a.logger.Info("using postgres repositories", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		teams:       postgres.NewTeamRepository(db),
		gameweeks:   postgres.NewGameweekRepository(db),
		fixtures:    postgres.NewFixtureRepository(db),
		predictions: postgres.NewPredictionRepository(db),
	}, nil
}

func buildVerifier(cfg config.Config, logger *logging.Logger) (httpapi.TokenVerifier, error) {
	switch cfg.IdentityMode {
	case config.IdentityModeJWT:
		verifier, err := session.NewJWTVerifier(cfg.SessionJWTSecret, cfg.SessionJWTIssuer)
		if err != nil {
			return nil, fmt.Errorf("build jwt verifier: %w", err)
		}
		return verifier, nil
	default:
		return anubis.NewClient(anubis.ClientConfig{
			BaseURL:        cfg.AnubisBaseURL,
			IntrospectPath: cfg.AnubisIntrospectPath,
			AdminKey:       cfg.AnubisAdminKey,
			Timeout:        cfg.AnubisTimeout,
			CacheTTL:       cfg.AnubisCacheTTL,
			CircuitBreaker: cfg.AnubisCircuit,
			Logger:         logger.Named("anubis"),
		}), nil
	}
}

// Start launches the sync scheduler, if any. The HTTP server is started by
// the caller.
func (a *App) Start() {
	if a.Scheduler != nil {
		a.Scheduler.Start()
	}
}

// Shutdown drains the HTTP server, then stops the scheduler and closes the
// database.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}
	if a.Scheduler != nil {
		if err := a.Scheduler.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop scheduler: %w", err))
		}
	}
	if err := a.closeDB(); err != nil {
		errs = append(errs, fmt.Errorf("close db: %w", err))
	}
	return errors.Join(errs...)
}

func (a *App) closeDB() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
