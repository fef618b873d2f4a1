package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/score-predictor/internal/domain/fixture"
	qb "github.com/riskibarqy/score-predictor/internal/platform/querybuilder"
)

const fixtureJoinedTable = "fixtures f LEFT JOIN teams th ON th.id = f.home_team_id LEFT JOIN teams ta ON ta.id = f.away_team_id"

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) ListByGameweek(ctx context.Context, gameweek int) ([]fixture.Fixture, error) {
	return r.list(ctx, "select fixtures by gameweek", qb.Eq("f.gameweek", gameweek))
}

func (r *FixtureRepository) ListAll(ctx context.Context) ([]fixture.Fixture, error) {
	return r.list(ctx, "select fixtures", nil)
}

func (r *FixtureRepository) UpsertMany(ctx context.Context, items []fixture.Fixture) error {
	if len(items) == 0 {
		return nil
	}

	builder := qb.InsertInto("fixtures").Columns(
		"id",
		"gameweek",
		"home_team_id",
		"away_team_id",
		"kickoff_at",
		"started",
		"finished",
		"home_score",
		"away_score",
	)
	for _, item := range items {
		builder.Values(
			item.ID,
			item.Gameweek,
			item.HomeTeamID,
			item.AwayTeamID,
			nullableTime(item.KickoffAt),
			item.Started,
			item.Finished,
			nullableInt(item.HomeScore),
			nullableInt(item.AwayScore),
		)
	}
	query, args, err := builder.Suffix(`ON CONFLICT (id) DO UPDATE SET
    gameweek = EXCLUDED.gameweek,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    kickoff_at = EXCLUDED.kickoff_at,
    started = EXCLUDED.started,
    finished = EXCLUDED.finished,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    updated_at = NOW()`).ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert fixtures query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert fixtures: %w", err)
	}

	return nil
}

func (r *FixtureRepository) list(ctx context.Context, op string, where qb.Condition) ([]fixture.Fixture, error) {
	query, args, err := qb.Select(
		"f.id",
		"f.gameweek",
		"f.home_team_id",
		"f.away_team_id",
		"COALESCE(th.name, '') AS home_team",
		"COALESCE(ta.name, '') AS away_team",
		"f.kickoff_at",
		"f.started",
		"f.finished",
		"f.home_score",
		"f.away_score",
	).From(fixtureJoinedTable).
		Where(where).
		OrderBy("f.kickoff_at", "f.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.Fixture{
			ID:         row.ID,
			Gameweek:   row.Gameweek,
			HomeTeamID: row.HomeTeamID,
			AwayTeamID: row.AwayTeamID,
			HomeTeam:   row.HomeTeam,
			AwayTeam:   row.AwayTeam,
			KickoffAt:  nullTimeValue(row.KickoffAt),
			Started:    row.Started,
			Finished:   row.Finished,
			HomeScore:  nullInt64ToIntPtr(row.HomeScore),
			AwayScore:  nullInt64ToIntPtr(row.AwayScore),
		})
	}

	return out, nil
}
