package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo gameweek into an empty database so the
// prediction form has fixtures before the first sync.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, now time.Time) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM gameweeks`); err != nil {
		return fmt.Errorf("count gameweeks for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range memory.SeedTeams() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (id, name, short_name)
VALUES (:id, :name, :short_name)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":         t.ID,
			"name":       t.Name,
			"short_name": t.ShortName,
		})
		if err != nil {
			return fmt.Errorf("bind seed team %d query: %w", t.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %d: %w", t.ID, err)
		}
	}

	for _, gw := range memory.SeedGameweeks(now) {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO gameweeks (id, name, deadline_at, is_current, is_next, finished)
VALUES (:id, :name, :deadline_at, :is_current, :is_next, :finished)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":          gw.ID,
			"name":        gw.Name,
			"deadline_at": nullableTime(gw.DeadlineAt),
			"is_current":  gw.IsCurrent,
			"is_next":     gw.IsNext,
			"finished":    gw.Finished,
		})
		if err != nil {
			return fmt.Errorf("bind seed gameweek %d query: %w", gw.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed gameweek %d: %w", gw.ID, err)
		}
	}

	for _, f := range memory.SeedFixtures(now) {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO fixtures (id, gameweek, home_team_id, away_team_id, kickoff_at)
VALUES (:id, :gameweek, :home_team_id, :away_team_id, :kickoff_at)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":           f.ID,
			"gameweek":     f.Gameweek,
			"home_team_id": f.HomeTeamID,
			"away_team_id": f.AwayTeamID,
			"kickoff_at":   nullableTime(f.KickoffAt),
		})
		if err != nil {
			return fmt.Errorf("bind seed fixture %d query: %w", f.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed fixture %d: %w", f.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
