package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/score-predictor/internal/domain/gameweek"
	qb "github.com/riskibarqy/score-predictor/internal/platform/querybuilder"
)

var gameweekColumns = []string{"id", "name", "deadline_at", "is_current", "is_next", "finished"}

type GameweekRepository struct {
	db *sqlx.DB
}

func NewGameweekRepository(db *sqlx.DB) *GameweekRepository {
	return &GameweekRepository{db: db}
}

func (r *GameweekRepository) List(ctx context.Context) ([]gameweek.Gameweek, error) {
	query, args, err := qb.Select(gameweekColumns...).From("gameweeks").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select gameweeks query: %w", err)
	}

	var rows []gameweekTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select gameweeks: %w", err)
	}

	out := make([]gameweek.Gameweek, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameweekFromRow(row))
	}

	return out, nil
}

func (r *GameweekRepository) GetByID(ctx context.Context, id int) (gameweek.Gameweek, bool, error) {
	return r.getOne(ctx, "get gameweek by id", qb.Eq("id", id))
}

// Current returns the gameweek flagged current, falling back to the next one
// before the season starts.
func (r *GameweekRepository) Current(ctx context.Context) (gameweek.Gameweek, bool, error) {
	item, exists, err := r.getOne(ctx, "get current gameweek", qb.Eq("is_current", true))
	if err != nil || exists {
		return item, exists, err
	}

	return r.getOne(ctx, "get next gameweek", qb.Eq("is_next", true))
}

func (r *GameweekRepository) UpsertMany(ctx context.Context, items []gameweek.Gameweek) error {
	if len(items) == 0 {
		return nil
	}

	builder := qb.InsertInto("gameweeks").Columns(gameweekColumns...)
	for _, item := range items {
		builder.Values(item.ID, item.Name, nullableTime(item.DeadlineAt), item.IsCurrent, item.IsNext, item.Finished)
	}
	query, args, err := builder.
		OnConflictUpdate("id", "name", "deadline_at", "is_current", "is_next", "finished").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert gameweeks query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert gameweeks: %w", err)
	}

	return nil
}

func (r *GameweekRepository) getOne(ctx context.Context, op string, where qb.Condition) (gameweek.Gameweek, bool, error) {
	query, args, err := qb.Select(gameweekColumns...).From("gameweeks").
		Where(where).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return gameweek.Gameweek{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row gameweekTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return gameweek.Gameweek{}, false, nil
		}
		return gameweek.Gameweek{}, false, fmt.Errorf("%s: %w", op, err)
	}

	return gameweekFromRow(row), true, nil
}

func gameweekFromRow(row gameweekTableModel) gameweek.Gameweek {
	return gameweek.Gameweek{
		ID:         row.ID,
		Name:       row.Name,
		DeadlineAt: nullTimeValue(row.DeadlineAt),
		IsCurrent:  row.IsCurrent,
		IsNext:     row.IsNext,
		Finished:   row.Finished,
	}
}
