package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	qb "github.com/riskibarqy/score-predictor/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Insert stores the submission header and its picks in one transaction.
func (r *PredictionRepository) Insert(ctx context.Context, item prediction.Submission) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx insert prediction submission: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertInto("prediction_submissions").
		Columns("public_id", "user_id", "user_name", "gameweek", "submitted_at").
		Values(item.ID, item.UserID, item.UserName, item.Gameweek, item.SubmittedAt.UTC()).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert prediction submission query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("submission %s already exists: %w", item.ID, err)
		}
		return fmt.Errorf("insert prediction submission: %w", err)
	}

	if len(item.Picks) > 0 {
		builder := qb.InsertInto("prediction_scores").
			Columns("submission_public_id", "fixture_id", "home_score", "away_score")
		for _, pick := range item.Picks {
			builder.Values(item.ID, pick.FixtureID, nullableInt(pick.Home), nullableInt(pick.Away))
		}
		query, args, err = builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert prediction scores query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert prediction scores submission=%s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert prediction submission tx: %w", err)
	}

	return nil
}

func (r *PredictionRepository) List(ctx context.Context, filter prediction.Filter) ([]prediction.Submission, error) {
	builder := qb.Select("public_id", "user_id", "user_name", "gameweek", "submitted_at").
		From("prediction_submissions")
	if filter.UserID != "" {
		builder.Where(qb.Eq("user_id", filter.UserID))
	}
	if filter.Gameweek > 0 {
		builder.Where(qb.Eq("gameweek", filter.Gameweek))
	}
	if filter.NewestFirst {
		builder.OrderBy("submitted_at DESC", "id DESC")
	} else {
		builder.OrderBy("submitted_at", "id")
	}
	query, args, err := builder.Limit(filter.Limit).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select prediction submissions query: %w", err)
	}

	var rows []predictionSubmissionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select prediction submissions: %w", err)
	}
	if len(rows) == 0 {
		return []prediction.Submission{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PublicID)
	}
	picks, err := r.listPicks(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]prediction.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, prediction.Submission{
			ID:          row.PublicID,
			UserID:      row.UserID,
			UserName:    row.UserName,
			Gameweek:    row.Gameweek,
			Picks:       picks[row.PublicID],
			SubmittedAt: row.SubmittedAt.UTC(),
		})
	}

	return out, nil
}

func (r *PredictionRepository) listPicks(ctx context.Context, submissionIDs []string) (map[string][]prediction.Pick, error) {
	query, args, err := qb.Select("submission_public_id", "fixture_id", "home_score", "away_score").
		From("prediction_scores").
		Where(qb.Expr("submission_public_id = ANY(?)", pq.Array(submissionIDs))).
		OrderBy("submission_public_id", "fixture_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select prediction scores query: %w", err)
	}

	var rows []predictionScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select prediction scores: %w", err)
	}

	out := make(map[string][]prediction.Pick, len(submissionIDs))
	for _, row := range rows {
		out[row.SubmissionID] = append(out[row.SubmissionID], prediction.Pick{
			FixtureID: row.FixtureID,
			Home:      nullInt64ToIntPtr(row.HomeScore),
			Away:      nullInt64ToIntPtr(row.AwayScore),
		})
	}

	return out, nil
}
