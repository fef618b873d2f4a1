package prediction

import (
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/leaderboard"
	"github.com/riskibarqy/score-predictor/internal/domain/scoring"
)

// Pick is a predicted score for one fixture.
type Pick struct {
	FixtureID int64
	Home      *int
	Away      *int
}

func (p Pick) Line() scoring.ScoreLine {
	return scoring.ScoreLine{Home: p.Home, Away: p.Away}
}

// Submission is one stored prediction set. Users may submit more than once
// per gameweek; every submission is kept.
type Submission struct {
	ID          string
	UserID      string
	UserName    string
	Gameweek    int
	Picks       []Pick
	SubmittedAt time.Time
}

// Record converts the submission for leaderboard aggregation.
func (s Submission) Record() leaderboard.Record {
	preds := make(map[int64]scoring.ScoreLine, len(s.Picks))
	for _, p := range s.Picks {
		preds[p.FixtureID] = p.Line()
	}
	return leaderboard.Record{
		UserID:      s.UserID,
		UserName:    s.UserName,
		Gameweek:    s.Gameweek,
		Predictions: preds,
	}
}

// Filter selects submissions by equality. Zero values match everything.
type Filter struct {
	UserID      string
	Gameweek    int
	Limit       int
	NewestFirst bool
}
