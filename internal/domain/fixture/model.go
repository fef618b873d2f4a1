package fixture

import (
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/scoring"
)

// Fixture represents one scheduled match.
type Fixture struct {
	ID         int64
	Gameweek   int
	HomeTeamID int
	AwayTeamID int
	HomeTeam   string
	AwayTeam   string
	KickoffAt  time.Time
	Started    bool
	Finished   bool
	HomeScore  *int
	AwayScore  *int
}

// Result returns the final score once the fixture is finished with both
// scores recorded.
func (f Fixture) Result() (scoring.ScoreLine, bool) {
	if !f.Finished || f.HomeScore == nil || f.AwayScore == nil {
		return scoring.ScoreLine{}, false
	}
	return scoring.Line(*f.HomeScore, *f.AwayScore), true
}
