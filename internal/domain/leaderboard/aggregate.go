package leaderboard

import (
	"sort"

	"github.com/riskibarqy/score-predictor/internal/domain/scoring"
)

type Mode string

const (
	ModeSingleGameweek Mode = "single-gameweek"
	ModeOverall        Mode = "overall"
)

func (m Mode) Valid() bool {
	return m == ModeSingleGameweek || m == ModeOverall
}

// Record is one stored prediction set of a user for a gameweek.
type Record struct {
	UserID      string
	UserName    string
	Gameweek    int
	Predictions map[int64]scoring.ScoreLine
}

// GameweekTable holds the fixtures of a gameweek and the results known so far.
type GameweekTable struct {
	Fixtures []int64
	Results  map[int64]scoring.ScoreLine
}

type UserScore struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Points   int    `json:"points"`
}

// RecordPoints scores one record against its gameweek table. A fixture
// without a result contributes nothing.
func RecordPoints(rec Record, table GameweekTable) int {
	total := 0
	for fixtureID, predicted := range rec.Predictions {
		result, ok := table.Results[fixtureID]
		if !ok {
			continue
		}
		p, r := predicted, result
		total += scoring.Score(&p, &r)
	}
	return total
}

type userTotals struct {
	UserScore
	perGameweek map[int]int
}

// Aggregate ranks users by points, highest first. Duplicate records for the
// same user and gameweek are reduced to their best total. Equal totals keep
// the order in which users first appear in records. An unknown mode yields an
// empty ranking.
func Aggregate(records []Record, tables map[int]GameweekTable, mode Mode, target int) []UserScore {
	if !mode.Valid() {
		return []UserScore{}
	}

	order := make([]string, 0)
	byUser := make(map[string]*userTotals)

	for _, rec := range records {
		if mode == ModeSingleGameweek && rec.Gameweek != target {
			continue
		}

		u, ok := byUser[rec.UserID]
		if !ok {
			u = &userTotals{
				UserScore:   UserScore{UserID: rec.UserID},
				perGameweek: make(map[int]int),
			}
			byUser[rec.UserID] = u
			order = append(order, rec.UserID)
		}
		if u.UserName == "" {
			u.UserName = rec.UserName
		}

		points := RecordPoints(rec, tables[rec.Gameweek])
		if best, seen := u.perGameweek[rec.Gameweek]; !seen || points > best {
			u.perGameweek[rec.Gameweek] = points
		}
	}

	out := make([]UserScore, 0, len(order))
	for _, userID := range order {
		u := byUser[userID]
		for _, points := range u.perGameweek {
			u.Points += points
		}
		out = append(out, u.UserScore)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	return out
}

// GameweekBreakdown returns one user's best points per gameweek.
func GameweekBreakdown(records []Record, tables map[int]GameweekTable, userID string) map[int]int {
	out := make(map[int]int)
	for _, rec := range records {
		if rec.UserID != userID {
			continue
		}
		points := RecordPoints(rec, tables[rec.Gameweek])
		if best, seen := out[rec.Gameweek]; !seen || points > best {
			out[rec.Gameweek] = points
		}
	}
	return out
}
