package gameweek

import "time"

// Gameweek groups the fixtures that share one prediction deadline.
type Gameweek struct {
	ID         int
	Name       string
	DeadlineAt time.Time
	IsCurrent  bool
	IsNext     bool
	Finished   bool
}

// IsOpen reports whether predictions are still accepted at now.
func (g Gameweek) IsOpen(now time.Time) bool {
	if g.DeadlineAt.IsZero() {
		return false
	}
	return now.Before(g.DeadlineAt)
}
