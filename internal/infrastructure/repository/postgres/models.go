package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	ShortName string    `db:"short_name"`
	UpdatedAt time.Time `db:"updated_at"`
}

type gameweekTableModel struct {
	ID         int          `db:"id"`
	Name       string       `db:"name"`
	DeadlineAt sql.NullTime `db:"deadline_at"`
	IsCurrent  bool         `db:"is_current"`
	IsNext     bool         `db:"is_next"`
	Finished   bool         `db:"finished"`
}

type fixtureTableModel struct {
	ID         int64         `db:"id"`
	Gameweek   int           `db:"gameweek"`
	HomeTeamID int           `db:"home_team_id"`
	AwayTeamID int           `db:"away_team_id"`
	HomeTeam   string        `db:"home_team"`
	AwayTeam   string        `db:"away_team"`
	KickoffAt  sql.NullTime  `db:"kickoff_at"`
	Started    bool          `db:"started"`
	Finished   bool          `db:"finished"`
	HomeScore  sql.NullInt64 `db:"home_score"`
	AwayScore  sql.NullInt64 `db:"away_score"`
}

type predictionSubmissionTableModel struct {
	PublicID    string    `db:"public_id"`
	UserID      string    `db:"user_id"`
	UserName    string    `db:"user_name"`
	Gameweek    int       `db:"gameweek"`
	SubmittedAt time.Time `db:"submitted_at"`
}

type predictionScoreTableModel struct {
	SubmissionID string        `db:"submission_public_id"`
	FixtureID    int64         `db:"fixture_id"`
	HomeScore    sql.NullInt64 `db:"home_score"`
	AwayScore    sql.NullInt64 `db:"away_score"`
}
