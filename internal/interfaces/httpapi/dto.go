package httpapi

import (
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/fixture"
	"github.com/riskibarqy/score-predictor/internal/domain/gameweek"
	"github.com/riskibarqy/score-predictor/internal/domain/leaderboard"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
)

type gameweekDTO struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	DeadlineAt *time.Time `json:"deadlineAt,omitempty"`
	IsCurrent  bool       `json:"isCurrent"`
	IsNext     bool       `json:"isNext"`
	Finished   bool       `json:"finished"`
	IsOpen     bool       `json:"isOpen"`
}

type fixtureDTO struct {
	ID         int64      `json:"id"`
	Gameweek   int        `json:"gameweek"`
	HomeTeamID int        `json:"homeTeamId"`
	AwayTeamID int        `json:"awayTeamId"`
	HomeTeam   string     `json:"homeTeam"`
	AwayTeam   string     `json:"awayTeam"`
	KickoffAt  *time.Time `json:"kickoffAt,omitempty"`
	Started    bool       `json:"started"`
	Finished   bool       `json:"finished"`
	HomeScore  *int       `json:"homeScore"`
	AwayScore  *int       `json:"awayScore"`
}

type pickDTO struct {
	FixtureID int64 `json:"fixtureId"`
	Home      *int  `json:"home"`
	Away      *int  `json:"away"`
}

type submissionDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	Gameweek    int       `json:"gameweek"`
	Picks       []pickDTO `json:"picks"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type leaderboardDTO struct {
	Mode     leaderboard.Mode        `json:"mode"`
	Gameweek int                     `json:"gameweek,omitempty"`
	Entries  []leaderboard.UserScore `json:"entries"`
}

type submitPredictionRequest struct {
	Picks []submitPickRequest `json:"picks" validate:"required,min=1,dive"`
}

type submitPickRequest struct {
	FixtureID int64 `json:"fixtureId" validate:"required,gt=0"`
	Home      *int  `json:"home"`
	Away      *int  `json:"away"`
}

func (r submitPredictionRequest) toPicks() []prediction.Pick {
	out := make([]prediction.Pick, 0, len(r.Picks))
	for _, p := range r.Picks {
		out = append(out, prediction.Pick{FixtureID: p.FixtureID, Home: p.Home, Away: p.Away})
	}
	return out
}

func gameweekToDTO(item gameweek.Gameweek, now time.Time) gameweekDTO {
	return gameweekDTO{
		ID:         item.ID,
		Name:       item.Name,
		DeadlineAt: timePtr(item.DeadlineAt),
		IsCurrent:  item.IsCurrent,
		IsNext:     item.IsNext,
		Finished:   item.Finished,
		IsOpen:     item.IsOpen(now),
	}
}

func fixtureToDTO(item fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:         item.ID,
		Gameweek:   item.Gameweek,
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
		HomeTeam:   item.HomeTeam,
		AwayTeam:   item.AwayTeam,
		KickoffAt:  timePtr(item.KickoffAt),
		Started:    item.Started,
		Finished:   item.Finished,
		HomeScore:  item.HomeScore,
		AwayScore:  item.AwayScore,
	}
}

func submissionToDTO(item prediction.Submission) submissionDTO {
	picks := make([]pickDTO, 0, len(item.Picks))
	for _, p := range item.Picks {
		picks = append(picks, pickDTO{FixtureID: p.FixtureID, Home: p.Home, Away: p.Away})
	}
	return submissionDTO{
		ID:          item.ID,
		UserID:      item.UserID,
		UserName:    item.UserName,
		Gameweek:    item.Gameweek,
		Picks:       picks,
		SubmittedAt: item.SubmittedAt.UTC(),
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.UTC()
	return &v
}
