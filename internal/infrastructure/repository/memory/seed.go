package memory

import (
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/fixture"
	"github.com/riskibarqy/score-predictor/internal/domain/gameweek"
	"github.com/riskibarqy/score-predictor/internal/domain/team"
)

const DemoGameweekID = 1

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: 1, Name: "Arsenal", ShortName: "ARS"},
		{ID: 2, Name: "Aston Villa", ShortName: "AVL"},
		{ID: 7, Name: "Chelsea", ShortName: "CHE"},
		{ID: 9, Name: "Everton", ShortName: "EVE"},
		{ID: 12, Name: "Liverpool", ShortName: "LIV"},
		{ID: 13, Name: "Man City", ShortName: "MCI"},
		{ID: 14, Name: "Man Utd", ShortName: "MUN"},
		{ID: 15, Name: "Newcastle United", ShortName: "NEW"},
		{ID: 18, Name: "Tottenham Hotspur", ShortName: "TOT"},
		{ID: 19, Name: "West Ham United", ShortName: "WHU"},
	}
}

// SeedGameweeks opens the demo gameweek for a week from now.
func SeedGameweeks(now time.Time) []gameweek.Gameweek {
	return []gameweek.Gameweek{
		{
			ID:         DemoGameweekID,
			Name:       "Gameweek 1",
			DeadlineAt: now.UTC().Add(7 * 24 * time.Hour).Truncate(time.Hour),
			IsNext:     true,
		},
	}
}

func SeedFixtures(now time.Time) []fixture.Fixture {
	kickoff := now.UTC().Add(7*24*time.Hour + 2*time.Hour).Truncate(time.Hour)
	names := make(map[int]string)
	for _, t := range SeedTeams() {
		names[t.ID] = t.Name
	}

	pairs := []struct {
		id         int64
		home, away int
	}{
		{id: 1, home: 14, away: 12},
		{id: 2, home: 1, away: 7},
		{id: 3, home: 13, away: 18},
		{id: 4, home: 9, away: 2},
		{id: 5, home: 15, away: 19},
	}

	out := make([]fixture.Fixture, 0, len(pairs))
	for i, p := range pairs {
		out = append(out, fixture.Fixture{
			ID:         p.id,
			Gameweek:   DemoGameweekID,
			HomeTeamID: p.home,
			AwayTeamID: p.away,
			HomeTeam:   names[p.home],
			AwayTeam:   names[p.away],
			KickoffAt:  kickoff.Add(time.Duration(i/2) * 150 * time.Minute),
		})
	}
	return out
}
