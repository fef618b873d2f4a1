package fpl

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/score-predictor/internal/usecase"
)

type fixtureItem struct {
	ID          int64   `json:"id"`
	Event       *int    `json:"event"`
	TeamH       int     `json:"team_h"`
	TeamA       int     `json:"team_a"`
	TeamHScore  *int    `json:"team_h_score"`
	TeamAScore  *int    `json:"team_a_score"`
	KickoffTime *string `json:"kickoff_time"`
	Started     *bool   `json:"started"`
	Finished    bool    `json:"finished"`
}

type bootstrapEnvelope struct {
	Events []eventItem `json:"events"`
	Teams  []teamItem  `json:"teams"`
}

type eventItem struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	DeadlineTime string `json:"deadline_time"`
	Finished     bool   `json:"finished"`
	IsCurrent    bool   `json:"is_current"`
	IsNext       bool   `json:"is_next"`
}

type teamItem struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// DecodeSeason maps the fixtures and bootstrap-static documents.
func (c *Client) DecodeSeason(fixtures, bootstrap json.RawMessage) (usecase.ExternalSeason, error) {
	return DecodeSeason(fixtures, bootstrap)
}

func DecodeSeason(fixtures, bootstrap json.RawMessage) (usecase.ExternalSeason, error) {
	var fixtureItems []fixtureItem
	if err := sonic.Unmarshal(fixtures, &fixtureItems); err != nil {
		return usecase.ExternalSeason{}, fmt.Errorf("decode fixtures payload: %w", err)
	}
	var envelope bootstrapEnvelope
	if err := sonic.Unmarshal(bootstrap, &envelope); err != nil {
		return usecase.ExternalSeason{}, fmt.Errorf("decode bootstrap payload: %w", err)
	}

	out := usecase.ExternalSeason{
		Teams:     make([]usecase.ExternalTeam, 0, len(envelope.Teams)),
		Gameweeks: make([]usecase.ExternalGameweek, 0, len(envelope.Events)),
		Fixtures:  make([]usecase.ExternalFixture, 0, len(fixtureItems)),
	}
	for _, item := range envelope.Teams {
		out.Teams = append(out.Teams, usecase.ExternalTeam{
			ExternalID: item.ID,
			Name:       strings.TrimSpace(item.Name),
			ShortName:  strings.TrimSpace(item.ShortName),
		})
	}
	for _, item := range envelope.Events {
		out.Gameweeks = append(out.Gameweeks, usecase.ExternalGameweek{
			ID:         item.ID,
			Name:       item.Name,
			DeadlineAt: parseTime(item.DeadlineTime),
			IsCurrent:  item.IsCurrent,
			IsNext:     item.IsNext,
			Finished:   item.Finished,
		})
	}
	for _, item := range fixtureItems {
		mapped := usecase.ExternalFixture{
			ExternalID: item.ID,
			HomeTeamID: item.TeamH,
			AwayTeamID: item.TeamA,
			Finished:   item.Finished,
			HomeScore:  item.TeamHScore,
			AwayScore:  item.TeamAScore,
		}
		if item.Event != nil {
			mapped.Gameweek = *item.Event
		}
		if item.KickoffTime != nil {
			mapped.KickoffAt = parseTime(*item.KickoffTime)
		}
		if item.Started != nil {
			mapped.Started = *item.Started
		}
		out.Fixtures = append(out.Fixtures, mapped)
	}

	return out, nil
}

func parseTime(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
