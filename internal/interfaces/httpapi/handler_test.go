package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/score-predictor/external/fpl"
	"github.com/riskibarqy/score-predictor/internal/domain/user"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/score-predictor/internal/platform/cache"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/riskibarqy/score-predictor/internal/usecase"
)

const testJobToken = "job-secret"

type fakeVerifier struct {
	principals map[string]user.Principal
}

func (f fakeVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	p, ok := f.principals[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return p, nil
}

type fakeProvider struct {
	fixtures  json.RawMessage
	bootstrap json.RawMessage
	err       error
}

func (f *fakeProvider) FetchFixtures(context.Context) (json.RawMessage, error) {
	return f.fixtures, f.err
}

func (f *fakeProvider) FetchBootstrap(context.Context) (json.RawMessage, error) {
	return f.bootstrap, f.err
}

type sequenceIDs struct {
	next atomic.Int32
}

func (s *sequenceIDs) NewID() (string, error) {
	return fmt.Sprintf("sub-%d", s.next.Add(1)), nil
}

func newTestRouter(t *testing.T, provider *fakeProvider) http.Handler {
	t.Helper()

	now := time.Now()
	logger := logging.NewNop()
	gameweekRepo := memory.NewGameweekRepository(memory.SeedGameweeks(now))
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures(now))
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	predictionRepo := memory.NewPredictionRepository()

	leaderboardService := usecase.NewLeaderboardService(predictionRepo, fixtureRepo, cache.NewStore(time.Minute), usecase.DuplicatePolicyMax)
	sportsDataService := usecase.NewSportsDataService(provider, logger)
	handler := NewHandler(
		usecase.NewFixtureService(gameweekRepo, fixtureRepo),
		usecase.NewPredictionService(gameweekRepo, fixtureRepo, predictionRepo, &sequenceIDs{}, leaderboardService, logger),
		leaderboardService,
		sportsDataService,
		usecase.NewResultSyncService(sportsDataService, decoderFunc(fpl.DecodeSeason), teamRepo, gameweekRepo, fixtureRepo, leaderboardService, usecase.ResultSyncConfig{Workers: 2}, logger),
		logger,
	)

	verifier := fakeVerifier{principals: map[string]user.Principal{
		"tok-alice": {UserID: "u-alice", DisplayName: "Alice"},
		"tok-bob":   {UserID: "u-bob", Email: "bob@example.com"},
	}}
	return NewRouter(handler, verifier, logger, []string{"http://localhost:3000"}, testJobToken)
}

type decoderFunc func(fixtures, bootstrap json.RawMessage) (usecase.ExternalSeason, error)

func (f decoderFunc) DecodeSeason(fixtures, bootstrap json.RawMessage) (usecase.ExternalSeason, error) {
	return f(fixtures, bootstrap)
}

func doRequest(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, sonic.Unmarshal(envelope.Data, out))
}

func fullPicks(home, away int) string {
	parts := make([]string, 0, 5)
	for id := 1; id <= 5; id++ {
		parts = append(parts, fmt.Sprintf(`{"fixtureId":%d,"home":%d,"away":%d}`, id, home, away))
	}
	return `{"picks":[` + strings.Join(parts, ",") + `]}`
}

func TestHandler_Healthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeProvider{})
	for _, path := range []string{"/healthz", "/health"} {
		rec := doRequest(t, router, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestHandler_ListFixturesByGameweek(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeProvider{})

	rec := doRequest(t, router, http.MethodGet, "/v1/gameweeks/1/fixtures", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var fixtures []fixtureDTO
	decodeData(t, rec, &fixtures)
	require.Len(t, fixtures, 5)
	require.Equal(t, "Man Utd", fixtures[0].HomeTeam)

	rec = doRequest(t, router, http.MethodGet, "/v1/gameweeks/abc/fixtures", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GetCurrentGameweek(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeProvider{})

	rec := doRequest(t, router, http.MethodGet, "/v1/gameweeks/current", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var gw gameweekDTO
	decodeData(t, rec, &gw)
	require.Equal(t, memory.DemoGameweekID, gw.ID)
	require.True(t, gw.IsOpen)
}

func TestHandler_SubmitPrediction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		token  string
		body   string
		status int
	}{
		{name: "missing token", body: fullPicks(1, 0), status: http.StatusUnauthorized},
		{name: "unknown token", token: "tok-eve", body: fullPicks(1, 0), status: http.StatusUnauthorized},
		{name: "empty body", token: "tok-alice", status: http.StatusBadRequest},
		{name: "unknown field", token: "tok-alice", body: `{"picks":[],"extra":1}`, status: http.StatusBadRequest},
		{name: "no picks", token: "tok-alice", body: `{"picks":[]}`, status: http.StatusBadRequest},
		{name: "incomplete picks", token: "tok-alice", body: `{"picks":[{"fixtureId":1,"home":1,"away":0}]}`, status: http.StatusBadRequest},
		{name: "complete picks", token: "tok-alice", body: fullPicks(2, 1), status: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(t, &fakeProvider{})
			rec := doRequest(t, router, http.MethodPost, "/v1/gameweeks/1/predictions", tt.token, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_UnknownGameweekPrediction(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeProvider{})
	rec := doRequest(t, router, http.MethodPost, "/v1/gameweeks/9/predictions", "tok-alice", fullPicks(1, 1))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_MyPredictions(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeProvider{})

	rec := doRequest(t, router, http.MethodGet, "/v1/gameweeks/1/predictions/me", "tok-alice", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/v1/gameweeks/1/predictions", "tok-alice", fullPicks(1, 0))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doRequest(t, router, http.MethodPost, "/v1/gameweeks/1/predictions", "tok-alice", fullPicks(3, 3))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/v1/gameweeks/1/predictions/me", "tok-alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var latest submissionDTO
	decodeData(t, rec, &latest)
	require.Equal(t, "sub-2", latest.ID)
	require.Equal(t, "Alice", latest.UserName)
	require.Len(t, latest.Picks, 5)
	require.Equal(t, 3, *latest.Picks[0].Home)

	rec = doRequest(t, router, http.MethodGet, "/v1/predictions/me", "tok-alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []submissionDTO
	decodeData(t, rec, &all)
	require.Len(t, all, 2)

	rec = doRequest(t, router, http.MethodGet, "/v1/predictions/me", "tok-bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var none []submissionDTO
	decodeData(t, rec, &none)
	require.Empty(t, none)
}

func TestHandler_GetSportsData(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeProvider{
		fixtures:  json.RawMessage(`[{"id":1}]`),
		bootstrap: json.RawMessage(`{"teams":[{"id":1,"name":"Arsenal"}]}`),
	})

	rec := doRequest(t, router, http.MethodGet, "/api", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	require.JSONEq(t, `[{"id":1}]`, string(body["fixturesData"]))
	require.JSONEq(t, `{"teams":[{"id":1,"name":"Arsenal"}]}`, string(body["teamsData"]))
	_, wrapped := body["data"]
	require.False(t, wrapped)
}

func TestHandler_GetSportsData_UpstreamFailure(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeProvider{err: errors.New("connection refused")})

	rec := doRequest(t, router, http.MethodGet, "/api", "", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Something went wrong fetching FPL data."}`, rec.Body.String())
}

func TestHandler_LeaderboardAfterResultSync(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		fixtures: json.RawMessage(`[
			{"id":1,"event":1,"team_h":14,"team_a":12,"team_h_score":2,"team_a_score":1,"started":true,"finished":true},
			{"id":2,"event":1,"team_h":1,"team_a":7,"team_h_score":0,"team_a_score":0,"started":true,"finished":true},
			{"id":3,"event":1,"team_h":13,"team_a":18,"started":false,"finished":false},
			{"id":4,"event":1,"team_h":9,"team_a":2,"started":false,"finished":false},
			{"id":5,"event":1,"team_h":15,"team_a":19,"started":false,"finished":false}
		]`),
		bootstrap: json.RawMessage(`{
			"events":[{"id":1,"name":"Gameweek 1","deadline_time":"2020-08-01T10:00:00Z","is_current":true}],
			"teams":[
				{"id":1,"name":"Arsenal","short_name":"ARS"},{"id":2,"name":"Aston Villa","short_name":"AVL"},
				{"id":7,"name":"Chelsea","short_name":"CHE"},{"id":9,"name":"Everton","short_name":"EVE"},
				{"id":12,"name":"Liverpool","short_name":"LIV"},{"id":13,"name":"Man City","short_name":"MCI"},
				{"id":14,"name":"Man Utd","short_name":"MUN"},{"id":15,"name":"Newcastle United","short_name":"NEW"},
				{"id":18,"name":"Tottenham Hotspur","short_name":"TOT"},{"id":19,"name":"West Ham United","short_name":"WHU"}
			]
		}`),
	}
	router := newTestRouter(t, provider)

	// alice: exact 2-1 (5) and wrong draw outcome (0); bob: home win (2) and exact 0-0 (5).
	rec := doRequest(t, router, http.MethodPost, "/v1/gameweeks/1/predictions", "tok-alice", fullPicks(2, 1))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doRequest(t, router, http.MethodPost, "/v1/gameweeks/1/predictions", "tok-bob", `{"picks":[
		{"fixtureId":1,"home":1,"away":0},{"fixtureId":2,"home":0,"away":0},
		{"fixtureId":3,"home":0,"away":0},{"fixtureId":4,"home":0,"away":0},{"fixtureId":5,"home":0,"away":0}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/v1/leaderboards/overall", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var before leaderboardDTO
	decodeData(t, rec, &before)
	require.Len(t, before.Entries, 2)
	require.Zero(t, before.Entries[0].Points)

	rec = doRequest(t, router, http.MethodPost, "/v1/internal/jobs/sync", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result usecase.SyncResult
	decodeData(t, rec, &result)
	require.Equal(t, 5, result.Fixtures)

	rec = doRequest(t, router, http.MethodGet, "/v1/leaderboards/gameweeks/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var board leaderboardDTO
	decodeData(t, rec, &board)
	require.Equal(t, 1, board.Gameweek)
	require.Len(t, board.Entries, 2)
	require.Equal(t, "u-bob", board.Entries[0].UserID)
	require.Equal(t, "bob@example.com", board.Entries[0].UserName)
	require.Equal(t, 7, board.Entries[0].Points)
	require.Equal(t, "u-alice", board.Entries[1].UserID)
	require.Equal(t, 5, board.Entries[1].Points)

	rec = doRequest(t, router, http.MethodGet, "/v1/leaderboards/me", "tok-alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var breakdown usecase.UserBreakdown
	decodeData(t, rec, &breakdown)
	require.Equal(t, 5, breakdown.Total)
	require.Equal(t, []usecase.GameweekPoints{{Gameweek: 1, Points: 5}}, breakdown.Gameweeks)
}
