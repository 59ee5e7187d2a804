package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dosada05/bracket-engine/handlers"
	"github.com/Dosada05/bracket-engine/metrics"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
	"github.com/Dosada05/bracket-engine/services"
)

const jwtSecret = "routes-test-secret"

type api struct {
	t      *testing.T
	server *httptest.Server
}

func newAPI(t *testing.T, settings models.Settings) *api {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	bracketService := services.NewBracketService(repositories.NewMemoryBracketRepository(), settings, m, logger)
	authService := services.NewAuthService("org", string(hash))

	router := chi.NewRouter()
	SetupRoutes(router,
		handlers.NewAuthHandler(authService, bracketService, jwtSecret),
		handlers.NewBracketHandler(bracketService),
		m.Handler(),
		jwtSecret,
	)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &api{t: t, server: server}
}

func (a *api) do(method, path, token string, body interface{}) (int, map[string]json.RawMessage) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(js)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	defer res.Body.Close()

	var env map[string]json.RawMessage
	raw, err := io.ReadAll(res.Body)
	require.NoError(a.t, err)
	_ = json.Unmarshal(raw, &env)
	return res.StatusCode, env
}

func (a *api) token(path string, body interface{}, auth string) string {
	a.t.Helper()
	status, env := a.do(http.MethodPost, path, auth, body)
	require.Contains(a.t, []int{http.StatusOK, http.StatusCreated}, status)
	var token string
	require.NoError(a.t, json.Unmarshal(env["token"], &token))
	return token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestSingleEliminationOverHTTP(t *testing.T) {
	a := newAPI(t, models.Settings{})
	org := a.token("/auth/token", services.LoginInput{Name: "org", Password: "pw"}, "")

	create := services.CreateBracketInput{
		Name:   "Spring Cup",
		Format: models.FormatSingleElimination,
		Participants: []services.ParticipantInput{
			{ID: "A", Name: "Alice"}, {ID: "B", Name: "Bob"}, {ID: "C", Name: "Carol"}, {ID: "D", Name: "Dave"},
		},
		Seeding: []string{"A", "B", "C", "D"},
	}
	status, _ := a.do(http.MethodPost, "/brackets", "", create)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := a.do(http.MethodPost, "/brackets", org, create)
	require.Equal(t, http.StatusCreated, status)
	bracket := decode[models.Bracket](t, env["bracket"])
	base := "/brackets/" + bracket.ID

	status, env = a.do(http.MethodGet, base+"/matches/ready", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.Match](t, env["matches"]), 2)

	status, _ = a.do(http.MethodGet, base+"/standings", "", nil)
	assert.Equal(t, http.StatusConflict, status)

	status, env = a.do(http.MethodPost, base+"/matches/1/result", org, map[string]int{"score1": 0, "score2": 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(env["error"]), "invalid match result")

	status, _ = a.do(http.MethodPost, base+"/matches/3/result", org, map[string]int{"score1": 1, "score2": 0})
	assert.Equal(t, http.StatusConflict, status, "the final waits for both semi-finals")

	status, _ = a.do(http.MethodPost, base+"/matches/9/result", org, map[string]int{"score1": 1, "score2": 0})
	assert.Equal(t, http.StatusNotFound, status)

	status, env = a.do(http.MethodPost, base+"/matches/1/result", org, map[string]int{"score1": 2, "score2": 0})
	require.Equal(t, http.StatusOK, status)
	outcome := decode[models.Outcome](t, env["outcome"])
	assert.Equal(t, []string{"B"}, outcome.Eliminated)

	status, _ = a.do(http.MethodPost, base+"/matches/2/result", org, map[string]int{"score1": 2, "score2": 1})
	require.Equal(t, http.StatusOK, status)

	status, env = a.do(http.MethodGet, base+"/participants/A/next-opponent", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, `"C"`, string(env["opponent_id"]))

	status, env = a.do(http.MethodPost, base+"/matches/3/result", org, map[string]int{"score1": 1, "score2": 2})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[models.Outcome](t, env["outcome"]).Terminal)

	status, env = a.do(http.MethodGet, base+"/standings", "", nil)
	require.Equal(t, http.StatusOK, status)
	standings := decode[[]models.Standing](t, env["standings"])
	require.Len(t, standings, 4)
	got := make(map[string]int)
	for _, s := range standings {
		got[s.ParticipantID] = s.Position
	}
	assert.Equal(t, map[string]int{"C": 1, "A": 2, "B": 3, "D": 3}, got)
}

func TestParticipantReportsOverHTTP(t *testing.T) {
	a := newAPI(t, models.Settings{ValidationMode: models.ValidationFlexible})
	org := a.token("/auth/token", services.LoginInput{Name: "org", Password: "pw"}, "")

	status, env := a.do(http.MethodPost, "/brackets", org, services.CreateBracketInput{
		Name:         "Duel",
		Format:       models.FormatSingleElimination,
		Participants: []services.ParticipantInput{{ID: "A", Name: "Alice"}, {ID: "B", Name: "Bob"}},
	})
	require.Equal(t, http.StatusCreated, status)
	base := "/brackets/" + decode[models.Bracket](t, env["bracket"]).ID

	alice := a.token(base+"/participants/A/token", nil, org)
	bob := a.token(base+"/participants/B/token", nil, org)

	status, _ = a.do(http.MethodPost, base+"/participants/A/token", alice, nil)
	assert.Equal(t, http.StatusForbidden, status, "players cannot mint tokens")

	status, _ = a.do(http.MethodPost, base+"/participants/B/report", alice, services.ReportInput{OwnScore: 3})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = a.do(http.MethodPost, base+"/matches/1/result", alice, map[string]int{"score1": 1, "score2": 0})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = a.do(http.MethodPost, base+"/participants/A/report", alice, services.ReportInput{OwnScore: 3, OpponentScore: 1})
	require.Equal(t, http.StatusOK, status)

	status, env = a.do(http.MethodPost, base+"/participants/B/report", bob, services.ReportInput{OwnScore: 1, OpponentScore: 3})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[models.Outcome](t, env["outcome"]).Terminal)

	status, _ = a.do(http.MethodPost, base+"/participants/B/report", bob, services.ReportInput{OwnScore: 1, OpponentScore: 3})
	assert.Equal(t, http.StatusConflict, status)
}

func TestCloseReportingOverHTTP(t *testing.T) {
	a := newAPI(t, models.Settings{})
	org := a.token("/auth/token", services.LoginInput{Name: "org", Password: "pw"}, "")

	status, env := a.do(http.MethodPost, "/brackets", org, services.CreateBracketInput{
		Name:         "Duel",
		Format:       models.FormatSingleElimination,
		Participants: []services.ParticipantInput{{ID: "A", Name: "Alice"}, {ID: "B", Name: "Bob"}},
	})
	require.Equal(t, http.StatusCreated, status)
	base := "/brackets/" + decode[models.Bracket](t, env["bracket"]).ID
	alice := a.token(base+"/participants/A/token", nil, org)

	status, _ = a.do(http.MethodPost, base+"/close", alice, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = a.do(http.MethodPost, base+"/close", org, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[models.Outcome](t, env["outcome"]).ReportingChanged)

	status, env = a.do(http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[models.Bracket](t, env["bracket"]).ReportingClosed)

	status, _ = a.do(http.MethodPost, base+"/matches/1/result", org, map[string]int{"score1": 2, "score2": 0})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = a.do(http.MethodPost, base+"/participants/A/report", alice, services.ReportInput{OwnScore: 2})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = a.do(http.MethodPost, base+"/open", org, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = a.do(http.MethodPost, base+"/matches/1/result", org, map[string]int{"score1": 2, "score2": 0})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[models.Outcome](t, env["outcome"]).Terminal)

	status, _ = a.do(http.MethodPost, base+"/close", org, nil)
	assert.Equal(t, http.StatusConflict, status, "a finished bracket cannot be closed")
}

func TestLoginAndValidationErrors(t *testing.T) {
	a := newAPI(t, models.Settings{})

	status, _ := a.do(http.MethodPost, "/auth/token", "", services.LoginInput{Name: "org", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)

	org := a.token("/auth/token", services.LoginInput{Name: "org", Password: "pw"}, "")

	status, env := a.do(http.MethodPost, "/brackets", org, map[string]interface{}{"name": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(env["error"]), "participants")

	status, _ = a.do(http.MethodPost, "/brackets", org, map[string]interface{}{"name": "x", "colour": "red"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = a.do(http.MethodGet, "/brackets/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMetricsAndSwagger(t *testing.T) {
	a := newAPI(t, models.Settings{})

	res, err := a.server.Client().Get(a.server.URL + "/metrics")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = a.server.Client().Get(a.server.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/brackets/{bracketID}/standings")
}
