package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage"
	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage/memstorage"
	"github.com/burenotti/gym_tracker_backend/internal/app/auth"
	"github.com/burenotti/gym_tracker_backend/internal/app/messagebus"
	metricservice "github.com/burenotti/gym_tracker_backend/internal/app/metric"
	profileapp "github.com/burenotti/gym_tracker_backend/internal/app/profile"
	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
	telemetry "github.com/burenotti/gym_tracker_backend/internal/telemetry/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type testServer struct {
	t        *testing.T
	store    *memstorage.Store
	bus      *messagebus.MessageBus
	counters *telemetry.Manager
	auth     *auth.Authorizer
	server   *Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstorage.New()
	bus := messagebus.New(logger)
	counters, reg := telemetry.NewTestManagerAndRegistry()
	for _, eventType := range telemetry.EventTypes {
		bus.Register(eventType, counters.HandleEvent)
	}
	t.Cleanup(bus.Close)

	authorizer := &auth.Authorizer{Secret: "0123456789abcdef0123456789abcdef", AccessTokenTTL: time.Hour}

	server := NewServer(
		Logger(logger),
		Authorizer(authorizer),
		DBContext(store.DB()),
		MessageBus(bus),
		MetricService(metricservice.New(logger, metricservice.WithClock(func() time.Time { return t0 }))),
		ProfileService(profileapp.New(logger)),
		MetricStorages(func(storage.DBContext) metricservice.Storages {
			return metricservice.Storages{
				Users:    store.UserStorage(),
				Sessions: store.SessionStorage(),
				Weights:  store.WeightStorage(),
				Metrics:  store.MetricStorage(),
			}
		}),
		UserStorage(func(storage.DBContext) profileapp.UserStorage {
			return store.UserStorage()
		}),
		Gatherer(reg),
	)

	ts := &testServer{t: t, store: store, bus: bus, counters: counters, auth: authorizer, server: server}

	trainer1 := "t1"
	trainer2 := "t2"
	store.PutUser(&user.User{UserID: "t1", Name: "Coach Ann", Role: user.RolePersonalTrainer})
	store.PutUser(&user.User{UserID: "t2", Name: "Coach Bo", Role: user.RolePersonalTrainer})
	store.PutUser(&user.User{UserID: "c1", Name: "Client One", Role: user.RoleClient, Weight: 80, PersonalTrainerID: &trainer1})
	store.PutUser(&user.User{UserID: "c2", Name: "Client Two", Role: user.RoleClient, Weight: 65, PersonalTrainerID: &trainer2})

	return ts
}

func (ts *testServer) token(userID string, role user.Role) string {
	token, err := ts.auth.GenerateAccessToken(userID, role)
	require.NoError(ts.t, err)
	return token
}

func (ts *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestLoginRequired(t *testing.T) {
	ts := newTestServer(t)

	for name, header := range map[string]string{
		"missing":     "",
		"no scheme":   "token",
		"wrong kind":  "Basic abc",
		"bad token":   "Bearer abc",
		"extra parts": "Bearer a b",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/metrics/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			ts.server.Handler().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/metrics/clients", "", ts.token("c1", user.RoleClient))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodPost, "/metrics/workouts/reset", "", ts.token("t1", user.RolePersonalTrainer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestClientFlow(t *testing.T) {
	ts := newTestServer(t)
	client := ts.token("c1", user.RoleClient)

	rec := ts.do(http.MethodPut, "/profile/weight", `{"weight": 75, "notes": "cut"}`, client)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	entry := decode[WeightEntry](t, rec)
	assert.Equal(t, 75.0, entry.Weight)

	rec = ts.do(http.MethodPost, "/workouts", `{"start_time": "2024-05-01T08:00:00Z"}`, client)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	workout := decode[Workout](t, rec)
	assert.Equal(t, t0.Add(-2*time.Hour), workout.StartTime.UTC())

	rec = ts.do(http.MethodPost, "/workouts/"+workout.SessionID+"/exercises",
		`{"exercise_id": "squat", "sets_completed": 3, "reps_completed": 10, "weight_used": 100}`, client)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, "/workouts/"+workout.SessionID+"/end",
		`{"end_time": "2024-05-01T09:30:00Z"}`, client)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, "/workouts/"+workout.SessionID+"/end", `{}`, client)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/cardio", `{"activity_type": "running", "duration": 30}`, client)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodGet, "/metrics/me", "", client)
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode[ClientMetrics](t, rec)
	assert.Equal(t, 1, m.TotalWorkoutsCompleted)
	assert.Equal(t, 1, m.TotalCardioSessions)
	assert.Equal(t, 3, m.TotalSetsCompleted)
	assert.InDelta(t, 2.0, m.TotalTrainingHours, 1e-9)
	assert.Equal(t, 80.0, *m.InitialWeight)
	assert.Equal(t, 75.0, *m.CurrentWeight)

	rec = ts.do(http.MethodGet, "/metrics/me/progress", "", client)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[Progress](t, rec)
	assert.Equal(t, -5.0, *p.WeightChangeKg)
	assert.Equal(t, -6.25, *p.WeightChangePercentage)

	rec = ts.do(http.MethodGet, "/metrics/me/weight-history?limit=10", "", client)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[WeightHistoryResponse](t, rec).Entries, 1)

	rec = ts.do(http.MethodPost, "/metrics/workouts/reset", "", client)
	require.Equal(t, http.StatusOK, rec.Code)
	reset := decode[ResetResponse](t, rec)
	assert.Equal(t, 1, reset.WorkoutsArchived)
	assert.Equal(t, 1, reset.ResetCount)
	assert.True(t, reset.MetricsPreserved)

	rec = ts.do(http.MethodGet, "/metrics/me/since-reset", "", client)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[SinceResetResponse](t, rec).WorkoutsSinceReset)

	ts.bus.Close()
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.counters.CounterWorkouts))
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.counters.CounterCardio))
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.counters.CounterWeightChanges))
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.counters.CounterResets))

	rec = ts.do(http.MethodGet, "/prometheus/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gym_tracker_test_workouts_completed 1")
}

func TestValidation(t *testing.T) {
	ts := newTestServer(t)
	client := ts.token("c1", user.RoleClient)

	for name, tc := range map[string]struct {
		method, path, body string
	}{
		"zero weight":      {http.MethodPut, "/profile/weight", `{"weight": 0}`},
		"malformed json":   {http.MethodPut, "/profile/weight", `{"weight":`},
		"cardio no time":   {http.MethodPost, "/cardio", `{"activity_type": "run", "duration": 0}`},
		"cardio no type":   {http.MethodPost, "/cardio", `{"duration": 10}`},
		"history limit":    {http.MethodGet, "/metrics/me/weight-history?limit=500", ""},
		"exercise no id":   {http.MethodPost, "/workouts/s1/exercises", `{"sets_completed": 1}`},
		"negative reps":    {http.MethodPost, "/workouts/s1/exercises", `{"exercise_id": "x", "reps_completed": -1}`},
		"negative weights": {http.MethodPost, "/workouts/s1/exercises", `{"exercise_id": "x", "weight_used": -5}`},
	} {
		t.Run(name, func(t *testing.T) {
			rec := ts.do(tc.method, tc.path, tc.body, client)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestErrorMapping(t *testing.T) {
	ts := newTestServer(t)
	client := ts.token("c2", user.RoleClient)

	rec := ts.do(http.MethodGet, "/metrics/me/progress", "", client)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[JsonErrorModel](t, rec).Message, "client metrics not found")

	rec = ts.do(http.MethodPost, "/workouts/missing/end", "", client)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	ts.store.FailOn("metrics.GetByClientID", errors.New("connection refused"))
	rec = ts.do(http.MethodGet, "/metrics/me", "", client)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), decode[JsonErrorModel](t, rec).Message)
}

func TestTrainerViews(t *testing.T) {
	ts := newTestServer(t)
	trainer := ts.token("t1", user.RolePersonalTrainer)

	rec := ts.do(http.MethodPost, "/workouts", `{}`, ts.token("c1", user.RoleClient))
	require.Equal(t, http.StatusCreated, rec.Code)
	workout := decode[Workout](t, rec)
	rec = ts.do(http.MethodPost, "/workouts/"+workout.SessionID+"/end", `{"end_time": "2024-05-01T11:00:00Z"}`, ts.token("c1", user.RoleClient))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/metrics/clients", "", trainer)
	require.Equal(t, http.StatusOK, rec.Code)
	clients := decode[ListClientsResponse](t, rec).Clients
	require.Len(t, clients, 1)
	assert.Equal(t, "c1", clients[0].ClientID)

	rec = ts.do(http.MethodGet, "/metrics/clients/c1", "", trainer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[ClientMetrics](t, rec).TotalWorkoutsCompleted)

	rec = ts.do(http.MethodGet, "/metrics/clients/c1/progress", "", trainer)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/metrics/clients/c1/weight-history", "", trainer)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/metrics/clients/c2", "", trainer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodGet, "/metrics/clients/t2", "", trainer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodGet, "/metrics/clients/ghost", "", trainer)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodGet, "/metrics/dashboard-summary", "", trainer)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[DashboardResponse](t, rec)
	assert.Equal(t, 1, d.TotalClients)
	assert.Equal(t, 1, d.TotalWorkouts)
	require.NotNil(t, d.MostActiveClient)
	assert.Equal(t, "Client One", d.MostActiveClient.Name)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusOf(user.ErrUserNotFound))
	assert.Equal(t, http.StatusBadRequest, statusOf(user.ErrInvalidWeight))
	assert.Equal(t, http.StatusForbidden, statusOf(user.ErrClientNotOwned))
	assert.Equal(t, http.StatusInternalServerError, statusOf(storage.ErrConflict))
	assert.Equal(t, http.StatusInternalServerError, statusOf(errors.New("x")))
}
