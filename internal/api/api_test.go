package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/yourusername/clever-tips/internal/logger"
	"github.com/yourusername/clever-tips/internal/models"
	"github.com/yourusername/clever-tips/internal/publisher"
	"github.com/yourusername/clever-tips/internal/service"
	"github.com/yourusername/clever-tips/internal/store"
	"github.com/yourusername/clever-tips/internal/strategy"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type failingReader struct{}

func (failingReader) GetByDate(context.Context, time.Time) ([]*models.MatchPrediction, error) {
	return nil, errors.New("connection reset")
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "clever-tips"
	}
	cfg.Logger = logger.NewNopLogger()
	return NewServer(cfg)
}

func newPredictor(t *testing.T) Predictor {
	t.Helper()
	strat, err := strategy.Resolve(strategy.FullStrategyName, strategy.Options{})
	require.NoError(t, err)
	return service.NewPredictionService(nil, nil, strat, nil, nil, service.Options{}, logger.NewNopLogger())
}

func do(t *testing.T, s *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthAndLive(t *testing.T) {
	s := newTestServer(t, Config{Version: "1.2.3"})

	for _, path := range []string{"/health", "/live"} {
		rec := do(t, s, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "clever-tips", resp.Service)
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		db         DatabasePinger
		wantStatus int
		wantChecks map[string]string
	}{
		{"not ready", false, nil, http.StatusServiceUnavailable, map[string]string{"service": "not_ready"}},
		{"ready without db", true, nil, http.StatusOK, map[string]string{"service": "ok"}},
		{"ready with db", true, fakePinger{}, http.StatusOK, map[string]string{"service": "ok", "database": "ok"}},
		{"db down", true, fakePinger{err: errors.New("refused")}, http.StatusServiceUnavailable,
			map[string]string{"service": "ok", "database": "error: refused"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Config{DB: tt.db})
			s.SetReady(tt.ready)

			rec := do(t, s, http.MethodGet, "/ready", nil)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantChecks, resp.Checks)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, Config{MetricsPath: "/metrics"})

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPredict(t *testing.T) {
	s := newTestServer(t, Config{Predictor: newPredictor(t)})

	body := []byte(`{
		"fixture": {"home": "Arsenal", "away": "Everton", "league": "Premier League"},
		"home_form": {"matches_analyzed": 10, "wins": 7, "draws": 2, "gf": 20, "ga": 8},
		"away_form": {"matches_analyzed": 10, "wins": 2, "draws": 3, "gf": 9, "ga": 17}
	}`)
	rec := do(t, s, http.MethodPost, "/v1/predictions", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pred models.MatchPrediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pred))
	assert.Equal(t, "Arsenal", pred.Home)
	assert.Equal(t, models.OutcomeHomeWin, pred.Pick)
	assert.Equal(t, strategy.FullStrategyName, pred.Strategy)
	assert.True(t, pred.HasOdds())
}

func TestPredictNamedStrategy(t *testing.T) {
	s := newTestServer(t, Config{Predictor: newPredictor(t)})

	body := []byte(`{
		"strategy": "simple",
		"fixture": {"home": "Arsenal", "away": "Everton"},
		"home_form": {"matches_analyzed": 10, "wins": 7, "draws": 2, "gf": 20, "ga": 8},
		"away_form": {"matches_analyzed": 10, "wins": 2, "draws": 3, "gf": 9, "ga": 17}
	}`)
	rec := do(t, s, http.MethodPost, "/v1/predictions", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pred models.MatchPrediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pred))
	assert.Equal(t, strategy.SimpleStrategyName, pred.Strategy)
}

func TestPredictBadRequests(t *testing.T) {
	s := newTestServer(t, Config{Predictor: newPredictor(t)})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"fixture":`},
		{"unknown field", `{"fixture": {"home": "A", "away": "B"}, "stake": 10}`},
		{"missing team", `{"fixture": {"home": "A"}}`},
		{"impossible form", `{"fixture": {"home": "A", "away": "B"},
			"home_form": {"matches_analyzed": 3, "wins": 3, "draws": 2}}`},
		{"unknown strategy", `{"strategy": "martingale", "fixture": {"home": "A", "away": "B"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/predictions", []byte(tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestPredictUnavailable(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := do(t, s, http.MethodPost, "/v1/predictions", []byte(`{}`))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListPredictions(t *testing.T) {
	repo := store.NewMemoryPredictionRepository()
	kickoff := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveBatch(context.Background(), []*models.MatchPrediction{
		{Home: "Lens", Away: "Lille", Pick: models.OutcomeDraw, Kickoff: kickoff},
		{Home: "Nice", Away: "Brest", Pick: models.OutcomeHomeWin, Kickoff: kickoff.AddDate(0, 0, 1)},
	}))

	s := newTestServer(t, Config{Predictions: repo})

	rec := do(t, s, http.MethodGet, "/v1/predictions?date=2024-03-09", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PredictionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2024-03-09", resp.Date)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Lens", resp.Predictions[0].Home)

	rec = do(t, s, http.MethodGet, "/v1/predictions?date=2024-01-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"predictions":[]`)
}

func TestListPredictionsErrors(t *testing.T) {
	s := newTestServer(t, Config{Predictions: store.NewMemoryPredictionRepository()})
	rec := do(t, s, http.MethodGet, "/v1/predictions?date=09/03/2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s = newTestServer(t, Config{Predictions: failingReader{}})
	rec = do(t, s, http.MethodGet, "/v1/predictions", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStrategies(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := do(t, s, http.MethodGet, "/v1/strategies", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []strategy.StrategyMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, len(strategy.Names()))
	assert.Equal(t, strategy.FullStrategyName, out[0].Name)
}

func TestStream(t *testing.T) {
	hub := publisher.NewHub(logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	s := newTestServer(t, Config{Stream: hub})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(ctx, []*models.MatchPrediction{{Home: "Lens", Away: "Lille", Pick: models.OutcomeAwayWin}}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg publisher.ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, publisher.MessageTypePredictions, msg.Type)
	require.Len(t, msg.Payload, 1)
	assert.Equal(t, "Lens", msg.Payload[0].Home)
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusForError(models.ErrInvalidForm))
	assert.Equal(t, http.StatusGatewayTimeout, statusForError(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, statusForError(errors.New("boom")))
}

func TestGRPCHealthFollowsReadiness(t *testing.T) {
	g := NewGRPCServer(logger.NewNopLogger())
	lis := bufconn.Listen(1 << 20)
	go func() { _ = g.Serve(lis) }()
	defer g.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	check := func(service string) healthpb.HealthCheckResponse_ServingStatus {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		return resp.GetStatus()
	}

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(""))

	s := newTestServer(t, Config{Health: g})
	s.SetReady(true)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(ServiceName))

	s.SetReady(false)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(ServiceName))
}
