package stats

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/clever-tips/internal/models"
)

func testHTTPConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:                2 * time.Second,
		MaxRetries:             0,
		RetryWaitMin:           time.Millisecond,
		RetryWaitMax:           time.Millisecond,
		RateLimit:              1000,
		CircuitBreakerMax:      2,
		CircuitBreakerCooldown: time.Minute,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAPIClient(NewRateLimitedHTTPClient(testHTTPConfig(), nil), srv.URL+"/", "secret", nil)
}

func TestAPIClientFixtures(t *testing.T) {
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fixtures", r.URL.Path)
		assert.Equal(t, "2024-03-09", r.URL.Query().Get("date"))
		assert.Equal(t, "secret", r.Header.Get(apiKeyHeader))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fixtures":[
			{"id":"f1","home_team":"Arsenal","away_team":"Chelsea","league":"Premier League","kickoff":"2024-03-09T15:00:00Z"},
			{"id":"f2","home_team":" Celtic ","away_team":"Rangers","league":"Scottish Premiership"},
			{"id":"f3","home_team":"","away_team":"Nobody"}
		]}`))
	})

	fixtures, err := client.Fixtures(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, fixtures, 2)

	assert.Equal(t, "Arsenal", fixtures[0].Home)
	assert.Equal(t, time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC), fixtures[0].Kickoff.UTC())
	assert.Equal(t, "Celtic", fixtures[1].Home)
	assert.Equal(t, day, fixtures[1].Kickoff)
	assert.Equal(t, "2024-03-09", fixtures[1].Day())
}

func TestAPIClientForm(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams/form", r.URL.Path)
		assert.Equal(t, "Arsenal", r.URL.Query().Get("team"))
		assert.Equal(t, "Premier League", r.URL.Query().Get("league"))
		_, _ = w.Write([]byte(`{"team":"Arsenal","matches_analyzed":5,"wins":4,"draws":1,"gf":12,"ga":3}`))
	})

	form, err := client.Form(context.Background(), "Arsenal", "Premier League")
	require.NoError(t, err)
	assert.Equal(t, models.TeamForm{MatchesAnalyzed: 5, Wins: 4, Draws: 1, GoalsFor: 12, GoalsAgainst: 3}, form)
}

func TestAPIClientFormNotFoundYieldsZeroForm(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	form, err := client.Form(context.Background(), "Unknown FC", "")
	require.NoError(t, err)
	assert.False(t, form.HasMatches())
}

func TestAPIClientFormInvalid(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"matches_analyzed":3,"wins":3,"draws":2}`))
	})

	_, err := client.Form(context.Background(), "Arsenal", "")
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeInvalidData))
	assert.ErrorIs(t, err, models.ErrInvalidForm)
}

func TestAPIClientErrorCodes(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		code        string
		unavailable bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, code: ErrCodeAuthenticationFailed},
		{name: "rate limited", status: http.StatusTooManyRequests, code: ErrCodeNetworkError, unavailable: true},
		{name: "server error", status: http.StatusInternalServerError, code: ErrCodeNetworkError, unavailable: true},
		{name: "teapot", status: http.StatusTeapot, code: ErrCodeServerError, unavailable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.Fixtures(context.Background(), time.Now())
			require.Error(t, err)
			assert.True(t, IsCode(err, tt.code), "got %v", err)
			assert.Equal(t, tt.unavailable, errors.Is(err, models.ErrProviderUnavailable))
		})
	}
}

func TestAPIClientMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"fixtures":`))
	})

	_, err := client.Fixtures(context.Background(), time.Now())
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeInvalidData))
}

func TestCircuitBreaker(t *testing.T) {
	var hits int32
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewRateLimitedHTTPClient(testHTTPConfig(), nil)
	now := time.Now()
	client.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.Get(ctx, srv.URL)
		require.Error(t, err)
	}
	assert.True(t, client.IsOpen())

	_, err := client.Get(ctx, srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))

	// after the cooldown a trial request is allowed through
	healthy.Store(true)
	now = now.Add(2 * time.Minute)

	resp, err := client.Get(ctx, srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.False(t, client.IsOpen())
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestCustomRetryPolicy(t *testing.T) {
	policy := customRetryPolicy()
	ctx := context.Background()

	tests := []struct {
		status int
		retry  bool
	}{
		{http.StatusOK, false},
		{http.StatusNotFound, false},
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		retry, err := policy(ctx, &http.Response{StatusCode: tt.status}, nil)
		assert.NoError(t, err)
		assert.Equal(t, tt.retry, retry, "status %d", tt.status)
	}

	retry, err := policy(ctx, nil, errors.New("connection reset"))
	assert.True(t, retry)
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	retry, _ = policy(cancelled, &http.Response{StatusCode: http.StatusBadGateway}, nil)
	assert.False(t, retry)
}

type countingFormProvider struct {
	calls int
	form  models.TeamForm
	err   error
}

func (p *countingFormProvider) Form(_ context.Context, _, _ string) (models.TeamForm, error) {
	p.calls++
	return p.form, p.err
}

func TestCachedFormProvider(t *testing.T) {
	inner := &countingFormProvider{form: models.TeamForm{MatchesAnalyzed: 5, Wins: 3}}
	cached := NewCachedFormProvider(inner, time.Minute)
	ctx := context.Background()

	first, err := cached.Form(ctx, "Arsenal", "Premier League")
	require.NoError(t, err)
	second, err := cached.Form(ctx, " arsenal", "premier league")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, cached.ItemCount())

	hits, misses, ratio := cached.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)

	cached.Clear()
	assert.Equal(t, 0, cached.ItemCount())
}

func TestCachedFormProviderDoesNotCacheErrors(t *testing.T) {
	inner := &countingFormProvider{err: models.ErrProviderUnavailable}
	cached := NewCachedFormProvider(inner, time.Minute)

	_, err := cached.Form(context.Background(), "Arsenal", "")
	require.ErrorIs(t, err, models.ErrProviderUnavailable)
	_, _ = cached.Form(context.Background(), "Arsenal", "")

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, cached.ItemCount())
}
