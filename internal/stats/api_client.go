package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/clever-tips/internal/metrics"
	"github.com/yourusername/clever-tips/internal/models"
)

const (
	sourceName   = "stats_api"
	apiKeyHeader = "X-API-Key"
	dateLayout   = "2006-01-02"
)

// APIClient implements FixtureSource and FormProvider against a JSON statistics API
type APIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Entry
}

// fixturesResponse is the body of GET /fixtures
type fixturesResponse struct {
	Fixtures []apiFixture `json:"fixtures"`
}

type apiFixture struct {
	ID       string `json:"id"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	League   string `json:"league"`
	Kickoff  string `json:"kickoff"`
}

// formResponse is the body of GET /teams/form
type formResponse struct {
	Team string `json:"team"`
	models.TeamForm
}

// NewAPIClient creates a new statistics API client
func NewAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *logrus.Logger) *APIClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &APIClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger.WithField("component", sourceName),
	}
}

// Name returns the data source name
func (c *APIClient) Name() string {
	return sourceName
}

// Fixtures retrieves the matches scheduled on day
func (c *APIClient) Fixtures(ctx context.Context, day time.Time) ([]models.Fixture, error) {
	query := url.Values{"date": {day.Format(dateLayout)}}

	var body fixturesResponse
	if err := c.getJSON(ctx, "fixtures", "/fixtures", query, &body); err != nil {
		return nil, err
	}

	fixtures := make([]models.Fixture, 0, len(body.Fixtures))
	for _, f := range body.Fixtures {
		fixture, err := convertFixture(f, day)
		if err != nil {
			c.logger.WithError(err).WithField("fixture_id", f.ID).Warn("Dropping malformed fixture")
			continue
		}
		fixtures = append(fixtures, fixture)
	}

	return fixtures, nil
}

// Form retrieves a team's recent record. An unknown team yields a zero form so
// the engine falls back to neutral defaults.
func (c *APIClient) Form(ctx context.Context, team, league string) (models.TeamForm, error) {
	query := url.Values{"team": {team}}
	if league != "" {
		query.Set("league", league)
	}

	var body formResponse
	err := c.getJSON(ctx, "form", "/teams/form", query, &body)
	if IsCode(err, ErrCodeNotFound) {
		c.logger.WithField("team", team).Debug("No form found, using neutral defaults")
		return models.TeamForm{}, nil
	}
	if err != nil {
		return models.TeamForm{}, err
	}

	if err := body.TeamForm.Validate(); err != nil {
		return models.TeamForm{}, newError(sourceName, ErrCodeInvalidData, fmt.Sprintf("form for %s", team), err)
	}

	return body.TeamForm, nil
}

func (c *APIClient) getJSON(ctx context.Context, endpoint, path string, query url.Values, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordStatsRequest(endpoint, time.Since(start).Seconds(), err)
	}()

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return newError(sourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return newError(sourceName, ErrCodeNetworkError, "failed to fetch "+endpoint, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return newError(sourceName, ErrCodeNotFound, endpoint+" not found", nil)
	case http.StatusUnauthorized, http.StatusForbidden:
		return newError(sourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case http.StatusTooManyRequests:
		return newError(sourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return newError(sourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newError(sourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}

// convertFixture maps the API format to a Fixture. A missing or unparseable
// kickoff falls back to midnight of the requested day.
func convertFixture(f apiFixture, day time.Time) (models.Fixture, error) {
	home := strings.TrimSpace(f.HomeTeam)
	away := strings.TrimSpace(f.AwayTeam)
	if home == "" || away == "" {
		return models.Fixture{}, fmt.Errorf("%w: missing team name", models.ErrInvalidFixture)
	}

	kickoff, err := time.Parse(time.RFC3339, f.Kickoff)
	if err != nil {
		y, m, d := day.Date()
		kickoff = time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	}

	return models.Fixture{
		ID:      f.ID,
		Home:    home,
		Away:    away,
		League:  strings.TrimSpace(f.League),
		Kickoff: kickoff,
	}, nil
}
