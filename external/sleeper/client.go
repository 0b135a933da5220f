package sleeper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/fantasy-insights/internal/domain/league"
	"github.com/riskibarqy/fantasy-insights/internal/domain/player"
	"github.com/riskibarqy/fantasy-insights/internal/platform/logging"
	"github.com/riskibarqy/fantasy-insights/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-insights/internal/usecase"
)

const (
	defaultBaseURL = "https://api.sleeper.app"
	defaultTimeout = 10 * time.Second
	sport          = "nfl"
	maxBodyBytes   = 64 << 20
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Clock          clockwork.Clock
}

var (
	_ league.Repository     = (*Client)(nil)
	_ player.Source         = (*Client)(nil)
	_ player.TrendingSource = (*Client)(nil)
)

// Client reads public league data. It never retries; callers decide what a failure means.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		logger:         logger.Named("sleeper"),
		breaker:        resilience.NewCircuitBreaker(breakerCfg, clock),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) ListByUser(ctx context.Context, userID, season string) ([]league.League, error) {
	if err := requireArgs("user id", userID, "season", season); err != nil {
		return nil, err
	}

	var payload []leagueDTO
	path := fmt.Sprintf("/v1/user/%s/leagues/%s/%s", url.PathEscape(userID), sport, url.PathEscape(season))
	if err := c.getJSON(ctx, path, nil, &payload); err != nil {
		return nil, err
	}

	out := make([]league.League, 0, len(payload))
	for _, item := range payload {
		out = append(out, mapLeague(item))
	}
	return out, nil
}

func (c *Client) GetByID(ctx context.Context, leagueID string) (league.League, error) {
	if err := requireArgs("league id", leagueID); err != nil {
		return league.League{}, err
	}

	var payload *leagueDTO
	if err := c.getJSON(ctx, "/v1/league/"+url.PathEscape(leagueID), nil, &payload); err != nil {
		return league.League{}, err
	}
	// Unknown leagues come back as a literal null with status 200.
	if payload == nil || payload.LeagueID == "" {
		return league.League{}, &usecase.UpstreamError{Status: http.StatusNotFound, Message: "league " + leagueID + " not found"}
	}

	return mapLeague(*payload), nil
}

func (c *Client) ListRosters(ctx context.Context, leagueID string) ([]league.Roster, error) {
	if err := requireArgs("league id", leagueID); err != nil {
		return nil, err
	}

	var payload []rosterDTO
	if err := c.getJSON(ctx, "/v1/league/"+url.PathEscape(leagueID)+"/rosters", nil, &payload); err != nil {
		return nil, err
	}

	out := make([]league.Roster, 0, len(payload))
	for _, item := range payload {
		out = append(out, mapRoster(item))
	}
	return out, nil
}

func (c *Client) ListMatchups(ctx context.Context, leagueID string, week int) ([]league.Matchup, error) {
	if err := requireArgs("league id", leagueID); err != nil {
		return nil, err
	}
	if week <= 0 {
		return nil, crerr.Wrapf(usecase.ErrUpstreamRequest, "week must be positive, got %d", week)
	}

	var payload []matchupDTO
	path := fmt.Sprintf("/v1/league/%s/matchups/%d", url.PathEscape(leagueID), week)
	if err := c.getJSON(ctx, path, nil, &payload); err != nil {
		return nil, err
	}

	out := make([]league.Matchup, 0, len(payload))
	for _, item := range payload {
		out = append(out, mapMatchup(item, week))
	}
	return out, nil
}

func (c *Client) ListMembers(ctx context.Context, leagueID string) ([]league.Member, error) {
	if err := requireArgs("league id", leagueID); err != nil {
		return nil, err
	}

	var payload []userDTO
	if err := c.getJSON(ctx, "/v1/league/"+url.PathEscape(leagueID)+"/users", nil, &payload); err != nil {
		return nil, err
	}

	out := make([]league.Member, 0, len(payload))
	for _, item := range payload {
		out = append(out, mapMember(item))
	}
	return out, nil
}

// FetchPlayers downloads the full catalog. The payload is several megabytes.
func (c *Client) FetchPlayers(ctx context.Context) ([]player.Player, error) {
	var payload map[string]playerDTO
	if err := c.getJSON(ctx, "/v1/players/"+sport, nil, &payload); err != nil {
		return nil, err
	}

	out := make([]player.Player, 0, len(payload))
	for id, item := range payload {
		p := mapPlayer(id, item)
		if p.ID == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *Client) ListTrending(ctx context.Context, kind player.TrendKind, lookbackHours, limit int) ([]player.Trend, error) {
	if kind != player.TrendAdd && kind != player.TrendDrop {
		return nil, crerr.Wrapf(usecase.ErrUpstreamRequest, "unknown trend kind %q", kind)
	}

	query := url.Values{}
	if lookbackHours > 0 {
		query.Set("lookback_hours", strconv.Itoa(lookbackHours))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var payload []trendingDTO
	if err := c.getJSON(ctx, "/v1/players/"+sport+"/trending/"+string(kind), query, &payload); err != nil {
		return nil, err
	}

	out := make([]player.Trend, 0, len(payload))
	for _, item := range payload {
		if item.PlayerID == "" {
			continue
		}
		out = append(out, player.Trend{PlayerID: item.PlayerID, Count: item.Count})
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sleeper circuit breaker rejected request", "path", path, "state", c.breaker.State())
			return crerr.Wrapf(usecase.ErrUpstreamUnreachable, "%s: %v", path, err)
		}
	}

	raw, err := c.execute(ctx, path, query)
	if c.circuitEnabled {
		c.breaker.Record(isBreakerFailure(err) && ctx.Err() == nil)
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw.body, target); err != nil {
		return &usecase.UpstreamError{Status: raw.status, Message: fmt.Sprintf("decode %s: %v", path, err)}
	}
	return nil
}

type response struct {
	status int
	body   []byte
}

func (c *Client) execute(ctx context.Context, path string, query url.Values) (response, error) {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return response{}, crerr.Wrapf(usecase.ErrUpstreamRequest, "build request %s: %v", path, err)
	}
	req.Header.Set("accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "sleeper request failed", "path", path, "error", err)
		return response{}, crerr.Wrapf(usecase.ErrUpstreamUnreachable, "GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return response{}, crerr.Wrapf(usecase.ErrUpstreamUnreachable, "read %s: %v", path, err)
	}

	c.logger.DebugContext(ctx, "sleeper request",
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return response{}, &usecase.UpstreamError{Status: resp.StatusCode, Message: abbreviateBody(body)}
	}
	return response{status: resp.StatusCode, body: body}, nil
}

// isBreakerFailure counts only failures to reach the host. Any HTTP answer,
// 5xx included, is scoped to the resource asked for and must not gate
// requests for other leagues.
func isBreakerFailure(err error) bool {
	return err != nil && crerr.Is(err, usecase.ErrUpstreamUnreachable)
}

func requireArgs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return crerr.Wrapf(usecase.ErrUpstreamRequest, "%s is required", pairs[i])
		}
	}
	return nil
}

func abbreviateBody(body []byte) string {
	body = bytes.TrimSpace(body)
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
