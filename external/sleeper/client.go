package sleeper

import (
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

	"github.com/cadence-fantasy/cadence-api/internal/platform/logging"
	"github.com/cadence-fantasy/cadence-api/internal/platform/resilience"
	"github.com/cadence-fantasy/cadence-api/internal/usecase"
)

const defaultBaseURL = "https://api.sleeper.app"

var errSleeperTransient = crerr.New("sleeper transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the Sleeper public API. The API is unauthenticated; the
// player dump runs to several megabytes, so responses are read with a
// generous cap.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchNFLState(ctx context.Context) (usecase.ExternalNFLState, error) {
	var payload nflStatePayload
	if err := c.doJSON(ctx, "/v1/state/nfl", nil, &payload); err != nil {
		return usecase.ExternalNFLState{}, fmt.Errorf("fetch nfl state: %w", err)
	}

	season, _ := strconv.Atoi(strings.TrimSpace(payload.Season))
	if season <= 0 {
		season, _ = strconv.Atoi(strings.TrimSpace(payload.LeagueSeason))
	}

	return usecase.ExternalNFLState{
		Season:      season,
		Week:        payload.Week,
		SeasonType:  strings.TrimSpace(payload.SeasonType),
		DisplayWeek: payload.DisplayWeek,
	}, nil
}

// FetchPlayerDirectory pulls the full roster dump, keyed by provider id.
func (c *Client) FetchPlayerDirectory(ctx context.Context) ([]usecase.ExternalPlayerRecord, error) {
	var payload map[string]directoryEntry
	if err := c.doJSON(ctx, "/v1/players/nfl", nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch player directory: %w", err)
	}

	out := make([]usecase.ExternalPlayerRecord, 0, len(payload))
	for sleeperID, entry := range payload {
		out = append(out, mapDirectoryEntry(sleeperID, entry))
	}

	return out, nil
}

func (c *Client) FetchWeekStats(ctx context.Context, season, week int, seasonType string) ([]usecase.ExternalWeekStat, error) {
	if season <= 0 || week <= 0 {
		return nil, fmt.Errorf("season and week must be positive")
	}
	if strings.TrimSpace(seasonType) == "" {
		seasonType = "regular"
	}

	path := fmt.Sprintf("/stats/nfl/%d/%d", season, week)
	query := map[string]string{"season_type": seasonType}

	var payload []weekStatEntry
	if err := c.doJSON(ctx, path, query, &payload); err != nil {
		return nil, fmt.Errorf("fetch week stats season=%d week=%d: %w", season, week, err)
	}

	out := make([]usecase.ExternalWeekStat, 0, len(payload))
	for _, entry := range payload {
		id := strings.TrimSpace(entry.PlayerID)
		if id == "" || len(entry.Stats) == 0 {
			continue
		}
		out = append(out, usecase.ExternalWeekStat{
			SleeperID: id,
			Line:      statLineFromRaw(entry.Stats),
		})
	}

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sleeper circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sports data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errSleeperTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errSleeperTransient, err)
		} else {
			// The full player dump is ~10MB.
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errSleeperTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errSleeperTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "sleeper request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
