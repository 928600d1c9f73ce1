package sleeper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cadence-fantasy/cadence-api/internal/platform/logging"
	"github.com/cadence-fantasy/cadence-api/internal/platform/resilience"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		MaxRetries: 0,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled: false,
		},
	})
	return client, server
}

func TestClient_FetchNFLState(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/state/nfl" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"week":9,"display_week":9,"season_type":"regular","season":"2025"}`))
	}))

	state, err := client.FetchNFLState(context.Background())
	if err != nil {
		t.Fatalf("FetchNFLState error: %v", err)
	}
	if state.Season != 2025 || state.Week != 9 || state.SeasonType != "regular" {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestClient_FetchPlayerDirectory(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/players/nfl" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"4881": {"player_id":"4881","first_name":"Lamar","last_name":"Jackson","position":"QB","team":"BAL","status":"Active","injury_status":"Questionable"},
			"9999": {"first_name":"No","last_name":"Position","team":"FA"}
		}`))
	}))

	records, err := client.FetchPlayerDirectory(context.Background())
	if err != nil {
		t.Fatalf("FetchPlayerDirectory error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	lamar := -1
	for i := range records {
		if records[i].SleeperID == "4881" {
			lamar = i
			break
		}
	}
	if lamar < 0 {
		t.Fatalf("missing expected record: %+v", records)
	}
	if records[lamar].Status != "questionable" {
		t.Fatalf("unexpected status: %q", records[lamar].Status)
	}
}

func TestClient_FetchWeekStats(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stats/nfl/2025/3" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("season_type") != "regular" {
			t.Errorf("unexpected season_type: %s", r.URL.Query().Get("season_type"))
		}
		_, _ = w.Write([]byte(`[
			{"player_id":"4881","stats":{"pass_yd":312,"pass_td":2,"pr_td":1}},
			{"player_id":"","stats":{"rush_yd":50}},
			{"player_id":"123","stats":{}}
		]`))
	}))

	stats, err := client.FetchWeekStats(context.Background(), 2025, 3, "regular")
	if err != nil {
		t.Fatalf("FetchWeekStats error: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("rows without an id or stats must be dropped, got %d rows", len(stats))
	}
	if stats[0].Line.PassingYards != 312 || stats[0].Line.ReturnTouchdowns != 1 {
		t.Fatalf("unexpected stat line: %+v", stats[0].Line)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"week":1,"season_type":"regular","season":"2025"}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient:     server.Client(),
		BaseURL:        server.URL,
		MaxRetries:     1,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	state, err := client.FetchNFLState(context.Background())
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if state.Season != 2025 || calls.Load() != 2 {
		t.Fatalf("unexpected outcome: state=%+v calls=%d", state, calls.Load())
	}
}

func TestClient_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient:     server.Client(),
		BaseURL:        server.URL,
		MaxRetries:     3,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	if _, err := client.FetchNFLState(context.Background()); err == nil {
		t.Fatalf("expected error for 404")
	}
	if calls.Load() != 1 {
		t.Fatalf("4xx must not retry, got %d calls", calls.Load())
	}
}
