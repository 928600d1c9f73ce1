package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
	"github.com/cadence-fantasy/cadence-api/internal/domain/playerstats"
	"github.com/cadence-fantasy/cadence-api/internal/platform/cache"
	"github.com/cadence-fantasy/cadence-api/internal/platform/logging"
)

func newChatService(playerRepo *stubPlayerRepository, statsRepo *stubStatsRepository, provider *stubStatsProvider, model ModelClient) *ChatService {
	search := NewPlayerSearchService(playerRepo, logging.NewNop())
	compare := NewCompareService(search, statsRepo, provider, cache.NewStore(time.Minute), logging.NewNop())
	return NewChatService(search, compare, model, logging.NewNop())
}

func collectDeltas(deltas *[]string) func(string) error {
	return func(d string) error {
		*deltas = append(*deltas, d)
		return nil
	}
}

func TestChatService_Respond_FallbackWithoutModel(t *testing.T) {
	t.Parallel()

	playerRepo := &stubPlayerRepository{players: []player.Player{
		{ID: 1, FirstName: "Lamar", LastName: "Jackson", Position: player.PositionQuarterback, Team: "BAL"},
	}}
	service := newChatService(playerRepo, &stubStatsRepository{}, &stubStatsProvider{}, &stubModelClient{configured: false})

	var deltas []string
	err := service.Respond(context.Background(), []ChatMessage{
		{Role: "user", Content: "Should I start Lamar Jackson?"},
	}, collectDeltas(&deltas))
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}

	if len(deltas) != 1 {
		t.Fatalf("expected one fallback fragment, got %d", len(deltas))
	}
	if !strings.Contains(deltas[0], "not configured") {
		t.Fatalf("fallback must mention missing configuration: %q", deltas[0])
	}
	if !strings.Contains(deltas[0], "Lamar Jackson (QB, BAL)") {
		t.Fatalf("fallback must list found players: %q", deltas[0])
	}
}

func TestChatService_Respond_DirectAnswerWithoutTools(t *testing.T) {
	t.Parallel()

	model := &stubModelClient{
		configured: true,
		completion: ModelCompletion{Content: "Start Jefferson with confidence."},
	}
	playerRepo := &stubPlayerRepository{players: []player.Player{
		{ID: 1, FirstName: "Justin", LastName: "Jefferson", Position: player.PositionWideReceiver, Team: "MIN"},
	}}
	service := newChatService(playerRepo, &stubStatsRepository{}, &stubStatsProvider{}, model)

	var deltas []string
	err := service.Respond(context.Background(), []ChatMessage{
		{Role: "user", Content: "Is Justin Jefferson a must start?"},
	}, collectDeltas(&deltas))
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}

	if len(deltas) != 1 || deltas[0] != "Start Jefferson with confidence." {
		t.Fatalf("unexpected deltas: %+v", deltas)
	}
	if len(model.streamCalls) != 0 {
		t.Fatalf("no streaming round expected without tool calls")
	}
	if len(model.completeCalls) != 1 {
		t.Fatalf("expected one completion call, got %d", len(model.completeCalls))
	}
	if !strings.Contains(model.completeCalls[0].System, "You are Cadence") {
		t.Fatalf("unexpected system prompt: %q", model.completeCalls[0].System)
	}
	if !strings.Contains(model.completeCalls[0].System, "Justin Jefferson") {
		t.Fatalf("system prompt must embed found players: %q", model.completeCalls[0].System)
	}
}

func TestChatService_Respond_ToolRoundThenStream(t *testing.T) {
	t.Parallel()

	model := &stubModelClient{
		configured: true,
		completion: ModelCompletion{
			ToolCalls: []ModelToolCall{{
				ID:        "call-1",
				Name:      compareToolName,
				Arguments: `{"player_a":"Justin Jefferson","player_b":"CeeDee Lamb","scoring":"ppr","weeks":4}`,
			}},
		},
		deltas: []string{"Jefferson ", "is the play."},
	}
	playerRepo := &stubPlayerRepository{players: []player.Player{
		{ID: 1, FirstName: "Justin", LastName: "Jefferson", Position: player.PositionWideReceiver, Team: "MIN"},
		{ID: 2, FirstName: "CeeDee", LastName: "Lamb", Position: player.PositionWideReceiver, Team: "DAL"},
	}}
	statsRepo := &stubStatsRepository{recent: map[int64][]playerstats.WeeklyStat{
		1: pprRows(20, 18),
		2: pprRows(12, 14),
	}}
	provider := &stubStatsProvider{state: ExternalNFLState{Season: 2025, Week: 8}}
	service := newChatService(playerRepo, statsRepo, provider, model)

	var deltas []string
	err := service.Respond(context.Background(), []ChatMessage{
		{Role: "user", Content: "Jefferson or Lamb this week?"},
	}, collectDeltas(&deltas))
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}

	if strings.Join(deltas, "") != "Jefferson is the play." {
		t.Fatalf("unexpected streamed answer: %q", strings.Join(deltas, ""))
	}
	if len(model.streamCalls) != 1 {
		t.Fatalf("expected one streaming round, got %d", len(model.streamCalls))
	}

	streamed := model.streamCalls[0].Messages
	last := streamed[len(streamed)-1]
	if last.Role != "tool" || last.ToolCallID != "call-1" {
		t.Fatalf("expected trailing tool result message, got %+v", last)
	}
	if !strings.Contains(last.Content, "is the better play") {
		t.Fatalf("tool result must carry the verdict: %q", last.Content)
	}
}

func TestChatService_Respond_UnknownPlayerBecomesToolError(t *testing.T) {
	t.Parallel()

	model := &stubModelClient{
		configured: true,
		completion: ModelCompletion{
			ToolCalls: []ModelToolCall{{
				ID:        "call-1",
				Name:      compareToolName,
				Arguments: `{"player_a":"Fake Guy","player_b":"Other Fake"}`,
			}},
		},
		deltas: []string{"I could not find those players."},
	}
	provider := &stubStatsProvider{state: ExternalNFLState{Season: 2025, Week: 8}}
	service := newChatService(&stubPlayerRepository{}, &stubStatsRepository{}, provider, model)

	var deltas []string
	err := service.Respond(context.Background(), []ChatMessage{
		{Role: "user", Content: "Fake Guy or Other Fake?"},
	}, collectDeltas(&deltas))
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}

	streamed := model.streamCalls[0].Messages
	last := streamed[len(streamed)-1]
	if !strings.Contains(last.Content, `"error"`) || !strings.Contains(last.Content, "not found") {
		t.Fatalf("expected structured tool error, got %q", last.Content)
	}
}

func TestChatService_Respond_RequiresUserMessage(t *testing.T) {
	t.Parallel()

	service := newChatService(&stubPlayerRepository{}, &stubStatsRepository{}, &stubStatsProvider{}, &stubModelClient{})

	err := service.Respond(context.Background(), []ChatMessage{
		{Role: "system", Content: "hello"},
	}, func(string) error { return nil })
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestChatService_Respond_SearchFailureStillAnswers(t *testing.T) {
	t.Parallel()

	playerRepo := &stubPlayerRepository{searchErr: errors.New("db down")}
	service := newChatService(playerRepo, &stubStatsRepository{}, &stubStatsProvider{}, &stubModelClient{configured: false})

	var deltas []string
	err := service.Respond(context.Background(), []ChatMessage{
		{Role: "user", Content: "Who should I start at RB?"},
	}, collectDeltas(&deltas))
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}
	if len(deltas) != 1 {
		t.Fatalf("expected fallback answer despite search failure")
	}
}
