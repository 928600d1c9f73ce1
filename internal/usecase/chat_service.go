package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
	"github.com/cadence-fantasy/cadence-api/internal/domain/playerstats"
	"github.com/cadence-fantasy/cadence-api/internal/platform/logging"
)

// ModelMessage is one turn of a hosted-model conversation. ToolCalls is set
// on assistant turns that invoked tools; ToolCallID ties a tool-role result
// back to its call.
type ModelMessage struct {
	Role       string
	Content    string
	ToolCalls  []ModelToolCall
	ToolCallID string
}

type ModelToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ModelTool describes one function tool offered to the model. Schema is the
// raw JSON schema of the arguments object.
type ModelTool struct {
	Name        string
	Description string
	Schema      string
}

type ModelCompletion struct {
	Content   string
	ToolCalls []ModelToolCall
}

// ModelClient is the hosted-model dependency of the chat service.
type ModelClient interface {
	Configured() bool
	Complete(ctx context.Context, system string, messages []ModelMessage, tools []ModelTool) (ModelCompletion, error)
	StreamText(ctx context.Context, system string, messages []ModelMessage, onDelta func(delta string) error) error
}

// ChatMessage is one turn of the inbound conversation.
type ChatMessage struct {
	Role    string
	Content string
}

const compareToolName = "compare_players"

const compareToolSchema = `{
  "type": "object",
  "properties": {
    "player_a": {"type": "string", "description": "First player's name"},
    "player_b": {"type": "string", "description": "Second player's name"},
    "scoring": {"type": "string", "enum": ["standard", "ppr", "half_ppr"], "description": "Scoring format, defaults to ppr"},
    "weeks": {"type": "integer", "description": "How many recent weeks to average, defaults to 4"}
  },
  "required": ["player_a", "player_b"]
}`

type compareToolArgs struct {
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
	Scoring string `json:"scoring"`
	Weeks   int    `json:"weeks"`
}

// ChatService answers free-text fantasy questions. It searches the directory
// for players named in the last user message, offers the comparison tool to
// the model and streams the final answer through emit.
type ChatService struct {
	search  *PlayerSearchService
	compare *CompareService
	model   ModelClient
	logger  *logging.Logger
}

func NewChatService(search *PlayerSearchService, compare *CompareService, model ModelClient, logger *logging.Logger) *ChatService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ChatService{
		search:  search,
		compare: compare,
		model:   model,
		logger:  logger,
	}
}

// ModelAvailable reports whether a hosted-model credential is configured.
func (s *ChatService) ModelAvailable() bool {
	return s.model != nil && s.model.Configured()
}

// Respond drives one chat turn. Every text fragment of the answer goes
// through emit in order; when no model is configured the fallback answer is
// emitted as a single fragment.
func (s *ChatService) Respond(ctx context.Context, messages []ChatMessage, emit func(delta string) error) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChatService.Respond")
	defer span.End()

	lastUser := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" && strings.TrimSpace(messages[i].Content) != "" {
			lastUser = messages[i].Content
			break
		}
	}
	if lastUser == "" {
		return fmt.Errorf("%w: at least one user message is required", ErrInvalidInput)
	}

	found, err := s.search.SearchForChat(ctx, lastUser)
	if err != nil {
		s.logger.WarnContext(ctx, "chat player search failed, continuing without matches", "error", err)
		found = nil
	}

	if !s.ModelAvailable() {
		return emit(fallbackAnswer(found))
	}

	system := systemPrompt(found)
	conversation := make([]ModelMessage, 0, len(messages)+2)
	for _, m := range messages {
		conversation = append(conversation, ModelMessage{Role: m.Role, Content: m.Content})
	}

	tools := []ModelTool{{
		Name:        compareToolName,
		Description: "Compare two NFL players' recent fantasy production and say who is the better play.",
		Schema:      compareToolSchema,
	}}

	completion, err := s.model.Complete(ctx, system, conversation, tools)
	if err != nil {
		return fmt.Errorf("model completion: %w", err)
	}

	if len(completion.ToolCalls) == 0 {
		return emit(completion.Content)
	}

	conversation = append(conversation, ModelMessage{
		Role:      "assistant",
		Content:   completion.Content,
		ToolCalls: completion.ToolCalls,
	})
	for _, call := range completion.ToolCalls {
		result := s.runTool(ctx, call)
		conversation = append(conversation, ModelMessage{
			Role:       "tool",
			Content:    result,
			ToolCallID: call.ID,
		})
	}

	if err := s.model.StreamText(ctx, system, conversation, emit); err != nil {
		return fmt.Errorf("model stream: %w", err)
	}

	return nil
}

// runTool executes one tool call and renders its result as JSON for the
// model. Failures become {"error": ...} payloads so the model can explain
// them instead of the request dying.
func (s *ChatService) runTool(ctx context.Context, call ModelToolCall) string {
	if call.Name != compareToolName {
		return toolErrorJSON(fmt.Sprintf("unknown tool %q", call.Name))
	}

	var args compareToolArgs
	if err := sonic.UnmarshalString(call.Arguments, &args); err != nil {
		return toolErrorJSON(fmt.Sprintf("invalid tool arguments: %v", err))
	}

	comparison, err := s.compare.Compare(ctx, args.PlayerA, args.PlayerB, playerstats.ScoringFormat(args.Scoring), args.Weeks)
	if err != nil {
		s.logger.WarnContext(ctx, "compare tool failed", "error", err)
		return toolErrorJSON("comparison is unavailable right now")
	}
	if comparison.Error != "" {
		return toolErrorJSON(comparison.Error)
	}

	payload, err := sonic.MarshalString(map[string]any{
		"message": comparison.Message,
		"scoring": string(comparison.Scoring),
		"season":  comparison.Season,
		"weeks":   comparison.Weeks,
		"player_a": map[string]any{
			"name":          comparison.PlayerA.Name,
			"team":          comparison.PlayerA.Team,
			"position":      string(comparison.PlayerA.Position),
			"average_ppg":   comparison.PlayerA.Average,
			"weeks_counted": comparison.PlayerA.WeeksCounted,
		},
		"player_b": map[string]any{
			"name":          comparison.PlayerB.Name,
			"team":          comparison.PlayerB.Team,
			"position":      string(comparison.PlayerB.Position),
			"average_ppg":   comparison.PlayerB.Average,
			"weeks_counted": comparison.PlayerB.WeeksCounted,
		},
	})
	if err != nil {
		return toolErrorJSON("comparison result could not be encoded")
	}

	return payload
}

func toolErrorJSON(message string) string {
	payload, err := sonic.MarshalString(map[string]string{"error": message})
	if err != nil {
		return `{"error":"internal error"}`
	}
	return payload
}

func systemPrompt(found []player.Player) string {
	var b strings.Builder
	b.WriteString("You are Cadence, an expert fantasy football AI assistant. ")
	b.WriteString("You help users make lineup decisions with current NFL player data. ")
	b.WriteString("Be concise and decisive; always name the player you would start. ")
	b.WriteString("Use the compare_players tool when the user asks to compare two players.")

	if len(found) > 0 {
		b.WriteString("\n\nPlayers from the user's question that exist in the database:\n")
		b.WriteString(playersJSON(found))
	}

	return b.String()
}

func playersJSON(found []player.Player) string {
	type promptPlayer struct {
		Name     string `json:"name"`
		Position string `json:"position"`
		Team     string `json:"team"`
		Status   string `json:"status"`
	}

	items := make([]promptPlayer, 0, len(found))
	for _, p := range found {
		items = append(items, promptPlayer{
			Name:     p.FullName(),
			Position: string(p.Position),
			Team:     p.Team,
			Status:   string(p.Status),
		})
	}

	out, err := sonic.MarshalString(items)
	if err != nil {
		return "[]"
	}
	return out
}

func fallbackAnswer(found []player.Player) string {
	var b strings.Builder
	b.WriteString("AI responses are not configured on this server. ")
	b.WriteString("Set OPENAI_API_KEY to enable them.")

	if len(found) > 0 {
		b.WriteString("\n\nPlayers matching your question:\n")
		for _, p := range found {
			b.WriteString("- ")
			b.WriteString(p.FullName())
			b.WriteString(" (")
			b.WriteString(string(p.Position))
			if p.Team != "" {
				b.WriteString(", ")
				b.WriteString(p.Team)
			}
			b.WriteString(")\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
