package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/cadence-fantasy/cadence-api/internal/platform/logging"
	"github.com/cadence-fantasy/cadence-api/internal/usecase"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

type ClientConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client is the hosted-model backend for the chat service, speaking the
// chat-completions wire format. A client with no API key is valid; it just
// reports itself unconfigured.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

var _ usecase.ModelClient = (*Client)(nil)

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
		httpClient.Timeout = 60 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	return &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Complete runs one non-streaming completion round, offering tools.
func (c *Client) Complete(ctx context.Context, system string, messages []usecase.ModelMessage, tools []usecase.ModelTool) (usecase.ModelCompletion, error) {
	if !c.Configured() {
		return usecase.ModelCompletion{}, fmt.Errorf("%w: model API key is not configured", usecase.ErrDependencyUnavailable)
	}

	body, err := sonic.Marshal(c.buildRequest(system, messages, tools, false))
	if err != nil {
		return usecase.ModelCompletion{}, fmt.Errorf("encode completion request: %w", err)
	}

	resp, err := c.send(ctx, body)
	if err != nil {
		return usecase.ModelCompletion{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return usecase.ModelCompletion{}, fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return usecase.ModelCompletion{}, c.statusError(resp.StatusCode, raw)
	}

	var decoded chatResponse
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return usecase.ModelCompletion{}, fmt.Errorf("decode completion response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return usecase.ModelCompletion{}, fmt.Errorf("completion response has no choices")
	}

	choice := decoded.Choices[0].Message
	out := usecase.ModelCompletion{Content: choice.Content}
	for _, call := range choice.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, usecase.ModelToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}

	return out, nil
}

// StreamText runs a streaming completion and forwards every content delta to
// onDelta in arrival order. An onDelta error aborts the stream.
func (c *Client) StreamText(ctx context.Context, system string, messages []usecase.ModelMessage, onDelta func(delta string) error) error {
	if !c.Configured() {
		return fmt.Errorf("%w: model API key is not configured", usecase.ErrDependencyUnavailable)
	}

	body, err := sonic.Marshal(c.buildRequest(system, messages, nil, true))
	if err != nil {
		return fmt.Errorf("encode stream request: %w", err)
	}

	resp, err := c.send(ctx, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return c.statusError(resp.StatusCode, raw)
	}

	return c.consumeStream(ctx, resp.Body, onDelta)
}

func (c *Client) buildRequest(system string, messages []usecase.ModelMessage, tools []usecase.ModelTool, stream bool) chatRequest {
	wireMessages := make([]wireMessage, 0, len(messages)+1)
	if strings.TrimSpace(system) != "" {
		wireMessages = append(wireMessages, wireMessage{Role: "system", Content: system})
	}
	for _, m := range messages {
		wm := wireMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, call := range m.ToolCalls {
			wm.ToolCalls = append(wm.ToolCalls, wireToolCall{
				ID:   call.ID,
				Type: "function",
				Function: wireFunctionCall{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			})
		}
		wireMessages = append(wireMessages, wm)
	}

	req := chatRequest{
		Model:    c.model,
		Messages: wireMessages,
		Stream:   stream,
	}
	for _, tool := range tools {
		req.Tools = append(req.Tools, wireTool{
			Type: "function",
			Function: wireFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  json.RawMessage(tool.Schema),
			},
		})
	}

	return req
}

func (c *Client) send(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "model request failed", "error", err)
		return nil, fmt.Errorf("%w: send model request: %v", usecase.ErrDependencyUnavailable, err)
	}

	return resp, nil
}

// consumeStream decodes an SSE body. Events may span multiple data lines, so
// they are pooled into one buffer per event before decoding.
func (c *Client) consumeStream(ctx context.Context, body io.Reader, onDelta func(delta string) error) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)

	event := bytebufferpool.Get()
	defer bytebufferpool.Put(event)

	flush := func() error {
		if event.Len() == 0 {
			return nil
		}
		defer event.Reset()

		data := strings.TrimSpace(event.String())
		if data == "" || data == "[DONE]" {
			return nil
		}

		var chunk streamChunk
		if err := sonic.UnmarshalString(data, &chunk); err != nil {
			c.logger.WarnContext(ctx, "skipping undecodable stream event", "error", err)
			return nil
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			if err := onDelta(choice.Delta.Content); err != nil {
				return err
			}
		}
		return nil
	}

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		if line == "" {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		if data, ok := strings.CutPrefix(line, "data:"); ok {
			if event.Len() > 0 {
				_ = event.WriteByte('\n')
			}
			_, _ = event.WriteString(strings.TrimSpace(data))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: read model stream: %v", usecase.ErrDependencyUnavailable, err)
	}

	return flush()
}

func (c *Client) statusError(code int, raw []byte) error {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	if code == http.StatusTooManyRequests || code >= 500 {
		return fmt.Errorf("%w: model status=%d body=%s", usecase.ErrDependencyUnavailable, code, body)
	}
	return fmt.Errorf("model status=%d body=%s", code, body)
}
