package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/cadence-fantasy/cadence-api/internal/usecase"
)

type chatRequest struct {
	Messages []chatMessagePayload `json:"messages" validate:"required,min=1,dive"`
}

// chatMessagePayload accepts both a plain content string and the parts form
// some chat frontends send.
type chatMessagePayload struct {
	Role    string            `json:"role" validate:"required,oneof=user assistant system"`
	Content string            `json:"content"`
	Parts   []chatPartPayload `json:"parts"`
}

type chatPartPayload struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (m chatMessagePayload) text() string {
	if strings.TrimSpace(m.Content) != "" {
		return m.Content
	}

	var b strings.Builder
	for _, part := range m.Parts {
		if part.Type != "" && part.Type != "text" {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

type streamEvent struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	Delta     string `json:"delta,omitempty"`
	ErrorText string `json:"errorText,omitempty"`
}

// Chat answers a conversation. With a configured model the answer streams as
// server-sent events of typed deltas; without one it degrades to a single
// plaintext body.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Chat")
	defer span.End()

	var req chatRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	messages := make([]usecase.ChatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, usecase.ChatMessage{Role: m.Role, Content: m.text()})
	}

	if !h.chatService.ModelAvailable() {
		h.chatPlaintext(w, r, messages)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(ctx, w, fmt.Errorf("streaming is not supported by the server"))
		return
	}

	messageID, err := h.idGenerator.NewID()
	if err != nil {
		writeError(ctx, w, fmt.Errorf("generate message id: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writeEvent := func(event streamEvent) {
		payload, err := sonic.MarshalString(event)
		if err != nil {
			return
		}
		_, _ = fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}

	writeEvent(streamEvent{Type: "text-start", ID: messageID})

	respondErr := h.chatService.Respond(ctx, messages, func(delta string) error {
		if delta == "" {
			return nil
		}
		writeEvent(streamEvent{Type: "text-delta", ID: messageID, Delta: delta})
		return ctx.Err()
	})
	if respondErr != nil {
		// Headers are already on the wire, so the error travels in-band.
		h.logger.ErrorContext(ctx, "chat response failed", "error", respondErr)
		writeEvent(streamEvent{Type: "error", ErrorText: respondErr.Error()})
	} else {
		writeEvent(streamEvent{Type: "text-end", ID: messageID})
	}

	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func (h *Handler) chatPlaintext(w http.ResponseWriter, r *http.Request, messages []usecase.ChatMessage) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.chatPlaintext")
	defer span.End()

	var answer strings.Builder
	err := h.chatService.Respond(ctx, messages, func(delta string) error {
		answer.WriteString(delta)
		return nil
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "chat fallback failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(answer.String()))
}
