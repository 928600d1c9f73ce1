package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/cadence-fantasy/cadence-api/internal/platform/id"
	"github.com/cadence-fantasy/cadence-api/internal/usecase"
)

type Handler struct {
	syncService  *usecase.PlayerSyncService
	statsService *usecase.StatsImportService
	chatService  *usecase.ChatService
	idGenerator  id.Generator
	env          []EnvEntry
	logger       *slog.Logger
	validator    *validator.Validate
}

// EnvEntry reports one configuration variable for the debug endpoint. Value
// holds at most a short prefix of the real value.
type EnvEntry struct {
	Name   string `json:"name"`
	Set    bool   `json:"set"`
	Prefix string `json:"prefix,omitempty"`
}

func NewHandler(
	syncService *usecase.PlayerSyncService,
	statsService *usecase.StatsImportService,
	chatService *usecase.ChatService,
	idGenerator id.Generator,
	env []EnvEntry,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if idGenerator == nil {
		idGenerator = id.NewRandomGenerator()
	}

	return &Handler{
		syncService:  syncService,
		statsService: statsService,
		chatService:  chatService,
		idGenerator:  idGenerator,
		env:          env,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) DebugEnv(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DebugEnv")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.env)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
