package httpapi

import (
	"fmt"
	"net/http"
)

type syncPlayersResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	TotalSleeper int    `json:"total_sleeper"`
	Synced       int    `json:"synced"`
	Failed       int    `json:"failed"`
	FirstError   string `json:"first_error,omitempty"`
}

type updateStatsResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Season   int    `json:"season"`
	Week     int    `json:"week"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// SyncPlayers pulls the full Sleeper roster dump into the player directory.
func (h *Handler) SyncPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncPlayers")
	defer span.End()

	result, err := h.syncService.SyncDirectory(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "player directory sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncPlayersResponse{
		Success:      result.Failed == 0,
		Message:      fmt.Sprintf("synced %d of %d eligible players", result.Synced, result.Eligible),
		TotalSleeper: result.TotalFetched,
		Synced:       result.Synced,
		Failed:       result.Failed,
		FirstError:   result.FirstError,
	})
}

// UpdateStats imports the current NFL week's stats. Reached through the cron
// secret middleware.
func (h *Handler) UpdateStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateStats")
	defer span.End()

	result, err := h.statsService.ImportCurrentWeek(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "weekly stats import failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, updateStatsResponse{
		Success:  true,
		Message:  fmt.Sprintf("imported week %d of season %d", result.Week, result.Season),
		Season:   result.Season,
		Week:     result.Week,
		Imported: result.Imported,
		Skipped:  result.SkippedNoMapping,
	})
}
