package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
	"github.com/cadence-fantasy/cadence-api/internal/platform/logging"
)

const defaultSyncBatchSize = 500

// PlayerSyncResult summarizes one directory sync run.
type PlayerSyncResult struct {
	TotalFetched int
	Eligible     int
	Synced       int
	Failed       int
	FirstError   string
}

// PlayerSyncService refreshes the local player directory from the provider's
// full roster dump.
type PlayerSyncService struct {
	provider   StatsProvider
	playerRepo player.Repository
	batchSize  int
	logger     *logging.Logger
}

func NewPlayerSyncService(provider StatsProvider, playerRepo player.Repository, logger *logging.Logger) *PlayerSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerSyncService{
		provider:   provider,
		playerRepo: playerRepo,
		batchSize:  defaultSyncBatchSize,
		logger:     logger,
	}
}

// SyncDirectory fetches the full roster and upserts it in fixed-size batches
// keyed on the provider id. A failed batch is counted and skipped; the
// remaining batches still run.
func (s *PlayerSyncService) SyncDirectory(ctx context.Context) (PlayerSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerSyncService.SyncDirectory")
	defer span.End()

	if s.provider == nil {
		return PlayerSyncResult{}, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}

	records, err := s.provider.FetchPlayerDirectory(ctx)
	if err != nil {
		return PlayerSyncResult{}, fmt.Errorf("fetch player directory: %w", err)
	}

	result := PlayerSyncResult{TotalFetched: len(records)}

	eligible := make([]player.Player, 0, len(records))
	for _, rec := range records {
		if strings.TrimSpace(string(rec.Position)) == "" {
			continue
		}
		if strings.TrimSpace(rec.FirstName) == "" || strings.TrimSpace(rec.LastName) == "" {
			continue
		}
		if strings.TrimSpace(rec.SleeperID) == "" {
			continue
		}
		eligible = append(eligible, player.Player{
			SleeperID:         rec.SleeperID,
			FirstName:         rec.FirstName,
			LastName:          rec.LastName,
			Position:          rec.Position,
			Team:              rec.Team,
			JerseyNumber:      rec.JerseyNumber,
			Status:            rec.Status,
			InjuryDescription: rec.InjuryDescription,
			YearsExp:          rec.YearsExp,
			College:           rec.College,
			Height:            rec.Height,
			Weight:            rec.Weight,
		})
	}
	result.Eligible = len(eligible)

	for start := 0; start < len(eligible); start += s.batchSize {
		end := start + s.batchSize
		if end > len(eligible) {
			end = len(eligible)
		}
		batch := eligible[start:end]

		if err := s.playerRepo.UpsertBatch(ctx, batch); err != nil {
			result.Failed += len(batch)
			if result.FirstError == "" {
				result.FirstError = err.Error()
			}
			s.logger.WarnContext(ctx, "player sync batch failed",
				"batch_start", start,
				"batch_size", len(batch),
				"error", err,
			)
			continue
		}
		result.Synced += len(batch)
	}

	s.logger.InfoContext(ctx, "player directory synced",
		"total_fetched", result.TotalFetched,
		"eligible", result.Eligible,
		"synced", result.Synced,
		"failed", result.Failed,
	)

	return result, nil
}
