package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
	"github.com/cadence-fantasy/cadence-api/internal/domain/playerstats"
	"github.com/cadence-fantasy/cadence-api/internal/platform/logging"
)

const mappingPageSize = 1000

// StatsImportConfig tunes the sequential import loop.
type StatsImportConfig struct {
	SeasonType string
	WeekDelay  time.Duration
}

// WeekImportResult summarizes one imported week.
type WeekImportResult struct {
	Season           int
	Week             int
	Imported         int
	SkippedNoMapping int
}

// ImportSummary aggregates a multi-week run.
type ImportSummary struct {
	Season           int
	Imported         int
	SkippedNoMapping int
	ErroredWeeks     []int
}

// StatsImportService pulls weekly stat blobs from the provider and upserts
// them into player_stats. Weeks run strictly one at a time with a fixed pause
// in between; the provider has no published rate limit, so the pause is
// cooperative.
type StatsImportService struct {
	provider   StatsProvider
	playerRepo player.Repository
	statsRepo  playerstats.Repository
	cfg        StatsImportConfig
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *logging.Logger
}

func NewStatsImportService(
	provider StatsProvider,
	playerRepo player.Repository,
	statsRepo playerstats.Repository,
	cfg StatsImportConfig,
	logger *logging.Logger,
) *StatsImportService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SeasonType == "" {
		cfg.SeasonType = "regular"
	}

	return &StatsImportService{
		provider:   provider,
		playerRepo: playerRepo,
		statsRepo:  statsRepo,
		cfg:        cfg,
		sleep:      sleepContext,
		logger:     logger,
	}
}

// ImportCurrentWeek resolves the live NFL state and imports that week.
func (s *StatsImportService) ImportCurrentWeek(ctx context.Context) (WeekImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsImportService.ImportCurrentWeek")
	defer span.End()

	state, err := s.provider.FetchNFLState(ctx)
	if err != nil {
		return WeekImportResult{}, fmt.Errorf("fetch nfl state: %w", err)
	}
	if state.Season <= 0 || state.Week <= 0 {
		return WeekImportResult{}, fmt.Errorf("%w: provider returned season=%d week=%d", ErrDependencyUnavailable, state.Season, state.Week)
	}

	mapping, err := s.buildIDMapping(ctx)
	if err != nil {
		return WeekImportResult{}, err
	}

	return s.importWeek(ctx, mapping, state.Season, state.Week)
}

// ImportWeek imports a single explicit season-week.
func (s *StatsImportService) ImportWeek(ctx context.Context, season, week int) (WeekImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsImportService.ImportWeek")
	defer span.End()

	if season <= 0 || week <= 0 {
		return WeekImportResult{}, fmt.Errorf("%w: season and week must be positive", ErrInvalidInput)
	}

	mapping, err := s.buildIDMapping(ctx)
	if err != nil {
		return WeekImportResult{}, err
	}

	return s.importWeek(ctx, mapping, season, week)
}

// ImportWeeks imports the given weeks of one season in order. A failed week
// is logged and recorded; the run continues with the next week. The
// configured delay runs between weeks but not after the last one.
func (s *StatsImportService) ImportWeeks(ctx context.Context, season int, weeks []int) (ImportSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsImportService.ImportWeeks")
	defer span.End()

	if season <= 0 {
		return ImportSummary{}, fmt.Errorf("%w: season must be positive", ErrInvalidInput)
	}
	if len(weeks) == 0 {
		return ImportSummary{}, fmt.Errorf("%w: at least one week is required", ErrInvalidInput)
	}

	mapping, err := s.buildIDMapping(ctx)
	if err != nil {
		return ImportSummary{}, err
	}

	summary := ImportSummary{Season: season}
	for i, week := range weeks {
		res, err := s.importWeek(ctx, mapping, season, week)
		if err != nil {
			summary.ErroredWeeks = append(summary.ErroredWeeks, week)
			s.logger.WarnContext(ctx, "week import failed, continuing",
				"season", season,
				"week", week,
				"error", err,
			)
		} else {
			summary.Imported += res.Imported
			summary.SkippedNoMapping += res.SkippedNoMapping
		}

		if i < len(weeks)-1 && s.cfg.WeekDelay > 0 {
			if err := s.sleep(ctx, s.cfg.WeekDelay); err != nil {
				return summary, err
			}
		}
	}

	return summary, nil
}

func (s *StatsImportService) importWeek(ctx context.Context, mapping map[string]int64, season, week int) (WeekImportResult, error) {
	stats, err := s.provider.FetchWeekStats(ctx, season, week, s.cfg.SeasonType)
	if err != nil {
		return WeekImportResult{}, fmt.Errorf("fetch week stats season=%d week=%d: %w", season, week, err)
	}

	result := WeekImportResult{Season: season, Week: week}
	rows := make([]playerstats.WeeklyStat, 0, len(stats))
	for _, stat := range stats {
		playerID, ok := mapping[stat.SleeperID]
		if !ok {
			result.SkippedNoMapping++
			continue
		}
		rows = append(rows, playerstats.WeeklyStat{
			PlayerID:   playerID,
			Season:     season,
			Week:       week,
			SeasonType: s.cfg.SeasonType,
			Line:       stat.Line,
		})
	}

	if len(rows) > 0 {
		if err := s.statsRepo.UpsertWeek(ctx, rows); err != nil {
			return WeekImportResult{}, fmt.Errorf("upsert week stats season=%d week=%d: %w", season, week, err)
		}
	}
	result.Imported = len(rows)

	s.logger.InfoContext(ctx, "week stats imported",
		"season", season,
		"week", week,
		"imported", result.Imported,
		"skipped_no_mapping", result.SkippedNoMapping,
	)

	return result, nil
}

// buildIDMapping pages through the directory once per run and keeps the
// provider-id to internal-id map in memory.
func (s *StatsImportService) buildIDMapping(ctx context.Context) (map[string]int64, error) {
	mapping := make(map[string]int64)
	offset := 0
	for {
		page, err := s.playerRepo.ListSleeperIDPage(ctx, mappingPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("list sleeper id page offset=%d: %w", offset, err)
		}
		for _, m := range page {
			mapping[m.SleeperID] = m.PlayerID
		}
		if len(page) < mappingPageSize {
			break
		}
		offset += mappingPageSize
	}

	if len(mapping) == 0 {
		return nil, fmt.Errorf("%w: no players with a provider id, run a directory sync first", ErrNotFound)
	}

	return mapping, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
