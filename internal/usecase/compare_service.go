package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
	"github.com/cadence-fantasy/cadence-api/internal/domain/playerstats"
	"github.com/cadence-fantasy/cadence-api/internal/platform/cache"
	"github.com/cadence-fantasy/cadence-api/internal/platform/logging"
)

const (
	defaultCompareWeeks = 4
	maxCompareWeeks     = 18
	nflStateCacheKey    = "nfl_state"
)

// ComparisonSide is one player's half of a comparison.
type ComparisonSide struct {
	Name         string
	Team         string
	Position     player.Position
	Average      float64
	WeeksCounted int
}

// Comparison is the successful outcome of comparing two players. When the
// request could not be answered for a user-visible reason (unknown name, no
// recent stats), Error carries the message and the rest is zero.
type Comparison struct {
	PlayerA ComparisonSide
	PlayerB ComparisonSide
	Scoring playerstats.ScoringFormat
	Season  int
	Weeks   int
	Message string
	Error   string
}

// CompareService averages recent fantasy points for two players and renders
// a verdict message.
type CompareService struct {
	search     *PlayerSearchService
	statsRepo  playerstats.Repository
	provider   StatsProvider
	stateCache *cache.Store
	logger     *logging.Logger
}

func NewCompareService(
	search *PlayerSearchService,
	statsRepo playerstats.Repository,
	provider StatsProvider,
	stateCache *cache.Store,
	logger *logging.Logger,
) *CompareService {
	if logger == nil {
		logger = logging.Default()
	}

	return &CompareService{
		search:     search,
		statsRepo:  statsRepo,
		provider:   provider,
		stateCache: stateCache,
		logger:     logger,
	}
}

// Compare resolves both names, averages their recent weeks in the current
// season and formats the verdict. Unknown names and missing stats come back
// as Error-carrying results, not Go errors; those are answers for the user.
func (s *CompareService) Compare(ctx context.Context, nameA, nameB string, scoring playerstats.ScoringFormat, weeks int) (Comparison, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompareService.Compare")
	defer span.End()

	if scoring == "" {
		scoring = playerstats.ScoringPPR
	}
	if !scoring.Valid() {
		return Comparison{}, fmt.Errorf("%w: unknown scoring format %q", ErrInvalidInput, string(scoring))
	}
	if weeks <= 0 {
		weeks = defaultCompareWeeks
	}
	if weeks > maxCompareWeeks {
		weeks = maxCompareWeeks
	}

	playerA, err := s.search.FindByName(ctx, nameA)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Comparison{Error: fmt.Sprintf("Player %q not found in database.", nameA)}, nil
		}
		return Comparison{}, err
	}
	playerB, err := s.search.FindByName(ctx, nameB)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Comparison{Error: fmt.Sprintf("Player %q not found in database.", nameB)}, nil
		}
		return Comparison{}, err
	}

	season, err := s.currentSeason(ctx)
	if err != nil {
		return Comparison{}, err
	}

	sideA, err := s.averageSide(ctx, playerA, season, scoring, weeks)
	if err != nil {
		return Comparison{}, err
	}
	sideB, err := s.averageSide(ctx, playerB, season, scoring, weeks)
	if err != nil {
		return Comparison{}, err
	}

	if sideA.WeeksCounted == 0 {
		return Comparison{Error: insufficientStatsMessage(sideA.Name)}, nil
	}
	if sideB.WeeksCounted == 0 {
		return Comparison{Error: insufficientStatsMessage(sideB.Name)}, nil
	}

	out := Comparison{
		PlayerA: sideA,
		PlayerB: sideB,
		Scoring: scoring,
		Season:  season,
		Weeks:   weeks,
	}
	out.Message = verdictMessage(sideA, sideB, scoring, weeks)

	return out, nil
}

func (s *CompareService) averageSide(ctx context.Context, p player.Player, season int, scoring playerstats.ScoringFormat, weeks int) (ComparisonSide, error) {
	rows, err := s.statsRepo.ListRecentByPlayer(ctx, p.ID, season, weeks)
	if err != nil {
		return ComparisonSide{}, fmt.Errorf("list recent stats for player %d: %w", p.ID, err)
	}

	total := 0.0
	for _, row := range rows {
		points, err := row.Points(scoring)
		if err != nil {
			return ComparisonSide{}, err
		}
		total += points
	}

	side := ComparisonSide{
		Name:         p.FullName(),
		Team:         p.Team,
		Position:     p.Position,
		WeeksCounted: len(rows),
	}
	if len(rows) > 0 {
		side.Average = round2(total / float64(len(rows)))
	}

	return side, nil
}

func (s *CompareService) currentSeason(ctx context.Context) (int, error) {
	load := func(ctx context.Context) (any, error) {
		state, err := s.provider.FetchNFLState(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch nfl state: %w", err)
		}
		if state.Season <= 0 {
			return nil, fmt.Errorf("%w: provider returned season=%d", ErrDependencyUnavailable, state.Season)
		}
		return state, nil
	}

	if s.stateCache == nil {
		value, err := load(ctx)
		if err != nil {
			return 0, err
		}
		return value.(ExternalNFLState).Season, nil
	}

	value, err := s.stateCache.GetOrLoad(ctx, nflStateCacheKey, load)
	if err != nil {
		return 0, err
	}
	state, ok := value.(ExternalNFLState)
	if !ok {
		return 0, fmt.Errorf("unexpected cached nfl state type %T", value)
	}

	return state.Season, nil
}

func verdictMessage(a, b ComparisonSide, scoring playerstats.ScoringFormat, weeks int) string {
	if a.Average == b.Average {
		return fmt.Sprintf(
			"**%s** and **%s** are dead even, both averaging %.2f PPG over the last %d weeks in %s scoring.",
			a.Name, b.Name, a.Average, weeks, string(scoring),
		)
	}

	winner, loser := a, b
	if b.Average > a.Average {
		winner, loser = b, a
	}
	diff := round2(winner.Average - loser.Average)

	return fmt.Sprintf(
		"**%s** is the better play (averaging %.2f PPG vs %.2f PPG over the last %d weeks). %s has outscored %s by %.2f points per game in %s scoring.",
		winner.Name, winner.Average, loser.Average, weeks,
		winner.Name, loser.Name, diff, string(scoring),
	)
}

func insufficientStatsMessage(name string) string {
	return fmt.Sprintf("Insufficient statistics data for comparison. No recent weeks on record for %s; run a stats import first.", name)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
