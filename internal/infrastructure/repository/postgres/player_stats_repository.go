package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cadence-fantasy/cadence-api/internal/domain/playerstats"
	qb "github.com/cadence-fantasy/cadence-api/internal/platform/querybuilder"
)

const weeklyStatUpsertChunkSize = 200

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

var _ playerstats.Repository = (*PlayerStatsRepository)(nil)

var weeklyStatSelectColumns = []string{
	"player_id",
	"season",
	"week",
	"season_type",
	"pass_attempts",
	"pass_completions",
	"pass_yards",
	"pass_touchdowns",
	"interceptions",
	"pass_two_points",
	"rush_attempts",
	"rush_yards",
	"rush_touchdowns",
	"rush_two_points",
	"fumbles",
	"fumbles_lost",
	"receptions",
	"receiving_targets",
	"receiving_yards",
	"receiving_touchdowns",
	"receiving_two_points",
	"receiving_fumbles",
	"receiving_fumbles_lost",
	"field_goals_made",
	"field_goals_attempted",
	"field_goals_0_19",
	"field_goals_20_29",
	"field_goals_30_39",
	"field_goals_40_49",
	"field_goals_50_plus",
	"extra_points_made",
	"extra_points_attempted",
	"def_sacks",
	"def_interceptions",
	"def_fumbles_recovered",
	"def_fumbles_forced",
	"def_safeties",
	"def_touchdowns",
	"def_blocked_kicks",
	"def_points_allowed",
	"def_yards_allowed",
	"return_touchdowns",
	"fantasy_points_standard",
	"fantasy_points_ppr",
	"fantasy_points_half_ppr",
}

// UpsertWeek writes one week's stat rows keyed by player, season, week and
// season type. Rows are chunked to keep single statements bounded.
func (r *PlayerStatsRepository) UpsertWeek(ctx context.Context, stats []playerstats.WeeklyStat) error {
	if len(stats) == 0 {
		return nil
	}

	for start := 0; start < len(stats); start += weeklyStatUpsertChunkSize {
		end := start + weeklyStatUpsertChunkSize
		if end > len(stats) {
			end = len(stats)
		}

		chunk := stats[start:end]
		models := make([]weeklyStatInsertModel, 0, len(chunk))
		for _, s := range chunk {
			models = append(models, weeklyStatInsertModelFromDomain(s))
		}

		query, args, err := qb.InsertModels("player_stats", models, `ON CONFLICT (player_id, season, week, season_type)
DO UPDATE SET
    pass_attempts = EXCLUDED.pass_attempts,
    pass_completions = EXCLUDED.pass_completions,
    pass_yards = EXCLUDED.pass_yards,
    pass_touchdowns = EXCLUDED.pass_touchdowns,
    interceptions = EXCLUDED.interceptions,
    pass_two_points = EXCLUDED.pass_two_points,
    rush_attempts = EXCLUDED.rush_attempts,
    rush_yards = EXCLUDED.rush_yards,
    rush_touchdowns = EXCLUDED.rush_touchdowns,
    rush_two_points = EXCLUDED.rush_two_points,
    fumbles = EXCLUDED.fumbles,
    fumbles_lost = EXCLUDED.fumbles_lost,
    receptions = EXCLUDED.receptions,
    receiving_targets = EXCLUDED.receiving_targets,
    receiving_yards = EXCLUDED.receiving_yards,
    receiving_touchdowns = EXCLUDED.receiving_touchdowns,
    receiving_two_points = EXCLUDED.receiving_two_points,
    receiving_fumbles = EXCLUDED.receiving_fumbles,
    receiving_fumbles_lost = EXCLUDED.receiving_fumbles_lost,
    field_goals_made = EXCLUDED.field_goals_made,
    field_goals_attempted = EXCLUDED.field_goals_attempted,
    field_goals_0_19 = EXCLUDED.field_goals_0_19,
    field_goals_20_29 = EXCLUDED.field_goals_20_29,
    field_goals_30_39 = EXCLUDED.field_goals_30_39,
    field_goals_40_49 = EXCLUDED.field_goals_40_49,
    field_goals_50_plus = EXCLUDED.field_goals_50_plus,
    extra_points_made = EXCLUDED.extra_points_made,
    extra_points_attempted = EXCLUDED.extra_points_attempted,
    def_sacks = EXCLUDED.def_sacks,
    def_interceptions = EXCLUDED.def_interceptions,
    def_fumbles_recovered = EXCLUDED.def_fumbles_recovered,
    def_fumbles_forced = EXCLUDED.def_fumbles_forced,
    def_safeties = EXCLUDED.def_safeties,
    def_touchdowns = EXCLUDED.def_touchdowns,
    def_blocked_kicks = EXCLUDED.def_blocked_kicks,
    def_points_allowed = EXCLUDED.def_points_allowed,
    def_yards_allowed = EXCLUDED.def_yards_allowed,
    return_touchdowns = EXCLUDED.return_touchdowns,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert weekly stats query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert weekly stats rows=%d: %w", len(chunk), err)
		}
	}

	return nil
}

// ListRecentByPlayer returns the player's most recent weeks of the season,
// newest first.
func (r *PlayerStatsRepository) ListRecentByPlayer(ctx context.Context, playerID int64, season, limit int) ([]playerstats.WeeklyStat, error) {
	query, args, err := qb.Select(weeklyStatSelectColumns...).From("player_stats").
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("season", season),
		).
		OrderBy("week DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent weekly stats query: %w", err)
	}

	var rows []weeklyStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recent weekly stats: %w", err)
	}

	out := make([]playerstats.WeeklyStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PlayerStatsRepository) CountBySeason(ctx context.Context, season int) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("player_stats").
		Where(qb.Eq("season", season)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count weekly stats query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count weekly stats: %w", err)
	}

	return count, nil
}
