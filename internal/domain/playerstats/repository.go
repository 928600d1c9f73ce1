package playerstats

import "context"

type Repository interface {
	// UpsertWeek writes one week of stat rows keyed on
	// (player_id, season, week, season_type).
	UpsertWeek(ctx context.Context, stats []WeeklyStat) error
	// ListRecentByPlayer returns the player's most recent regular-season
	// weeks for the season, newest first, at most limit rows.
	ListRecentByPlayer(ctx context.Context, playerID int64, season, limit int) ([]WeeklyStat, error)
	CountBySeason(ctx context.Context, season int) (int, error)
}
