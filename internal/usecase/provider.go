package usecase

import (
	"context"

	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
	"github.com/cadence-fantasy/cadence-api/internal/domain/playerstats"
)

// StatsProvider is the sports-data dependency of the sync and import
// services.
type StatsProvider interface {
	FetchNFLState(ctx context.Context) (ExternalNFLState, error)
	FetchPlayerDirectory(ctx context.Context) ([]ExternalPlayerRecord, error)
	FetchWeekStats(ctx context.Context, season, week int, seasonType string) ([]ExternalWeekStat, error)
}

type ExternalNFLState struct {
	Season      int
	Week        int
	SeasonType  string
	DisplayWeek int
}

// ExternalPlayerRecord is one directory entry as the provider reports it.
// Position is left empty when the provider omitted it so the sync can filter
// such records out.
type ExternalPlayerRecord struct {
	SleeperID         string
	FirstName         string
	LastName          string
	Position          player.Position
	Team              string
	JerseyNumber      int
	Status            player.Status
	InjuryDescription string
	YearsExp          int
	College           string
	Height            string
	Weight            int
}

type ExternalWeekStat struct {
	SleeperID string
	Line      playerstats.StatLine
}
