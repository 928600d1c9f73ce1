package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
	"github.com/cadence-fantasy/cadence-api/internal/domain/playerstats"
	"github.com/cadence-fantasy/cadence-api/internal/infrastructure/repository/memory"
	basecache "github.com/cadence-fantasy/cadence-api/internal/platform/cache"
)

type countingPlayerRepo struct {
	*memory.PlayerRepository
	searches int
}

func (r *countingPlayerRepo) SearchByLastName(ctx context.Context, last string, limit int) ([]player.Player, error) {
	r.searches++
	return r.PlayerRepository.SearchByLastName(ctx, last, limit)
}

func newCountingRepo() *countingPlayerRepo {
	return &countingPlayerRepo{PlayerRepository: memory.NewPlayerRepository([]player.Player{
		{SleeperID: "1", FirstName: "Lamar", LastName: "Jackson", Position: player.PositionQuarterback, Team: "BAL"},
		{SleeperID: "2", FirstName: "Justin", LastName: "Jefferson", Position: player.PositionWideReceiver, Team: "MIN"},
	})}
}

func TestPlayerRepository_SearchHitsCacheOnRepeat(t *testing.T) {
	next := newCountingRepo()
	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))

	for i := 0; i < 3; i++ {
		got, err := repo.SearchByLastName(context.Background(), "jefferson", 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "Jefferson", got[0].LastName)
	}

	require.Equal(t, 1, next.searches)
}

func TestPlayerRepository_UpsertInvalidatesSearches(t *testing.T) {
	next := newCountingRepo()
	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))

	_, err := repo.SearchByLastName(context.Background(), "jackson", 10)
	require.NoError(t, err)

	err = repo.UpsertBatch(context.Background(), []player.Player{
		{SleeperID: "1", FirstName: "Lamar", LastName: "Jackson", Position: player.PositionQuarterback, Team: "BAL", Status: player.StatusQuestionable},
	})
	require.NoError(t, err)

	got, err := repo.SearchByLastName(context.Background(), "jackson", 10)
	require.NoError(t, err)
	require.Equal(t, 2, next.searches, "upsert must invalidate cached searches")
	require.Len(t, got, 1)
	require.Equal(t, player.StatusQuestionable, got[0].Status)
}

type countingStatsRepo struct {
	rows  []playerstats.WeeklyStat
	reads int
}

func (r *countingStatsRepo) UpsertWeek(context.Context, []playerstats.WeeklyStat) error { return nil }

func (r *countingStatsRepo) ListRecentByPlayer(_ context.Context, _ int64, _, limit int) ([]playerstats.WeeklyStat, error) {
	r.reads++
	rows := r.rows
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *countingStatsRepo) CountBySeason(context.Context, int) (int, error) { return len(r.rows), nil }

func TestPlayerStatsRepository_RecentWeeksAreCached(t *testing.T) {
	next := &countingStatsRepo{rows: []playerstats.WeeklyStat{
		{PlayerID: 1, Season: 2025, Week: 4},
		{PlayerID: 1, Season: 2025, Week: 3},
	}}
	repo := NewPlayerStatsRepository(next, basecache.NewStore(time.Minute))

	for i := 0; i < 2; i++ {
		got, err := repo.ListRecentByPlayer(context.Background(), 1, 2025, 5)
		require.NoError(t, err)
		require.Len(t, got, 2)
	}
	require.Equal(t, 1, next.reads)

	require.NoError(t, repo.UpsertWeek(context.Background(), nil))

	_, err := repo.ListRecentByPlayer(context.Background(), 1, 2025, 5)
	require.NoError(t, err)
	require.Equal(t, 2, next.reads, "upsert must invalidate the recent-weeks cache")
}
