// Package cache wraps repositories with a read-through TTL cache. Search
// traffic from the chat endpoint hits the same few names repeatedly; the
// wrappers keep those lookups off the database.
package cache

import (
	"context"
	"strconv"
	"strings"

	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
	"github.com/cadence-fantasy/cadence-api/internal/domain/playerstats"
	basecache "github.com/cadence-fantasy/cadence-api/internal/platform/cache"
)

var (
	_ player.Repository      = (*PlayerRepository)(nil)
	_ playerstats.Repository = (*PlayerStatsRepository)(nil)
)

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) SearchByNamePrefix(ctx context.Context, first, last string, limit int) ([]player.Player, error) {
	key := "player:prefix:" + strings.ToLower(first) + ":" + strings.ToLower(last) + ":" + strconv.Itoa(limit)
	return r.loadPlayers(ctx, key, func(ctx context.Context) ([]player.Player, error) {
		return r.next.SearchByNamePrefix(ctx, first, last, limit)
	})
}

func (r *PlayerRepository) SearchByLastName(ctx context.Context, last string, limit int) ([]player.Player, error) {
	key := "player:last:" + strings.ToLower(last) + ":" + strconv.Itoa(limit)
	return r.loadPlayers(ctx, key, func(ctx context.Context) ([]player.Player, error) {
		return r.next.SearchByLastName(ctx, last, limit)
	})
}

func (r *PlayerRepository) SearchAcrossFields(ctx context.Context, tokens []string, limit int) ([]player.Player, error) {
	key := "player:fields:" + strings.ToLower(strings.Join(tokens, ",")) + ":" + strconv.Itoa(limit)
	return r.loadPlayers(ctx, key, func(ctx context.Context) ([]player.Player, error) {
		return r.next.SearchAcrossFields(ctx, tokens, limit)
	})
}

// ListSleeperIDPage is only called by import runs, which need a fresh view.
func (r *PlayerRepository) ListSleeperIDPage(ctx context.Context, limit, offset int) ([]player.IDMapping, error) {
	return r.next.ListSleeperIDPage(ctx, limit, offset)
}

func (r *PlayerRepository) UpsertBatch(ctx context.Context, batch []player.Player) error {
	if err := r.next.UpsertBatch(ctx, batch); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

func (r *PlayerRepository) CountAll(ctx context.Context) (int, error) {
	return r.next.CountAll(ctx)
}

func (r *PlayerRepository) loadPlayers(ctx context.Context, key string, load func(context.Context) ([]player.Player, error)) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

type PlayerStatsRepository struct {
	next  playerstats.Repository
	cache *basecache.Store
}

func NewPlayerStatsRepository(next playerstats.Repository, cache *basecache.Store) *PlayerStatsRepository {
	return &PlayerStatsRepository{next: next, cache: cache}
}

func (r *PlayerStatsRepository) UpsertWeek(ctx context.Context, rows []playerstats.WeeklyStat) error {
	if err := r.next.UpsertWeek(ctx, rows); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "stats:")
	return nil
}

func (r *PlayerStatsRepository) ListRecentByPlayer(ctx context.Context, playerID int64, season, limit int) ([]playerstats.WeeklyStat, error) {
	key := "stats:recent:" + strconv.FormatInt(playerID, 10) + ":" + strconv.Itoa(season) + ":" + strconv.Itoa(limit)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListRecentByPlayer(ctx, playerID, season, limit)
		if err != nil {
			return nil, err
		}
		return append([]playerstats.WeeklyStat(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]playerstats.WeeklyStat)
	return append([]playerstats.WeeklyStat(nil), items...), nil
}

func (r *PlayerStatsRepository) CountBySeason(ctx context.Context, season int) (int, error) {
	return r.next.CountBySeason(ctx, season)
}
