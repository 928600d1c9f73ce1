// Package memory holds in-memory repository implementations used by tests
// and local development without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
)

var _ player.Repository = (*PlayerRepository)(nil)

type PlayerRepository struct {
	mu          sync.RWMutex
	players     []player.Player
	bySleeperID map[string]int
	nextID      int64
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	r := &PlayerRepository{bySleeperID: make(map[string]int)}
	for _, p := range players {
		if p.ID == 0 {
			r.nextID++
			p.ID = r.nextID
		} else if p.ID > r.nextID {
			r.nextID = p.ID
		}
		if p.SleeperID != "" {
			r.bySleeperID[p.SleeperID] = len(r.players)
		}
		r.players = append(r.players, p)
	}
	return r
}

func (r *PlayerRepository) SearchByNamePrefix(_ context.Context, first, last string, limit int) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.search(func(p player.Player) bool {
		return hasPrefixFold(p.FirstName, first) && hasPrefixFold(p.LastName, last)
	}, limit), nil
}

func (r *PlayerRepository) SearchByLastName(_ context.Context, last string, limit int) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.search(func(p player.Player) bool {
		return containsFold(p.LastName, last)
	}, limit), nil
}

func (r *PlayerRepository) SearchAcrossFields(_ context.Context, tokens []string, limit int) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.search(func(p player.Player) bool {
		for _, token := range tokens {
			if containsFold(p.FirstName, token) || containsFold(p.LastName, token) || containsFold(p.Team, token) {
				return true
			}
		}
		return false
	}, limit), nil
}

func (r *PlayerRepository) ListSleeperIDPage(_ context.Context, limit, offset int) ([]player.IDMapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mapped := make([]player.IDMapping, 0, len(r.players))
	for _, p := range r.players {
		if p.SleeperID == "" {
			continue
		}
		mapped = append(mapped, player.IDMapping{SleeperID: p.SleeperID, PlayerID: p.ID})
	}
	sort.Slice(mapped, func(i, j int) bool { return mapped[i].PlayerID < mapped[j].PlayerID })

	if offset >= len(mapped) {
		return nil, nil
	}
	mapped = mapped[offset:]
	if len(mapped) > limit {
		mapped = mapped[:limit]
	}
	return append([]player.IDMapping(nil), mapped...), nil
}

func (r *PlayerRepository) UpsertBatch(_ context.Context, batch []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range batch {
		if p.SleeperID == "" {
			continue
		}
		if idx, ok := r.bySleeperID[p.SleeperID]; ok {
			p.ID = r.players[idx].ID
			r.players[idx] = p
			continue
		}
		r.nextID++
		p.ID = r.nextID
		r.bySleeperID[p.SleeperID] = len(r.players)
		r.players = append(r.players, p)
	}
	return nil
}

func (r *PlayerRepository) CountAll(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.players), nil
}

// search mirrors the database ordering: last name, first name, then id.
func (r *PlayerRepository) search(pred func(player.Player) bool, limit int) []player.Player {
	out := make([]player.Player, 0)
	for _, p := range r.players {
		if pred(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func hasPrefixFold(value, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(value), strings.ToLower(prefix))
}

func containsFold(value, sub string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(sub))
}
