package usecase

import (
	"context"
	"strings"

	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
	"github.com/cadence-fantasy/cadence-api/internal/domain/playerstats"
)

type stubStatsProvider struct {
	state      ExternalNFLState
	stateErr   error
	directory  []ExternalPlayerRecord
	dirErr     error
	weekStats  map[int][]ExternalWeekStat
	weekErrs   map[int]error
	weekCalls  []int
	stateCalls int
}

func (s *stubStatsProvider) FetchNFLState(_ context.Context) (ExternalNFLState, error) {
	s.stateCalls++
	if s.stateErr != nil {
		return ExternalNFLState{}, s.stateErr
	}
	return s.state, nil
}

func (s *stubStatsProvider) FetchPlayerDirectory(_ context.Context) ([]ExternalPlayerRecord, error) {
	if s.dirErr != nil {
		return nil, s.dirErr
	}
	return s.directory, nil
}

func (s *stubStatsProvider) FetchWeekStats(_ context.Context, _, week int, _ string) ([]ExternalWeekStat, error) {
	s.weekCalls = append(s.weekCalls, week)
	if err, ok := s.weekErrs[week]; ok {
		return nil, err
	}
	return s.weekStats[week], nil
}

type stubPlayerRepository struct {
	players      []player.Player
	mappings     []player.IDMapping
	upserts      [][]player.Player
	upsertErrAt  map[int]error
	searchErr    error
	listPageErr  error
	countAllRows int
}

func (r *stubPlayerRepository) matchPrefix(first, last string) []player.Player {
	out := make([]player.Player, 0)
	for _, p := range r.players {
		if strings.HasPrefix(strings.ToLower(p.FirstName), strings.ToLower(first)) &&
			strings.HasPrefix(strings.ToLower(p.LastName), strings.ToLower(last)) {
			out = append(out, p)
		}
	}
	return out
}

func (r *stubPlayerRepository) SearchByNamePrefix(_ context.Context, first, last string, limit int) ([]player.Player, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	out := r.matchPrefix(first, last)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubPlayerRepository) SearchByLastName(_ context.Context, last string, limit int) ([]player.Player, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	out := make([]player.Player, 0)
	for _, p := range r.players {
		if strings.Contains(strings.ToLower(p.LastName), strings.ToLower(last)) {
			out = append(out, p)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubPlayerRepository) SearchAcrossFields(_ context.Context, tokens []string, limit int) ([]player.Player, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	out := make([]player.Player, 0)
	for _, p := range r.players {
		for _, tok := range tokens {
			lower := strings.ToLower(tok)
			if strings.Contains(strings.ToLower(p.FirstName), lower) ||
				strings.Contains(strings.ToLower(p.LastName), lower) ||
				strings.Contains(strings.ToLower(p.Team), lower) {
				out = append(out, p)
				break
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubPlayerRepository) ListSleeperIDPage(_ context.Context, limit, offset int) ([]player.IDMapping, error) {
	if r.listPageErr != nil {
		return nil, r.listPageErr
	}
	if offset >= len(r.mappings) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.mappings) {
		end = len(r.mappings)
	}
	return r.mappings[offset:end], nil
}

func (r *stubPlayerRepository) UpsertBatch(_ context.Context, players []player.Player) error {
	idx := len(r.upserts)
	r.upserts = append(r.upserts, players)
	if err, ok := r.upsertErrAt[idx]; ok {
		return err
	}
	return nil
}

func (r *stubPlayerRepository) CountAll(_ context.Context) (int, error) {
	return r.countAllRows, nil
}

type stubStatsRepository struct {
	upserts   [][]playerstats.WeeklyStat
	upsertErr error
	recent    map[int64][]playerstats.WeeklyStat
	recentErr error
}

func (r *stubStatsRepository) UpsertWeek(_ context.Context, stats []playerstats.WeeklyStat) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserts = append(r.upserts, stats)
	return nil
}

func (r *stubStatsRepository) ListRecentByPlayer(_ context.Context, playerID int64, _, limit int) ([]playerstats.WeeklyStat, error) {
	if r.recentErr != nil {
		return nil, r.recentErr
	}
	rows := r.recent[playerID]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *stubStatsRepository) CountBySeason(_ context.Context, _ int) (int, error) {
	total := 0
	for _, rows := range r.recent {
		total += len(rows)
	}
	return total, nil
}

type stubModelClient struct {
	configured  bool
	completion  ModelCompletion
	completeErr error
	streamErr   error
	deltas      []string

	completeCalls []struct {
		System   string
		Messages []ModelMessage
		Tools    []ModelTool
	}
	streamCalls []struct {
		System   string
		Messages []ModelMessage
	}
}

func (m *stubModelClient) Configured() bool { return m.configured }

func (m *stubModelClient) Complete(_ context.Context, system string, messages []ModelMessage, tools []ModelTool) (ModelCompletion, error) {
	m.completeCalls = append(m.completeCalls, struct {
		System   string
		Messages []ModelMessage
		Tools    []ModelTool
	}{system, messages, tools})
	if m.completeErr != nil {
		return ModelCompletion{}, m.completeErr
	}
	return m.completion, nil
}

func (m *stubModelClient) StreamText(_ context.Context, system string, messages []ModelMessage, onDelta func(string) error) error {
	m.streamCalls = append(m.streamCalls, struct {
		System   string
		Messages []ModelMessage
	}{system, messages})
	if m.streamErr != nil {
		return m.streamErr
	}
	for _, d := range m.deltas {
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return nil
}
