package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
	qb "github.com/cadence-fantasy/cadence-api/internal/platform/querybuilder"
)

const playerUpsertChunkSize = 500

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"id",
	"sleeper_id",
	"first_name",
	"last_name",
	"position",
	"team",
	"jersey_number",
	"status",
	"injury_description",
	"years_exp",
	"college",
	"height",
	"weight",
	"created_at",
	"updated_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

var _ player.Repository = (*PlayerRepository)(nil)

// SearchByNamePrefix matches first and last name prefixes case-insensitively.
func (r *PlayerRepository) SearchByNamePrefix(ctx context.Context, first, last string, limit int) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("nfl_players").
		Where(
			qb.Expr("first_name ILIKE ?", prefixPattern(first)),
			qb.Expr("last_name ILIKE ?", prefixPattern(last)),
		).
		OrderBy("last_name", "first_name", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build search players by name prefix query: %w", err)
	}

	return r.selectPlayers(ctx, query, args)
}

// SearchByLastName matches a case-insensitive substring of the last name.
func (r *PlayerRepository) SearchByLastName(ctx context.Context, last string, limit int) ([]player.Player, error) {
	query, args, err := searchByLastNameSQL(last, limit)
	if err != nil {
		return nil, fmt.Errorf("build search players by last name query: %w", err)
	}

	return r.selectPlayers(ctx, query, args)
}

func searchByLastNameSQL(last string, limit int) (string, []any, error) {
	return qb.Select(playerSelectColumns...).From("nfl_players").
		Where(qb.Expr("last_name ILIKE ?", containsPattern(last))).
		OrderBy("last_name", "first_name", "id").
		Limit(limit).
		ToSQL()
}

// SearchAcrossFields matches every token as a substring of the first name,
// last name or team. It is the loose fallback behind the prefix search.
func (r *PlayerRepository) SearchAcrossFields(ctx context.Context, tokens []string, limit int) ([]player.Player, error) {
	if len(tokens) == 0 {
		return []player.Player{}, nil
	}

	conditions := make([]qb.Condition, 0, len(tokens))
	for _, token := range tokens {
		pattern := containsPattern(token)
		conditions = append(conditions, qb.Or(
			qb.Expr("first_name ILIKE ?", pattern),
			qb.Expr("last_name ILIKE ?", pattern),
			qb.Expr("team ILIKE ?", pattern),
		))
	}

	query, args, err := qb.Select(playerSelectColumns...).From("nfl_players").
		Where(conditions...).
		OrderBy("last_name", "first_name", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build search players across fields query: %w", err)
	}

	return r.selectPlayers(ctx, query, args)
}

// ListSleeperIDPage walks the provider-id mapping in stable id order.
func (r *PlayerRepository) ListSleeperIDPage(ctx context.Context, limit, offset int) ([]player.IDMapping, error) {
	query, args, err := qb.Select("id", "sleeper_id").From("nfl_players").
		Where(qb.Expr("sleeper_id IS NOT NULL")).
		OrderBy("id").
		Limit(limit).
		Offset(offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sleeper id page query: %w", err)
	}

	var rows []struct {
		ID        int64  `db:"id"`
		SleeperID string `db:"sleeper_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select sleeper id page: %w", err)
	}

	out := make([]player.IDMapping, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.IDMapping{SleeperID: row.SleeperID, PlayerID: row.ID})
	}

	return out, nil
}

// UpsertBatch writes players keyed by sleeper_id, chunked so one statement
// never carries more than playerUpsertChunkSize rows.
func (r *PlayerRepository) UpsertBatch(ctx context.Context, players []player.Player) error {
	if len(players) == 0 {
		return nil
	}

	for start := 0; start < len(players); start += playerUpsertChunkSize {
		end := start + playerUpsertChunkSize
		if end > len(players) {
			end = len(players)
		}

		chunk := players[start:end]
		models := make([]playerInsertModel, 0, len(chunk))
		for _, p := range chunk {
			models = append(models, playerInsertModel{
				SleeperID:         strings.TrimSpace(p.SleeperID),
				FirstName:         strings.TrimSpace(p.FirstName),
				LastName:          strings.TrimSpace(p.LastName),
				Position:          string(p.Position),
				Team:              strings.TrimSpace(p.Team),
				JerseyNumber:      p.JerseyNumber,
				Status:            string(p.Status),
				InjuryDescription: strings.TrimSpace(p.InjuryDescription),
				YearsExp:          p.YearsExp,
				College:           strings.TrimSpace(p.College),
				Height:            strings.TrimSpace(p.Height),
				Weight:            p.Weight,
			})
		}

		query, args, err := qb.InsertModels("nfl_players", models, `ON CONFLICT (sleeper_id)
DO UPDATE SET
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    position = EXCLUDED.position,
    team = EXCLUDED.team,
    jersey_number = EXCLUDED.jersey_number,
    status = EXCLUDED.status,
    injury_description = EXCLUDED.injury_description,
    years_exp = EXCLUDED.years_exp,
    college = EXCLUDED.college,
    height = EXCLUDED.height,
    weight = EXCLUDED.weight,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert players query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert players rows=%d: %w", len(chunk), err)
		}
	}

	return nil
}

func (r *PlayerRepository) CountAll(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("nfl_players").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count players query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}

	return count, nil
}

func (r *PlayerRepository) selectPlayers(ctx context.Context, query string, args []any) ([]player.Player, error) {
	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		if isRetryableProtocolError(err) {
			rows = rows[:0]
			err = r.db.SelectContext(ctx, &rows, query, args...)
		}
		if err != nil {
			return nil, fmt.Errorf("select players: %w", err)
		}
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func prefixPattern(term string) string {
	return escapeLikeTerm(term) + "%"
}

func containsPattern(term string) string {
	return "%" + escapeLikeTerm(term) + "%"
}

func escapeLikeTerm(term string) string {
	term = strings.TrimSpace(term)
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, "%", `\%`)
	term = strings.ReplaceAll(term, "_", `\_`)
	return term
}
