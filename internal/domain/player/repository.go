package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	// SearchByNamePrefix matches first and last name prefixes, case
	// insensitive.
	SearchByNamePrefix(ctx context.Context, first, last string, limit int) ([]Player, error)
	// SearchByLastName matches a substring of the last name.
	SearchByLastName(ctx context.Context, last string, limit int) ([]Player, error)
	// SearchAcrossFields matches any token against first name, last name or
	// team, case insensitive.
	SearchAcrossFields(ctx context.Context, tokens []string, limit int) ([]Player, error)
	// ListSleeperIDPage returns one page of (sleeper_id, id) pairs for rows
	// that carry a provider id, ordered by internal id.
	ListSleeperIDPage(ctx context.Context, limit, offset int) ([]IDMapping, error)
	// UpsertBatch inserts or updates players keyed on sleeper_id.
	UpsertBatch(ctx context.Context, players []Player) error
	CountAll(ctx context.Context) (int, error)
}
