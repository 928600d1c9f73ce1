package usecase

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
	"github.com/cadence-fantasy/cadence-api/internal/platform/logging"
)

const chatSearchLimit = 5

var punctuationPattern = regexp.MustCompile(`[^\w\s]`)

// PlayerSearchService resolves free-text names to directory rows. Both the
// comparison tool and the chat endpoint go through it so a name resolves the
// same way everywhere.
type PlayerSearchService struct {
	playerRepo player.Repository
	logger     *logging.Logger
}

func NewPlayerSearchService(playerRepo player.Repository, logger *logging.Logger) *PlayerSearchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerSearchService{
		playerRepo: playerRepo,
		logger:     logger,
	}
}

// FindByName resolves a single name to its best directory match. Two or more
// tokens match first+last name prefixes; a single token matches a last-name
// substring. Candidates are ranked by fantasy position so "jackson" prefers
// the QB over a long snapper.
func (s *PlayerSearchService) FindByName(ctx context.Context, name string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerSearchService.FindByName")
	defer span.End()

	tokens := searchTokens(name)
	if len(tokens) == 0 {
		return player.Player{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	var (
		candidates []player.Player
		err        error
	)
	if len(tokens) >= 2 {
		candidates, err = s.playerRepo.SearchByNamePrefix(ctx, tokens[0], tokens[len(tokens)-1], chatSearchLimit)
	} else {
		candidates, err = s.playerRepo.SearchByLastName(ctx, tokens[0], chatSearchLimit)
	}
	if err != nil {
		return player.Player{}, fmt.Errorf("search players by name %q: %w", name, err)
	}

	if len(candidates) == 0 && len(tokens) >= 2 {
		candidates, err = s.playerRepo.SearchByLastName(ctx, tokens[len(tokens)-1], chatSearchLimit)
		if err != nil {
			return player.Player{}, fmt.Errorf("search players by last name %q: %w", tokens[len(tokens)-1], err)
		}
	}

	if len(candidates) == 0 {
		return player.Player{}, fmt.Errorf("%w: no player matches %q", ErrNotFound, name)
	}

	rankByFantasyPosition(candidates)
	return candidates[0], nil
}

// SearchForChat extracts name-looking tokens from a free-text message and
// returns up to five ranked matches for the chat prompt.
func (s *PlayerSearchService) SearchForChat(ctx context.Context, message string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerSearchService.SearchForChat")
	defer span.End()

	tokens := searchTokens(message)
	if len(tokens) == 0 {
		return nil, nil
	}

	if len(tokens) >= 2 {
		matches, err := s.playerRepo.SearchByNamePrefix(ctx, tokens[0], tokens[len(tokens)-1], chatSearchLimit)
		if err != nil {
			return nil, fmt.Errorf("search players for chat: %w", err)
		}
		if len(matches) > 0 {
			rankByFantasyPosition(matches)
			return matches, nil
		}
	}

	matches, err := s.playerRepo.SearchAcrossFields(ctx, tokens, chatSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search players across fields: %w", err)
	}

	rankByFantasyPosition(matches)
	return matches, nil
}

// searchTokens strips punctuation and splits on whitespace.
func searchTokens(text string) []string {
	cleaned := punctuationPattern.ReplaceAllString(text, "")
	return strings.Fields(cleaned)
}

func rankByFantasyPosition(players []player.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		return player.FantasyRank(players[i].Position) < player.FantasyRank(players[j].Position)
	})
}
