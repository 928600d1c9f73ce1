package player

import "strings"

// Position is the roster position reported by the sports-data provider.
// Fantasy-relevant positions get a fixed ranking order; anything else
// (FB, LS, OL, ...) ranks after them.
type Position string

const (
	PositionQuarterback  Position = "QB"
	PositionRunningBack  Position = "RB"
	PositionWideReceiver Position = "WR"
	PositionTightEnd     Position = "TE"
	PositionKicker       Position = "K"
	PositionDefense      Position = "DEF"
)

var fantasyPositionRank = map[Position]int{
	PositionQuarterback:  0,
	PositionRunningBack:  1,
	PositionWideReceiver: 2,
	PositionTightEnd:     3,
	PositionKicker:       4,
	PositionDefense:      5,
}

const nonFantasyRank = 6

// FantasyRank returns the sort rank for a position. Positions outside the
// fantasy set all share the same rank so a stable sort keeps their relative
// order.
func FantasyRank(p Position) int {
	if rank, ok := fantasyPositionRank[p]; ok {
		return rank
	}
	return nonFantasyRank
}

// IsFantasyPosition reports whether p is one of QB/RB/WR/TE/K/DEF.
func IsFantasyPosition(p Position) bool {
	_, ok := fantasyPositionRank[p]
	return ok
}

// Status is roster availability derived from the provider's status string and
// injury designation.
type Status string

const (
	StatusActive       Status = "active"
	StatusInjured      Status = "injured"
	StatusOut          Status = "out"
	StatusDoubtful     Status = "doubtful"
	StatusQuestionable Status = "questionable"
)

// Player is one NFL player row. ID is the internal primary key; SleeperID is
// the provider identifier used for import reconciliation and may be empty for
// rows that never came from a directory sync.
type Player struct {
	ID                int64
	SleeperID         string
	FirstName         string
	LastName          string
	Position          Position
	Team              string
	JerseyNumber      int
	Status            Status
	InjuryDescription string
	YearsExp          int
	College           string
	Height            string
	Weight            int
}

func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// IDMapping pairs a provider id with the internal player id. Built in memory
// once per import run, never persisted.
type IDMapping struct {
	SleeperID string
	PlayerID  int64
}
