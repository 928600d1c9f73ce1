package playerstats

import "github.com/cockroachdb/errors"

// ScoringFormat selects which fantasy point total to read from a stat row.
type ScoringFormat string

const (
	ScoringStandard ScoringFormat = "standard"
	ScoringPPR      ScoringFormat = "ppr"
	ScoringHalfPPR  ScoringFormat = "half_ppr"
)

func (f ScoringFormat) Valid() bool {
	switch f {
	case ScoringStandard, ScoringPPR, ScoringHalfPPR:
		return true
	}
	return false
}

var ErrUnknownScoringFormat = errors.New("unknown scoring format")

// StatLine holds the raw counting stats for one player-week. Every field
// defaults to zero; the provider omits categories a player did not record.
type StatLine struct {
	PassingAttempts      float64
	PassingCompletions   float64
	PassingYards         float64
	PassingTouchdowns    float64
	PassingInterceptions float64
	PassingTwoPoints     float64

	RushingAttempts    float64
	RushingYards       float64
	RushingTouchdowns  float64
	RushingTwoPoints   float64
	RushingFumbles     float64
	RushingFumblesLost float64

	Receptions           float64
	ReceivingTargets     float64
	ReceivingYards       float64
	ReceivingTouchdowns  float64
	ReceivingTwoPoints   float64
	ReceivingFumbles     float64
	ReceivingFumblesLost float64

	FieldGoalsMade       float64
	FieldGoalsAttempted  float64
	FieldGoals0to19      float64
	FieldGoals20to29     float64
	FieldGoals30to39     float64
	FieldGoals40to49     float64
	FieldGoals50Plus     float64
	ExtraPointsMade      float64
	ExtraPointsAttempted float64

	DefenseSacks            float64
	DefenseInterceptions    float64
	DefenseFumblesRecovered float64
	DefenseFumblesForced    float64
	DefenseSafeties         float64
	DefenseTouchdowns       float64
	DefenseBlockedKicks     float64
	DefensePointsAllowed    float64
	DefenseYardsAllowed     float64

	ReturnTouchdowns float64
}

// WeeklyStat is one persisted player-week. The fantasy point totals are
// derived in storage from the stat line, so they are read-only here.
type WeeklyStat struct {
	PlayerID   int64
	Season     int
	Week       int
	SeasonType string
	Line       StatLine

	FantasyPointsStandard float64
	FantasyPointsPPR      float64
	FantasyPointsHalfPPR  float64
}

// Points returns the fantasy point total for the requested format.
func (s WeeklyStat) Points(f ScoringFormat) (float64, error) {
	switch f {
	case ScoringStandard:
		return s.FantasyPointsStandard, nil
	case ScoringPPR:
		return s.FantasyPointsPPR, nil
	case ScoringHalfPPR:
		return s.FantasyPointsHalfPPR, nil
	}
	return 0, errors.Wrapf(ErrUnknownScoringFormat, "%q", string(f))
}
