package postgres

import (
	"github.com/cadence-fantasy/cadence-api/internal/domain/playerstats"
)

// weeklyStatInsertModel carries the raw counting stats. The fantasy point
// totals are computed by a storage trigger and never written from here.
type weeklyStatInsertModel struct {
	PlayerID   int64  `db:"player_id"`
	Season     int    `db:"season"`
	Week       int    `db:"week"`
	SeasonType string `db:"season_type"`

	PassAttempts    float64 `db:"pass_attempts"`
	PassCompletions float64 `db:"pass_completions"`
	PassYards       float64 `db:"pass_yards"`
	PassTouchdowns  float64 `db:"pass_touchdowns"`
	Interceptions   float64 `db:"interceptions"`
	PassTwoPoints   float64 `db:"pass_two_points"`

	RushAttempts   float64 `db:"rush_attempts"`
	RushYards      float64 `db:"rush_yards"`
	RushTouchdowns float64 `db:"rush_touchdowns"`
	RushTwoPoints  float64 `db:"rush_two_points"`
	Fumbles        float64 `db:"fumbles"`
	FumblesLost    float64 `db:"fumbles_lost"`

	Receptions           float64 `db:"receptions"`
	ReceivingTargets     float64 `db:"receiving_targets"`
	ReceivingYards       float64 `db:"receiving_yards"`
	ReceivingTouchdowns  float64 `db:"receiving_touchdowns"`
	ReceivingTwoPoints   float64 `db:"receiving_two_points"`
	ReceivingFumbles     float64 `db:"receiving_fumbles"`
	ReceivingFumblesLost float64 `db:"receiving_fumbles_lost"`

	FieldGoalsMade       float64 `db:"field_goals_made"`
	FieldGoalsAttempted  float64 `db:"field_goals_attempted"`
	FieldGoals0to19      float64 `db:"field_goals_0_19"`
	FieldGoals20to29     float64 `db:"field_goals_20_29"`
	FieldGoals30to39     float64 `db:"field_goals_30_39"`
	FieldGoals40to49     float64 `db:"field_goals_40_49"`
	FieldGoals50Plus     float64 `db:"field_goals_50_plus"`
	ExtraPointsMade      float64 `db:"extra_points_made"`
	ExtraPointsAttempted float64 `db:"extra_points_attempted"`

	DefSacks            float64 `db:"def_sacks"`
	DefInterceptions    float64 `db:"def_interceptions"`
	DefFumblesRecovered float64 `db:"def_fumbles_recovered"`
	DefFumblesForced    float64 `db:"def_fumbles_forced"`
	DefSafeties         float64 `db:"def_safeties"`
	DefTouchdowns       float64 `db:"def_touchdowns"`
	DefBlockedKicks     float64 `db:"def_blocked_kicks"`
	DefPointsAllowed    float64 `db:"def_points_allowed"`
	DefYardsAllowed     float64 `db:"def_yards_allowed"`

	ReturnTouchdowns float64 `db:"return_touchdowns"`
}

type weeklyStatTableModel struct {
	weeklyStatInsertModel

	FantasyPointsStandard float64 `db:"fantasy_points_standard"`
	FantasyPointsPPR      float64 `db:"fantasy_points_ppr"`
	FantasyPointsHalfPPR  float64 `db:"fantasy_points_half_ppr"`
}

func weeklyStatInsertModelFromDomain(s playerstats.WeeklyStat) weeklyStatInsertModel {
	return weeklyStatInsertModel{
		PlayerID:   s.PlayerID,
		Season:     s.Season,
		Week:       s.Week,
		SeasonType: s.SeasonType,

		PassAttempts:    s.Line.PassingAttempts,
		PassCompletions: s.Line.PassingCompletions,
		PassYards:       s.Line.PassingYards,
		PassTouchdowns:  s.Line.PassingTouchdowns,
		Interceptions:   s.Line.PassingInterceptions,
		PassTwoPoints:   s.Line.PassingTwoPoints,

		RushAttempts:   s.Line.RushingAttempts,
		RushYards:      s.Line.RushingYards,
		RushTouchdowns: s.Line.RushingTouchdowns,
		RushTwoPoints:  s.Line.RushingTwoPoints,
		Fumbles:        s.Line.RushingFumbles,
		FumblesLost:    s.Line.RushingFumblesLost,

		Receptions:           s.Line.Receptions,
		ReceivingTargets:     s.Line.ReceivingTargets,
		ReceivingYards:       s.Line.ReceivingYards,
		ReceivingTouchdowns:  s.Line.ReceivingTouchdowns,
		ReceivingTwoPoints:   s.Line.ReceivingTwoPoints,
		ReceivingFumbles:     s.Line.ReceivingFumbles,
		ReceivingFumblesLost: s.Line.ReceivingFumblesLost,

		FieldGoalsMade:       s.Line.FieldGoalsMade,
		FieldGoalsAttempted:  s.Line.FieldGoalsAttempted,
		FieldGoals0to19:      s.Line.FieldGoals0to19,
		FieldGoals20to29:     s.Line.FieldGoals20to29,
		FieldGoals30to39:     s.Line.FieldGoals30to39,
		FieldGoals40to49:     s.Line.FieldGoals40to49,
		FieldGoals50Plus:     s.Line.FieldGoals50Plus,
		ExtraPointsMade:      s.Line.ExtraPointsMade,
		ExtraPointsAttempted: s.Line.ExtraPointsAttempted,

		DefSacks:            s.Line.DefenseSacks,
		DefInterceptions:    s.Line.DefenseInterceptions,
		DefFumblesRecovered: s.Line.DefenseFumblesRecovered,
		DefFumblesForced:    s.Line.DefenseFumblesForced,
		DefSafeties:         s.Line.DefenseSafeties,
		DefTouchdowns:       s.Line.DefenseTouchdowns,
		DefBlockedKicks:     s.Line.DefenseBlockedKicks,
		DefPointsAllowed:    s.Line.DefensePointsAllowed,
		DefYardsAllowed:     s.Line.DefenseYardsAllowed,

		ReturnTouchdowns: s.Line.ReturnTouchdowns,
	}
}

func (m weeklyStatTableModel) toDomain() playerstats.WeeklyStat {
	return playerstats.WeeklyStat{
		PlayerID:   m.PlayerID,
		Season:     m.Season,
		Week:       m.Week,
		SeasonType: m.SeasonType,
		Line: playerstats.StatLine{
			PassingAttempts:      m.PassAttempts,
			PassingCompletions:   m.PassCompletions,
			PassingYards:         m.PassYards,
			PassingTouchdowns:    m.PassTouchdowns,
			PassingInterceptions: m.Interceptions,
			PassingTwoPoints:     m.PassTwoPoints,

			RushingAttempts:    m.RushAttempts,
			RushingYards:       m.RushYards,
			RushingTouchdowns:  m.RushTouchdowns,
			RushingTwoPoints:   m.RushTwoPoints,
			RushingFumbles:     m.Fumbles,
			RushingFumblesLost: m.FumblesLost,

			Receptions:           m.Receptions,
			ReceivingTargets:     m.ReceivingTargets,
			ReceivingYards:       m.ReceivingYards,
			ReceivingTouchdowns:  m.ReceivingTouchdowns,
			ReceivingTwoPoints:   m.ReceivingTwoPoints,
			ReceivingFumbles:     m.ReceivingFumbles,
			ReceivingFumblesLost: m.ReceivingFumblesLost,

			FieldGoalsMade:       m.FieldGoalsMade,
			FieldGoalsAttempted:  m.FieldGoalsAttempted,
			FieldGoals0to19:      m.FieldGoals0to19,
			FieldGoals20to29:     m.FieldGoals20to29,
			FieldGoals30to39:     m.FieldGoals30to39,
			FieldGoals40to49:     m.FieldGoals40to49,
			FieldGoals50Plus:     m.FieldGoals50Plus,
			ExtraPointsMade:      m.ExtraPointsMade,
			ExtraPointsAttempted: m.ExtraPointsAttempted,

			DefenseSacks:            m.DefSacks,
			DefenseInterceptions:    m.DefInterceptions,
			DefenseFumblesRecovered: m.DefFumblesRecovered,
			DefenseFumblesForced:    m.DefFumblesForced,
			DefenseSafeties:         m.DefSafeties,
			DefenseTouchdowns:       m.DefTouchdowns,
			DefenseBlockedKicks:     m.DefBlockedKicks,
			DefensePointsAllowed:    m.DefPointsAllowed,
			DefenseYardsAllowed:     m.DefYardsAllowed,

			ReturnTouchdowns: m.ReturnTouchdowns,
		},
		FantasyPointsStandard: m.FantasyPointsStandard,
		FantasyPointsPPR:      m.FantasyPointsPPR,
		FantasyPointsHalfPPR:  m.FantasyPointsHalfPPR,
	}
}
