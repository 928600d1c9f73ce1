package sleeper

import (
	"strconv"
	"strings"

	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
	"github.com/cadence-fantasy/cadence-api/internal/domain/playerstats"
	"github.com/cadence-fantasy/cadence-api/internal/usecase"
)

// MapStatus folds the provider's roster status and injury designation into
// one availability value. It is total: any unrecognized input degrades to a
// sensible bucket instead of an error. An injury designation wins over the
// roster status; only the literal out/doubtful/questionable designations keep
// their own bucket, everything else on the injury report is "injured".
// Without a designation, any roster status other than "Active" is "injured".
func MapStatus(status, injuryStatus string) player.Status {
	switch strings.ToLower(strings.TrimSpace(injuryStatus)) {
	case "":
		// fall through to the roster status
	case "out":
		return player.StatusOut
	case "doubtful":
		return player.StatusDoubtful
	case "questionable":
		return player.StatusQuestionable
	default:
		return player.StatusInjured
	}

	if strings.TrimSpace(status) == "Active" {
		return player.StatusActive
	}
	return player.StatusInjured
}

func mapDirectoryEntry(sleeperID string, entry directoryEntry) usecase.ExternalPlayerRecord {
	id := strings.TrimSpace(entry.PlayerID)
	if id == "" {
		id = strings.TrimSpace(sleeperID)
	}

	weight, _ := strconv.Atoi(strings.TrimSpace(entry.Weight))

	return usecase.ExternalPlayerRecord{
		SleeperID:         id,
		FirstName:         strings.TrimSpace(entry.FirstName),
		LastName:          strings.TrimSpace(entry.LastName),
		Position:          player.Position(strings.ToUpper(strings.TrimSpace(entry.Position))),
		Team:              strings.TrimSpace(entry.Team),
		JerseyNumber:      entry.Number,
		Status:            MapStatus(entry.Status, entry.InjuryStatus),
		InjuryDescription: strings.TrimSpace(entry.InjuryNotes),
		YearsExp:          entry.YearsExp,
		College:           strings.TrimSpace(entry.College),
		Height:            strings.TrimSpace(entry.Height),
		Weight:            weight,
	}
}

// statLineFromRaw lifts a provider stat blob into a typed line. Every field
// runs through the same numeric coercion and defaults to zero when absent;
// punt and kick return scores fold into one return-touchdowns total.
func statLineFromRaw(raw map[string]any) playerstats.StatLine {
	n := func(key string) float64 { return coerceFloat(raw[key]) }

	return playerstats.StatLine{
		PassingAttempts:      n("pass_att"),
		PassingCompletions:   n("pass_cmp"),
		PassingYards:         n("pass_yd"),
		PassingTouchdowns:    n("pass_td"),
		PassingInterceptions: n("pass_int"),
		PassingTwoPoints:     n("pass_2pt"),

		RushingAttempts:    n("rush_att"),
		RushingYards:       n("rush_yd"),
		RushingTouchdowns:  n("rush_td"),
		RushingTwoPoints:   n("rush_2pt"),
		RushingFumbles:     n("fum"),
		RushingFumblesLost: n("fum_lost"),

		Receptions:           n("rec"),
		ReceivingTargets:     n("rec_tgt"),
		ReceivingYards:       n("rec_yd"),
		ReceivingTouchdowns:  n("rec_td"),
		ReceivingTwoPoints:   n("rec_2pt"),
		ReceivingFumbles:     n("rec_fum"),
		ReceivingFumblesLost: n("rec_fum_lost"),

		FieldGoalsMade:       n("fgm"),
		FieldGoalsAttempted:  n("fga"),
		FieldGoals0to19:      n("fgm_0_19"),
		FieldGoals20to29:     n("fgm_20_29"),
		FieldGoals30to39:     n("fgm_30_39"),
		FieldGoals40to49:     n("fgm_40_49"),
		FieldGoals50Plus:     n("fgm_50p"),
		ExtraPointsMade:      n("xpm"),
		ExtraPointsAttempted: n("xpa"),

		DefenseSacks:            n("sack"),
		DefenseInterceptions:    n("int"),
		DefenseFumblesRecovered: n("fum_rec"),
		DefenseFumblesForced:    n("ff"),
		DefenseSafeties:         n("safe"),
		DefenseTouchdowns:       n("def_td"),
		DefenseBlockedKicks:     n("blk_kick"),
		DefensePointsAllowed:    n("pts_allow"),
		DefenseYardsAllowed:     n("yds_allow"),

		ReturnTouchdowns: n("pr_td") + n("kr_td"),
	}
}

func coerceFloat(value any) float64 {
	switch typed := value.(type) {
	case nil:
		return 0
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
