package sleeper

import (
	"testing"

	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
)

func TestMapStatus_Totality(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status string
		injury string
		want   player.Status
	}{
		{"Active", "", player.StatusActive},
		{"Active", "Questionable", player.StatusQuestionable},
		{"Active", "Doubtful", player.StatusDoubtful},
		{"Active", "Out", player.StatusOut},
		{"Active", "IR", player.StatusInjured},
		{"Active", "Sus", player.StatusInjured},
		{"Active", "COV", player.StatusInjured},
		{"Active", "DNR", player.StatusInjured},
		{"Injured Reserve", "", player.StatusInjured},
		{"Physically Unable to Perform", "", player.StatusInjured},
		{"Inactive", "", player.StatusInjured},
		{"", "", player.StatusInjured},
		{"Voluntary Opt Out", "", player.StatusInjured},
		{"something brand new", "also new", player.StatusInjured},
	}

	for _, tc := range cases {
		if got := MapStatus(tc.status, tc.injury); got != tc.want {
			t.Fatalf("MapStatus(%q, %q) = %q, want %q", tc.status, tc.injury, got, tc.want)
		}
	}
}

func TestStatLineFromRaw_DefaultsToZero(t *testing.T) {
	t.Parallel()

	line := statLineFromRaw(map[string]any{})
	if line.PassingYards != 0 || line.Receptions != 0 || line.DefenseSacks != 0 {
		t.Fatalf("expected all-zero line, got %+v", line)
	}
}

func TestStatLineFromRaw_CoercesMixedTypes(t *testing.T) {
	t.Parallel()

	line := statLineFromRaw(map[string]any{
		"pass_yd":  312.0,
		"pass_td":  2,
		"rush_yd":  "45",
		"rec":      int64(6),
		"fum_lost": "not-a-number",
	})

	if line.PassingYards != 312 {
		t.Fatalf("unexpected passing yards: %v", line.PassingYards)
	}
	if line.PassingTouchdowns != 2 {
		t.Fatalf("unexpected passing tds: %v", line.PassingTouchdowns)
	}
	if line.RushingYards != 45 {
		t.Fatalf("unexpected rushing yards: %v", line.RushingYards)
	}
	if line.Receptions != 6 {
		t.Fatalf("unexpected receptions: %v", line.Receptions)
	}
	if line.RushingFumblesLost != 0 {
		t.Fatalf("garbage input must coerce to zero, got %v", line.RushingFumblesLost)
	}
}

func TestStatLineFromRaw_SumsReturnTouchdowns(t *testing.T) {
	t.Parallel()

	line := statLineFromRaw(map[string]any{
		"pr_td": 1.0,
		"kr_td": 2.0,
	})
	if line.ReturnTouchdowns != 3 {
		t.Fatalf("expected 3 return touchdowns, got %v", line.ReturnTouchdowns)
	}
}

func TestMapDirectoryEntry_FallsBackToMapKey(t *testing.T) {
	t.Parallel()

	rec := mapDirectoryEntry("4881", directoryEntry{
		FirstName: "Lamar",
		LastName:  "Jackson",
		Position:  "qb",
		Team:      "BAL",
		Weight:    "212",
	})

	if rec.SleeperID != "4881" {
		t.Fatalf("expected map key as fallback id, got %q", rec.SleeperID)
	}
	if rec.Position != player.PositionQuarterback {
		t.Fatalf("position must be uppercased, got %q", rec.Position)
	}
	if rec.Weight != 212 {
		t.Fatalf("unexpected weight: %d", rec.Weight)
	}
}
