package sleeper

// nflStatePayload mirrors GET /v1/state/nfl. Season fields arrive as strings.
type nflStatePayload struct {
	Week        int    `json:"week"`
	DisplayWeek int    `json:"display_week"`
	SeasonType  string `json:"season_type"`
	Season      string `json:"season"`
	LeagueSeason string `json:"league_season"`
}

// directoryEntry is one value of the GET /v1/players/nfl map. The dump has
// far more fields; only the persisted attributes are decoded.
type directoryEntry struct {
	PlayerID     string `json:"player_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
	Team         string `json:"team"`
	Number       int    `json:"number"`
	Status       string `json:"status"`
	InjuryStatus string `json:"injury_status"`
	InjuryNotes  string `json:"injury_notes"`
	YearsExp     int    `json:"years_exp"`
	College      string `json:"college"`
	Height       string `json:"height"`
	Weight       string `json:"weight"`
}

// weekStatEntry is one row of GET /stats/nfl/{season}/{week}. Stat values
// are numeric in practice but typed loosely upstream, so they are coerced
// one by one.
type weekStatEntry struct {
	PlayerID string         `json:"player_id"`
	Stats    map[string]any `json:"stats"`
}
