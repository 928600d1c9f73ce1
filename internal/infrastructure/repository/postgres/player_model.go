package postgres

import (
	"database/sql"
	"time"

	"github.com/cadence-fantasy/cadence-api/internal/domain/player"
)

type playerTableModel struct {
	ID                int64          `db:"id"`
	SleeperID         sql.NullString `db:"sleeper_id"`
	FirstName         string         `db:"first_name"`
	LastName          string         `db:"last_name"`
	Position          string         `db:"position"`
	Team              string         `db:"team"`
	JerseyNumber      int            `db:"jersey_number"`
	Status            string         `db:"status"`
	InjuryDescription string         `db:"injury_description"`
	YearsExp          int            `db:"years_exp"`
	College           string         `db:"college"`
	Height            string         `db:"height"`
	Weight            int            `db:"weight"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

type playerInsertModel struct {
	SleeperID         string `db:"sleeper_id"`
	FirstName         string `db:"first_name"`
	LastName          string `db:"last_name"`
	Position          string `db:"position"`
	Team              string `db:"team"`
	JerseyNumber      int    `db:"jersey_number"`
	Status            string `db:"status"`
	InjuryDescription string `db:"injury_description"`
	YearsExp          int    `db:"years_exp"`
	College           string `db:"college"`
	Height            string `db:"height"`
	Weight            int    `db:"weight"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:                m.ID,
		SleeperID:         m.SleeperID.String,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Position:          player.Position(m.Position),
		Team:              m.Team,
		JerseyNumber:      m.JerseyNumber,
		Status:            player.Status(m.Status),
		InjuryDescription: m.InjuryDescription,
		YearsExp:          m.YearsExp,
		College:           m.College,
		Height:            m.Height,
		Weight:            m.Weight,
	}
}
