package domain

import "time"

// Match outcome constants
const (
	OutcomeWinner        = "winner"
	OutcomeAllEliminated = "all_eliminated"
	OutcomeAbandoned     = "abandoned"
)

// MatchRecord represents one recorded UHC match
type MatchRecord struct {
	ID             int64      `json:"id"`
	UUID           string     `json:"uuid"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	Outcome        string     `json:"outcome,omitempty"`
	WinnerTeam     string     `json:"winner_team,omitempty"`
	WinnerColour   string     `json:"winner_colour,omitempty"`
	LastEliminated string     `json:"last_eliminated,omitempty"`
}

// MatchParticipant represents a participant's entry in a recorded match
type MatchParticipant struct {
	Name      string `json:"name"`
	TeamID    *int   `json:"team_id,omitempty"`
	TeamName  string `json:"team_name,omitempty"`
	Spectator bool   `json:"spectator"`
}

// EliminationRecord represents one elimination within a recorded match
type EliminationRecord struct {
	Name           string    `json:"name"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	CreatedAt      time.Time `json:"created_at"`
}

// MatchSummary is a match with its participants and eliminations, as served
// by the API and the matches CLI command
type MatchSummary struct {
	MatchRecord
	Participants []MatchParticipant  `json:"participants"`
	Eliminations []EliminationRecord `json:"eliminations"`
}

// User represents an API user account
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}
