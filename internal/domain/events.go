package domain

import "time"

// Event types for WebSocket notifications and match history recording
const (
	EventPlayerJoin   = "player_join"
	EventPlayerLeave  = "player_leave"
	EventTeamsFormed  = "teams_formed"
	EventMatchStart   = "match_start"
	EventMatchEnd     = "match_end"
	EventElimination  = "elimination"
	EventTeamOut      = "team_eliminated"
	EventMinuteMarker = "minute_marker"
	EventBorderShrink = "border_shrink"
	EventStatus       = "status"
)

// Event represents a real-time session event for broadcast and recording
type Event struct {
	Type      string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// TeamSummary describes a team and its current members
type TeamSummary struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Colour  string   `json:"colour"`
	Members []string `json:"members"`
}

// PlayerJoinEvent is sent when a participant connects
type PlayerJoinEvent struct {
	Name      string `json:"name"`
	Rejoined  bool   `json:"rejoined"`
	Spectator bool   `json:"spectator"`
}

// PlayerLeaveEvent is sent when a participant disconnects
type PlayerLeaveEvent struct {
	Name string `json:"name"`
}

// TeamsFormedEvent is sent after a successful team formation
type TeamsFormedEvent struct {
	Teams []TeamSummary `json:"teams"`
}

// MatchStartEvent is sent when the match goes live
type MatchStartEvent struct {
	UUID         string        `json:"uuid"`
	Teams        []TeamSummary `json:"teams"`
	Participants []string      `json:"participants"`
}

// MatchEndEvent is sent when the match concludes
type MatchEndEvent struct {
	UUID           string       `json:"uuid"`
	Outcome        string       `json:"outcome"`
	Winner         *TeamSummary `json:"winner,omitempty"`
	LastEliminated string       `json:"last_eliminated,omitempty"`
}

// EliminationEvent is sent when a participant is permanently removed from play
type EliminationEvent struct {
	Name           string `json:"name"`
	TeamID         *int   `json:"team_id,omitempty"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
}

// TeamOutEvent is sent when a team loses its last surviving member
type TeamOutEvent struct {
	Team TeamSummary `json:"team"`
}

// MinuteMarkerEvent is sent each time the repeating minute marker fires
type MinuteMarkerEvent struct {
	Minutes int `json:"minutes"`
}

// BorderShrinkEvent is sent when the border shrink one-shot fires
type BorderShrinkEvent struct {
	FinishWidth     int `json:"finish_width"`
	DurationSeconds int `json:"duration_seconds"`
}

// SessionStatus is a point-in-time snapshot of the whole session, published
// on every scheduler tick for the HTTP status endpoint
type SessionStatus struct {
	State          string        `json:"state"`
	MatchUUID      string        `json:"match_uuid,omitempty"`
	StartedAt      *time.Time    `json:"started_at,omitempty"`
	ElapsedMinutes int           `json:"elapsed_minutes"`
	Participants   []Participant `json:"participants"`
	Teams          []TeamSummary `json:"teams"`
}
