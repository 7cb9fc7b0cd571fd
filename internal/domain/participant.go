package domain

import (
	"regexp"
	"time"
)

// Participant is any named entity tracked by a session, player or spectator.
// Participants are created on first observed connect (or roster snapshot) and
// removed only by an administrative reset, never by disconnecting.
type Participant struct {
	Name           string     `json:"name"`
	Connected      bool       `json:"connected"`
	Spectator      bool       `json:"spectator"`
	TeamID         *int       `json:"team_id,omitempty"`
	DisconnectedAt *time.Time `json:"disconnected_at,omitempty"`
	Eliminated     bool       `json:"eliminated"`
}

// colourCodeRegex matches Minecraft § formatting codes like §a, §4, §r
var colourCodeRegex = regexp.MustCompile(`§.`)

// CleanName removes Minecraft formatting codes from a player name
func CleanName(name string) string {
	return colourCodeRegex.ReplaceAllString(name, "")
}
