package storage

import (
	"context"
	"log"
	"time"

	"github.com/bronald/uhcd/internal/domain"
)

// MatchLog records session events into the match history tables. It tracks
// the row id of the in-flight match so eliminations land on the right row.
// Recording failures are logged and swallowed; history must never interfere
// with a running match.
type MatchLog struct {
	store   *Store
	matchID int64
}

// NewMatchLog creates a MatchLog writing through the given store
func NewMatchLog(store *Store) *MatchLog {
	return &MatchLog{store: store}
}

// HandleEvent records the events that belong in match history and ignores
// the rest
func (m *MatchLog) HandleEvent(ev domain.Event) {
	ctx := context.Background()

	switch ev.Type {
	case domain.EventMatchStart:
		data, ok := ev.Data.(domain.MatchStartEvent)
		if !ok {
			return
		}
		id, err := m.store.CreateMatch(ctx, data.UUID, ev.Timestamp)
		if err != nil {
			log.Printf("Failed to record match start: %v", err)
			return
		}
		m.matchID = id
		if err := m.store.AddParticipants(ctx, id, rosterFromStart(data)); err != nil {
			log.Printf("Failed to record match roster: %v", err)
		}

	case domain.EventElimination:
		if m.matchID == 0 {
			return
		}
		data, ok := ev.Data.(domain.EliminationEvent)
		if !ok {
			return
		}
		if err := m.store.RecordElimination(ctx, m.matchID, data.Name, data.ElapsedSeconds, ev.Timestamp); err != nil {
			log.Printf("Failed to record elimination of %s: %v", data.Name, err)
		}

	case domain.EventMatchEnd:
		if m.matchID == 0 {
			return
		}
		data, ok := ev.Data.(domain.MatchEndEvent)
		if !ok {
			return
		}
		var winnerTeam, winnerColour string
		if data.Winner != nil {
			winnerTeam = data.Winner.Name
			winnerColour = data.Winner.Colour
		}
		if err := m.store.EndMatch(ctx, m.matchID, ev.Timestamp, data.Outcome, winnerTeam, winnerColour, data.LastEliminated); err != nil {
			log.Printf("Failed to record match end: %v", err)
		}
		m.matchID = 0
	}
}

// Abandon closes out an in-flight match that the process is shutting down
// under, so history never holds a match with no outcome
func (m *MatchLog) Abandon(now time.Time) {
	if m.matchID == 0 {
		return
	}
	if err := m.store.EndMatch(context.Background(), m.matchID, now, domain.OutcomeAbandoned, "", "", ""); err != nil {
		log.Printf("Failed to mark match abandoned: %v", err)
	}
	m.matchID = 0
}

// rosterFromStart flattens the start-event roster: team members carry their
// team, everyone else on the participant list was spectating
func rosterFromStart(data domain.MatchStartEvent) []domain.MatchParticipant {
	byName := make(map[string]*domain.MatchParticipant, len(data.Participants))
	var roster []domain.MatchParticipant
	for _, name := range data.Participants {
		roster = append(roster, domain.MatchParticipant{Name: name, Spectator: true})
	}
	for i := range roster {
		byName[roster[i].Name] = &roster[i]
	}
	for _, team := range data.Teams {
		for _, member := range team.Members {
			p, ok := byName[member]
			if !ok {
				continue
			}
			id := team.ID
			p.TeamID = &id
			p.TeamName = team.Name
			p.Spectator = false
		}
	}
	return roster
}
