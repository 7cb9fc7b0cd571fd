package game

import (
	"log"
	"time"

	"github.com/bronald/uhcd/internal/domain"
)

// OnConnect handles a player appearing on the server. First-time names get
// a welcome; names joining a live match for the first time are immediately
// eliminated (late joiners cannot enter as survivors); returning players
// within the disconnect grace window resume without penalty, while those
// whose grace elapsed are eliminated before being marked present.
func (s *Session) OnConnect(name string) {
	p, known := s.participants[name]
	if !known {
		p = &domain.Participant{Name: name, Spectator: s.spectators[name]}
		s.participants[name] = p
		s.announceGold(name, "Welcome, "+name+". For UHC command help, say !help in chat.")
		if s.state == StateLive && !p.Spectator {
			p.Eliminated = true
			s.apply("scoreboard players set " + name + " dead 1")
			s.announceGold(name, "The game is already in progress; you are spectating this one")
		}
		p.Connected = true
		s.emit(domain.EventPlayerJoin, domain.PlayerJoinEvent{Name: name, Spectator: p.Spectator})
		return
	}

	if s.state == StateLive && p.DisconnectedAt != nil {
		if s.Clock().Sub(*p.DisconnectedAt) > s.graceDuration() {
			// Too late; elimination also clears the pending entry
			s.Eliminate(name)
		} else {
			p.DisconnectedAt = nil
		}
	} else {
		p.DisconnectedAt = nil
	}
	p.Connected = true
	s.emit(domain.EventPlayerJoin, domain.PlayerJoinEvent{Name: name, Rejoined: true, Spectator: p.Spectator})
}

// OnDisconnect records a pending disconnect for known, non-spectator
// participants. Spectator disconnects carry no penalty and unknown names
// are ignored.
func (s *Session) OnDisconnect(name string) {
	p, known := s.participants[name]
	if !known {
		return
	}
	p.Connected = false
	if !p.Spectator && !p.Eliminated && s.state == StateLive {
		t := s.Clock()
		p.DisconnectedAt = &t
	}
	s.emit(domain.EventPlayerLeave, domain.PlayerLeaveEvent{Name: name})
}

// OnRosterSnapshot reconciles a full roster answer from a "list" query.
// Unknown names are treated as fresh connects; this recovers from missed
// connect events. Unsolicited snapshots are ignored, since bare name lists
// are indistinguishable from ordinary console chatter.
func (s *Session) OnRosterSnapshot(names []string) {
	if !s.awaitingRoster {
		return
	}
	s.awaitingRoster = false
	for _, name := range names {
		if _, known := s.participants[name]; !known {
			s.OnConnect(name)
		} else {
			s.participants[name].Connected = true
		}
	}
	log.Printf("Roster refreshed: %d players detected", len(names))
}

// sweepDisconnected eliminates every participant whose pending disconnect
// is older than the grace period and clears the pending entry. Invoked once
// per scheduler tick; sweeping an already-cleared entry is a no-op.
func (s *Session) sweepDisconnected(now time.Time) {
	grace := s.graceDuration()
	for _, p := range s.participants {
		if p.DisconnectedAt == nil || p.Eliminated {
			continue
		}
		if now.Sub(*p.DisconnectedAt) > grace {
			p.DisconnectedAt = nil
			log.Printf("%s did not reconnect within the grace period", p.Name)
			s.Eliminate(p.Name)
		}
	}
}

func (s *Session) graceDuration() time.Duration {
	return time.Duration(s.cfg.Game.DisconnectGraceSecs) * time.Second
}
