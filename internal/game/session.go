package game

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/bronald/uhcd/internal/config"
	"github.com/bronald/uhcd/internal/domain"
	"github.com/google/uuid"
)

// Sink is the outbound boundary to the game server console. Announce takes
// a target selector and one or more raw JSON text components; Apply sends an
// opaque world-mutation command; Query sends a command whose answer arrives
// later on the inbound event stream.
type Sink interface {
	Announce(target, message string) error
	Apply(command string) error
	Query(command string) error
}

// State is the match lifecycle state
type State int

const (
	StateIdle State = iota
	StateLobbyOpen
	StateLive
	StateConcluded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLobbyOpen:
		return "lobby_open"
	case StateLive:
		return "live"
	case StateConcluded:
		return "concluded"
	}
	return "unknown"
}

// FlagKind identifies a one-shot scheduled transition
type FlagKind int

const (
	FlagNametagReveal FlagKind = iota
	FlagEternalCycle
	FlagBorderShrink
)

// ScheduledFlag is a one-shot scheduled transition. Each flag fires at most
// once per match; all flags reset to unfired when a match begins.
type ScheduledFlag struct {
	Kind  FlagKind
	Fired bool
}

// Session is the single owned aggregate for one UHC session: roster, teams,
// match state machine and scheduler state. All mutation happens from the
// control loop goroutine, so no locking is needed.
type Session struct {
	cfg  *config.Config
	sink Sink

	// Clock supplies the current time for event handling; tests replace it.
	Clock func() time.Time

	notify func(domain.Event)
	rand   *rand.Rand

	state        State
	matchUUID    string
	startedAt    *time.Time
	nextMarkerAt time.Time
	flags        []*ScheduledFlag

	participants map[string]*domain.Participant
	teams        map[int]*domain.Team
	spectators   map[string]bool // spectator toggles, may precede first connect

	awaitingBorder map[string]bool // names waiting on a "worldborder get" answer
	awaitingRoster bool            // a "list" query is outstanding

	lastEliminated string
	winner         *domain.Team
}

// NewSession creates a session in the Idle state. notify may be nil; when
// set it receives every session event (for broadcast and match recording).
func NewSession(cfg *config.Config, sink Sink, notify func(domain.Event)) *Session {
	s := &Session{
		cfg:            cfg,
		sink:           sink,
		notify:         notify,
		Clock:          time.Now,
		rand:           rand.New(rand.NewSource(time.Now().UnixNano())),
		state:          StateIdle,
		participants:   make(map[string]*domain.Participant),
		teams:          make(map[int]*domain.Team),
		spectators:     make(map[string]bool),
		awaitingBorder: make(map[string]bool),
		flags: []*ScheduledFlag{
			{Kind: FlagNametagReveal},
			{Kind: FlagEternalCycle},
			{Kind: FlagBorderShrink},
		},
	}
	// Operators spectate by default; they host rather than play
	for _, op := range cfg.Game.Ops {
		s.spectators[op] = true
	}
	return s
}

// State returns the current lifecycle state
func (s *Session) State() State {
	return s.state
}

// HandleEvent processes one classified console event
func (s *Session) HandleEvent(ev domain.ConsoleEvent) {
	switch ev.Type {
	case domain.ConsoleConnected:
		d := ev.Data.(domain.ConnectedData)
		s.OnConnect(d.Name)
	case domain.ConsoleDisconnected:
		d := ev.Data.(domain.DisconnectedData)
		s.OnDisconnect(d.Name)
	case domain.ConsoleChatCommand:
		d := ev.Data.(domain.ChatCommandData)
		s.handleCommand(d.Name, d.Verb, d.Args)
	case domain.ConsoleElimination:
		d := ev.Data.(domain.EliminationData)
		s.Eliminate(d.Name)
	case domain.ConsoleBorderWidth:
		d := ev.Data.(domain.BorderWidthData)
		s.onBorderReport(d.Width)
	case domain.ConsoleRosterSnapshot:
		d := ev.Data.(domain.RosterSnapshotData)
		s.OnRosterSnapshot(d.Names)
	}
}

// Begin transitions Idle/LobbyOpen to Live: resets the clock, the scheduled
// flags and the elimination set, then runs the world begin sequence.
// Precondition failures are reported to the issuer and leave state unchanged.
func (s *Session) Begin(issuer string) {
	switch s.state {
	case StateLive:
		s.announceGold(issuer, "The game is already running")
		return
	case StateConcluded:
		s.announceGold(issuer, "The game has concluded; build a new lobby first")
		return
	}
	if s.cfg.Game.WorldBorder.Duration < 0 {
		s.announceGold(issuer, "World border duration must not be negative")
		return
	}

	now := s.Clock()
	s.matchUUID = uuid.NewString()
	s.startedAt = &now
	s.state = StateLive
	s.winner = nil
	s.lastEliminated = ""
	for _, f := range s.flags {
		f.Fired = false
	}
	s.nextMarkerAt = now.Add(s.markerPeriod())

	var names []string
	for _, p := range s.participants {
		p.Eliminated = false
		if p.Connected || p.Spectator {
			p.DisconnectedAt = nil
		} else {
			// Absent at the starting gun: the grace window runs from now
			t := now
			p.DisconnectedAt = &t
		}
		names = append(names, p.Name)
	}
	sort.Strings(names)

	g := s.cfg.Game
	for _, cmd := range deathRoomCommands(g.CentreX, g.CentreZ) {
		s.apply(cmd)
	}
	for _, cmd := range destroyLobbyCommands(g.CentreX, g.CentreZ) {
		s.apply(cmd)
	}
	s.apply(fmt.Sprintf("worldborder set %d", g.WorldBorder.Start))
	s.apply("scoreboard players set @a spectating 0")
	for _, p := range s.participants {
		if p.Spectator && p.Connected {
			s.apply("scoreboard players set " + p.Name + " spectating 1")
		}
	}
	for _, cmd := range spreadCommands(g) {
		s.apply(cmd)
	}
	s.announce("@a", component("The game has begun!", "green"))
	log.Printf("Match %s began with %d participants", s.matchUUID, len(names))

	s.emit(domain.EventMatchStart, domain.MatchStartEvent{
		UUID:         s.matchUUID,
		Teams:        s.teamSummaries(),
		Participants: names,
	})
}

// Eliminate permanently removes a participant from contention. It is a
// no-op for already-eliminated names and after the match has concluded,
// guarding against duplicate death reports. The audible cue plays even for
// names without a team, but win evaluation only considers teamed players.
func (s *Session) Eliminate(name string) {
	if s.state == StateConcluded {
		return
	}
	p := s.participants[name]
	if p != nil && p.Eliminated {
		return
	}
	s.apply("execute @a ~ ~ ~ playsound minecraft:entity.lightning.impact ambient @a[c=1]")
	if p == nil {
		// The world may report deaths for entities we never registered
		return
	}

	p.Eliminated = true
	p.DisconnectedAt = nil
	teamID := p.TeamID
	p.TeamID = nil
	s.lastEliminated = name
	s.apply("scoreboard players set " + name + " dead 1")

	elapsed := 0
	if s.startedAt != nil {
		elapsed = int(s.Clock().Sub(*s.startedAt) / time.Second)
	}
	s.emit(domain.EventElimination, domain.EliminationEvent{
		Name:           name,
		TeamID:         teamID,
		ElapsedSeconds: elapsed,
	})

	if s.state != StateLive || teamID == nil {
		return
	}

	if s.teamSurvivors(*teamID) == 0 {
		if team, ok := s.teams[*teamID]; ok {
			s.announce("@a", component(team.Name+" have been eliminated", team.Colour()))
			s.emit(domain.EventTeamOut, domain.TeamOutEvent{Team: s.teamSummary(team)})
		}
	}

	surviving := s.survivingTeams()
	switch len(surviving) {
	case 1:
		s.conclude(s.teams[surviving[0]])
	case 0:
		s.conclude(nil)
	}
}

// conclude records the terminal outcome and runs the victory sequence
func (s *Session) conclude(winner *domain.Team) {
	s.state = StateConcluded
	s.winner = winner

	end := domain.MatchEndEvent{UUID: s.matchUUID, LastEliminated: s.lastEliminated}
	if winner != nil {
		end.Outcome = domain.OutcomeWinner
		summary := s.teamSummary(winner)
		end.Winner = &summary

		g := s.cfg.Game
		for _, cmd := range destroyLobbyCommands(g.CentreX, g.CentreZ) {
			s.apply(cmd)
		}
		s.apply("gamemode 3 @a[m=2]")
		s.apply(fmt.Sprintf(`title @a subtitle {"text":%s,"color":%q}`,
			strconv.Quote(winner.Name+" have won"), winner.Colour()))
		s.apply(`title @a title {"text":"Victorious!","color":"gold"}`)
		s.announce("@a", component(winner.Name+" have won UHC", winner.Colour()))
		s.apply(fmt.Sprintf(`tellraw @a [{"text":"Congratulations to ","color":"gold"},{"selector":"@a[team=%d]"}]`, winner.ID))
		log.Printf("Match %s won by %s", s.matchUUID, winner.Name)
	} else {
		end.Outcome = domain.OutcomeAllEliminated
		msg := "Everyone has been eliminated; there is no winner"
		if s.lastEliminated != "" {
			msg = "Everyone has been eliminated. Last to fall: " + s.lastEliminated
		}
		s.announceAllGold(msg)
		log.Printf("Match %s ended with no winner", s.matchUUID)
	}
	s.emit(domain.EventMatchEnd, end)
}

// ElapsedMinutes returns whole minutes since the match began. The second
// return is false while the match is not live.
func (s *Session) ElapsedMinutes() (int, bool) {
	if s.startedAt == nil {
		return 0, false
	}
	return int(s.Clock().Sub(*s.startedAt) / time.Minute), true
}

// onBorderReport routes a border width answer to everyone who asked
func (s *Session) onBorderReport(width int) {
	for name := range s.awaitingBorder {
		s.announceGold(name, fmt.Sprintf("World border is currently %d blocks wide", width))
	}
	s.awaitingBorder = make(map[string]bool)
}

// teamSurvivors counts non-eliminated members still assigned to a team
func (s *Session) teamSurvivors(teamID int) int {
	n := 0
	for _, p := range s.participants {
		if p.TeamID != nil && *p.TeamID == teamID && !p.Eliminated {
			n++
		}
	}
	return n
}

// survivingTeams returns the ids of teams that retain at least one
// non-eliminated member, sorted ascending
func (s *Session) survivingTeams() []int {
	alive := make(map[int]bool)
	for _, p := range s.participants {
		if p.TeamID != nil && !p.Eliminated {
			alive[*p.TeamID] = true
		}
	}
	ids := make([]int, 0, len(alive))
	for id := range alive {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// teamSummary describes a team with its current member list
func (s *Session) teamSummary(team *domain.Team) domain.TeamSummary {
	summary := domain.TeamSummary{ID: team.ID, Name: team.Name, Colour: team.Colour()}
	for _, p := range s.participants {
		if p.TeamID != nil && *p.TeamID == team.ID {
			summary.Members = append(summary.Members, p.Name)
		}
	}
	sort.Strings(summary.Members)
	return summary
}

// teamSummaries describes every current team, sorted by id
func (s *Session) teamSummaries() []domain.TeamSummary {
	ids := make([]int, 0, len(s.teams))
	for id := range s.teams {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	summaries := make([]domain.TeamSummary, 0, len(ids))
	for _, id := range ids {
		summaries = append(summaries, s.teamSummary(s.teams[id]))
	}
	return summaries
}

// Status builds a point-in-time snapshot of the session
func (s *Session) Status(now time.Time) domain.SessionStatus {
	status := domain.SessionStatus{
		State:     s.state.String(),
		MatchUUID: s.matchUUID,
		StartedAt: s.startedAt,
		Teams:     s.teamSummaries(),
	}
	if s.startedAt != nil {
		status.ElapsedMinutes = int(now.Sub(*s.startedAt) / time.Minute)
	}
	names := make([]string, 0, len(s.participants))
	for name := range s.participants {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		status.Participants = append(status.Participants, *s.participants[name])
	}
	return status
}

// isOp reports whether the name is on the configured operator list
func (s *Session) isOp(name string) bool {
	for _, op := range s.cfg.Game.Ops {
		if op == name {
			return true
		}
	}
	return false
}

func (s *Session) markerPeriod() time.Duration {
	return time.Duration(s.cfg.Game.MinuteMarker) * time.Minute
}

// emit publishes a session event to the notifier, if any
func (s *Session) emit(eventType string, data interface{}) {
	if s.notify == nil {
		return
	}
	s.notify(domain.Event{Type: eventType, Timestamp: s.Clock().UTC(), Data: data})
}

// apply sends a world mutation, fire and forget. A failed write loses at
// most that one action; internal state is never rolled back.
func (s *Session) apply(command string) {
	if err := s.sink.Apply(command); err != nil {
		log.Printf("Dropped console command: %v", err)
	}
}

func (s *Session) query(command string) {
	if err := s.sink.Query(command); err != nil {
		log.Printf("Dropped console query: %v", err)
	}
}

func (s *Session) announce(target, components string) {
	if err := s.sink.Announce(target, components); err != nil {
		log.Printf("Dropped announcement: %v", err)
	}
}

func (s *Session) announceGold(target, message string) {
	s.announce(target, component(message, "gold"))
}

func (s *Session) announceAllGold(message string) {
	s.announceGold("@a", message)
}

// component builds a single raw JSON text component
func component(text, colour string) string {
	return fmt.Sprintf(`{"text":%s,"color":%q}`, strconv.Quote(text), colour)
}
