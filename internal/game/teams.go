package game

import (
	"fmt"
	"sort"

	"github.com/bronald/uhcd/internal/domain"
)

// FormTeams destroys any previous teams and deals every connected,
// non-spectating participant into fresh ones. The number of teams is
// ceil(pool/teamSize) capped at the colour-space maximum of 15; players are
// shuffled and dealt round-robin so team sizes differ by at most one. Team
// names are drawn without replacement from the configured pool. Failure
// conditions (empty pool, name pool too small) are reported to everyone and
// leave no teams behind.
func (s *Session) FormTeams() {
	s.destroyTeams()

	pool := s.eligiblePool()
	if len(pool) == 0 {
		s.announceAllGold("Cannot assign teams, because everybody is spectating")
		return
	}

	teamSize := s.cfg.Game.TeamSize
	if teamSize < 1 {
		teamSize = 1
	}
	numberOfTeams := (len(pool) + teamSize - 1) / teamSize
	if numberOfTeams > domain.MaxTeams {
		numberOfTeams = domain.MaxTeams
	}

	names := append([]string(nil), s.cfg.Game.TeamNames...)
	if len(names) < numberOfTeams {
		s.announceAllGold(fmt.Sprintf(
			"Cannot assign teams: %d team names configured but %d teams are needed",
			len(names), numberOfTeams))
		return
	}
	s.rand.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})

	for id := 0; id < numberOfTeams; id++ {
		team := &domain.Team{ID: id, Name: names[id]}
		s.teams[id] = team
		s.apply(fmt.Sprintf("scoreboard teams add %d %s", id, team.Name))
		s.apply(fmt.Sprintf("scoreboard teams option %d color %s", id, team.Colour()))
		s.apply(fmt.Sprintf("scoreboard teams option %d nametagVisibility hideForOtherTeams", id))
	}

	// Random round-robin deal: shuffled pool, cyclic assignment
	s.rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	for i, p := range pool {
		id := i % numberOfTeams
		p.TeamID = &id
		s.apply(fmt.Sprintf("scoreboard teams join %d %s", id, p.Name))
	}

	s.showTeams()
	s.emit(domain.EventTeamsFormed, domain.TeamsFormedEvent{Teams: s.teamSummaries()})
}

// SwapMembers exchanges the team assignments of two participants. Both must
// currently be on teams; otherwise nothing changes and the caller is told.
func (s *Session) SwapMembers(issuer, name1, name2 string) {
	p1, ok1 := s.participants[name1]
	p2, ok2 := s.participants[name2]
	if !ok1 || !ok2 || p1.TeamID == nil || p2.TeamID == nil {
		s.announceGold(issuer, "Both players must already be on teams to swap them")
		return
	}
	p1.TeamID, p2.TeamID = p2.TeamID, p1.TeamID
	s.apply("scoreboard teams leave " + name1)
	s.apply("scoreboard teams leave " + name2)
	s.apply(fmt.Sprintf("scoreboard teams join %d %s", *p1.TeamID, name1))
	s.apply(fmt.Sprintf("scoreboard teams join %d %s", *p2.TeamID, name2))
	s.announceGold(issuer, "Swapped "+name1+" and "+name2)
}

// DescribeTeam tells a participant their team, its colour and its members,
// or that they have not been assigned yet.
func (s *Session) DescribeTeam(name string) {
	p, known := s.participants[name]
	if !known || p.TeamID == nil {
		s.announceGold(name, "You have not yet been assigned to a team")
		return
	}
	team := s.teams[*p.TeamID]
	if team == nil {
		s.announceGold(name, "You have not yet been assigned to a team")
		return
	}
	s.announce(name, component("Your team is "+team.Name, team.Colour()))
	s.announce(name, fmt.Sprintf(
		`{"text":"Your team members are ","color":"gold"},{"selector":"@a[team=%d]"}`, team.ID))
}

// showTeams announces each team's name and members to its own players
func (s *Session) showTeams() {
	ids := make([]int, 0, len(s.teams))
	for id := range s.teams {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		team := s.teams[id]
		target := fmt.Sprintf("@a[team=%d]", id)
		s.announce(target, component("Your team is "+team.Name, team.Colour()))
		s.announce(target, fmt.Sprintf(
			`{"text":"Your team members are ","color":"gold"},{"selector":"@a[team=%d]"}`, id))
	}
}

// destroyTeams removes every scoreboard team and clears all assignments.
// Formation is a full reset, never incremental.
func (s *Session) destroyTeams() {
	for id := 0; id < domain.MaxTeams; id++ {
		s.apply(fmt.Sprintf("scoreboard teams remove %d", id))
	}
	for _, p := range s.participants {
		p.TeamID = nil
	}
	s.teams = make(map[int]*domain.Team)
}

// eligiblePool returns connected, non-spectating participants sorted by
// name for a deterministic pre-shuffle order
func (s *Session) eligiblePool() []*domain.Participant {
	var pool []*domain.Participant
	for _, p := range s.participants {
		if p.Connected && !p.Spectator {
			pool = append(pool, p)
		}
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].Name < pool[j].Name })
	return pool
}
