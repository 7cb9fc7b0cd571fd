package game

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// handleCommand routes a player chat command. Commands are case
// insensitive. The first block is available to everyone; the rest only to
// configured operators. Unknown verbs are ignored without comment, since
// the command namespace is open and stray words are just chat.
func (s *Session) handleCommand(name, verb, args string) {
	switch strings.ToLower(verb) {
	case "help":
		s.showHelp(name)
	case "utc":
		s.announceGold(name, "Current UTC time: "+s.Clock().UTC().Format("15:04 (Monday)"))
	case "time":
		if minutes, live := s.ElapsedMinutes(); live {
			s.announceGold(name, fmt.Sprintf("Elapsed time: %d minutes", minutes))
		} else {
			s.announceGold(name, "Game has not started yet")
		}
	case "team":
		s.DescribeTeam(name)
	case "border":
		if args != "" && s.isOp(name) {
			s.configureBorder(name, args)
			return
		}
		s.awaitingBorder[name] = true
		s.query("worldborder get")
	case "buildlobby":
		s.requireOp(name, s.cmdBuildLobby)
	case "destroylobby":
		s.requireOp(name, s.cmdDestroyLobby)
	case "x":
		s.requireOp(name, func(name string) { s.cmdCentre(name, "X", args) })
	case "z":
		s.requireOp(name, func(name string) { s.cmdCentre(name, "Z", args) })
	case "minutes":
		s.requireOp(name, func(name string) {
			if n, err := strconv.Atoi(args); err == nil && n > 0 {
				s.cfg.Game.MinuteMarker = n
			}
			s.announceGold(name, fmt.Sprintf("Minute marker set to every %d minutes", s.cfg.Game.MinuteMarker))
		})
	case "revealnames":
		s.requireOp(name, func(name string) {
			if n, err := strconv.Atoi(args); err == nil && n >= 0 {
				s.cfg.Game.RevealNames = n
			}
			s.announceGold(name, fmt.Sprintf("Enemy name tags visible after %d minutes", s.cfg.Game.RevealNames))
		})
	case "teamsize":
		s.requireOp(name, func(name string) {
			if n, err := strconv.Atoi(args); err == nil && n > 0 {
				s.cfg.Game.TeamSize = n
			}
			s.announceGold(name, fmt.Sprintf("Team size is set to %d players", s.cfg.Game.TeamSize))
		})
	case "eternal":
		s.requireOp(name, func(name string) { s.cmdEternal(name, args) })
	case "save":
		s.requireOp(name, s.cmdSave)
	case "begin":
		s.requireOp(name, func(name string) { s.Begin(name) })
	case "teamup":
		s.requireOp(name, func(name string) {
			if s.state == StateLive {
				s.announceGold(name, "Teams cannot be reformed while the game is running")
				return
			}
			s.FormTeams()
		})
	case "teamswap":
		s.requireOp(name, func(name string) {
			fields := strings.Fields(args)
			if len(fields) != 2 {
				s.announceGold(name, "!teamswap player1 player2")
				return
			}
			s.SwapMembers(name, fields[0], fields[1])
		})
	case "spectate":
		s.requireOp(name, func(name string) { s.cmdSpectate(name, args) })
	case "refreshplayers":
		s.requireOp(name, func(name string) {
			s.awaitingRoster = true
			s.query("list")
		})
	case "op":
		s.requireOp(name, func(name string) {
			s.apply("op " + name)
		})
	}
}

// requireOp runs fn only for configured operators; everyone else is
// silently ignored, exactly like an unknown verb
func (s *Session) requireOp(name string, fn func(string)) {
	if !s.isOp(name) {
		return
	}
	fn(name)
}

func (s *Session) cmdBuildLobby(name string) {
	if s.state == StateLive {
		s.announceGold(name, "Cannot rebuild the lobby while the game is running")
		return
	}
	g := s.cfg.Game
	for _, cmd := range prepareWorldCommands(g.CentreX, g.CentreZ) {
		s.apply(cmd)
	}
	s.startedAt = nil
	s.matchUUID = ""
	for _, cmd := range buildLobbyCommands(g.CentreX, g.CentreZ) {
		s.apply(cmd)
	}
	s.announceAllGold("Welcome to the Ultra Hardcore lobby")
	s.state = StateLobbyOpen
}

func (s *Session) cmdDestroyLobby(name string) {
	if s.state == StateLive {
		s.announceGold(name, "The lobby is already gone; the game is running")
		return
	}
	for _, cmd := range destroyLobbyCommands(s.cfg.Game.CentreX, s.cfg.Game.CentreZ) {
		s.apply(cmd)
	}
	if s.state == StateLobbyOpen {
		s.state = StateIdle
	}
}

// cmdCentre sets or reports one map centre coordinate
func (s *Session) cmdCentre(name, axis, args string) {
	n, err := strconv.Atoi(args)
	if err != nil {
		current := s.cfg.Game.CentreX
		if axis == "Z" {
			current = s.cfg.Game.CentreZ
		}
		s.announceGold(name, fmt.Sprintf("Centre %s is currently %d", axis, current))
		return
	}
	if axis == "X" {
		s.cfg.Game.CentreX = n
	} else {
		s.cfg.Game.CentreZ = n
	}
	s.announceGold(name, fmt.Sprintf("%s set to %d", axis, n))
	s.apply(fmt.Sprintf("worldborder center %d %d", s.cfg.Game.CentreX, s.cfg.Game.CentreZ))
}

// cmdEternal sets or reports the permanent day/night cutover
func (s *Session) cmdEternal(name, args string) {
	fields := strings.Fields(args)
	var sub, subArg string
	if len(fields) > 0 {
		sub = fields[0]
	}
	if len(fields) > 1 {
		subArg = fields[1]
	}

	switch sub {
	case "day", "night", "off":
		s.cfg.Game.Eternal.Mode = sub
		s.announceGold(name, "Sun stops at permanent state: "+capitalize(sub))
		if n, err := strconv.Atoi(subArg); err == nil {
			s.cfg.Game.Eternal.TimeBegin = n
		}
		s.announceGold(name, fmt.Sprintf("This takes place after %d minutes", s.cfg.Game.Eternal.TimeBegin))
	default:
		if n, err := strconv.Atoi(sub); err == nil {
			s.cfg.Game.Eternal.TimeBegin = n
		}
		s.announceGold(name, "Sun stops at permanent state: "+capitalize(s.cfg.Game.Eternal.Mode))
		s.announceGold(name, fmt.Sprintf("This takes place after %d minutes", s.cfg.Game.Eternal.TimeBegin))
	}
}

// configureBorder mutates one world border field. Reconfiguring after the
// match has gone live is refused; the current values are always reported.
func (s *Session) configureBorder(name, args string) {
	if s.state == StateLive || s.state == StateConcluded {
		s.announceGold(name, "The world border cannot be reconfigured after the game has begun")
		return
	}
	fields := strings.Fields(args)
	if len(fields) == 2 {
		if n, err := strconv.Atoi(fields[1]); err == nil {
			wb := &s.cfg.Game.WorldBorder
			switch fields[0] {
			case "start":
				wb.Start = n
			case "finish":
				wb.Finish = n
			case "timebegin":
				wb.TimeBegin = n
			case "duration":
				if n >= 0 {
					wb.Duration = n
				} else {
					s.announceGold(name, "Duration must not be negative")
				}
			default:
				s.announceGold(name, "!border <start|finish|timebegin|duration> <blocks or minutes>")
			}
		}
	}
	wb := s.cfg.Game.WorldBorder
	s.announceGold(name, fmt.Sprintf("World border starting width (start): %d", wb.Start))
	s.announceGold(name, fmt.Sprintf("World border final width (finish): %d", wb.Finish))
	s.announceGold(name, fmt.Sprintf("Minutes until border moves (timebegin): %d", wb.TimeBegin))
	s.announceGold(name, fmt.Sprintf("Time taken in minutes to shrink (duration): %d", wb.Duration))
}

// cmdSpectate toggles spectator status for each listed name and reports the
// current spectator list
func (s *Session) cmdSpectate(name, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		s.announceGold(name, "Toggle spectators by providing their names (case sensitive)")
	}
	for _, target := range fields {
		nowSpectating := !s.spectators[target]
		s.spectators[target] = nowSpectating
		if !nowSpectating {
			delete(s.spectators, target)
		}
		if p, known := s.participants[target]; known {
			p.Spectator = nowSpectating
			if nowSpectating {
				p.DisconnectedAt = nil
			}
		}
		if s.state == StateLive {
			if nowSpectating {
				s.apply("scoreboard players set " + target + " spectating 1")
				s.apply("gamemode 3 " + target)
			} else {
				s.apply("scoreboard players set " + target + " spectating 0")
			}
		}
	}
	s.announceGold(name, "Spectators: "+joinNames(s.spectatorNames()))
}

func (s *Session) cmdSave(name string) {
	if err := s.cfg.Save(); err != nil {
		s.announceGold(name, "Could not save configuration: "+err.Error())
		return
	}
	s.announceGold(name, "Configuration saved to "+s.cfg.Path())
}

func (s *Session) showHelp(name string) {
	s.announce(name, `{"text":"========== ","color":"gold"},{"text":"[","color":"yellow"},{"text":"UHC Help","color":"dark_red"},{"text":"]","color":"yellow"},{"text":" ==========","color":"gold"}`)
	s.helpLine(name, "!help", "Show this help")
	s.helpLine(name, "!utc", "Show current time (UTC)")
	s.helpLine(name, "!time", "Show elapsed game time")
	s.helpLine(name, "!team", "Show your team information")
	s.helpLine(name, "!border", "Show the world border width")
	if !s.isOp(name) {
		return
	}
	s.helpLine(name, "!border", "(admin) set start, finish, timebegin, duration")
	s.helpLine(name, "!buildlobby", "Build and initialise the lobby")
	s.helpLine(name, "!destroylobby", "Destroy and de-activate the lobby")
	s.helpLine(name, "!x", "Set X coordinate of map centre")
	s.helpLine(name, "!z", "Set Z coordinate of map centre")
	s.helpLine(name, "!save", "Save configuration")
	s.helpLine(name, "!minutes", "Set the time between minute markers")
	s.helpLine(name, "!teamsize", "Set number of players per team")
	s.helpLine(name, "!eternal", "Set eternal day/night/off (after minutes)")
	s.helpLine(name, "!revealnames", "Set delay before players can see enemy name tags")
	s.helpLine(name, "!spectate", "View or toggle spectators")
	s.helpLine(name, "!teamswap", "Swap two players between teams")
	s.helpLine(name, "!teamup", "Generate and assign teams")
	s.helpLine(name, "!refreshplayers", "Attempt to redetect players")
	s.helpLine(name, "!begin", "Start the game")
	s.helpLine(name, "!op", "Get op on server itself")
}

func (s *Session) helpLine(name, cmd, description string) {
	s.announce(name, fmt.Sprintf(
		`{"text":%q,"color":"white"},{"text":%q,"color":"gold"}`, cmd, " "+description))
}

// spectatorNames returns the sorted spectator list
func (s *Session) spectatorNames() []string {
	names := make([]string, 0, len(s.spectators))
	for name := range s.spectators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// joinNames renders "a, b and c"
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "(none)"
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
