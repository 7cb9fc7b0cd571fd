package console

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bronald/uhcd/internal/domain"
)

// Regular expressions for classifying server console lines
var (
	// Log prefix printed by the vanilla server: [10:58:23] [Server thread/INFO]:
	logPrefixRegex = regexp.MustCompile(`^>*\[\d{2}:\d{2}:\d{2}\] \[[^\]]+/(?:INFO|WARN)\]: `)

	// Player connecting: Name[/1.2.3.4:56789] logged in with entity id ...
	connectRegex = regexp.MustCompile(`^(\w+)\[/(\d+\.\d+\.\d+\.\d+):\d+\] logged in`)

	// Player disconnecting: Name lost connection: <reason>
	disconnectRegex = regexp.MustCompile(`^(\w+) lost connection: `)

	// Chat command: <Name> !verb args
	chatCommandRegex = regexp.MustCompile(`^<(.+?)> !(\w+)\s*(.*)$`)

	// Answer to a "worldborder get" query
	borderRegex = regexp.MustCompile(`^World border is currently (\d+) blocks wide`)

	// The server's complaint about empty or unknown slash commands; noise
	unknownCommandRegex = regexp.MustCompile(`^Unknown command\.`)

	// Answer to a "list" query: a bare comma-separated name list
	playerListRegex = regexp.MustCompile(`^(\w+, )*(\w+)$`)

	// Vanilla death messages. The victim is always the first word.
	deathRegex = regexp.MustCompile(`^(\w+) (?:` + strings.Join(deathSuffixes, "|") + `)$`)
)

// deathSuffixes is the table of vanilla death message tails, matched after
// the victim's name.
var deathSuffixes = []string{
	`was shot by .+`,
	`was pricked to death`,
	`walked into a cactus while trying to escape .+`,
	`was stabbed to death`,
	`drowned`,
	`drowned whilst trying to escape .+`,
	`experienced kinetic energy`,
	`blew up`,
	`was blown up by .+`,
	`hit the ground too hard`,
	`fell from a high place`,
	`fell off a ladder`,
	`fell off some vines`,
	`fell out of the water`,
	`fell into a patch of fire`,
	`fell into a patch of cacti`,
	`was doomed to fall by .+`,
	`was shot off some vines by .+`,
	`was shot off a ladder by .+`,
	`was blown from a high place by .+`,
	`was squashed by a falling anvil`,
	`was squashed by a falling block`,
	`went up in flames`,
	`burned to death`,
	`was burnt to a crisp whilst fighting .+`,
	`walked into a fire whilst fighting .+`,
	`tried to swim in lava`,
	`tried to swim in lava while trying to escape .+`,
	`was struck by lightning`,
	`was slain by .+`,
	`got finished off by .+`,
	`was fireballed by .+`,
	`was killed by magic`,
	`was killed by .+ using magic`,
	`starved to death`,
	`suffocated in a wall`,
	`was killed while trying to hurt .+`,
	`fell out of the world`,
	`fell from a high place and fell out of the world`,
	`withered away`,
	`was pummeled by .+`,
}

// Classify parses a single console line into a typed event. It returns nil
// for lines that should be dropped entirely (blank lines and the "Unknown
// command" noise produced by the server).
func Classify(line string) *domain.ConsoleEvent {
	line = strings.TrimRight(line, "\r\n")

	// Strip the [HH:MM:SS ... INFO]: prefix if present
	if m := logPrefixRegex.FindString(line); m != "" {
		line = line[len(m):]
	}

	if line == "" || unknownCommandRegex.MatchString(line) {
		return nil
	}

	if m := connectRegex.FindStringSubmatch(line); m != nil {
		return &domain.ConsoleEvent{
			Type: domain.ConsoleConnected,
			Data: domain.ConnectedData{Name: m[1], IP: m[2]},
		}
	}

	if m := disconnectRegex.FindStringSubmatch(line); m != nil {
		return &domain.ConsoleEvent{
			Type: domain.ConsoleDisconnected,
			Data: domain.DisconnectedData{Name: m[1]},
		}
	}

	if m := chatCommandRegex.FindStringSubmatch(line); m != nil {
		return &domain.ConsoleEvent{
			Type: domain.ConsoleChatCommand,
			Data: domain.ChatCommandData{
				Name: domain.CleanName(m[1]),
				Verb: m[2],
				Args: strings.TrimSpace(m[3]),
			},
		}
	}

	if m := borderRegex.FindStringSubmatch(line); m != nil {
		width, _ := strconv.Atoi(m[1])
		return &domain.ConsoleEvent{
			Type: domain.ConsoleBorderWidth,
			Data: domain.BorderWidthData{Width: width},
		}
	}

	if m := deathRegex.FindStringSubmatch(line); m != nil {
		return &domain.ConsoleEvent{
			Type: domain.ConsoleElimination,
			Data: domain.EliminationData{Name: domain.CleanName(m[1])},
		}
	}

	if playerListRegex.MatchString(line) {
		names := strings.Split(line, ", ")
		return &domain.ConsoleEvent{
			Type: domain.ConsoleRosterSnapshot,
			Data: domain.RosterSnapshotData{Names: names},
		}
	}

	return &domain.ConsoleEvent{
		Type: domain.ConsoleUnrecognized,
		Data: domain.UnrecognizedData{Line: line},
	}
}
