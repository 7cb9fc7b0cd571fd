package domain

// ConsoleEvent is a classified line from the game server console. The
// console adapter owns all text-pattern recognition; the core only ever
// sees these typed events.
type ConsoleEvent struct {
	Type string
	Data interface{}
}

// Console event types
const (
	ConsoleConnected      = "connected"
	ConsoleDisconnected   = "disconnected"
	ConsoleChatCommand    = "chat_command"
	ConsoleElimination    = "elimination"
	ConsoleBorderWidth    = "border_width"
	ConsoleRosterSnapshot = "roster_snapshot"
	ConsoleUnrecognized   = "unrecognized"
)

type ConnectedData struct {
	Name string
	IP   string
}

type DisconnectedData struct {
	Name string
}

// ChatCommandData is a player chat line of the form "<name> !verb args".
type ChatCommandData struct {
	Name string
	Verb string
	Args string
}

// EliminationData is a vanilla death message attributed to a player.
type EliminationData struct {
	Name string
}

// BorderWidthData is the server's answer to a "worldborder get" query.
type BorderWidthData struct {
	Width int
}

// RosterSnapshotData is the server's answer to a "list" query.
type RosterSnapshotData struct {
	Names []string
}

type UnrecognizedData struct {
	Line string
}
