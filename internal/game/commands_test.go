package game

import (
	"testing"
	"time"

	"github.com/bronald/uhcd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands_OpOnlySilentlyIgnoredForOthers(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice")
	ts.sink.reset()

	ts.handleCommand("Alice", "begin", "")
	ts.handleCommand("Alice", "buildlobby", "")
	ts.handleCommand("Alice", "teamup", "")

	assert.Equal(t, StateIdle, ts.State())
	assert.Empty(t, ts.sink.announcements)
	assert.Empty(t, ts.sink.commands)
}

func TestCommands_UnknownVerbIgnored(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice")
	ts.sink.reset()

	ts.handleCommand("Alice", "dance", "wildly")

	assert.Empty(t, ts.sink.announcements)
}

func TestCommands_CaseInsensitive(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice")
	ts.sink.reset()

	ts.handleCommand("Alice", "UTC", "")

	assert.True(t, ts.sink.announced("Current UTC time"))
}

func TestCommandTime_BeforeAndDuringMatch(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice")

	ts.handleCommand("Alice", "time", "")
	assert.True(t, ts.sink.announced("has not started"))

	ts.Begin("Host")
	ts.sink.reset()
	ts.advance(7 * time.Minute)
	ts.handleCommand("Alice", "time", "")
	assert.True(t, ts.sink.announced("Elapsed time: 7 minutes"))
}

func TestCommandBorder_QueriesForEveryone(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice")
	ts.sink.reset()

	ts.handleCommand("Alice", "border", "")

	assert.Contains(t, ts.sink.queries, "worldborder get")
	assert.True(t, ts.awaitingBorder["Alice"])
}

func TestCommandBorder_OpConfiguresBeforeMatch(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Host")

	ts.handleCommand("Host", "border", "finish 250")

	assert.Equal(t, 250, ts.cfg.Game.WorldBorder.Finish)
	assert.True(t, ts.sink.announced("final width (finish): 250"))
}

func TestCommandBorder_RefusedWhileLive(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Host", "Alice")
	ts.Begin("Host")
	ts.sink.reset()

	ts.handleCommand("Host", "border", "finish 250")

	assert.Equal(t, 100, ts.cfg.Game.WorldBorder.Finish)
	assert.True(t, ts.sink.announced("cannot be reconfigured"))
}

func TestCommandBorder_RejectsNegativeDuration(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Host")

	ts.handleCommand("Host", "border", "duration -5")

	assert.Equal(t, 30, ts.cfg.Game.WorldBorder.Duration)
	assert.True(t, ts.sink.announced("must not be negative"))
}

func TestCommandMinutes_UpdatesConfig(t *testing.T) {
	ts := newTestSession(t, nil)

	ts.handleCommand("Host", "minutes", "5")
	assert.Equal(t, 5, ts.cfg.Game.MinuteMarker)
	assert.True(t, ts.sink.announced("every 5 minutes"))

	// Garbage input just reports the current value
	ts.sink.reset()
	ts.handleCommand("Host", "minutes", "soon")
	assert.Equal(t, 5, ts.cfg.Game.MinuteMarker)
	assert.True(t, ts.sink.announced("every 5 minutes"))
}

func TestCommandTeamsize_RejectsNonPositive(t *testing.T) {
	ts := newTestSession(t, nil)

	ts.handleCommand("Host", "teamsize", "0")

	assert.Equal(t, 2, ts.cfg.Game.TeamSize)
}

func TestCommandCentre_SetAndReport(t *testing.T) {
	ts := newTestSession(t, nil)

	ts.handleCommand("Host", "x", "150")
	assert.Equal(t, 150, ts.cfg.Game.CentreX)
	assert.Equal(t, 1, ts.sink.applied("worldborder center 150 0"))

	ts.sink.reset()
	ts.handleCommand("Host", "z", "")
	assert.True(t, ts.sink.announced("Centre Z is currently 0"))
}

func TestCommandBuildLobby_OpensLobby(t *testing.T) {
	ts := newTestSession(t, nil)

	ts.handleCommand("Host", "buildlobby", "")

	assert.Equal(t, StateLobbyOpen, ts.State())
	assert.True(t, ts.sink.announced("Welcome to the Ultra Hardcore lobby"))
	assert.Equal(t, 1, ts.sink.applied("setworldspawn"))
}

func TestCommandBuildLobby_RefusedWhileLive(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice")
	ts.Begin("Host")
	ts.sink.reset()

	ts.handleCommand("Host", "buildlobby", "")

	assert.Equal(t, StateLive, ts.State())
	assert.True(t, ts.sink.announced("Cannot rebuild the lobby"))
}

func TestCommandDestroyLobby_ReturnsToIdle(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.handleCommand("Host", "buildlobby", "")
	require.Equal(t, StateLobbyOpen, ts.State())

	ts.handleCommand("Host", "destroylobby", "")

	assert.Equal(t, StateIdle, ts.State())
}

func TestCommandTeamup_RefusedWhileLive(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice", "Bob")
	ts.Begin("Host")
	ts.sink.reset()

	ts.handleCommand("Host", "teamup", "")

	assert.True(t, ts.sink.announced("cannot be reformed"))
	assert.Empty(t, ts.teams)
}

func TestCommandSpectate_TogglesAndReports(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice", "Bob")

	// Host, as a configured operator, is already on the spectator list
	ts.handleCommand("Host", "spectate", "Alice Bob")
	assert.True(t, ts.participants["Alice"].Spectator)
	assert.True(t, ts.participants["Bob"].Spectator)
	assert.True(t, ts.sink.announced("Spectators: Alice, Bob and Host"))

	ts.sink.reset()
	ts.handleCommand("Host", "spectate", "Bob")
	assert.False(t, ts.participants["Bob"].Spectator)
	assert.True(t, ts.sink.announced("Spectators: Alice and Host"))
}

func TestCommandEternal_SetsModeAndDelay(t *testing.T) {
	ts := newTestSession(t, nil)

	ts.handleCommand("Host", "eternal", "night 45")

	assert.Equal(t, "night", ts.cfg.Game.Eternal.Mode)
	assert.Equal(t, 45, ts.cfg.Game.Eternal.TimeBegin)
	assert.True(t, ts.sink.announced("permanent state: Night"))
	assert.True(t, ts.sink.announced("after 45 minutes"))
}

func TestCommandEternal_BareNumberSetsDelayOnly(t *testing.T) {
	ts := newTestSession(t, nil)

	ts.handleCommand("Host", "eternal", "90")

	assert.Equal(t, "off", ts.cfg.Game.Eternal.Mode)
	assert.Equal(t, 90, ts.cfg.Game.Eternal.TimeBegin)
}

func TestCommandHelp_OperatorSeesMore(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice")

	ts.handleCommand("Alice", "help", "")
	playerLines := len(ts.sink.announcements)

	ts.sink.reset()
	ts.handleCommand("Host", "help", "")

	assert.Greater(t, len(ts.sink.announcements), playerLines)
}

func TestChatCommandEvent_RoutedThroughHandleEvent(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice")
	ts.sink.reset()

	ts.HandleEvent(domain.ConsoleEvent{
		Type: domain.ConsoleChatCommand,
		Data: domain.ChatCommandData{Name: "Alice", Verb: "utc", Args: ""},
	})

	assert.True(t, ts.sink.announced("Current UTC time"))
}
