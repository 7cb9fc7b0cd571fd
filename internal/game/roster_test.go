package game

import (
	"testing"
	"time"

	"github.com/bronald/uhcd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnConnect_WelcomesNewcomer(t *testing.T) {
	ts := newTestSession(t, nil)

	ts.OnConnect("Alice")

	p := ts.participants["Alice"]
	require.NotNil(t, p)
	assert.True(t, p.Connected)
	assert.False(t, p.Spectator)
	assert.True(t, ts.sink.announced("Welcome, Alice"))

	joins := ts.eventsOfType(domain.EventPlayerJoin)
	require.Len(t, joins, 1)
	assert.False(t, joins[0].Data.(domain.PlayerJoinEvent).Rejoined)
}

func TestOnConnect_PreMarkedSpectator(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.handleCommand("Host", "spectate", "Alice")

	ts.OnConnect("Alice")

	assert.True(t, ts.participants["Alice"].Spectator)
}

func TestOnConnect_OperatorSpectatesByDefault(t *testing.T) {
	ts := newTestSession(t, nil)

	ts.OnConnect("Host")

	assert.True(t, ts.participants["Host"].Spectator)
}

func TestLateJoiner_EliminatedImmediately(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice")
	ts.Begin("Host")
	ts.sink.reset()

	ts.OnConnect("Latecomer")

	p := ts.participants["Latecomer"]
	require.NotNil(t, p)
	assert.True(t, p.Eliminated)
	assert.True(t, p.Connected)
	assert.Equal(t, 1, ts.sink.applied("scoreboard players set Latecomer dead 1"))
	assert.True(t, ts.sink.announced("already in progress"))
}

func TestLateJoiner_SpectatorNotEliminated(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice")
	ts.handleCommand("Host", "spectate", "Watcher")
	ts.Begin("Host")

	ts.OnConnect("Watcher")

	assert.False(t, ts.participants["Watcher"].Eliminated)
}

func TestDisconnect_RejoinWithinGrace(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice", "Bob")
	ts.Begin("Host")

	ts.OnDisconnect("Alice")
	require.NotNil(t, ts.participants["Alice"].DisconnectedAt)

	ts.advance(30 * time.Second)
	ts.OnConnect("Alice")

	p := ts.participants["Alice"]
	assert.False(t, p.Eliminated)
	assert.Nil(t, p.DisconnectedAt)
	assert.True(t, p.Connected)
}

func TestDisconnect_RejoinAfterGraceEliminates(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice", "Bob")
	ts.Begin("Host")

	ts.OnDisconnect("Alice")
	ts.advance(61 * time.Second)
	ts.OnConnect("Alice")

	p := ts.participants["Alice"]
	assert.True(t, p.Eliminated)
	assert.True(t, p.Connected)
	assert.Nil(t, p.DisconnectedAt)
}

func TestDisconnect_SweepEliminatesAfterGrace(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice", "Bob")
	ts.Begin("Host")

	ts.OnDisconnect("Alice")
	ts.Tick(ts.advance(59 * time.Second))
	assert.False(t, ts.participants["Alice"].Eliminated)

	ts.Tick(ts.advance(2 * time.Second))
	assert.True(t, ts.participants["Alice"].Eliminated)
	assert.Len(t, ts.eventsOfType(domain.EventElimination), 1)

	// The sweep cleared the pending entry; later ticks must not re-fire
	ts.Tick(ts.advance(time.Minute))
	assert.Len(t, ts.eventsOfType(domain.EventElimination), 1)
}

func TestDisconnect_SpectatorUnpenalized(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice", "Watcher")
	ts.handleCommand("Host", "spectate", "Watcher")
	ts.Begin("Host")

	ts.OnDisconnect("Watcher")
	ts.Tick(ts.advance(5 * time.Minute))

	p := ts.participants["Watcher"]
	assert.False(t, p.Eliminated)
	assert.Nil(t, p.DisconnectedAt)
}

func TestDisconnect_NoPenaltyBeforeMatch(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice")

	ts.OnDisconnect("Alice")

	assert.Nil(t, ts.participants["Alice"].DisconnectedAt)
	assert.False(t, ts.participants["Alice"].Connected)
}

func TestDisconnect_UnknownNameIgnored(t *testing.T) {
	ts := newTestSession(t, nil)

	ts.OnDisconnect("Stranger")

	assert.Empty(t, ts.participants)
	assert.Empty(t, *ts.events)
}

func TestRosterSnapshot_IgnoredUnlessRequested(t *testing.T) {
	ts := newTestSession(t, nil)

	ts.OnRosterSnapshot([]string{"Alice", "Bob"})

	assert.Empty(t, ts.participants)
}

func TestRosterSnapshot_RegistersMissedConnects(t *testing.T) {
	ts := newTestSession(t, nil)
	ts.connect("Alice")
	ts.handleCommand("Host", "refreshplayers", "")
	require.Contains(t, ts.sink.queries, "list")

	ts.OnRosterSnapshot([]string{"Alice", "Bob"})

	require.NotNil(t, ts.participants["Bob"])
	assert.True(t, ts.participants["Bob"].Connected)

	// The gate closes after one answer
	ts.OnRosterSnapshot([]string{"Carol"})
	assert.Nil(t, ts.participants["Carol"])
}
