package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bronald/uhcd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func intPtr(n int) *int { return &n }

func TestMatchLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	started := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	id, err := store.CreateMatch(ctx, "uuid-1", started)
	require.NoError(t, err)
	require.NotZero(t, id)

	require.NoError(t, store.AddParticipants(ctx, id, []domain.MatchParticipant{
		{Name: "Alice", TeamID: intPtr(0), TeamName: "Bears"},
		{Name: "Bob", TeamID: intPtr(1), TeamName: "Eagles"},
		{Name: "Host", Spectator: true},
	}))

	require.NoError(t, store.RecordElimination(ctx, id, "Bob", 540, started.Add(9*time.Minute)))
	require.NoError(t, store.EndMatch(ctx, id, started.Add(20*time.Minute), domain.OutcomeWinner, "Bears", "red", "Bob"))

	match, err := store.GetMatch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", match.UUID)
	assert.Equal(t, started, match.StartedAt.UTC())
	require.NotNil(t, match.EndedAt)
	assert.Equal(t, started.Add(20*time.Minute), match.EndedAt.UTC())
	assert.Equal(t, domain.OutcomeWinner, match.Outcome)
	assert.Equal(t, "Bears", match.WinnerTeam)
	assert.Equal(t, "red", match.WinnerColour)
	assert.Equal(t, "Bob", match.LastEliminated)

	require.Len(t, match.Participants, 3)
	assert.Equal(t, "Alice", match.Participants[0].Name)
	require.NotNil(t, match.Participants[0].TeamID)
	assert.Equal(t, 0, *match.Participants[0].TeamID)
	assert.Equal(t, "Bears", match.Participants[0].TeamName)
	assert.True(t, match.Participants[2].Spectator)

	require.Len(t, match.Eliminations, 1)
	assert.Equal(t, "Bob", match.Eliminations[0].Name)
	assert.Equal(t, 540, match.Eliminations[0].ElapsedSeconds)
}

func TestGetRecentMatches_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	_, err := store.CreateMatch(ctx, "uuid-old", base)
	require.NoError(t, err)
	_, err = store.CreateMatch(ctx, "uuid-new", base.Add(time.Hour))
	require.NoError(t, err)

	matches, err := store.GetRecentMatches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "uuid-new", matches[0].UUID)
	assert.Equal(t, "uuid-old", matches[1].UUID)

	limited, err := store.GetRecentMatches(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGetMatch_Unknown(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetMatch(context.Background(), 42)
	assert.Error(t, err)
}

func TestUserCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, "alice", "hash-a", true))
	require.NoError(t, store.CreateUser(ctx, "bob", "hash-b", false))

	// Duplicate usernames are rejected
	assert.Error(t, store.CreateUser(ctx, "alice", "hash-x", false))

	user, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash-a", user.PasswordHash)
	assert.True(t, user.IsAdmin)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)

	require.NoError(t, store.DeleteUser(ctx, "bob"))
	_, err = store.GetUserByUsername(ctx, "bob")
	assert.Error(t, err)

	assert.Error(t, store.DeleteUser(ctx, "bob"))
}

func TestMatchLog_RecordsSessionEvents(t *testing.T) {
	store := newTestStore(t)
	ml := NewMatchLog(store)
	started := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	ml.HandleEvent(domain.Event{
		Type:      domain.EventMatchStart,
		Timestamp: started,
		Data: domain.MatchStartEvent{
			UUID: "uuid-ml",
			Teams: []domain.TeamSummary{
				{ID: 0, Name: "Bears", Colour: "red", Members: []string{"Alice"}},
			},
			Participants: []string{"Alice", "Host"},
		},
	})

	ml.HandleEvent(domain.Event{
		Type:      domain.EventElimination,
		Timestamp: started.Add(5 * time.Minute),
		Data:      domain.EliminationEvent{Name: "Alice", TeamID: intPtr(0), ElapsedSeconds: 300},
	})

	winner := domain.TeamSummary{ID: 0, Name: "Bears", Colour: "red"}
	ml.HandleEvent(domain.Event{
		Type:      domain.EventMatchEnd,
		Timestamp: started.Add(6 * time.Minute),
		Data: domain.MatchEndEvent{
			UUID:           "uuid-ml",
			Outcome:        domain.OutcomeWinner,
			Winner:         &winner,
			LastEliminated: "Alice",
		},
	})

	matches, err := store.GetRecentMatches(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	m := matches[0]
	assert.Equal(t, "uuid-ml", m.UUID)
	assert.Equal(t, domain.OutcomeWinner, m.Outcome)
	assert.Equal(t, "Bears", m.WinnerTeam)
	assert.Equal(t, "red", m.WinnerColour)

	require.Len(t, m.Participants, 2)
	// Alice carries her team; Host was never dealt in, so spectator
	byName := map[string]domain.MatchParticipant{}
	for _, p := range m.Participants {
		byName[p.Name] = p
	}
	require.NotNil(t, byName["Alice"].TeamID)
	assert.Equal(t, "Bears", byName["Alice"].TeamName)
	assert.True(t, byName["Host"].Spectator)

	require.Len(t, m.Eliminations, 1)
	assert.Equal(t, 300, m.Eliminations[0].ElapsedSeconds)
}

func TestMatchLog_IgnoresEventsOutsideAMatch(t *testing.T) {
	store := newTestStore(t)
	ml := NewMatchLog(store)

	ml.HandleEvent(domain.Event{
		Type:      domain.EventElimination,
		Timestamp: time.Now(),
		Data:      domain.EliminationEvent{Name: "Alice"},
	})

	matches, err := store.GetRecentMatches(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatchLog_AbandonClosesOpenMatch(t *testing.T) {
	store := newTestStore(t)
	ml := NewMatchLog(store)
	started := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	ml.HandleEvent(domain.Event{
		Type:      domain.EventMatchStart,
		Timestamp: started,
		Data:      domain.MatchStartEvent{UUID: "uuid-ab", Participants: []string{"Alice"}},
	})

	ml.Abandon(started.Add(3 * time.Minute))

	matches, err := store.GetRecentMatches(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, domain.OutcomeAbandoned, matches[0].Outcome)
	require.NotNil(t, matches[0].EndedAt)
}
