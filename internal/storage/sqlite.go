package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/bronald/uhcd/internal/domain"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// formatTimestamp converts time.Time to SQLite-compatible UTC ISO8601 string
// The Z suffix ensures the Go sqlite driver parses it back as UTC
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// Store provides database access
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// --- Match methods ---

// CreateMatch records the start of a match and returns its row id
func (s *Store) CreateMatch(ctx context.Context, uuid string, startedAt time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (uuid, started_at) VALUES (?, ?)
	`, uuid, formatTimestamp(startedAt))
	if err != nil {
		return 0, fmt.Errorf("creating match: %w", err)
	}
	return result.LastInsertId()
}

// AddParticipants records the roster for a match as it stood at the start
func (s *Store) AddParticipants(ctx context.Context, matchID int64, participants []domain.MatchParticipant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range participants {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO match_participants (match_id, name, team_id, team_name, spectator)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(match_id, name) DO UPDATE SET
				team_id = excluded.team_id,
				team_name = excluded.team_name,
				spectator = excluded.spectator
		`, matchID, p.Name, p.TeamID, p.TeamName, p.Spectator)
		if err != nil {
			return fmt.Errorf("adding participant %s: %w", p.Name, err)
		}
	}
	return tx.Commit()
}

// RecordElimination appends one elimination to a match
func (s *Store) RecordElimination(ctx context.Context, matchID int64, name string, elapsedSeconds int, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO eliminations (match_id, name, elapsed_seconds, created_at)
		VALUES (?, ?, ?, ?)
	`, matchID, name, elapsedSeconds, formatTimestamp(at))
	return err
}

// EndMatch records a match's terminal outcome
func (s *Store) EndMatch(ctx context.Context, matchID int64, endedAt time.Time, outcome, winnerTeam, winnerColour, lastEliminated string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE matches SET ended_at = ?, outcome = ?, winner_team = ?, winner_colour = ?, last_eliminated = ?
		WHERE id = ?
	`, formatTimestamp(endedAt), outcome, winnerTeam, winnerColour, lastEliminated, matchID)
	return err
}

// GetRecentMatches returns the most recent matches with participants and
// eliminations attached, newest first
func (s *Store) GetRecentMatches(ctx context.Context, limit int) ([]domain.MatchSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, uuid, started_at, ended_at, outcome, winner_team, winner_colour, last_eliminated
		FROM matches ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.MatchSummary
	for rows.Next() {
		var m domain.MatchRecord
		var endedAt sql.NullTime
		var outcome, winnerTeam, winnerColour, lastEliminated sql.NullString
		if err := rows.Scan(&m.ID, &m.UUID, &m.StartedAt, &endedAt, &outcome, &winnerTeam, &winnerColour, &lastEliminated); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			m.EndedAt = &endedAt.Time
		}
		m.Outcome = outcome.String
		m.WinnerTeam = winnerTeam.String
		m.WinnerColour = winnerColour.String
		m.LastEliminated = lastEliminated.String
		summaries = append(summaries, domain.MatchSummary{MatchRecord: m})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range summaries {
		if err := s.attachDetails(ctx, &summaries[i]); err != nil {
			return nil, err
		}
	}
	return summaries, nil
}

// GetMatch returns a single match by row id, or sql.ErrNoRows if unknown
func (s *Store) GetMatch(ctx context.Context, id int64) (*domain.MatchSummary, error) {
	var m domain.MatchRecord
	var endedAt sql.NullTime
	var outcome, winnerTeam, winnerColour, lastEliminated sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, uuid, started_at, ended_at, outcome, winner_team, winner_colour, last_eliminated
		FROM matches WHERE id = ?
	`, id).Scan(&m.ID, &m.UUID, &m.StartedAt, &endedAt, &outcome, &winnerTeam, &winnerColour, &lastEliminated)
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		m.EndedAt = &endedAt.Time
	}
	m.Outcome = outcome.String
	m.WinnerTeam = winnerTeam.String
	m.WinnerColour = winnerColour.String
	m.LastEliminated = lastEliminated.String

	summary := domain.MatchSummary{MatchRecord: m}
	if err := s.attachDetails(ctx, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// attachDetails loads participants and eliminations for one match summary
func (s *Store) attachDetails(ctx context.Context, m *domain.MatchSummary) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, team_id, team_name, spectator FROM match_participants
		WHERE match_id = ? ORDER BY name
	`, m.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.MatchParticipant
		var teamID sql.NullInt64
		var teamName sql.NullString
		if err := rows.Scan(&p.Name, &teamID, &teamName, &p.Spectator); err != nil {
			return err
		}
		if teamID.Valid {
			id := int(teamID.Int64)
			p.TeamID = &id
		}
		p.TeamName = teamName.String
		m.Participants = append(m.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	elims, err := s.db.QueryContext(ctx, `
		SELECT name, elapsed_seconds, created_at FROM eliminations
		WHERE match_id = ? ORDER BY elapsed_seconds
	`, m.ID)
	if err != nil {
		return err
	}
	defer elims.Close()
	for elims.Next() {
		var e domain.EliminationRecord
		if err := elims.Scan(&e.Name, &e.ElapsedSeconds, &e.CreatedAt); err != nil {
			return err
		}
		m.Eliminations = append(m.Eliminations, e)
	}
	return elims.Err()
}

// --- User methods ---

// CreateUser adds an API user
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string, isAdmin bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, is_admin) VALUES (?, ?, ?)
	`, username, passwordHash, isAdmin)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetUserByUsername returns a user, or sql.ErrNoRows if unknown
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, is_admin, created_at FROM users WHERE username = ?
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all users ordered by username
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, password_hash, is_admin, created_at FROM users ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteUser removes a user by username
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("user %q not found", username)
	}
	return nil
}
