package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteGameRepository implements GameRepository for SQLite.
type SQLiteGameRepository struct {
	db *sql.DB
}

func NewSQLiteGameRepository(db *sql.DB) *SQLiteGameRepository {
	return &SQLiteGameRepository{db: db}
}

func (r *SQLiteGameRepository) Create(ctx context.Context, row GameRow) error {
	query := `
		INSERT INTO games (id, seed, greed, deceptiveness, adaptiveness, final_score, final_trust, rounds_played, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		row.ID, row.Seed, row.Greed, row.Deceptiveness, row.Adaptiveness,
		row.FinalScore, row.FinalTrust, row.RoundsPlayed, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (r *SQLiteGameRepository) Finish(ctx context.Context, gameID string, finalScore int, finalTrust float64, roundsPlayed int) error {
	query := `
		UPDATE games SET final_score = ?, final_trust = ?, rounds_played = ?, completed_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query, finalScore, finalTrust, roundsPlayed, time.Now().UTC(), gameID)
	if err != nil {
		return fmt.Errorf("failed to finish game: %w", err)
	}
	return nil
}

func (r *SQLiteGameRepository) GetByID(ctx context.Context, gameID string) (*GameRow, error) {
	query := `SELECT id, seed, greed, deceptiveness, adaptiveness, final_score, final_trust, rounds_played, created_at, completed_at FROM games WHERE id = ?`
	var g GameRow
	err := r.db.QueryRowContext(ctx, query, gameID).Scan(
		&g.ID, &g.Seed, &g.Greed, &g.Deceptiveness, &g.Adaptiveness,
		&g.FinalScore, &g.FinalTrust, &g.RoundsPlayed, &g.CreatedAt, &g.CompletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *SQLiteGameRepository) ListRecent(ctx context.Context, limit int) ([]GameRow, error) {
	query := `SELECT id, seed, greed, deceptiveness, adaptiveness, final_score, final_trust, rounds_played, created_at, completed_at FROM games ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []GameRow
	for rows.Next() {
		var g GameRow
		if err := rows.Scan(&g.ID, &g.Seed, &g.Greed, &g.Deceptiveness, &g.Adaptiveness,
			&g.FinalScore, &g.FinalTrust, &g.RoundsPlayed, &g.CreatedAt, &g.CompletedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// ---------------------------------------------------------
// SQLiteRoundRepository
// ---------------------------------------------------------

type SQLiteRoundRepository struct {
	db *sql.DB
}

func NewSQLiteRoundRepository(db *sql.DB) *SQLiteRoundRepository {
	return &SQLiteRoundRepository{db: db}
}

func (r *SQLiteRoundRepository) Append(ctx context.Context, row RoundRow) error {
	query := `
		INSERT INTO rounds (game_id, round, smuggler_action, inspector_action, quantity, payoff, score, was_trap)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		row.GameID, row.Round, row.SmugglerAction, row.InspectorAction,
		row.Quantity, row.Payoff, row.Score, row.WasTrap,
	)
	if err != nil {
		return fmt.Errorf("failed to append round: %w", err)
	}
	return nil
}

func (r *SQLiteRoundRepository) GetByGameID(ctx context.Context, gameID string) ([]RoundRow, error) {
	query := `SELECT game_id, round, smuggler_action, inspector_action, quantity, payoff, score, was_trap FROM rounds WHERE game_id = ? ORDER BY round ASC`
	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RoundRow
	for rows.Next() {
		var rr RoundRow
		if err := rows.Scan(&rr.GameID, &rr.Round, &rr.SmugglerAction, &rr.InspectorAction,
			&rr.Quantity, &rr.Payoff, &rr.Score, &rr.WasTrap); err != nil {
			return nil, err
		}
		result = append(result, rr)
	}
	return result, rows.Err()
}

// ---------------------------------------------------------
// SQLiteEventRepository
// ---------------------------------------------------------

type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event EventRow) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, game_id, round, timestamp, event_type, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.GameID, event.Round, event.Timestamp, event.EventType, string(payloadBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]EventRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []EventRow
	for rows.Next() {
		var e EventRow
		var payloadStr string
		err := rows.Scan(&e.ID, &e.GameID, &e.Round, &e.Timestamp, &e.EventType, &payloadStr)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetByGameID(ctx context.Context, gameID string) ([]EventRow, error) {
	query := `SELECT id, game_id, round, timestamp, event_type, payload FROM events WHERE game_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, gameID)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, gameID string, eventType string) ([]EventRow, error) {
	query := `SELECT id, game_id, round, timestamp, event_type, payload FROM events WHERE game_id = ? AND event_type = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, gameID, eventType)
}
