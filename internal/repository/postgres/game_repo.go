package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/iamasit07/gomoku/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// SaveGame archives a finished game. A game that is undone and finished
// again overwrites its earlier row.
func (r *GameRepo) SaveGame(ctx context.Context, rec domain.GameRecord) error {
	movesJSON, err := json.Marshal(rec.Moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %v", err)
	}
	boardJSON, err := json.Marshal(rec.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %v", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO games (game_id, mode, difficulty, winner, total_moves, duration_ms, created_at, finished_at, moves, board_state)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (game_id) DO UPDATE SET
		winner = EXCLUDED.winner,
		total_moves = EXCLUDED.total_moves,
		duration_ms = EXCLUDED.duration_ms,
		finished_at = EXCLUDED.finished_at,
		moves = EXCLUDED.moves,
		board_state = EXCLUDED.board_state;
	`
	_, err = tx.ExecContext(ctx, query, rec.GameID, string(rec.Mode), string(rec.Difficulty), string(rec.Winner),
		rec.TotalMoves, rec.DurationMs, rec.CreatedAt, rec.FinishedAt, movesJSON, boardJSON)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}

// GetGameByID returns nil, nil when the game is not archived.
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	query := `
	SELECT game_id, mode, difficulty, winner, total_moves, duration_ms,
	       created_at, finished_at, moves, board_state
	FROM games
	WHERE game_id = $1;
	`

	var rec domain.GameRecord
	var mode, difficulty, winner string
	var movesJSON, boardJSON []byte

	err := r.DB.QueryRowContext(ctx, query, gameID).Scan(
		&rec.GameID,
		&mode,
		&difficulty,
		&winner,
		&rec.TotalMoves,
		&rec.DurationMs,
		&rec.CreatedAt,
		&rec.FinishedAt,
		&movesJSON,
		&boardJSON,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %v", err)
	}

	rec.Mode = domain.Mode(mode)
	rec.Difficulty = domain.Difficulty(difficulty)
	rec.Winner = domain.Winner(winner)
	if err := json.Unmarshal(movesJSON, &rec.Moves); err != nil {
		return nil, fmt.Errorf("failed to unmarshal moves: %v", err)
	}
	if boardJSON != nil {
		if err := json.Unmarshal(boardJSON, &rec.Board); err != nil {
			return nil, fmt.Errorf("failed to unmarshal board state: %v", err)
		}
	}
	return &rec, nil
}

// ListRecentGames returns summaries without moves, newest first.
func (r *GameRepo) ListRecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
	SELECT game_id, mode, difficulty, winner, total_moves, duration_ms, created_at, finished_at
	FROM games
	ORDER BY finished_at DESC
	LIMIT $1;
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %v", err)
	}
	defer rows.Close()

	games := make([]domain.GameRecord, 0, limit)
	for rows.Next() {
		var rec domain.GameRecord
		var mode, difficulty, winner string
		if err := rows.Scan(
			&rec.GameID,
			&mode,
			&difficulty,
			&winner,
			&rec.TotalMoves,
			&rec.DurationMs,
			&rec.CreatedAt,
			&rec.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game row: %v", err)
		}
		rec.Mode = domain.Mode(mode)
		rec.Difficulty = domain.Difficulty(difficulty)
		rec.Winner = domain.Winner(winner)
		games = append(games, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game history: %v", err)
	}
	return games, nil
}
