package domain

import "time"

// ClientMessage is what a websocket client sends for a live game.
type ClientMessage struct {
	Type  string `json:"type"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Token string `json:"token,omitempty"`
}

// ServerMessage is pushed to every connection watching a game.
type ServerMessage struct {
	Type       string           `json:"type"`
	GameID     string           `json:"game_id,omitempty"`
	Board      [][]int          `json:"board,omitempty"`
	Info       *GameInfo        `json:"game_info,omitempty"`
	Move       *Move            `json:"move,omitempty"`
	Moves      []Move           `json:"moves,omitempty"`
	Winner     Winner           `json:"winner,omitempty"`
	WinLine    []Point          `json:"win_line,omitempty"`
	NextPlayer PlayerID         `json:"next_player,omitempty"`
	Hint       *Point           `json:"hint,omitempty"`
	Source     string           `json:"source,omitempty"`
	Undone     int              `json:"undone,omitempty"`
	Forbidden  *ForbiddenResult `json:"forbidden,omitempty"`
	Message    string           `json:"message,omitempty"`
}

// GameRecord is one archived game.
type GameRecord struct {
	GameID     string     `json:"game_id"`
	Mode       Mode       `json:"mode"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Winner     Winner     `json:"winner"`
	TotalMoves int        `json:"total_moves"`
	DurationMs int64      `json:"duration_ms"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt time.Time  `json:"finished_at"`
	Moves      []Move     `json:"moves,omitempty"`
	Board      [][]int    `json:"board_state,omitempty"`
}

// Record summarises a finished game for the archive.
func (g *Game) Record(gameID string, createdAt time.Time) GameRecord {
	info := g.Info()
	finished := g.now()
	if info.EndTime != nil {
		finished = *info.EndTime
	}
	return GameRecord{
		GameID:     gameID,
		Mode:       g.mode,
		Difficulty: g.difficulty,
		Winner:     g.winner,
		TotalMoves: len(g.moves),
		DurationMs: info.DurationMs,
		CreatedAt:  createdAt,
		FinishedAt: finished,
		Moves:      g.Moves(),
		Board:      g.board.Ints(),
	}
}
