package domain

import (
	"fmt"
	"time"
)

const DataVersion = "1.0.0"

// GameData is the serialised form used for save files, the archive and
// replays. Moves are the source of truth; Board is informational.
type GameData struct {
	Version    string    `json:"version"`
	Info       GameInfo  `json:"game_info"`
	Board      [][]int   `json:"board_state"`
	Moves      []Move    `json:"moves"`
	ExportedAt time.Time `json:"timestamp"`
}

func (g *Game) Export() GameData {
	return GameData{
		Version:    DataVersion,
		Info:       g.Info(),
		Board:      g.board.Ints(),
		Moves:      g.Moves(),
		ExportedAt: g.now(),
	}
}

// LoadFromData rebuilds the game by re-applying every recorded move in
// order. On error the game is left as it was.
func (g *Game) LoadFromData(data GameData) error {
	if data.Version == "" {
		return fmt.Errorf("missing version: %w", ErrInvalidGameData)
	}
	rebuilt, err := Replay(data.Moves, len(data.Moves), WithClock(g.now), WithMode(data.Info.Mode), WithDifficulty(data.Info.Difficulty))
	if err != nil {
		return err
	}
	if rebuilt.mode == "" {
		rebuilt.mode = g.mode
	}
	*g = *rebuilt
	return nil
}

// Replay applies the first upto moves to a fresh game. Recorded
// timestamps are kept so durations survive a round trip.
func Replay(moves []Move, upto int, opts ...Option) (*Game, error) {
	if upto < 0 || upto > len(moves) {
		return nil, fmt.Errorf("replay step %d of %d: %w", upto, len(moves), ErrInvalidGameData)
	}
	g := NewGame(opts...)
	for i, m := range moves[:upto] {
		if m.Player != Empty && m.Player != g.currentPlayer {
			return nil, fmt.Errorf("move %d: expected %s to move, got %s: %w", i+1, g.currentPlayer, m.Player, ErrInvalidGameData)
		}
		if _, err := g.ApplyMove(m.X, m.Y); err != nil {
			return nil, fmt.Errorf("move %d at %s: %w", i+1, Notation(m.X, m.Y), err)
		}
		if !m.Timestamp.IsZero() {
			g.moves[i].Timestamp = m.Timestamp
		}
	}
	if len(g.moves) > 0 {
		g.startTime = g.moves[0].Timestamp
		if g.status == StatusFinished {
			g.endTime = g.moves[len(g.moves)-1].Timestamp
		}
	}
	return g, nil
}
