package domain

import (
	"time"
)

type Move struct {
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Player    PlayerID  `json:"player"`
	Step      int       `json:"step"`
	Timestamp time.Time `json:"timestamp"`
}

// MoveResult is what ApplyMove reports back to the caller after a stone
// has been placed.
type MoveResult struct {
	Move       Move       `json:"move"`
	Status     GameStatus `json:"status"`
	GameOver   bool       `json:"game_over"`
	Winner     Winner     `json:"winner,omitempty"`
	WinLine    []Point    `json:"win_line,omitempty"`
	NextPlayer PlayerID   `json:"next_player"`
}

type GameInfo struct {
	Status        GameStatus `json:"status"`
	CurrentPlayer PlayerID   `json:"current_player"`
	Winner        Winner     `json:"winner,omitempty"`
	MoveCount     int        `json:"move_count"`
	Mode          Mode       `json:"mode"`
	Difficulty    Difficulty `json:"difficulty,omitempty"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	DurationMs    int64      `json:"duration_ms"`
}

// Game is one engine instance: board, history and turn state. It is not
// safe for concurrent use; callers that share a Game hold their own lock.
type Game struct {
	board         Board
	moves         []Move
	currentPlayer PlayerID
	status        GameStatus
	winner        Winner
	winLine       []Point
	mode          Mode
	difficulty    Difficulty
	startTime     time.Time
	endTime       time.Time
	now           func() time.Time
}

type Option func(*Game)

func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

func WithMode(m Mode) Option {
	return func(g *Game) { g.mode = m }
}

func WithDifficulty(d Difficulty) Option {
	return func(g *Game) { g.difficulty = d }
}

func NewGame(opts ...Option) *Game {
	g := &Game{
		currentPlayer: Black,
		status:        StatusReady,
		mode:          ModePvP,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Reset clears the board and history but keeps mode and difficulty.
func (g *Game) Reset() {
	g.board.Reset()
	g.moves = nil
	g.currentPlayer = Black
	g.status = StatusReady
	g.winner = WinnerNone
	g.winLine = nil
	g.startTime = time.Time{}
	g.endTime = time.Time{}
}

func (g *Game) ApplyMove(x, y int) (MoveResult, error) {
	if !IsValidPosition(x, y) {
		return MoveResult{}, ErrOutOfBounds
	}
	if g.board[y][x] != Empty {
		return MoveResult{}, ErrCellOccupied
	}
	if g.status == StatusFinished {
		return MoveResult{}, ErrGameFinished
	}
	if g.currentPlayer == Black {
		if res := CheckForbidden(&g.board, x, y, Black); res.Forbidden {
			return MoveResult{}, &ForbiddenMoveError{X: x, Y: y, Result: res}
		}
	}

	now := g.now()
	move := Move{X: x, Y: y, Player: g.currentPlayer, Step: len(g.moves) + 1, Timestamp: now}
	g.board[y][x] = g.currentPlayer
	g.moves = append(g.moves, move)

	if g.status == StatusReady {
		g.status = StatusPlaying
		g.startTime = now
	}

	result := MoveResult{Move: move}
	if win := CheckWin(&g.board, x, y); win.Win {
		g.finish(WinnerOf(move.Player), win.Line, now)
	} else if len(g.moves) == MaxMoves {
		g.finish(WinnerDraw, nil, now)
	} else {
		g.currentPlayer = g.currentPlayer.Opponent()
	}

	result.Status = g.status
	result.GameOver = g.status == StatusFinished
	result.Winner = g.winner
	result.WinLine = g.winLine
	result.NextPlayer = g.currentPlayer
	return result, nil
}

func (g *Game) finish(w Winner, line []Point, at time.Time) {
	g.status = StatusFinished
	g.winner = w
	g.winLine = line
	g.endTime = at
}

// Undo takes back the last steps moves. Afterwards it is the turn of the
// player who made the earliest undone move. It returns false without
// touching anything when steps is not positive or exceeds the history.
func (g *Game) Undo(steps int) bool {
	if steps < 1 || steps > len(g.moves) {
		return false
	}
	for i := 0; i < steps; i++ {
		last := g.moves[len(g.moves)-1]
		g.moves = g.moves[:len(g.moves)-1]
		g.board.Clear(last.X, last.Y)
		g.currentPlayer = last.Player
	}

	if g.status == StatusFinished {
		g.status = StatusPlaying
		g.winner = WinnerNone
		g.winLine = nil
		g.endTime = time.Time{}
	}
	if len(g.moves) == 0 {
		g.status = StatusReady
		g.currentPlayer = Black
		g.startTime = time.Time{}
	}
	return true
}

// CheckForbidden evaluates (x, y) for the player to move without placing.
func (g *Game) CheckForbidden(x, y int) ForbiddenResult {
	return CheckForbidden(&g.board, x, y, g.currentPlayer)
}

// Board returns a copy of the grid.
func (g *Game) Board() Board {
	return g.board
}

func (g *Game) Moves() []Move {
	out := make([]Move, len(g.moves))
	copy(out, g.moves)
	return out
}

func (g *Game) LastMove() (Move, bool) {
	if len(g.moves) == 0 {
		return Move{}, false
	}
	return g.moves[len(g.moves)-1], true
}

func (g *Game) MoveCount() int             { return len(g.moves) }
func (g *Game) CurrentPlayer() PlayerID    { return g.currentPlayer }
func (g *Game) Status() GameStatus         { return g.status }
func (g *Game) Winner() Winner             { return g.winner }
func (g *Game) Mode() Mode                 { return g.mode }
func (g *Game) Difficulty() Difficulty     { return g.difficulty }
func (g *Game) IsFinished() bool           { return g.status == StatusFinished }
func (g *Game) SetMode(m Mode)             { g.mode = m }
func (g *Game) SetDifficulty(d Difficulty) { g.difficulty = d }

func (g *Game) WinLine() []Point {
	out := make([]Point, len(g.winLine))
	copy(out, g.winLine)
	return out
}

func (g *Game) Info() GameInfo {
	info := GameInfo{
		Status:        g.status,
		CurrentPlayer: g.currentPlayer,
		Winner:        g.winner,
		MoveCount:     len(g.moves),
		Mode:          g.mode,
		Difficulty:    g.difficulty,
	}
	if !g.startTime.IsZero() {
		start := g.startTime
		info.StartTime = &start
		end := g.now()
		if !g.endTime.IsZero() {
			end = g.endTime
			info.EndTime = &end
		}
		info.DurationMs = end.Sub(start).Milliseconds()
	}
	return info
}
