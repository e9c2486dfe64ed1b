package domain

import "strings"

type PlayerID int

const (
	Empty PlayerID = 0
	Black PlayerID = 1
	White PlayerID = 2
)

func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

func (p PlayerID) String() string {
	switch p {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "empty"
}

func ParsePlayer(s string) (PlayerID, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "1":
		return Black, true
	case "white", "2":
		return White, true
	}
	return Empty, false
}

const (
	BoardSize = 15
	ToWin     = 5
	MaxMoves  = BoardSize * BoardSize
	Center    = BoardSize / 2
)

// to represent the game status
type GameStatus string

const (
	StatusReady    GameStatus = "ready"
	StatusPlaying  GameStatus = "playing"
	StatusFinished GameStatus = "finished"
)

type Winner string

const (
	WinnerNone  Winner = ""
	WinnerBlack Winner = "black"
	WinnerWhite Winner = "white"
	WinnerDraw  Winner = "draw"
)

func WinnerOf(p PlayerID) Winner {
	switch p {
	case Black:
		return WinnerBlack
	case White:
		return WinnerWhite
	}
	return WinnerNone
}

type Mode string

const (
	ModePvP Mode = "pvp"
	ModePvE Mode = "pve"
	ModeEvE Mode = "eve"
)

func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePvP:
		return ModePvP, true
	case ModePvE:
		return ModePvE, true
	case ModeEvE:
		return ModeEvE, true
	}
	return "", false
}

type Difficulty string

const (
	Beginner Difficulty = "BEGINNER"
	Normal   Difficulty = "NORMAL"
	Hard     Difficulty = "HARD"
	Hell     Difficulty = "HELL"
)

var Difficulties = []Difficulty{Beginner, Normal, Hard, Hell}

func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Difficulties {
		if d == known {
			return d, true
		}
	}
	return "", false
}

type ForbiddenKind string

const (
	ForbiddenNone        ForbiddenKind = ""
	ForbiddenLongLine    ForbiddenKind = "long_line"
	ForbiddenDoubleFour  ForbiddenKind = "double_four"
	ForbiddenDoubleThree ForbiddenKind = "double_three"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrOutOfBounds     Error = "position out of bounds"
	ErrCellOccupied    Error = "cell is occupied"
	ErrGameFinished    Error = "game is finished"
	ErrForbiddenMove   Error = "forbidden move"
	ErrInvalidUndo     Error = "not enough moves to undo"
	ErrInvalidGameData Error = "invalid game data"
)

// ForbiddenMoveError is returned by ApplyMove when Black plays a forbidden cell.
type ForbiddenMoveError struct {
	X, Y   int
	Result ForbiddenResult
}

func (e *ForbiddenMoveError) Error() string {
	return "forbidden move at " + Notation(e.X, e.Y) + ": " + string(e.Result.Kind)
}

func (e *ForbiddenMoveError) Is(target error) bool {
	return target == ErrForbiddenMove
}
