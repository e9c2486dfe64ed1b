package domain

import "strings"

type Direction struct {
	DX, DY int
	Name   string
}

// the four line axes; the opposite half of each axis is walked with -DX, -DY
var Directions = [4]Direction{
	{DX: 1, DY: 0, Name: "horizontal"},
	{DX: 0, DY: 1, Name: "vertical"},
	{DX: 1, DY: 1, Name: "diagonal"},
	{DX: 1, DY: -1, Name: "anti-diagonal"},
}

// Line returns the maximal run of p through (x, y) along (dx, dy), ordered
// from the negative end to the positive end. (x, y) itself is always the
// seed of the run.
func (b *Board) Line(x, y, dx, dy int, p PlayerID) []Point {
	back := 0
	for cx, cy := x-dx, y-dy; IsValidPosition(cx, cy) && b[cy][cx] == p; cx, cy = cx-dx, cy-dy {
		back++
	}
	line := make([]Point, 0, back+ToWin)
	for i := back; i > 0; i-- {
		line = append(line, Point{X: x - i*dx, Y: y - i*dy})
	}
	line = append(line, Point{X: x, Y: y})
	for cx, cy := x+dx, y+dy; IsValidPosition(cx, cy) && b[cy][cx] == p; cx, cy = cx+dx, cy+dy {
		line = append(line, Point{X: cx, Y: cy})
	}
	return line
}

// RunLength is len(Line(...)) without allocating.
func (b *Board) RunLength(x, y, dx, dy int, p PlayerID) int {
	count := 1
	for cx, cy := x+dx, y+dy; IsValidPosition(cx, cy) && b[cy][cx] == p; cx, cy = cx+dx, cy+dy {
		count++
	}
	for cx, cy := x-dx, y-dy; IsValidPosition(cx, cy) && b[cy][cx] == p; cx, cy = cx-dx, cy-dy {
		count++
	}
	return count
}

// Symbol is one cell of a line signature seen from one player's side.
type Symbol uint8

const (
	SymEmpty Symbol = iota
	SymSelf
	SymOpponent
	SymEdge
)

// Blocked reports whether the cell stops a line. The board edge blocks
// exactly like an opponent stone.
func (s Symbol) Blocked() bool {
	return s == SymOpponent || s == SymEdge
}

func (s Symbol) byte() byte {
	switch s {
	case SymSelf:
		return '1'
	case SymOpponent:
		return '2'
	case SymEdge:
		return '#'
	}
	return '0'
}

const (
	SignatureRadius = 4
	SignatureLen    = 2*SignatureRadius + 1
)

// LineSignature holds the nine cells centred on a position along one axis.
type LineSignature [SignatureLen]Symbol

func (s LineSignature) String() string {
	var sb strings.Builder
	sb.Grow(SignatureLen)
	for _, c := range s {
		sb.WriteByte(c.byte())
	}
	return sb.String()
}

// Signature reads the line through (x, y) from p's point of view. The
// centre cell reports whatever is on the board, so callers usually place
// the stone first.
func (b *Board) Signature(x, y, dx, dy int, p PlayerID) LineSignature {
	var sig LineSignature
	for i := -SignatureRadius; i <= SignatureRadius; i++ {
		cx, cy := x+i*dx, y+i*dy
		switch {
		case !IsValidPosition(cx, cy):
			sig[i+SignatureRadius] = SymEdge
		case b[cy][cx] == Empty:
			sig[i+SignatureRadius] = SymEmpty
		case b[cy][cx] == p:
			sig[i+SignatureRadius] = SymSelf
		default:
			sig[i+SignatureRadius] = SymOpponent
		}
	}
	return sig
}
