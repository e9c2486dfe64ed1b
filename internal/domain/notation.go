package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const columnLetters = "ABCDEFGHIJKLMNO"

// Notation renders a position as column letter plus 1-based row, e.g. H8
// for the centre.
func Notation(x, y int) string {
	if !IsValidPosition(x, y) {
		return fmt.Sprintf("(%d,%d)", x, y)
	}
	return string(columnLetters[x]) + strconv.Itoa(y+1)
}

func ParseNotation(s string) (Point, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Point{}, fmt.Errorf("notation %q: %w", s, ErrOutOfBounds)
	}
	x := strings.IndexByte(columnLetters, s[0])
	row, err := strconv.Atoi(s[1:])
	if x < 0 || err != nil || !IsValidPosition(x, row-1) {
		return Point{}, fmt.Errorf("notation %q: %w", s, ErrOutOfBounds)
	}
	return Point{X: x, Y: row - 1}, nil
}
