package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/iamasit07/gomoku/internal/domain"
	"github.com/iamasit07/gomoku/internal/service/bot"
	"github.com/muesli/termenv"
)

const defaultPuzzleDepth = 10

// Puzzle is a position given as stone lists in H8 notation.
type Puzzle struct {
	Attacker string   `json:"attacker"`
	Depth    int      `json:"depth"`
	Black    []string `json:"black"`
	White    []string `json:"white"`
}

func loadPuzzle(path string) (Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		return Puzzle{}, err
	}
	defer f.Close()

	var p Puzzle
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return Puzzle{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return p, nil
}

// Board places the puzzle's stones and reports the attacking colour.
func (p Puzzle) Board() (domain.Board, domain.PlayerID, error) {
	var b domain.Board
	for _, side := range []struct {
		who    domain.PlayerID
		stones []string
	}{{domain.Black, p.Black}, {domain.White, p.White}} {
		for _, s := range side.stones {
			pt, err := domain.ParseNotation(s)
			if err != nil {
				return b, domain.Empty, err
			}
			if !b.IsEmpty(pt.X, pt.Y) {
				return b, domain.Empty, fmt.Errorf("%s placed twice: %w", s, domain.ErrCellOccupied)
			}
			b.Set(pt.X, pt.Y, side.who)
		}
	}

	attacker, ok := domain.ParsePlayer(p.Attacker)
	if !ok {
		return b, domain.Empty, fmt.Errorf("attacker %q must be black or white", p.Attacker)
	}
	return b, attacker, nil
}

func solvePuzzle(out *termenv.Output, engine *bot.Engine, path string, depth int) error {
	p, err := loadPuzzle(path)
	if err != nil {
		return err
	}
	b, attacker, err := p.Board()
	if err != nil {
		return err
	}
	if depth <= 0 {
		depth = p.Depth
	}
	if depth <= 0 {
		depth = defaultPuzzleDepth
	}

	fmt.Fprintln(out, renderBoard(out, b, nil))
	line, ok := engine.SolveVCF(context.Background(), b, attacker, depth)
	if !ok {
		fmt.Fprintf(out, "%s has no VCF within %d moves\n", attacker, depth)
		return nil
	}
	fmt.Fprintf(out, "%s wins by VCF: %s\n", attacker, formatLine(line))
	return nil
}

// formatLine prints alternating moves as "1. G8 2. (G9) 3. G7 ...", with
// the defender's replies in parentheses.
func formatLine(line []domain.Point) string {
	parts := make([]string, 0, len(line))
	for i, p := range line {
		mv := p.String()
		if i%2 == 1 {
			mv = "(" + mv + ")"
		}
		parts = append(parts, fmt.Sprintf("%d. %s", i+1, mv))
	}
	return strings.Join(parts, " ")
}

// renderBoard draws the board with column letters and 1-based rows, row 15
// at the top. Stones on highlight are shown in bold.
func renderBoard(out *termenv.Output, b domain.Board, highlight []domain.Point) string {
	marked := make(map[domain.Point]bool, len(highlight))
	for _, p := range highlight {
		marked[p] = true
	}

	var sb strings.Builder
	for y := domain.BoardSize - 1; y >= 0; y-- {
		fmt.Fprintf(&sb, "%2d ", y+1)
		for x := 0; x < domain.BoardSize; x++ {
			sb.WriteString(cell(out, b.At(x, y), marked[domain.Point{X: x, Y: y}]))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   ")
	for x := 0; x < domain.BoardSize; x++ {
		sb.WriteString(string(rune('A'+x)) + " ")
	}
	return sb.String()
}

func cell(out *termenv.Output, p domain.PlayerID, bold bool) string {
	var s termenv.Style
	switch p {
	case domain.Black:
		s = out.String("X").Foreground(termenv.ANSIRed)
	case domain.White:
		s = out.String("O").Foreground(termenv.ANSICyan)
	default:
		return out.String(".").Faint().String()
	}
	if bold {
		s = s.Bold()
	}
	return s.String()
}
