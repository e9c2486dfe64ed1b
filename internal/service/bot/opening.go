package bot

import (
	"github.com/iamasit07/gomoku/internal/domain"
)

type openingLine struct {
	name  string
	moves [3]domain.Point
}

var (
	centre = domain.Point{X: domain.Center, Y: domain.Center}

	diagonalReplies = []domain.Point{{X: 6, Y: 6}, {X: 8, Y: 8}, {X: 6, Y: 8}, {X: 8, Y: 6}}

	// ordered by preference
	openingLines = []openingLine{
		{name: "ruixing", moves: [3]domain.Point{{X: 7, Y: 7}, {X: 6, Y: 7}, {X: 7, Y: 6}}},
		{name: "huayue", moves: [3]domain.Point{{X: 7, Y: 7}, {X: 7, Y: 6}, {X: 6, Y: 6}}},
		{name: "hengxing", moves: [3]domain.Point{{X: 7, Y: 7}, {X: 8, Y: 6}, {X: 7, Y: 6}}},
	}
)

// openingMove covers the first three plies: the centre, a diagonal answer
// to a centre opening, and the third stone of a known line.
func (s *search) openingMove(history []domain.Move) (domain.Point, bool) {
	switch len(history) {
	case 0:
		return centre, s.legal(centre)
	case 1:
		if history[0].X != centre.X || history[0].Y != centre.Y {
			return domain.Point{}, false
		}
		p := diagonalReplies[s.rng.Intn(len(diagonalReplies))]
		return p, s.legal(p)
	case 2:
		for _, line := range openingLines {
			if history[0].X == line.moves[0].X && history[0].Y == line.moves[0].Y &&
				history[1].X == line.moves[1].X && history[1].Y == line.moves[1].Y {
				p := line.moves[2]
				if s.legal(p) {
					return p, true
				}
			}
		}
	}
	return domain.Point{}, false
}

func (s *search) legal(p domain.Point) bool {
	return s.b.IsEmpty(p.X, p.Y) && !domain.IsForbidden(s.b, p.X, p.Y, s.me)
}
