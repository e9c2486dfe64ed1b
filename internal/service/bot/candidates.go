package bot

import (
	"sort"

	"github.com/iamasit07/gomoku/internal/domain"
)

const DefaultCandidateRadius = 2

// Candidates lists the empty cells within radius (Chebyshev) of any stone
// that p may legally play, nearest first and then by how crowded their
// neighbourhood is. An empty board yields the centre. When nothing near
// the stones is legal the whole board is scanned for a single fallback
// cell; the result is empty only when p has no legal move at all.
func Candidates(b *domain.Board, radius int, p domain.PlayerID) []domain.Point {
	var dist, density [domain.BoardSize][domain.BoardSize]int
	stones := 0
	for y := 0; y < domain.BoardSize; y++ {
		for x := 0; x < domain.BoardSize; x++ {
			dist[y][x] = radius + 1
		}
	}

	for y := 0; y < domain.BoardSize; y++ {
		for x := 0; x < domain.BoardSize; x++ {
			if b[y][x] == domain.Empty {
				continue
			}
			stones++
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					cx, cy := x+dx, y+dy
					if !domain.IsValidPosition(cx, cy) {
						continue
					}
					d := max(abs(dx), abs(dy))
					if d < dist[cy][cx] {
						dist[cy][cx] = d
					}
					density[cy][cx] += radius + 1 - d
				}
			}
		}
	}

	if stones == 0 {
		if domain.IsForbidden(b, domain.Center, domain.Center, p) {
			return fallbackCandidate(b, p)
		}
		return []domain.Point{{X: domain.Center, Y: domain.Center}}
	}

	var out []domain.Point
	for y := 0; y < domain.BoardSize; y++ {
		for x := 0; x < domain.BoardSize; x++ {
			if b[y][x] != domain.Empty || dist[y][x] > radius {
				continue
			}
			if domain.IsForbidden(b, x, y, p) {
				continue
			}
			out = append(out, domain.Point{X: x, Y: y})
		}
	}
	if len(out) == 0 {
		return fallbackCandidate(b, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, c := out[i], out[j]
		if dist[a.Y][a.X] != dist[c.Y][c.X] {
			return dist[a.Y][a.X] < dist[c.Y][c.X]
		}
		return density[a.Y][a.X] > density[c.Y][c.X]
	})
	return out
}

func fallbackCandidate(b *domain.Board, p domain.PlayerID) []domain.Point {
	for y := 0; y < domain.BoardSize; y++ {
		for x := 0; x < domain.BoardSize; x++ {
			if b[y][x] == domain.Empty && !domain.IsForbidden(b, x, y, p) {
				return []domain.Point{{X: x, Y: y}}
			}
		}
	}
	return nil
}

// completesFive reports whether p wins outright by playing (x, y). For
// Black an overline is forbidden, so only an exact five counts.
func completesFive(b *domain.Board, x, y int, p domain.PlayerID) bool {
	return domain.IsWinningMove(b, x, y, p) && !domain.IsForbidden(b, x, y, p)
}

// findWinningMove returns the first cell in cands where p makes five.
func findWinningMove(b *domain.Board, cands []domain.Point, p domain.PlayerID) (domain.Point, bool) {
	for _, c := range cands {
		if completesFive(b, c.X, c.Y, p) {
			return c, true
		}
	}
	return domain.Point{}, false
}

// winningCells lists the empty cells on the four axes through (x, y) where
// p would complete five.
func winningCells(b *domain.Board, x, y int, p domain.PlayerID) []domain.Point {
	var out []domain.Point
	for _, d := range domain.Directions {
		for _, sign := range [2]int{-1, 1} {
			for i := 1; i < domain.ToWin; i++ {
				cx, cy := x+sign*i*d.DX, y+sign*i*d.DY
				if !domain.IsValidPosition(cx, cy) {
					break
				}
				cell := b[cy][cx]
				if cell == p {
					continue
				}
				if cell == domain.Empty && completesFive(b, cx, cy, p) && !containsPoint(out, cx, cy) {
					out = append(out, domain.Point{X: cx, Y: cy})
				}
				break
			}
		}
	}
	return out
}

// hasWinningCell reports whether p could make five somewhere right now.
// A five always touches one of its own stones, so radius 1 is enough.
func hasWinningCell(b *domain.Board, p domain.PlayerID) (domain.Point, bool) {
	return findWinningMove(b, Candidates(b, 1, p), p)
}

func containsPoint(pts []domain.Point, x, y int) bool {
	for _, p := range pts {
		if p.X == x && p.Y == y {
			return true
		}
	}
	return false
}
