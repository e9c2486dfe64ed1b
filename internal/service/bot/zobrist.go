package bot

import "github.com/iamasit07/gomoku/internal/domain"

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// fixed seed so hashes are stable across processes and can key a shared cache
var zobrist = func() (t struct {
	cells [domain.BoardSize][domain.BoardSize][2]uint64
	side  uint64
}) {
	rng := splitmix64{state: 0x9e3779b97f4a7c15 ^ domain.BoardSize}
	for y := range t.cells {
		for x := range t.cells[y] {
			t.cells[y][x][0] = rng.next()
			t.cells[y][x][1] = rng.next()
		}
	}
	t.side = rng.next()
	return t
}()

func stoneKey(x, y int, p domain.PlayerID) uint64 {
	if p == domain.White {
		return zobrist.cells[y][x][1]
	}
	return zobrist.cells[y][x][0]
}

// HashBoard hashes the stones plus the side to move.
func HashBoard(b *domain.Board, toMove domain.PlayerID) uint64 {
	var h uint64
	for y := 0; y < domain.BoardSize; y++ {
		for x := 0; x < domain.BoardSize; x++ {
			if b[y][x] != domain.Empty {
				h ^= stoneKey(x, y, b[y][x])
			}
		}
	}
	if toMove == domain.White {
		h ^= zobrist.side
	}
	return h
}
