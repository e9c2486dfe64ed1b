package bot

import (
	"math"

	"github.com/iamasit07/gomoku/internal/domain"
)

const (
	MINIMAX_WIN  = 1e9
	MIN_BRANCHES = 5
	BRANCH_DECAY = 3
)

// winScore grows with the depth still remaining, so quicker wins and
// slower losses are preferred.
func winScore(depth int) float64 {
	return MINIMAX_WIN * float64(depth+1)
}

// limitFor shrinks the branching factor as the search goes deeper.
func (s *search) limitFor(ply int, maximizing bool) int {
	base := s.cfg.CandidateLimit
	if !maximizing && s.cfg.ReplyLimit > 0 {
		base = s.cfg.ReplyLimit
	}
	limit := base - ply*BRANCH_DECAY
	if limit < MIN_BRANCHES {
		limit = MIN_BRANCHES
	}
	return limit
}

// leaf scores a horizon position. A side to move that can make five wins.
func (s *search) leaf(toMove domain.PlayerID) float64 {
	if _, ok := hasWinningCell(s.b, toMove); ok {
		if toMove == s.me {
			return winScore(0)
		}
		return -winScore(0)
	}
	return s.e.eval.EvaluateBoard(s.b, s.me, toMove)
}

// hardMove runs a fixed-depth minimax over ranked candidates.
func (s *search) hardMove() Decision {
	if dec, ok := s.gate(); ok {
		return dec
	}
	if s.cfg.UseThreatScan {
		if dec, ok := s.threatMove(); ok {
			return dec
		}
	}

	depth := max(s.cfg.Depth, 1)
	best := Decision{Source: SourceSearch, Score: math.Inf(-1), Depth: depth}
	for _, m := range s.rank(s.me, s.limitFor(0, true)) {
		score := domain.WithStone(s.b, m.p.X, m.p.Y, s.me, func() float64 {
			return s.minimax(depth-1, 1, false)
		})
		if score > best.Score {
			best.Move = m.p
			best.Score = score
		}
	}
	best.Nodes = s.nodes
	if math.IsInf(best.Score, -1) {
		return s.bestRanked()
	}
	return best
}

func (s *search) minimax(depth, ply int, maximizing bool) float64 {
	s.nodes++
	side := s.opp
	if maximizing {
		side = s.me
	}
	if depth <= 0 {
		return s.leaf(side)
	}

	moves := s.rank(side, s.limitFor(ply, maximizing))
	if len(moves) == 0 {
		return s.leaf(side)
	}

	if maximizing {
		best := math.Inf(-1)
		for _, m := range moves {
			if completesFive(s.b, m.p.X, m.p.Y, side) {
				return winScore(depth)
			}
			v := domain.WithStone(s.b, m.p.X, m.p.Y, side, func() float64 {
				return s.minimax(depth-1, ply+1, false)
			})
			best = max(best, v)
		}
		return best
	}

	best := math.Inf(1)
	for _, m := range moves {
		if completesFive(s.b, m.p.X, m.p.Y, side) {
			return -winScore(depth)
		}
		v := domain.WithStone(s.b, m.p.X, m.p.Y, side, func() float64 {
			return s.minimax(depth-1, ply+1, true)
		})
		best = min(best, v)
	}
	return best
}
