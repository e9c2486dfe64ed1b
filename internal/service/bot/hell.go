package bot

import (
	"math"

	"github.com/iamasit07/gomoku/internal/domain"
)

// hellMove: gate, own VCF, stop the opponent's VCF, double threats, then
// iterative deepening alpha-beta inside the time budget.
func (s *search) hellMove() Decision {
	if dec, ok := s.gate(); ok {
		return dec
	}

	if s.cfg.VCFDepth > 0 {
		solver := s.e.newVCF(s.ctx, s.b, s.cfg.VCFNodeBudget)
		if p, ok := solver.Search(s.me, s.cfg.VCFDepth); ok {
			return Decision{Move: p, Source: SourceVCF, Depth: s.cfg.VCFDepth, Nodes: solver.nodes}
		}
		if p, ok := s.vcfDefense(); ok {
			return Decision{Move: p, Source: SourceVCFDefense, Depth: s.cfg.VCFDefenseDepth}
		}
	}

	if s.cfg.UseThreatScan {
		if dec, ok := s.threatMove(); ok {
			return dec
		}
	}
	return s.iterativeDeepening()
}

func (s *search) iterativeDeepening() Decision {
	root := s.rank(s.me, s.limitFor(0, true))
	if len(root) == 0 {
		return s.bestRanked()
	}
	best := Decision{Move: root[0].p, Source: SourceGreedy, Score: root[0].score}

	maxDepth := max(s.cfg.Depth, 1)
	for depth := 1; depth <= maxDepth; depth++ {
		move, score, complete := s.searchRoot(root, depth)
		if !complete {
			break
		}
		best = Decision{Move: move, Source: SourceSearch, Score: score, Depth: depth, Nodes: s.nodes}
		if score >= MINIMAX_WIN {
			break
		}
		// try the previous best first next round
		for i := range root {
			if root[i].p == move {
				root[0], root[i] = root[i], root[0]
				break
			}
		}
	}
	best.Nodes = s.nodes
	return best
}

// searchRoot runs one full-width alpha-beta iteration. complete is false
// when the budget ran out part way, in which case the result is discarded.
func (s *search) searchRoot(root []scoredMove, depth int) (domain.Point, float64, bool) {
	alpha, beta := math.Inf(-1), math.Inf(1)
	bestMove := root[0].p
	bestScore := math.Inf(-1)
	for _, m := range root {
		score := domain.WithStone(s.b, m.p.X, m.p.Y, s.me, func() float64 {
			return s.alphaBeta(depth-1, 1, alpha, beta, false)
		})
		if s.aborted {
			return bestMove, bestScore, false
		}
		if score > bestScore {
			bestScore = score
			bestMove = m.p
		}
		alpha = max(alpha, bestScore)
	}
	return bestMove, bestScore, true
}

func (s *search) alphaBeta(depth, ply int, alpha, beta float64, maximizing bool) float64 {
	side := s.opp
	if maximizing {
		side = s.me
	}
	if s.expired() {
		return 0
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
				return s.alphaBeta(depth-1, ply+1, alpha, beta, false)
			})
			best = max(best, v)
			alpha = max(alpha, v)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := math.Inf(1)
	for _, m := range moves {
		if completesFive(s.b, m.p.X, m.p.Y, side) {
			return -winScore(depth)
		}
		v := domain.WithStone(s.b, m.p.X, m.p.Y, side, func() float64 {
			return s.alphaBeta(depth-1, ply+1, alpha, beta, true)
		})
		best = min(best, v)
		beta = min(beta, v)
		if beta <= alpha {
			break
		}
	}
	return best
}

// vcfDefense answers an opponent VCF. Their first four-point is tried
// first, then their other four-points, then the AI's own best cells; the
// first cell after which the opponent has no VCF is played. If nothing
// breaks it the AI takes the opponent's key point anyway.
func (s *search) vcfDefense() (domain.Point, bool) {
	depth := s.cfg.VCFDefenseDepth
	if depth <= 0 {
		depth = s.cfg.VCFDepth
	}
	budget := max(s.cfg.VCFNodeBudget/4, 1000)

	threat, ok := s.e.newVCF(s.ctx, s.b, budget).Search(s.opp, depth)
	if !ok {
		return domain.Point{}, false
	}

	order := []domain.Point{threat}
	for _, f := range s.e.newVCF(s.ctx, s.b, budget).fourMoves(s.opp) {
		if !containsPoint(order, f.p.X, f.p.Y) {
			order = append(order, f.p)
		}
	}
	for _, m := range s.rank(s.me, 20) {
		if !containsPoint(order, m.p.X, m.p.Y) {
			order = append(order, m.p)
		}
	}

	for _, c := range order {
		if !s.b.IsEmpty(c.X, c.Y) || domain.IsForbidden(s.b, c.X, c.Y, s.me) {
			continue
		}
		stillWins := domain.WithStone(s.b, c.X, c.Y, s.me, func() bool {
			_, ok := s.e.newVCF(s.ctx, s.b, budget).Search(s.opp, depth)
			return ok
		})
		if !stillWins {
			return c, true
		}
		if s.ctx.Err() != nil {
			break
		}
	}

	if s.b.IsEmpty(threat.X, threat.Y) && !domain.IsForbidden(s.b, threat.X, threat.Y, s.me) {
		return threat, true
	}
	return domain.Point{}, false
}
