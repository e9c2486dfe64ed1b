package bot

import (
	"context"
	"sort"

	"github.com/iamasit07/gomoku/internal/domain"
)

const (
	vcfDefaultNodeBudget = 20000
	vcfDefenseRadius     = 2
)

type vcfEntry struct {
	win       bool
	remaining int
	move      domain.Point
}

// vcfSolver searches for victory by continuous fours: every attacking move
// makes a four, so the defender's replies are forced, and every defence
// the defender has must still lose.
type vcfSolver struct {
	ctx      context.Context
	e        *Engine
	b        *domain.Board
	attacker domain.PlayerID
	defender domain.PlayerID
	hash     uint64
	memo     map[uint64]vcfEntry
	nodes    int
	budget   int
	stopped  bool
}

type fourMove struct {
	p       domain.Point
	threats int
	score   float64
}

func (e *Engine) newVCF(ctx context.Context, b *domain.Board, budget int) *vcfSolver {
	if budget <= 0 {
		budget = vcfDefaultNodeBudget
	}
	return &vcfSolver{ctx: ctx, e: e, b: b, budget: budget}
}

// SearchVCF reports the first move of a forced win by fours for attacker
// within maxDepth attacking moves. b is restored before returning.
func (e *Engine) SearchVCF(ctx context.Context, b *domain.Board, attacker domain.PlayerID, maxDepth int) (domain.Point, bool) {
	return e.newVCF(ctx, b, e.Config(domain.Hell).VCFNodeBudget).Search(attacker, maxDepth)
}

// SolveVCF plays out the whole forced line on a copy of b: attacker fours
// alternating with the defender's forced blocks, ending on the five.
func (e *Engine) SolveVCF(ctx context.Context, b domain.Board, attacker domain.PlayerID, maxDepth int) ([]domain.Point, bool) {
	defender := attacker.Opponent()
	var line []domain.Point
	for remaining := maxDepth; remaining > 0; remaining-- {
		p, ok := e.SearchVCF(ctx, &b, attacker, remaining)
		if !ok {
			return nil, false
		}
		b.Set(p.X, p.Y, attacker)
		line = append(line, p)
		if domain.CheckWin(&b, p.X, p.Y).Win {
			return line, true
		}

		blocked := false
		for _, t := range winningCells(&b, p.X, p.Y, attacker) {
			if !domain.IsForbidden(&b, t.X, t.Y, defender) {
				b.Set(t.X, t.Y, defender)
				line = append(line, t)
				blocked = true
				break
			}
		}
		if !blocked {
			// the four cannot be stopped; finish it
			if w, ok := hasWinningCell(&b, attacker); ok {
				return append(line, w), true
			}
			return line, true
		}
	}
	return nil, false
}

func (v *vcfSolver) Search(attacker domain.PlayerID, maxDepth int) (domain.Point, bool) {
	v.attacker = attacker
	v.defender = attacker.Opponent()
	v.hash = HashBoard(v.b, domain.Empty)
	v.memo = make(map[uint64]vcfEntry, 1<<10)
	return v.attack(maxDepth)
}

func (v *vcfSolver) exhausted() bool {
	if v.stopped {
		return true
	}
	if v.nodes >= v.budget || (v.nodes&63 == 0 && v.ctx.Err() != nil) {
		v.stopped = true
	}
	return v.stopped
}

func (v *vcfSolver) place(p domain.Point, who domain.PlayerID) func() {
	restore := v.b.Place(p.X, p.Y, who)
	v.hash ^= stoneKey(p.X, p.Y, who)
	return func() {
		v.hash ^= stoneKey(p.X, p.Y, who)
		restore()
	}
}

// attack is an attacker-to-move node with remaining fours allowed.
func (v *vcfSolver) attack(remaining int) (domain.Point, bool) {
	if remaining <= 0 || v.exhausted() {
		return domain.Point{}, false
	}
	v.nodes++

	if e, ok := v.memo[v.hash]; ok {
		if e.win && e.remaining <= remaining {
			return e.move, true
		}
		if !e.win && e.remaining >= remaining {
			return domain.Point{}, false
		}
	}

	if p, ok := findWinningMove(v.b, Candidates(v.b, 1, v.attacker), v.attacker); ok {
		v.memo[v.hash] = vcfEntry{win: true, remaining: 1, move: p}
		return p, true
	}

	for _, f := range v.fourMoves(v.attacker) {
		if v.forces(f.p, remaining) {
			v.memo[v.hash] = vcfEntry{win: true, remaining: remaining, move: f.p}
			return f.p, true
		}
		if v.exhausted() {
			return domain.Point{}, false
		}
	}
	v.memo[v.hash] = vcfEntry{remaining: remaining}
	return domain.Point{}, false
}

// forces plays the four at f and reports whether every defence loses.
func (v *vcfSolver) forces(f domain.Point, remaining int) bool {
	defer v.place(f, v.attacker)()

	if _, ok := hasWinningCell(v.b, v.defender); ok {
		return false
	}
	threats := winningCells(v.b, f.X, f.Y, v.attacker)
	if len(threats) == 0 {
		return false
	}

	defenses := v.defenses(f, threats)
	for _, d := range defenses {
		held := func() bool {
			defer v.place(d, v.defender)()
			_, ok := v.attack(remaining - 1)
			return !ok
		}()
		if held {
			return false
		}
	}
	return true
}

// defenses lists every empty cell around the four plus the cells that
// complete it, skipping points the defender may not play.
func (v *vcfSolver) defenses(f domain.Point, threats []domain.Point) []domain.Point {
	out := make([]domain.Point, 0, 24+len(threats))
	for _, t := range threats {
		if !domain.IsForbidden(v.b, t.X, t.Y, v.defender) {
			out = append(out, t)
		}
	}
	for dy := -vcfDefenseRadius; dy <= vcfDefenseRadius; dy++ {
		for dx := -vcfDefenseRadius; dx <= vcfDefenseRadius; dx++ {
			x, y := f.X+dx, f.Y+dy
			if !v.b.IsEmpty(x, y) || containsPoint(out, x, y) || domain.IsForbidden(v.b, x, y, v.defender) {
				continue
			}
			out = append(out, domain.Point{X: x, Y: y})
		}
	}
	return out
}

// fourMoves lists p's moves that leave at least one cell completing five,
// open fours first.
func (v *vcfSolver) fourMoves(p domain.PlayerID) []fourMove {
	var out []fourMove
	for _, c := range Candidates(v.b, DefaultCandidateRadius, p) {
		threats := domain.WithStone(v.b, c.X, c.Y, p, func() int {
			return len(winningCells(v.b, c.X, c.Y, p))
		})
		if threats == 0 {
			continue
		}
		out = append(out, fourMove{p: c, threats: threats, score: v.e.eval.ScoreMove(v.b, c.X, c.Y, p)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].threats != out[j].threats {
			return out[i].threats > out[j].threats
		}
		return out[i].score > out[j].score
	})
	return out
}
