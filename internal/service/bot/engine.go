package bot

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/gomoku/internal/domain"
)

const ErrNoMove domain.Error = "no legal move available"

// AIConfig tunes one difficulty tier. It is read-only during a search.
type AIConfig struct {
	Depth           int
	CandidateRadius int
	CandidateLimit  int // moves tried at the AI's own plies
	ReplyLimit      int // moves tried at the opponent's plies
	Weights         Weights

	WinChance   float64 // beginner only
	BlockChance float64 // beginner only
	TopK        int     // normal picks among this many best moves

	TimeBudget      time.Duration
	VCFDepth        int
	VCFDefenseDepth int
	VCFNodeBudget   int

	UseOpeningBook bool
	UseThreatScan  bool
}

func DefaultConfigs() map[domain.Difficulty]AIConfig {
	return map[domain.Difficulty]AIConfig{
		domain.Beginner: {
			Depth:           1,
			CandidateRadius: DefaultCandidateRadius,
			CandidateLimit:  15,
			Weights:         Weights{Offense: 1.0, Defense: 0.8, Positional: 1, Randomness: 2000},
			WinChance:       0.7,
			BlockChance:     0.5,
		},
		domain.Normal: {
			Depth:           1,
			CandidateRadius: DefaultCandidateRadius,
			CandidateLimit:  20,
			Weights:         Weights{Offense: 1.1, Defense: 0.9, Positional: 1, Randomness: 50},
			TopK:            3,
			UseOpeningBook:  true,
		},
		domain.Hard: {
			Depth:           2,
			CandidateRadius: DefaultCandidateRadius,
			CandidateLimit:  25,
			ReplyLimit:      12,
			Weights:         Weights{Offense: 1.1, Defense: 0.9, Positional: 1},
			UseOpeningBook:  true,
			UseThreatScan:   true,
		},
		domain.Hell: {
			Depth:           5,
			CandidateRadius: DefaultCandidateRadius,
			CandidateLimit:  30,
			ReplyLimit:      15,
			Weights:         Weights{Offense: 1.1, Defense: 0.9, Positional: 1},
			TimeBudget:      3 * time.Second,
			VCFDepth:        10,
			VCFDefenseDepth: 6,
			VCFNodeBudget:   20000,
			UseOpeningBook:  true,
			UseThreatScan:   true,
		},
	}
}

// GameView is the read side of a game the engine needs. *domain.Game
// satisfies it.
type GameView interface {
	Board() domain.Board
	CurrentPlayer() domain.PlayerID
	Moves() []domain.Move
}

// MoveCache stores decisions of the deterministic tiers by position.
type MoveCache interface {
	Get(ctx context.Context, key string) (domain.Point, bool)
	Set(ctx context.Context, key string, move domain.Point)
}

// Decision is a chosen move plus how it was found.
type Decision struct {
	Move   domain.Point `json:"move"`
	Source string       `json:"source"`
	Score  float64      `json:"score"`
	Depth  int          `json:"depth,omitempty"`
	Nodes  int          `json:"nodes,omitempty"`
}

const (
	SourceBook       = "book"
	SourceWin        = "win"
	SourceBlock      = "block"
	SourceVCF        = "vcf"
	SourceVCFDefense = "vcf_defense"
	SourceThreat     = "threat"
	SourceSearch     = "search"
	SourceGreedy     = "greedy"
	SourceRandom     = "random"
	SourceCache      = "cache"
)

type Engine struct {
	configs map[domain.Difficulty]AIConfig
	eval    *Evaluator
	cache   MoveCache

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

type Option func(*Engine)

func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func WithCache(c MoveCache) Option {
	return func(e *Engine) { e.cache = c }
}

func WithScores(t ScoreTable) Option {
	return func(e *Engine) { e.eval = NewEvaluator(t) }
}

func WithConfig(d domain.Difficulty, cfg AIConfig) Option {
	return func(e *Engine) { e.configs[d] = cfg }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		configs: DefaultConfigs(),
		eval:    NewEvaluator(DefaultScores),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Config(d domain.Difficulty) AIConfig {
	if cfg, ok := e.configs[d]; ok {
		return cfg
	}
	return e.configs[domain.Normal]
}

func (e *Engine) Evaluator() *Evaluator {
	return e.eval
}

// GetMove picks a move for the side to move in g. The game's own board is
// never touched; the search works on a copy.
func (e *Engine) GetMove(ctx context.Context, g GameView, d domain.Difficulty) (domain.Point, error) {
	dec, err := e.Decide(ctx, g, d)
	return dec.Move, err
}

func (e *Engine) Decide(ctx context.Context, g GameView, d domain.Difficulty) (Decision, error) {
	board := g.Board()
	me := g.CurrentPlayer()
	cfg := e.Config(d)
	s := e.newSearch(ctx, &board, me, cfg)

	if len(Candidates(s.b, 1, me)) == 0 {
		return Decision{}, ErrNoMove
	}

	if cfg.UseOpeningBook {
		if p, ok := s.openingMove(g.Moves()); ok {
			return e.logDecision(d, me, Decision{Move: p, Source: SourceBook}), nil
		}
	}

	cacheable := e.cache != nil && cfg.Weights.Randomness == 0
	key := cacheKey(s.b, me, d)
	if cacheable {
		if p, ok := e.cache.Get(ctx, key); ok && s.b.IsEmpty(p.X, p.Y) && !domain.IsForbidden(s.b, p.X, p.Y, me) {
			return e.logDecision(d, me, Decision{Move: p, Source: SourceCache}), nil
		}
	}

	var dec Decision
	switch d {
	case domain.Beginner:
		dec = s.beginnerMove()
	case domain.Hard:
		dec = s.hardMove()
	case domain.Hell:
		dec = s.hellMove()
	default:
		dec = s.normalMove()
	}
	if cacheable {
		e.cache.Set(ctx, key, dec.Move)
	}
	return e.logDecision(d, me, dec), nil
}

func (e *Engine) logDecision(d domain.Difficulty, me domain.PlayerID, dec Decision) Decision {
	log.Printf("[AI] %s %s plays %s (%s, depth=%d, nodes=%d)", d, me, dec.Move, dec.Source, dec.Depth, dec.Nodes)
	return dec
}

func cacheKey(b *domain.Board, me domain.PlayerID, d domain.Difficulty) string {
	return fmt.Sprintf("gomoku:ai:%s:%016x", d, HashBoard(b, me))
}

// search carries the state of one decision. Each decision gets its own rng
// so concurrent games never share one.
type search struct {
	ctx      context.Context
	e        *Engine
	cfg      AIConfig
	b        *domain.Board
	me, opp  domain.PlayerID
	rng      *rand.Rand
	deadline time.Time
	nodes    int
	aborted  bool
}

func (e *Engine) newSearch(ctx context.Context, b *domain.Board, me domain.PlayerID, cfg AIConfig) *search {
	e.mu.Lock()
	seed := e.rng.Int63()
	e.mu.Unlock()

	if cfg.CandidateRadius <= 0 {
		cfg.CandidateRadius = DefaultCandidateRadius
	}

	s := &search{
		ctx: ctx,
		e:   e,
		cfg: cfg,
		b:   b,
		me:  me,
		opp: me.Opponent(),
		rng: rand.New(rand.NewSource(seed)),
	}
	if cfg.TimeBudget > 0 {
		s.deadline = time.Now().Add(cfg.TimeBudget)
	}
	return s
}

// expired is polled inside the tree search.
func (s *search) expired() bool {
	if s.aborted {
		return true
	}
	s.nodes++
	if s.nodes&63 != 0 {
		return false
	}
	if s.ctx.Err() != nil || (!s.deadline.IsZero() && time.Now().After(s.deadline)) {
		s.aborted = true
	}
	return s.aborted
}

type scoredMove struct {
	p     domain.Point
	score float64
}

// rank scores p's candidates with EvaluateMove, best first, cut to limit.
func (s *search) rank(p domain.PlayerID, limit int) []scoredMove {
	cands := Candidates(s.b, s.cfg.CandidateRadius, p)
	out := make([]scoredMove, 0, len(cands))
	for _, c := range cands {
		v := s.e.eval.EvaluateMove(s.b, c.X, c.Y, p, s.cfg.Weights, s.rng)
		out = append(out, scoredMove{p: c, score: v})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// gate is the shared first step of every tier above beginner: win now,
// otherwise stop the opponent from winning now.
func (s *search) gate() (Decision, bool) {
	cands := Candidates(s.b, s.cfg.CandidateRadius, s.me)
	if p, ok := findWinningMove(s.b, cands, s.me); ok {
		return Decision{Move: p, Source: SourceWin}, true
	}
	if p, ok := s.blockingMove(); ok {
		return Decision{Move: p, Source: SourceBlock}, true
	}
	return Decision{}, false
}

// blockingMove finds a cell where the opponent would make five and the AI
// is allowed to play.
func (s *search) blockingMove() (domain.Point, bool) {
	for _, c := range Candidates(s.b, 1, s.opp) {
		if completesFive(s.b, c.X, c.Y, s.opp) && !domain.IsForbidden(s.b, c.X, c.Y, s.me) {
			return c, true
		}
	}
	return domain.Point{}, false
}

// threatMove plays the strongest double threat the AI can make.
func (s *search) threatMove() (Decision, bool) {
	best := Decision{}
	found := false
	for _, c := range Candidates(s.b, s.cfg.CandidateRadius, s.me) {
		t := s.e.eval.Analyze(s.b, c.X, c.Y, s.me)
		if !t.DoubleThreat() {
			continue
		}
		if v := s.e.eval.Score(t); !found || v > best.Score {
			best = Decision{Move: c, Source: SourceThreat, Score: v}
			found = true
		}
	}
	return best, found
}

// bestRanked is the fallback when a search produced nothing.
func (s *search) bestRanked() Decision {
	ranked := s.rank(s.me, 1)
	if len(ranked) == 0 {
		c := Candidates(s.b, s.cfg.CandidateRadius, s.me)
		return Decision{Move: c[0], Source: SourceGreedy}
	}
	return Decision{Move: ranked[0].p, Source: SourceGreedy, Score: ranked[0].score}
}
