package bot

import (
	"math"
	"math/rand"

	"github.com/iamasit07/gomoku/internal/domain"
)

type PatternType int

const (
	PatternNone PatternType = iota
	ClosedTwo
	OpenTwo
	ClosedThree
	OpenThree
	BrokenFour
	ClosedFour
	OpenFour
	Five
)

var patternNames = [...]string{"none", "closed_two", "open_two", "closed_three", "open_three", "broken_four", "closed_four", "open_four", "five"}

func (p PatternType) String() string {
	if p < 0 || int(p) >= len(patternNames) {
		return "unknown"
	}
	return patternNames[p]
}

// IsFour covers every shape that makes five with one more stone.
func (p PatternType) IsFour() bool {
	return p == BrokenFour || p == ClosedFour || p == OpenFour
}

// ScoreTable holds the value of each line shape and of the combinations
// that are usually decisive.
type ScoreTable struct {
	Five        float64
	OpenFour    float64
	ClosedFour  float64
	BrokenFour  float64
	OpenThree   float64
	ClosedThree float64
	OpenTwo     float64
	ClosedTwo   float64

	DoubleOpenFour   float64
	FourThree        float64
	DoubleOpenThree  float64
	DoubleClosedFour float64
	ThreeTwo         float64
}

var DefaultScores = ScoreTable{
	Five:        10000000,
	OpenFour:    200000,
	ClosedFour:  80000,
	BrokenFour:  75000,
	OpenThree:   15000,
	ClosedThree: 3500,
	OpenTwo:     1000,
	ClosedTwo:   300,

	DoubleOpenFour:   500000,
	FourThree:        180000,
	DoubleOpenThree:  50000,
	DoubleClosedFour: 150000,
	ThreeTwo:         8000,
}

func (t ScoreTable) pattern(p PatternType) float64 {
	switch p {
	case Five:
		return t.Five
	case OpenFour:
		return t.OpenFour
	case ClosedFour:
		return t.ClosedFour
	case BrokenFour:
		return t.BrokenFour
	case OpenThree:
		return t.OpenThree
	case ClosedThree:
		return t.ClosedThree
	case OpenTwo:
		return t.OpenTwo
	case ClosedTwo:
		return t.ClosedTwo
	}
	return 0
}

// Weights mixes the parts of a move's value.
type Weights struct {
	Offense    float64
	Defense    float64
	Positional float64
	Randomness float64
}

// Threats counts the shapes one placement creates across the four axes.
type Threats struct {
	Patterns     [4]PatternType
	Fives        int
	OpenFours    int
	Fours        int
	OpenThrees   int
	ClosedThrees int
	OpenTwos     int
	ClosedTwos   int
}

// DoubleThreat reports shapes the opponent cannot answer with one stone.
func (t Threats) DoubleThreat() bool {
	return t.Fives > 0 || t.OpenFours > 0 || t.Fours >= 2 || (t.Fours > 0 && t.OpenThrees > 0) || t.OpenThrees >= 2
}

type Evaluator struct {
	scores ScoreTable
}

func NewEvaluator(scores ScoreTable) *Evaluator {
	return &Evaluator{scores: scores}
}

// ClassifyLine names the shape through (x, y) along one axis. p's stone
// must already be on (x, y).
func ClassifyLine(b *domain.Board, x, y, dx, dy int, p domain.PlayerID) PatternType {
	line := b.Line(x, y, dx, dy, p)
	n := len(line)
	if n >= domain.ToWin {
		return Five
	}

	open := 0
	first, last := line[0], line[n-1]
	if b.IsEmpty(first.X-dx, first.Y-dy) {
		open++
	}
	if b.IsEmpty(last.X+dx, last.Y+dy) {
		open++
	}

	base := PatternNone
	switch {
	case open == 0:
		base = PatternNone
	case n == 4:
		base = pick(open, OpenFour, ClosedFour)
	case n == 3:
		base = pick(open, OpenThree, ClosedThree)
	case n == 2:
		base = pick(open, OpenTwo, ClosedTwo)
	}

	// split shapes such as 11011 or 01011 are invisible to the run
	// length, the signature windows catch them
	if base < ClosedFour {
		sig := b.Signature(x, y, dx, dy, p)
		if domain.HasFour(sig) {
			return BrokenFour
		}
		if base < OpenThree && domain.HasOpenThree(sig) {
			return OpenThree
		}
	}
	return base
}

func pick(open int, bothOpen, oneOpen PatternType) PatternType {
	if open == 2 {
		return bothOpen
	}
	return oneOpen
}

// Analyze classifies all four axes as if p played the empty cell (x, y).
func (e *Evaluator) Analyze(b *domain.Board, x, y int, p domain.PlayerID) Threats {
	defer b.Place(x, y, p)()

	var t Threats
	for i, d := range domain.Directions {
		pt := ClassifyLine(b, x, y, d.DX, d.DY, p)
		t.Patterns[i] = pt
		switch pt {
		case Five:
			t.Fives++
		case OpenFour:
			t.OpenFours++
		case ClosedFour, BrokenFour:
			t.Fours++
		case OpenThree:
			t.OpenThrees++
		case ClosedThree:
			t.ClosedThrees++
		case OpenTwo:
			t.OpenTwos++
		case ClosedTwo:
			t.ClosedTwos++
		}
	}
	return t
}

// Score sums the per-axis values plus combination bonuses.
func (e *Evaluator) Score(t Threats) float64 {
	s := e.scores
	total := 0.0
	for _, pt := range t.Patterns {
		total += s.pattern(pt)
	}

	if t.OpenFours >= 2 {
		total += s.DoubleOpenFour
	}
	if t.Fours >= 2 {
		total += s.DoubleClosedFour
	}
	if t.OpenFours+t.Fours > 0 && t.OpenThrees > 0 {
		total += s.FourThree
	}
	if t.OpenThrees >= 2 {
		total += s.DoubleOpenThree
	}
	if t.OpenThrees > 0 && t.OpenTwos > 0 {
		total += s.ThreeTwo
	}
	return total
}

// ScoreMove is Score(Analyze(...)).
func (e *Evaluator) ScoreMove(b *domain.Board, x, y int, p domain.PlayerID) float64 {
	return e.Score(e.Analyze(b, x, y, p))
}

// EvaluateMove values (x, y) for p: what p builds there, what the
// opponent would build there, and where it sits on the board. Occupied
// and forbidden cells are -Inf.
func (e *Evaluator) EvaluateMove(b *domain.Board, x, y int, p domain.PlayerID, w Weights, rng *rand.Rand) float64 {
	if !b.IsEmpty(x, y) || domain.IsForbidden(b, x, y, p) {
		return math.Inf(-1)
	}
	offense := e.ScoreMove(b, x, y, p)
	defense := e.ScoreMove(b, x, y, p.Opponent())
	value := offense*w.Offense + defense*w.Defense + Positional(b, x, y)*w.Positional
	if w.Randomness > 0 && rng != nil {
		value += rng.Float64() * w.Randomness
	}
	return value
}

// Positional rewards the centre and cells with stones nearby.
func Positional(b *domain.Board, x, y int) float64 {
	dist := abs(x-domain.Center) + abs(y-domain.Center)
	score := 100 - dist*5
	if score < 0 {
		score = 0
	}
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if (dx == 0 && dy == 0) || b.At(x+dx, y+dy) == domain.Empty {
				continue
			}
			score += (3 - max(abs(dx), abs(dy))) * 5
		}
	}
	return float64(score)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

const tempoFactor = 1.1

// EvaluateBoard scores the whole position from me's side. Each run is
// counted once, from its first stone, and a split shape once, from its
// first part. The side to move gets a tempo bonus
// since it converts threats first.
func (e *Evaluator) EvaluateBoard(b *domain.Board, me, toMove domain.PlayerID) float64 {
	var mine, theirs float64
	for y := 0; y < domain.BoardSize; y++ {
		for x := 0; x < domain.BoardSize; x++ {
			p := b[y][x]
			if p == domain.Empty {
				continue
			}
			for _, d := range domain.Directions {
				if b.At(x-d.DX, y-d.DY) == p {
					continue
				}
				pt := ClassifyLine(b, x, y, d.DX, d.DY, p)
				if splitTail(b, x, y, d.DX, d.DY, p, pt) {
					continue
				}
				v := e.scores.pattern(pt)
				if p == me {
					mine += v
				} else {
					theirs += v
				}
			}
		}
	}
	if toMove == me {
		mine *= tempoFactor
	} else {
		theirs *= tempoFactor
	}
	return mine - theirs
}

// splitTail reports whether the run at (x, y) is the back half of a split
// shape such as 11011 whose front half, one gap behind, already scored it.
func splitTail(b *domain.Board, x, y, dx, dy int, p domain.PlayerID, pt PatternType) bool {
	if !b.IsEmpty(x-dx, y-dy) || b.At(x-2*dx, y-2*dy) != p {
		return false
	}
	switch pt {
	case BrokenFour:
		return true
	case OpenThree:
		return len(b.Line(x, y, dx, dy, p)) < 3
	}
	return false
}
