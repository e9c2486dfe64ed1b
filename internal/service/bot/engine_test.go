package bot

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/iamasit07/gomoku/internal/domain"
)

// view is a GameView over a hand-built board.
type view struct {
	board  domain.Board
	toMove domain.PlayerID
	moves  []domain.Move
}

func (v *view) Board() domain.Board            { return v.board }
func (v *view) CurrentPlayer() domain.PlayerID { return v.toMove }
func (v *view) Moves() []domain.Move           { return v.moves }

func newView(b *domain.Board, toMove domain.PlayerID) *view {
	// a long enough history keeps the opening book out of the way
	return &view{board: *b, toMove: toMove, moves: make([]domain.Move, b.StoneCount()+3)}
}

func testEngine(opts ...Option) *Engine {
	cfgs := DefaultConfigs()
	hell := cfgs[domain.Hell]
	hell.TimeBudget = 300 * time.Millisecond
	hell.Depth = 3
	hell.VCFNodeBudget = 4000
	base := []Option{WithRand(rand.New(rand.NewSource(1))), WithConfig(domain.Hell, hell)}
	return NewEngine(append(base, opts...)...)
}

func playGame(t *testing.T, moves ...int) *domain.Game {
	t.Helper()
	g := domain.NewGame()
	for i := 0; i+1 < len(moves); i += 2 {
		if _, err := g.ApplyMove(moves[i], moves[i+1]); err != nil {
			t.Fatalf("setup move (%d,%d): %v", moves[i], moves[i+1], err)
		}
	}
	return g
}

func TestGetMoveLeavesGameUntouched(t *testing.T) {
	e := testEngine()
	for _, d := range domain.Difficulties {
		t.Run(string(d), func(t *testing.T) {
			g := playGame(t, 7, 7, 8, 8, 6, 8, 8, 6, 8, 7, 6, 6)
			before := g.Board()
			count := g.MoveCount()

			p, err := e.GetMove(context.Background(), g, d)
			if err != nil {
				t.Fatalf("GetMove: %v", err)
			}
			if g.Board() != before || g.MoveCount() != count {
				t.Fatalf("engine mutated the game")
			}
			b := g.Board()
			if !b.IsEmpty(p.X, p.Y) || domain.IsForbidden(&b, p.X, p.Y, g.CurrentPlayer()) {
				t.Fatalf("illegal move %v", p)
			}
			if _, err := g.ApplyMove(p.X, p.Y); err != nil {
				t.Fatalf("engine move rejected: %v", err)
			}
		})
	}
}

func TestSearchRestoresBoard(t *testing.T) {
	e := testEngine()
	g := playGame(t, 7, 7, 8, 8, 6, 8, 8, 6, 8, 7, 6, 6, 9, 9)
	for _, d := range []domain.Difficulty{domain.Normal, domain.Hard, domain.Hell} {
		b := g.Board()
		before := b
		s := e.newSearch(context.Background(), &b, g.CurrentPlayer(), e.Config(d))
		switch d {
		case domain.Normal:
			s.normalMove()
		case domain.Hard:
			s.hardMove()
		case domain.Hell:
			s.hellMove()
		}
		if b != before {
			t.Fatalf("%s search left the board changed", d)
		}
	}
}

func TestTiersTakeTheWin(t *testing.T) {
	b := domain.NewBoard()
	row(b, 3, domain.White, 3, 4, 5, 6)
	b.Set(2, 3, domain.Black)
	row(b, 10, domain.Black, 3, 5, 9)
	b.Set(12, 12, domain.Black)

	e := testEngine()
	for _, d := range []domain.Difficulty{domain.Normal, domain.Hard, domain.Hell} {
		dec, err := e.Decide(context.Background(), newView(b, domain.White), d)
		if err != nil {
			t.Fatalf("%s: %v", d, err)
		}
		if dec.Move != (domain.Point{X: 7, Y: 3}) || dec.Source != SourceWin {
			t.Fatalf("%s should win at (7,3), got %+v", d, dec)
		}
	}
}

func TestTiersBlockTheFour(t *testing.T) {
	b := domain.NewBoard()
	row(b, 5, domain.Black, 3, 4, 5, 6)
	b.Set(2, 5, domain.White)
	b.Set(10, 10, domain.White)
	b.Set(11, 12, domain.White)

	e := testEngine()
	for _, d := range []domain.Difficulty{domain.Normal, domain.Hard, domain.Hell} {
		dec, err := e.Decide(context.Background(), newView(b, domain.White), d)
		if err != nil {
			t.Fatalf("%s: %v", d, err)
		}
		if dec.Move != (domain.Point{X: 7, Y: 5}) || dec.Source != SourceBlock {
			t.Fatalf("%s should block at (7,5), got %+v", d, dec)
		}
	}
}

func TestHardPlaysDoubleThreat(t *testing.T) {
	b := domain.NewBoard()
	row(b, 7, domain.White, 4, 5, 6)
	b.Set(7, 5, domain.White)
	b.Set(7, 6, domain.White)
	row(b, 0, domain.Black, 0, 2, 4, 10, 12)

	dec, err := testEngine().Decide(context.Background(), newView(b, domain.White), domain.Hard)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if dec.Source != SourceThreat && dec.Source != SourceWin {
		t.Fatalf("expected a threat move, got %+v", dec)
	}
	after := *b
	after.Set(dec.Move.X, dec.Move.Y, domain.White)
	if _, ok := hasWinningCell(&after, domain.White); !ok {
		t.Fatalf("move %v does not leave a winning threat", dec.Move)
	}
}

func TestOpeningBook(t *testing.T) {
	e := testEngine()
	p, err := e.GetMove(context.Background(), domain.NewGame(), domain.Normal)
	if err != nil || p != (domain.Point{X: 7, Y: 7}) {
		t.Fatalf("first move should be the centre, got %v %v", p, err)
	}

	g := playGame(t, 7, 7)
	dec, err := e.Decide(context.Background(), g, domain.Hard)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if dec.Source != SourceBook || !containsPoint(diagonalReplies, dec.Move.X, dec.Move.Y) {
		t.Fatalf("expected a diagonal book reply, got %+v", dec)
	}

	g = playGame(t, 7, 7, 6, 7)
	dec, err = e.Decide(context.Background(), g, domain.Hell)
	if err != nil || dec.Move != (domain.Point{X: 7, Y: 6}) {
		t.Fatalf("expected the third stone of the line at (7,6), got %+v %v", dec, err)
	}
}

func TestBeginnerAlwaysLegal(t *testing.T) {
	e := testEngine()
	g := playGame(t, 7, 7, 8, 8)
	for i := 0; i < 20; i++ {
		p, err := e.GetMove(context.Background(), g, domain.Beginner)
		if err != nil {
			t.Fatalf("GetMove: %v", err)
		}
		b := g.Board()
		if !b.IsEmpty(p.X, p.Y) || domain.IsForbidden(&b, p.X, p.Y, domain.Black) {
			t.Fatalf("illegal beginner move %v", p)
		}
	}
}

func TestGetMoveNoLegalCell(t *testing.T) {
	b := domain.NewBoard()
	for y := 0; y < domain.BoardSize; y++ {
		for x := 0; x < domain.BoardSize; x++ {
			b.Set(x, y, domain.White)
		}
	}
	_, err := testEngine().GetMove(context.Background(), newView(b, domain.Black), domain.Hell)
	if !errors.Is(err, ErrNoMove) {
		t.Fatalf("expected ErrNoMove, got %v", err)
	}
}

func TestCacheServesDeterministicTiers(t *testing.T) {
	cache := NewMemoryCache(8)
	e := testEngine(WithCache(cache))
	g := playGame(t, 7, 7, 8, 8, 6, 8, 8, 6)

	first, err := e.Decide(context.Background(), g, domain.Hard)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected the decision to be cached")
	}
	second, err := e.Decide(context.Background(), g, domain.Hard)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if second.Source != SourceCache || second.Move != first.Move {
		t.Fatalf("expected cached %v, got %+v", first.Move, second)
	}

	if _, err := e.Decide(context.Background(), g, domain.Normal); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("randomised tiers must not be cached")
	}
}

func TestMemoryCacheEvictsOldest(t *testing.T) {
	c := NewMemoryCache(2)
	ctx := context.Background()
	c.Set(ctx, "a", domain.Point{X: 1})
	c.Set(ctx, "b", domain.Point{X: 2})
	c.Set(ctx, "c", domain.Point{X: 3})
	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatalf("oldest entry should be gone")
	}
	if p, ok := c.Get(ctx, "c"); !ok || p.X != 3 {
		t.Fatalf("newest entry missing")
	}
}
