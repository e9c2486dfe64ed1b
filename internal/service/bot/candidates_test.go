package bot

import (
	"testing"

	"github.com/iamasit07/gomoku/internal/domain"
)

func TestCandidatesEmptyBoardIsCentre(t *testing.T) {
	got := Candidates(domain.NewBoard(), 2, domain.Black)
	if len(got) != 1 || got[0] != (domain.Point{X: 7, Y: 7}) {
		t.Fatalf("expected only the centre, got %v", got)
	}
}

func TestCandidatesNearestFirst(t *testing.T) {
	b := domain.NewBoard()
	b.Set(7, 7, domain.Black)
	got := Candidates(b, 2, domain.White)
	if len(got) != 24 {
		t.Fatalf("expected 24 cells around one stone, got %d", len(got))
	}
	for i, p := range got[:8] {
		if max(abs(p.X-7), abs(p.Y-7)) != 1 {
			t.Fatalf("candidate %d %v is not adjacent", i, p)
		}
	}
	for _, p := range got {
		if b.At(p.X, p.Y) != domain.Empty {
			t.Fatalf("occupied candidate %v", p)
		}
	}
}

func TestCandidatesSkipForbiddenForBlack(t *testing.T) {
	b := domain.NewBoard()
	row(b, 7, domain.Black, 5, 6)
	b.Set(7, 5, domain.Black)
	b.Set(7, 6, domain.Black)

	for _, p := range Candidates(b, 2, domain.Black) {
		if p.X == 7 && p.Y == 7 {
			t.Fatalf("forbidden cell offered to black")
		}
	}
	if !containsPoint(Candidates(b, 2, domain.White), 7, 7) {
		t.Fatalf("white should be offered (7,7)")
	}
}

func TestCandidatesFallbackScansBoard(t *testing.T) {
	b := domain.NewBoard()
	for y := 0; y < domain.BoardSize; y++ {
		for x := 0; x < domain.BoardSize; x++ {
			b.Set(x, y, domain.White)
		}
	}
	b.Clear(14, 14)
	b.Clear(0, 0)
	b.Set(1, 1, domain.Empty)
	got := Candidates(b, 0, domain.White)
	if len(got) != 1 || got[0] != (domain.Point{X: 0, Y: 0}) {
		t.Fatalf("expected the first empty cell as fallback, got %v", got)
	}

	b.Set(0, 0, domain.White)
	b.Set(1, 1, domain.White)
	b.Set(14, 14, domain.White)
	if got := Candidates(b, 2, domain.White); len(got) != 0 {
		t.Fatalf("full board should have no candidates, got %v", got)
	}
}

func TestWinningCells(t *testing.T) {
	b := domain.NewBoard()
	row(b, 7, domain.White, 3, 4, 5, 6)
	got := winningCells(b, 6, 7, domain.White)
	if len(got) != 2 || !containsPoint(got, 2, 7) || !containsPoint(got, 7, 7) {
		t.Fatalf("expected both ends of the open four, got %v", got)
	}

	b = domain.NewBoard()
	row(b, 7, domain.Black, 3, 4, 5, 6)
	b.Set(8, 7, domain.Black)
	got = winningCells(b, 6, 7, domain.Black)
	if containsPoint(got, 7, 7) {
		t.Fatalf("overline point must not count as a black win, got %v", got)
	}
}
