package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/iamasit07/gomoku/internal/domain"
)

func newMockRepo(t *testing.T) (*GameRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewGameRepo(db), mock
}

func TestSaveGameUpsertsInTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := domain.GameRecord{
		GameID:     "g1",
		Mode:       domain.ModePvE,
		Difficulty: domain.Hard,
		Winner:     domain.WinnerBlack,
		TotalMoves: 9,
		DurationMs: 1234,
		CreatedAt:  created,
		FinishedAt: created.Add(time.Minute),
		Moves:      []domain.Move{{X: 7, Y: 7, Player: domain.Black, Step: 1}},
		Board:      domain.NewBoard().Ints(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO games").
		WithArgs("g1", "pve", "HARD", "black", 9, int64(1234), rec.CreatedAt, rec.FinishedAt, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.SaveGame(context.Background(), rec); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetGameByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cols := []string{"game_id", "mode", "difficulty", "winner", "total_moves", "duration_ms", "created_at", "finished_at", "moves", "board_state"}

	mock.ExpectQuery("FROM games").WithArgs("g1").WillReturnRows(
		sqlmock.NewRows(cols).AddRow("g1", "pvp", "", "white", 2, int64(50), created, created,
			[]byte(`[{"x":7,"y":7,"player":1,"step":1},{"x":8,"y":8,"player":2,"step":2}]`), nil))

	rec, err := repo.GetGameByID(context.Background(), "g1")
	if err != nil {
		t.Fatalf("GetGameByID: %v", err)
	}
	if rec == nil || rec.Winner != domain.WinnerWhite || len(rec.Moves) != 2 || rec.Moves[1].Player != domain.White {
		t.Fatalf("unexpected record %+v", rec)
	}

	mock.ExpectQuery("FROM games").WithArgs("missing").WillReturnRows(sqlmock.NewRows(cols))
	rec, err = repo.GetGameByID(context.Background(), "missing")
	if err != nil || rec != nil {
		t.Fatalf("missing game should be nil, nil; got %v %v", rec, err)
	}
}

func TestListRecentGames(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	cols := []string{"game_id", "mode", "difficulty", "winner", "total_moves", "duration_ms", "created_at", "finished_at"}
	mock.ExpectQuery("ORDER BY finished_at DESC").WithArgs(50).WillReturnRows(
		sqlmock.NewRows(cols).
			AddRow("b", "eve", "HELL", "draw", 225, int64(9000), now, now).
			AddRow("a", "pve", "NORMAL", "black", 31, int64(800), now, now))

	games, err := repo.ListRecentGames(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRecentGames: %v", err)
	}
	if len(games) != 2 || games[0].GameID != "b" || games[0].Winner != domain.WinnerDraw || games[1].Difficulty != domain.Normal {
		t.Fatalf("unexpected games %+v", games)
	}
}
