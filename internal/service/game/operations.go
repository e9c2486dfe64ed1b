package game

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/iamasit07/gomoku/internal/domain"
	"github.com/iamasit07/gomoku/internal/service/bot"
	"github.com/iamasit07/gomoku/pkg/uid"
)

// GameState is the full view of a game sent to clients.
type GameState struct {
	GameID   string                                `json:"game_id"`
	Board    [][]int                               `json:"board"`
	Info     domain.GameInfo                       `json:"game_info"`
	Moves    []domain.Move                         `json:"moves"`
	LastMove *domain.Move                          `json:"last_move,omitempty"`
	WinLine  []domain.Point                        `json:"win_line,omitempty"`
	AI       map[domain.PlayerID]domain.Difficulty `json:"ai,omitempty"`
}

func stateOf(gameID string, g *domain.Game, ai map[domain.PlayerID]domain.Difficulty) GameState {
	st := GameState{
		GameID:  gameID,
		Board:   boardInts(g),
		Info:    g.Info(),
		Moves:   g.Moves(),
		WinLine: g.WinLine(),
		AI:      ai,
	}
	if last, ok := g.LastMove(); ok {
		st.LastMove = &last
	}
	return st
}

func (gs *GameSession) checkSeat(seat domain.PlayerID) error {
	if seat != domain.Black && seat != domain.White {
		return ErrNotYourTurn
	}
	if _, isAI := gs.AI[seat]; isAI {
		return ErrSeatNotHuman
	}
	return nil
}

// humanSeat is the one human colour of a PvE game.
func (gs *GameSession) humanSeat() domain.PlayerID {
	for _, p := range []domain.PlayerID{domain.Black, domain.White} {
		if _, isAI := gs.AI[p]; !isAI {
			return p
		}
	}
	return domain.Empty
}

func (sm *SessionManager) State(gameID string) (GameState, error) {
	gs, err := sm.mustGet(gameID)
	if err != nil {
		return GameState{}, err
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return stateOf(gs.GameID, gs.Game, gs.AI), nil
}

// undoSteps decides how many plies one undo request takes back. Against
// the engine it rewinds until the human is to move again and at least one
// human stone is gone; otherwise a single ply.
func (gs *GameSession) undoSteps() int {
	moves := gs.Game.Moves()
	if len(gs.AI) != 1 {
		if len(moves) == 0 {
			return 0
		}
		return 1
	}
	human := gs.humanSeat()
	for i := len(moves) - 1; i >= 0; i-- {
		if moves[i].Player == human {
			return len(moves) - i
		}
	}
	return 0
}

// HandleUndo takes back moves for seat and reports how many were removed.
func (sm *SessionManager) HandleUndo(gameID string, seat domain.PlayerID) (GameState, int, error) {
	gs, err := sm.mustGet(gameID)
	if err != nil {
		return GameState{}, 0, err
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if err := gs.checkSeat(seat); err != nil {
		return GameState{}, 0, err
	}
	steps := gs.undoSteps()
	if !gs.Game.Undo(steps) {
		return GameState{}, 0, domain.ErrInvalidUndo
	}
	if !gs.Game.IsFinished() {
		gs.FinishedAt = time.Time{}
	}
	gs.LastActivity = sm.now()

	log.Printf("[GAME] %s: %s undid %d move(s)", gs.GameID, seat, steps)
	st := stateOf(gs.GameID, gs.Game, gs.AI)
	sm.notify(gs.GameID, domain.ServerMessage{
		Type:       "undo_done",
		GameID:     gs.GameID,
		Board:      st.Board,
		Info:       &st.Info,
		Undone:     steps,
		NextPlayer: st.Info.CurrentPlayer,
	})
	return st, steps, nil
}

// Hint asks the engine what the side to move should play, without playing
// it. PvE games use the opponent engine's tier; other games use Hard.
func (sm *SessionManager) Hint(ctx context.Context, gameID string) (bot.Decision, error) {
	gs, err := sm.mustGet(gameID)
	if err != nil {
		return bot.Decision{}, err
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.Game.IsFinished() {
		return bot.Decision{}, domain.ErrGameFinished
	}
	d := domain.Hard
	if len(gs.AI) == 1 {
		d = gs.AI[gs.humanSeat().Opponent()]
	}
	dec, err := sm.engine.Decide(ctx, gs.Game, d)
	if err != nil {
		return bot.Decision{}, fmt.Errorf("hint: %w", err)
	}
	return dec, nil
}

func (sm *SessionManager) Export(gameID string) (domain.GameData, error) {
	gs, err := sm.mustGet(gameID)
	if err != nil {
		return domain.GameData{}, err
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.Game.Export(), nil
}

// Import starts a new session from exported data. Empty fields of opts are
// taken from the data itself.
func (sm *SessionManager) Import(ctx context.Context, data domain.GameData, opts CreateOptions) (*GameSession, error) {
	if opts.Mode == "" {
		opts.Mode = data.Info.Mode
	}
	if opts.Difficulty == "" {
		opts.Difficulty = data.Info.Difficulty
	}
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	g := domain.NewGame(domain.WithClock(sm.now), domain.WithMode(opts.Mode))
	if err := g.LoadFromData(data); err != nil {
		return nil, err
	}
	g.SetMode(opts.Mode)
	g.SetDifficulty(opts.Difficulty)

	now := sm.now()
	gs := &GameSession{
		GameID:       uid.GenerateGameID(),
		Game:         g,
		AI:           opts.aiSeats(),
		CreatedAt:    now,
		LastActivity: now,
	}
	if g.IsFinished() {
		gs.FinishedAt = now
	}

	sm.mu.Lock()
	sm.Session[gs.GameID] = gs
	sm.mu.Unlock()
	log.Printf("[SESSION] Imported session %s: mode=%s moves=%d", gs.GameID, opts.Mode, g.MoveCount())

	switch opts.Mode {
	case domain.ModePvE:
		gs.mu.Lock()
		_, _, err := sm.playAI(ctx, gs)
		gs.mu.Unlock()
		if err != nil {
			return nil, err
		}
	case domain.ModeEvE:
		sm.startAutoplay(gs)
	}
	return gs, nil
}

// Replay rebuilds the position after the first step moves of a game.
func (sm *SessionManager) Replay(gameID string, step int) (GameState, error) {
	gs, err := sm.mustGet(gameID)
	if err != nil {
		return GameState{}, err
	}

	gs.mu.Lock()
	moves := gs.Game.Moves()
	mode := gs.Game.Mode()
	gs.mu.Unlock()

	g, err := domain.Replay(moves, step, domain.WithClock(sm.now), domain.WithMode(mode))
	if err != nil {
		return GameState{}, err
	}
	return stateOf(gameID, g, nil), nil
}

// LiveGame summarises an unfinished session for the watch list.
type LiveGame struct {
	GameID     string                                `json:"game_id"`
	Mode       domain.Mode                           `json:"mode"`
	Status     domain.GameStatus                     `json:"status"`
	MoveCount  int                                   `json:"move_count"`
	NextPlayer domain.PlayerID                       `json:"next_player"`
	AI         map[domain.PlayerID]domain.Difficulty `json:"ai,omitempty"`
	StartedAt  time.Time                             `json:"started_at"`
}

// ActiveGames lists the sessions still in play, newest first.
func (sm *SessionManager) ActiveGames() []LiveGame {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.Session))
	for _, gs := range sm.Session {
		sessions = append(sessions, gs)
	}
	sm.mu.RUnlock()

	games := make([]LiveGame, 0, len(sessions))
	for _, gs := range sessions {
		gs.mu.Lock()
		if !gs.Game.IsFinished() {
			games = append(games, LiveGame{
				GameID:     gs.GameID,
				Mode:       gs.Game.Mode(),
				Status:     gs.Game.Status(),
				MoveCount:  gs.Game.MoveCount(),
				NextPlayer: gs.Game.CurrentPlayer(),
				AI:         gs.AI,
				StartedAt:  gs.CreatedAt,
			})
		}
		gs.mu.Unlock()
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].StartedAt.After(games[j].StartedAt)
	})
	return games
}
