package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/iamasit07/gomoku/internal/domain"
	"github.com/iamasit07/gomoku/internal/service/bot"
	"github.com/iamasit07/gomoku/pkg/uid"
)

const (
	ErrSessionNotFound domain.Error = "game not found"
	ErrNotYourTurn     domain.Error = "not your turn"
	ErrSeatNotHuman    domain.Error = "seat is played by the AI"
	ErrInvalidOptions  domain.Error = "invalid game options"
)

type GameRepository interface {
	SaveGame(ctx context.Context, rec domain.GameRecord) error
}

// Notifier pushes updates to whoever watches a game.
type Notifier interface {
	Broadcast(gameID string, message domain.ServerMessage)
}

// MoveEngine is the part of the AI the sessions use.
type MoveEngine interface {
	Decide(ctx context.Context, g bot.GameView, d domain.Difficulty) (bot.Decision, error)
}

type CreateOptions struct {
	Mode       domain.Mode       `json:"mode"`
	Difficulty domain.Difficulty `json:"difficulty"`
	HumanColor domain.PlayerID   `json:"human_color"`
	// EvE only; Difficulty fills in whichever is empty
	BlackDifficulty domain.Difficulty `json:"black_difficulty"`
	WhiteDifficulty domain.Difficulty `json:"white_difficulty"`
}

type GameSession struct {
	GameID       string
	Game         *domain.Game
	AI           map[domain.PlayerID]domain.Difficulty // colours played by the engine
	CreatedAt    time.Time
	FinishedAt   time.Time
	LastActivity time.Time
	mu           sync.Mutex
}

// SessionManager manages active game sessions
type SessionManager struct {
	Session map[string]*GameSession // gameID → GameSession
	mu      sync.RWMutex

	engine   MoveEngine
	repo     GameRepository
	notifier Notifier

	finishedTTL time.Duration
	idleTTL     time.Duration
	aiDelay     time.Duration
	now         func() time.Time
	wg          sync.WaitGroup
	closing     chan struct{}
	closeOnce   sync.Once
}

type Option func(*SessionManager)

func WithRepository(repo GameRepository) Option {
	return func(sm *SessionManager) { sm.repo = repo }
}

func WithNotifier(n Notifier) Option {
	return func(sm *SessionManager) { sm.notifier = n }
}

func WithTTL(finished, idle time.Duration) Option {
	return func(sm *SessionManager) {
		sm.finishedTTL = finished
		sm.idleTTL = idle
	}
}

// WithAIDelay spaces out the moves of engine-vs-engine games.
func WithAIDelay(d time.Duration) Option {
	return func(sm *SessionManager) { sm.aiDelay = d }
}

func WithClock(now func() time.Time) Option {
	return func(sm *SessionManager) { sm.now = now }
}

func NewSessionManager(engine MoveEngine, opts ...Option) *SessionManager {
	sm := &SessionManager{
		Session:     make(map[string]*GameSession),
		engine:      engine,
		finishedTTL: 1 * time.Hour,
		idleTTL:     24 * time.Hour,
		aiDelay:     500 * time.Millisecond,
		now:         time.Now,
		closing:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

func (o CreateOptions) normalize() (CreateOptions, error) {
	if o.Mode == "" {
		o.Mode = domain.ModePvP
	}
	mode, ok := domain.ParseMode(string(o.Mode))
	if !ok {
		return o, fmt.Errorf("mode %q: %w", o.Mode, ErrInvalidOptions)
	}
	o.Mode = mode
	if o.Mode == domain.ModePvP {
		return o, nil
	}
	if o.Difficulty == "" {
		o.Difficulty = domain.Normal
	}
	for _, d := range []*domain.Difficulty{&o.Difficulty, &o.BlackDifficulty, &o.WhiteDifficulty} {
		if *d == "" {
			*d = o.Difficulty
		}
		parsed, ok := domain.ParseDifficulty(string(*d))
		if !ok {
			return o, fmt.Errorf("difficulty %q: %w", *d, ErrInvalidOptions)
		}
		*d = parsed
	}
	if o.Mode == domain.ModePvE {
		if o.HumanColor == domain.Empty {
			o.HumanColor = domain.Black
		}
		if o.HumanColor != domain.Black && o.HumanColor != domain.White {
			return o, fmt.Errorf("human colour %d: %w", o.HumanColor, ErrInvalidOptions)
		}
	}
	return o, nil
}

func (o CreateOptions) aiSeats() map[domain.PlayerID]domain.Difficulty {
	ai := make(map[domain.PlayerID]domain.Difficulty)
	switch o.Mode {
	case domain.ModePvE:
		ai[o.HumanColor.Opponent()] = o.Difficulty
	case domain.ModeEvE:
		ai[domain.Black] = o.BlackDifficulty
		ai[domain.White] = o.WhiteDifficulty
	}
	return ai
}

// CreateSession starts a new game. When the engine owns Black its first
// move is played before returning; engine-vs-engine games then run on
// their own in the background.
func (sm *SessionManager) CreateSession(ctx context.Context, opts CreateOptions) (*GameSession, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	now := sm.now()
	gs := &GameSession{
		GameID:       uid.GenerateGameID(),
		Game:         domain.NewGame(domain.WithMode(opts.Mode), domain.WithDifficulty(opts.Difficulty), domain.WithClock(sm.now)),
		AI:           opts.aiSeats(),
		CreatedAt:    now,
		LastActivity: now,
	}
	sm.mu.Lock()
	sm.Session[gs.GameID] = gs
	sm.mu.Unlock()

	log.Printf("[SESSION] Created session %s: mode=%s difficulty=%s", gs.GameID, opts.Mode, opts.Difficulty)

	switch opts.Mode {
	case domain.ModePvE:
		if opts.HumanColor == domain.White {
			gs.mu.Lock()
			_, _, err := sm.playAI(ctx, gs)
			gs.mu.Unlock()
			if err != nil {
				return nil, err
			}
		}
	case domain.ModeEvE:
		sm.startAutoplay(gs)
	}
	return gs, nil
}

func (sm *SessionManager) Get(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.Session[gameID]
	return session, exists
}

func (sm *SessionManager) mustGet(gameID string) (*GameSession, error) {
	gs, ok := sm.Get(gameID)
	if !ok {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrSessionNotFound)
	}
	return gs, nil
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.Session[gameID]; !exists {
		return fmt.Errorf("game %s: %w", gameID, ErrSessionNotFound)
	}
	log.Printf("[SESSION] Removing session %s", gameID)
	delete(sm.Session, gameID)
	return nil
}

// CleanupOldSessions drops finished games past finishedTTL and unfinished
// ones idle past idleTTL. No session lock is ever waited on under sm.mu.
func (sm *SessionManager) CleanupOldSessions() int {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.Session))
	for _, session := range sm.Session {
		sessions = append(sessions, session)
	}
	sm.mu.RUnlock()

	now := sm.now()
	var stale []*GameSession
	for _, session := range sessions {
		if !session.mu.TryLock() {
			// busy sessions are in use, so not idle
			continue
		}
		var expired bool
		if session.Game.IsFinished() {
			expired = now.Sub(session.FinishedAt) > sm.finishedTTL
		} else {
			expired = now.Sub(session.LastActivity) > sm.idleTTL
		}
		session.mu.Unlock()

		if expired {
			stale = append(stale, session)
		}
	}

	count := 0
	sm.mu.Lock()
	for _, session := range stale {
		if sm.Session[session.GameID] == session {
			delete(sm.Session, session.GameID)
			count++
		}
	}
	sm.mu.Unlock()

	if count > 0 {
		log.Printf("[SESSION] Memory cleanup: Removed %d stale game sessions", count)
	}
	return count
}

// Wait blocks until background archive writes and autoplay loops are done.
func (sm *SessionManager) Wait() {
	sm.wg.Wait()
}

// Close stops engine-vs-engine autoplay. Sessions stay readable.
func (sm *SessionManager) Close() {
	sm.closeOnce.Do(func() { close(sm.closing) })
}

// MoveOutcome is the human move plus the engine's reply, if one was made.
type MoveOutcome struct {
	Move     domain.MoveResult  `json:"move"`
	AIMove   *domain.MoveResult `json:"ai_move,omitempty"`
	Decision *bot.Decision      `json:"ai_decision,omitempty"`
}

// HandleMove plays seat's stone at (x, y). In PvE the engine answers
// within the same call.
func (sm *SessionManager) HandleMove(ctx context.Context, gameID string, seat domain.PlayerID, x, y int) (MoveOutcome, error) {
	gs, err := sm.mustGet(gameID)
	if err != nil {
		return MoveOutcome{}, err
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if err := gs.checkSeat(seat); err != nil {
		return MoveOutcome{}, err
	}
	if !gs.Game.IsFinished() && gs.Game.CurrentPlayer() != seat {
		return MoveOutcome{}, ErrNotYourTurn
	}

	result, err := gs.Game.ApplyMove(x, y)
	if err != nil {
		var forbidden *domain.ForbiddenMoveError
		if errors.As(err, &forbidden) {
			log.Printf("[GAME] %s: %s rejected at %s (%s)", gs.GameID, seat, domain.Notation(x, y), forbidden.Result.Kind)
		}
		return MoveOutcome{}, err
	}
	gs.LastActivity = sm.now()
	sm.afterMove(gs, result, "move_made")

	out := MoveOutcome{Move: result}
	aiResult, dec, err := sm.playAI(ctx, gs)
	if err != nil {
		return out, fmt.Errorf("ai reply: %w", err)
	}
	out.AIMove, out.Decision = aiResult, dec
	return out, nil
}

// playAI makes one engine move for the side to move. Caller holds gs.mu.
func (sm *SessionManager) playAI(ctx context.Context, gs *GameSession) (*domain.MoveResult, *bot.Decision, error) {
	d, isAI := gs.AI[gs.Game.CurrentPlayer()]
	if !isAI || gs.Game.IsFinished() {
		return nil, nil, nil
	}
	dec, err := sm.engine.Decide(ctx, gs.Game, d)
	if err != nil {
		return nil, nil, err
	}
	result, err := gs.Game.ApplyMove(dec.Move.X, dec.Move.Y)
	if err != nil {
		return nil, nil, fmt.Errorf("ai move at %s: %w", dec.Move, err)
	}
	gs.LastActivity = sm.now()
	sm.afterMove(gs, result, "ai_move")
	return &result, &dec, nil
}

// StepAI advances an engine-controlled turn by one move. It is a no-op when
// the side to move is human or the game is over.
func (sm *SessionManager) StepAI(ctx context.Context, gameID string) (*domain.MoveResult, error) {
	gs, err := sm.mustGet(gameID)
	if err != nil {
		return nil, err
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()
	res, _, err := sm.playAI(ctx, gs)
	return res, err
}

func (sm *SessionManager) startAutoplay(gs *GameSession) {
	if sm.aiDelay < 0 {
		return
	}
	sm.wg.Add(1)
	go func() {
		defer sm.wg.Done()
		for {
			select {
			case <-time.After(sm.aiDelay):
			case <-sm.closing:
				return
			}
			if _, ok := sm.Get(gs.GameID); !ok {
				return
			}
			res, err := sm.StepAI(context.Background(), gs.GameID)
			if err != nil {
				log.Printf("[BOT] Error in autoplay for %s: %v", gs.GameID, err)
				return
			}
			if res == nil || res.GameOver {
				return
			}
		}
	}()
}

// afterMove broadcasts the move and archives the game when it ended.
// Caller holds gs.mu.
func (sm *SessionManager) afterMove(gs *GameSession, result domain.MoveResult, kind string) {
	move := result.Move
	sm.notify(gs.GameID, domain.ServerMessage{
		Type:       kind,
		GameID:     gs.GameID,
		Board:      boardInts(gs.Game),
		Move:       &move,
		NextPlayer: result.NextPlayer,
	})
	if !result.GameOver {
		return
	}

	gs.FinishedAt = sm.now()
	info := gs.Game.Info()
	log.Printf("[GAME] %s finished: winner=%s moves=%d", gs.GameID, result.Winner, info.MoveCount)
	sm.notify(gs.GameID, domain.ServerMessage{
		Type:    "game_over",
		GameID:  gs.GameID,
		Board:   boardInts(gs.Game),
		Info:    &info,
		Winner:  result.Winner,
		WinLine: result.WinLine,
	})
	sm.saveGameAsync(gs.Game.Record(gs.GameID, gs.CreatedAt))
}

// Saves game data to database in background to avoid blocking game_over messages
func (sm *SessionManager) saveGameAsync(rec domain.GameRecord) {
	if sm.repo == nil {
		return
	}
	sm.wg.Add(1)
	go func() {
		defer sm.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sm.repo.SaveGame(ctx, rec); err != nil {
			log.Printf("[GAME] Error saving game %s: %v", rec.GameID, err)
		} else {
			log.Printf("[GAME] Game %s saved successfully", rec.GameID)
		}
	}()
}

func (sm *SessionManager) notify(gameID string, msg domain.ServerMessage) {
	if sm.notifier != nil {
		sm.notifier.Broadcast(gameID, msg)
	}
}

func boardInts(g *domain.Game) [][]int {
	b := g.Board()
	return b.Ints()
}
