package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/gomoku/internal/domain"
	"github.com/iamasit07/gomoku/internal/service/bot"
	"github.com/iamasit07/gomoku/internal/service/game"
	"github.com/iamasit07/gomoku/internal/transport/http/middleware"
	"github.com/iamasit07/gomoku/pkg/auth"
)

const aiTimeout = 30 * time.Second

type GameHandler struct {
	SessionManager *game.SessionManager
	Seats          *auth.SeatSigner
}

func NewGameHandler(sm *game.SessionManager, seats *auth.SeatSigner) *GameHandler {
	return &GameHandler{SessionManager: sm, Seats: seats}
}

// RegisterRoutes mounts the game API under rg.
func (h *GameHandler) RegisterRoutes(rg *gin.RouterGroup) {
	seat := middleware.SeatAuth(h.Seats)

	rg.POST("/games", h.CreateGame)
	rg.POST("/games/import", h.ImportGame)
	rg.GET("/games/:id", h.GetGame)
	rg.POST("/games/:id/moves", seat, h.MakeMove)
	rg.POST("/games/:id/undo", seat, h.Undo)
	rg.GET("/games/:id/hint", h.Hint)
	rg.GET("/games/:id/export", h.Export)
	rg.GET("/games/:id/replay", h.Replay)
}

type createGameRequest struct {
	Mode            string `json:"mode"`
	Difficulty      string `json:"difficulty"`
	HumanColor      string `json:"human_color"`
	BlackDifficulty string `json:"black_difficulty"`
	WhiteDifficulty string `json:"white_difficulty"`
}

func (r createGameRequest) options() (game.CreateOptions, error) {
	opts := game.CreateOptions{
		Mode:            domain.Mode(r.Mode),
		Difficulty:      domain.Difficulty(r.Difficulty),
		BlackDifficulty: domain.Difficulty(r.BlackDifficulty),
		WhiteDifficulty: domain.Difficulty(r.WhiteDifficulty),
	}
	if r.HumanColor != "" {
		p, ok := domain.ParsePlayer(r.HumanColor)
		if !ok {
			return opts, fmt.Errorf("human colour %q: %w", r.HumanColor, game.ErrInvalidOptions)
		}
		opts.HumanColor = p
	}
	return opts, nil
}

// gameResponse carries the state plus a seat token for every human colour.
type gameResponse struct {
	Game   game.GameState    `json:"game"`
	Tokens map[string]string `json:"tokens,omitempty"`
}

func (h *GameHandler) respondWithSession(c *gin.Context, status int, gs *game.GameSession) {
	state, err := h.SessionManager.State(gs.GameID)
	if err != nil {
		writeError(c, err)
		return
	}

	tokens := make(map[string]string)
	for _, p := range []domain.PlayerID{domain.Black, domain.White} {
		if _, isAI := gs.AI[p]; isAI {
			continue
		}
		token, err := h.Seats.GenerateSeatToken(gs.GameID, int(p))
		if err != nil {
			log.Printf("[HTTP] Failed to sign %s seat for %s: %v", p, gs.GameID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue seat token"})
			return
		}
		tokens[p.String()] = token
	}
	c.JSON(status, gameResponse{Game: state, Tokens: tokens})
}

// CreateGame handles POST /api/games.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
	}
	opts, err := req.options()
	if err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), aiTimeout)
	defer cancel()
	gs, err := h.SessionManager.CreateSession(ctx, opts)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respondWithSession(c, http.StatusCreated, gs)
}

type importGameRequest struct {
	createGameRequest
	Data domain.GameData `json:"data"`
}

// ImportGame handles POST /api/games/import. Options left empty are taken
// from the imported data.
func (h *GameHandler) ImportGame(c *gin.Context) {
	var req importGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	opts, err := req.options()
	if err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), aiTimeout)
	defer cancel()
	gs, err := h.SessionManager.Import(ctx, req.Data, opts)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respondWithSession(c, http.StatusCreated, gs)
}

func (h *GameHandler) GetGame(c *gin.Context) {
	state, err := h.SessionManager.State(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type moveRequest struct {
	X        *int   `json:"x"`
	Y        *int   `json:"y"`
	Position string `json:"position"` // "H8" style, used when x/y are absent
}

func (r moveRequest) point() (domain.Point, error) {
	if r.X != nil && r.Y != nil {
		return domain.Point{X: *r.X, Y: *r.Y}, nil
	}
	if r.Position != "" {
		return domain.ParseNotation(r.Position)
	}
	return domain.Point{}, fmt.Errorf("missing coordinates: %w", domain.ErrOutOfBounds)
}

type moveResponse struct {
	game.MoveOutcome
	Game game.GameState `json:"game"`
}

// MakeMove handles POST /api/games/:id/moves for the seat in the token.
func (h *GameHandler) MakeMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	p, err := req.point()
	if err != nil {
		writeError(c, err)
		return
	}

	gameID := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), aiTimeout)
	defer cancel()
	out, err := h.SessionManager.HandleMove(ctx, gameID, middleware.Seat(c), p.X, p.Y)
	if err != nil {
		writeError(c, err)
		return
	}

	state, err := h.SessionManager.State(gameID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, moveResponse{MoveOutcome: out, Game: state})
}

func (h *GameHandler) Undo(c *gin.Context) {
	state, undone, err := h.SessionManager.HandleUndo(c.Param("id"), middleware.Seat(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": state, "undone": undone})
}

func (h *GameHandler) Hint(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), aiTimeout)
	defer cancel()
	dec, err := h.SessionManager.Hint(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"move":     dec.Move,
		"notation": domain.Notation(dec.Move.X, dec.Move.Y),
		"source":   dec.Source,
		"score":    dec.Score,
	})
}

func (h *GameHandler) Export(c *gin.Context) {
	data, err := h.SessionManager.Export(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=gomoku-%s.json", c.Param("id")))
	c.JSON(http.StatusOK, data)
}

// Replay handles GET /api/games/:id/replay?step=N. Without step the full
// game is returned.
func (h *GameHandler) Replay(c *gin.Context) {
	gameID := c.Param("id")
	step := -1
	if raw := c.Query("step"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid step"})
			return
		}
		step = n
	}
	if step < 0 {
		data, err := h.SessionManager.Export(gameID)
		if err != nil {
			writeError(c, err)
			return
		}
		step = len(data.Moves)
	}

	state, err := h.SessionManager.Replay(gameID, step)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// writeError maps service and domain errors onto status codes.
func writeError(c *gin.Context, err error) {
	var forbidden *domain.ForbiddenMoveError
	switch {
	case errors.As(err, &forbidden):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "forbidden": forbidden.Result})
	case errors.Is(err, game.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrNotYourTurn), errors.Is(err, game.ErrSeatNotHuman):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrGameFinished), errors.Is(err, bot.ErrNoMove):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOutOfBounds),
		errors.Is(err, domain.ErrCellOccupied),
		errors.Is(err, domain.ErrInvalidUndo),
		errors.Is(err, domain.ErrInvalidGameData),
		errors.Is(err, game.ErrInvalidOptions):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
