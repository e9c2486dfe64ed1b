package http

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/gomoku/internal/domain"
)

// GameArchive is the read side of the finished-game store.
type GameArchive interface {
	ListRecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error)
	GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error)
}

type HistoryHandler struct {
	GameRepo GameArchive
}

// NewHistoryHandler accepts a nil archive; the routes then answer 503.
func NewHistoryHandler(gameRepo GameArchive) *HistoryHandler {
	return &HistoryHandler{GameRepo: gameRepo}
}

type gameHistoryItem struct {
	ID         string            `json:"id"`
	Mode       domain.Mode       `json:"mode"`
	Difficulty domain.Difficulty `json:"difficulty,omitempty"`
	Winner     domain.Winner     `json:"winner"`
	MovesCount int               `json:"movesCount"`
	DurationMs int64             `json:"durationMs"`
	FinishedAt string            `json:"finishedAt"`
}

func (h *HistoryHandler) available(c *gin.Context) bool {
	if h.GameRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Game history is not configured"})
		return false
	}
	return true
}

// GetHistory handles GET /api/history?limit=N.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	if !h.available(c) {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 200"})
		return
	}

	records, err := h.GameRepo.ListRecentGames(c.Request.Context(), limit)
	if err != nil {
		log.Printf("[HTTP] Failed to fetch history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	history := make([]gameHistoryItem, 0, len(records))
	for _, rec := range records {
		history = append(history, gameHistoryItem{
			ID:         rec.GameID,
			Mode:       rec.Mode,
			Difficulty: rec.Difficulty,
			Winner:     rec.Winner,
			MovesCount: rec.TotalMoves,
			DurationMs: rec.DurationMs,
			FinishedAt: rec.FinishedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	c.JSON(http.StatusOK, history)
}

// GetGameDetails handles GET /api/history/:id and includes the moves and
// final board.
func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	if !h.available(c) {
		return
	}
	rec, err := h.GameRepo.GetGameByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("[HTTP] Failed to fetch game %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
