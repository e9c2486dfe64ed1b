package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/gomoku/internal/domain"
	"github.com/iamasit07/gomoku/internal/service/game"
)

// SpectatorCounter reports how many sockets watch a game.
type SpectatorCounter interface {
	Count(gameID string) int
}

type WatchHandler struct {
	SessionManager *game.SessionManager
	Watchers       SpectatorCounter
}

func NewWatchHandler(sm *game.SessionManager, watchers SpectatorCounter) *WatchHandler {
	return &WatchHandler{SessionManager: sm, Watchers: watchers}
}

type liveGameResponse struct {
	GameID         string                                `json:"gameId"`
	Mode           domain.Mode                           `json:"mode"`
	Status         domain.GameStatus                     `json:"status"`
	AI             map[domain.PlayerID]domain.Difficulty `json:"ai,omitempty"`
	NextPlayer     domain.PlayerID                       `json:"nextPlayer"`
	SpectatorCount int                                   `json:"spectatorCount"`
	MoveCount      int                                   `json:"moveCount"`
	StartedAt      string                                `json:"startedAt"`
}

// GetLiveGames returns all unfinished games available for spectating
func (h *WatchHandler) GetLiveGames(c *gin.Context) {
	activeGames := h.SessionManager.ActiveGames()

	response := make([]liveGameResponse, 0, len(activeGames))
	for _, g := range activeGames {
		spectators := 0
		if h.Watchers != nil {
			spectators = h.Watchers.Count(g.GameID)
		}
		response = append(response, liveGameResponse{
			GameID:         g.GameID,
			Mode:           g.Mode,
			Status:         g.Status,
			AI:             g.AI,
			NextPlayer:     g.NextPlayer,
			SpectatorCount: spectators,
			MoveCount:      g.MoveCount,
			StartedAt:      g.StartedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, response)
}
