package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/gomoku/internal/domain"
	"github.com/iamasit07/gomoku/internal/service/game"
	"github.com/iamasit07/gomoku/pkg/auth"
)

const (
	readWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	aiTimeout    = 30 * time.Second
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Seats          *auth.SeatSigner
	Upgrader       websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, sm *game.SessionManager, seats *auth.SeatSigner, allowedOrigins []string) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Seats:          seats,
		Upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		log.Printf("[WS] Origin '%s' rejected", origin)
		return false
	}
}

// HandleWebSocket upgrades GET /ws/games/:id and serves that game's channel.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	gameID := c.Param("id")
	state, err := h.SessionManager.State(gameID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	cl := h.ConnManager.AddConnection(gameID, conn)
	log.Printf("[WS] Watcher joined %s (%d connected)", gameID, h.ConnManager.Count(gameID))
	cl.send(stateMessage(state))

	h.serve(gameID, cl)
}

// serve runs the read loop of one connection until it closes.
func (h *Handler) serve(gameID string, cl *client) {
	conn := cl.conn
	done := make(chan struct{})
	defer func() {
		close(done)
		h.ConnManager.RemoveConnection(gameID, cl)
		log.Printf("[WS] Watcher left %s", gameID)
	}()

	conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readWait))
		return nil
	})

	// Keep-alive pinger
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cl.ping(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Connection on %s closed unexpectedly: %v", gameID, err)
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Invalid message format: %v", err)
			cl.send(errorMessage(gameID, "invalid message"))
			continue
		}
		h.dispatch(gameID, cl, msg)
	}
}

func (h *Handler) dispatch(gameID string, cl *client, msg domain.ClientMessage) {
	switch msg.Type {
	case "sync":
		state, err := h.SessionManager.State(gameID)
		if err != nil {
			cl.send(errorMessage(gameID, err.Error()))
			return
		}
		cl.send(stateMessage(state))

	case "make_move":
		seat, ok := h.seat(gameID, cl, msg.Token)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()
		// the session broadcasts the move itself
		if _, err := h.SessionManager.HandleMove(ctx, gameID, seat, msg.X, msg.Y); err != nil {
			cl.send(moveError(gameID, err))
		}

	case "undo":
		seat, ok := h.seat(gameID, cl, msg.Token)
		if !ok {
			return
		}
		if _, _, err := h.SessionManager.HandleUndo(gameID, seat); err != nil {
			cl.send(errorMessage(gameID, err.Error()))
		}

	case "hint":
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()
		dec, err := h.SessionManager.Hint(ctx, gameID)
		if err != nil {
			cl.send(errorMessage(gameID, err.Error()))
			return
		}
		p := dec.Move
		cl.send(domain.ServerMessage{Type: "hint", GameID: gameID, Hint: &p, Source: dec.Source})

	default:
		cl.send(errorMessage(gameID, "unknown message type: "+msg.Type))
	}
}

func (h *Handler) seat(gameID string, cl *client, token string) (domain.PlayerID, bool) {
	claims, err := h.Seats.ValidateSeatToken(token, gameID)
	if err != nil {
		cl.send(errorMessage(gameID, "invalid seat token"))
		return domain.Empty, false
	}
	return domain.PlayerID(claims.Seat), true
}

func stateMessage(state game.GameState) domain.ServerMessage {
	info := state.Info
	return domain.ServerMessage{
		Type:       "state",
		GameID:     state.GameID,
		Board:      state.Board,
		Info:       &info,
		Moves:      state.Moves,
		Winner:     info.Winner,
		WinLine:    state.WinLine,
		NextPlayer: info.CurrentPlayer,
	}
}

func errorMessage(gameID, text string) domain.ServerMessage {
	return domain.ServerMessage{Type: "error", GameID: gameID, Message: text}
}

// moveError carries the forbidden-move evidence when there is some.
func moveError(gameID string, err error) domain.ServerMessage {
	msg := errorMessage(gameID, err.Error())
	var fe *domain.ForbiddenMoveError
	if errors.As(err, &fe) {
		res := fe.Result
		msg.Forbidden = &res
	}
	return msg
}
