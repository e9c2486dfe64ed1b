package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/gomoku/internal/domain"
)

const writeWait = 10 * time.Second

// client wraps one socket. conn.WriteJSON is not safe for concurrent use,
// so every write goes through mu.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(message domain.ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(message)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// ConnectionManager tracks the sockets watching each game. Players and
// spectators share a game's channel.
type ConnectionManager struct {
	games map[string]map[*client]struct{}
	mu    sync.RWMutex // Protects the maps themselves
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		games: make(map[string]map[*client]struct{}),
	}
}

func (cm *ConnectionManager) AddConnection(gameID string, conn *websocket.Conn) *client {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	c := &client{conn: conn}
	if cm.games[gameID] == nil {
		cm.games[gameID] = make(map[*client]struct{})
	}
	cm.games[gameID][c] = struct{}{}
	return c
}

func (cm *ConnectionManager) RemoveConnection(gameID string, c *client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	watchers, exists := cm.games[gameID]
	if !exists {
		return
	}
	if _, ok := watchers[c]; ok {
		c.conn.Close()
		delete(watchers, c)
	}
	if len(watchers) == 0 {
		delete(cm.games, gameID)
	}
}

// Broadcast sends message to every socket on gameID. Sockets that fail to
// take the write are dropped.
func (cm *ConnectionManager) Broadcast(gameID string, message domain.ServerMessage) {
	cm.mu.RLock()
	targets := make([]*client, 0, len(cm.games[gameID]))
	for c := range cm.games[gameID] {
		targets = append(targets, c)
	}
	cm.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(message); err != nil {
			cm.RemoveConnection(gameID, c)
		}
	}
}

func (cm *ConnectionManager) Count(gameID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.games[gameID])
}
