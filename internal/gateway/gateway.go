package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"rummy-suggest/internal/agent"
	"rummy-suggest/internal/game"
	"rummy-suggest/internal/suggest"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // same permissive policy as the HTTP CORS surface
	},
}

// Frame is one client request over the socket. "advice" relays a
// free-text question; "suggest" resolves a registered game by id.
type Frame struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	GameID  string `json:"gameId,omitempty"`
}

type replyFrame struct {
	Type       string `json:"type"`
	Success    bool   `json:"success"`
	Response   string `json:"response,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	GameID     string `json:"gameId,omitempty"`
	Source     string `json:"source,omitempty"`
	Timestamp  string `json:"timestamp"`
	Error      string `json:"error,omitempty"`
}

// Connection is one WebSocket client with its session pinned for the
// life of the socket, so follow-up questions stay in one agent
// conversation.
type Connection struct {
	ID        string
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte
	Gateway   *Gateway
}

// Gateway manages WebSocket connections relaying advice requests.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	nextConnID  uint64
	service     *suggest.Service
}

func New(service *suggest.Service) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		service:     service,
	}
}

// HandleWebSocket upgrades the request and starts the pumps.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	connID := fmt.Sprintf("conn_%d", g.nextConnID)
	c := &Connection{
		ID:        connID,
		SessionID: agent.NewSessionID(),
		Conn:      conn,
		Send:      make(chan []byte, 16),
		Gateway:   g,
	}
	g.connections[connID] = c
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s, total: %d", connID, g.count())

	go c.readPump()
	go c.writePump()
}

func (g *Gateway) count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	if _, ok := g.connections[c.ID]; ok {
		delete(g.connections, c.ID)
		close(c.Send)
	}
	g.mu.Unlock()
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, g.count())
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var frame Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			c.reply(replyFrame{Type: "error", Error: "invalid frame"})
			continue
		}
		go c.handleFrame(frame)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Connection) handleFrame(frame Frame) {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	switch frame.Type {
	case "advice":
		reply, source, err := c.Gateway.service.Advise(ctx, frame.Message, c.SessionID)
		if err != nil {
			c.reply(replyFrame{Type: "advice", Error: err.Error()})
			return
		}
		c.reply(replyFrame{
			Type:     "advice",
			Success:  true,
			Response: reply,
			Source:   source,
		})
	case "suggest":
		result, err := c.Gateway.service.SuggestForGame(ctx, frame.GameID)
		if err != nil {
			msg := err.Error()
			if errors.Is(err, game.ErrNotFound) {
				msg = "Game not found"
			}
			c.reply(replyFrame{Type: "suggest", GameID: frame.GameID, Error: msg})
			return
		}
		c.reply(replyFrame{
			Type:       "suggest",
			Success:    true,
			GameID:     result.GameID,
			Suggestion: result.Suggestion,
			Source:     result.Source,
		})
	default:
		c.reply(replyFrame{Type: "error", Error: fmt.Sprintf("unknown frame type %q", frame.Type)})
	}
}

func (c *Connection) reply(frame replyFrame) {
	frame.Timestamp = time.Now().Format(time.RFC3339)
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	defer func() {
		// Send may already be closed if the client vanished mid-call.
		_ = recover()
	}()
	select {
	case c.Send <- payload:
	default:
		log.Printf("[Gateway] Send buffer full, dropping frame for %s", c.ID)
	}
}
