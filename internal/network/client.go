package network

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Client represents an active WebSocket connection.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	lastActionTime time.Time
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// PlayerCommand represents an incoming command from the frontend.
type PlayerCommand struct {
	Type     string `json:"type"` // "NEW_GAME", "PLAY", "STATE"
	GameID   string `json:"game_id,omitempty"`
	Action   string `json:"action,omitempty"` // smuggler action display name
	Quantity int    `json:"quantity,omitempty"`
	Seed     int64  `json:"seed,omitempty"`
}

// commandReply is what goes back to the sender over its own connection.
type commandReply struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps messages from the websocket connection to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var cmd PlayerCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.hub.logger.Error("Failed to parse PlayerCommand from WebSocket: " + err.Error())
			continue
		}

		c.handleCommand(cmd)
	}
}

func (c *Client) handleCommand(cmd PlayerCommand) {
	// Rate limiting: one command per second is plenty for a turn game.
	if time.Since(c.lastActionTime) < time.Second {
		c.hub.logger.Warn("Rate limit exceeded for WebSocket client")
		return
	}
	c.lastActionTime = time.Now()

	switch cmd.Type {
	case "NEW_GAME":
		c.handleNewGame(cmd)
	case "PLAY":
		c.handlePlay(cmd)
	case "STATE":
		c.handleState(cmd)
	default:
		c.hub.logger.Warn("Unknown PlayerCommand type: " + cmd.Type)
		c.reply(commandReply{Type: "ERROR", Error: "unknown command type: " + cmd.Type})
	}
}

func (c *Client) handleNewGame(cmd PlayerCommand) {
	sess, err := c.hub.sessions.Create(context.Background(), cmd.Seed)
	if err != nil {
		c.hub.logger.Error("WebSocket NEW_GAME failed: %v", err)
		c.reply(commandReply{Type: "ERROR", Error: "failed to create game"})
		return
	}
	c.reply(commandReply{Type: "GAME_CREATED", Data: sess.Snapshot()})
}

func (c *Client) handlePlay(cmd PlayerCommand) {
	sess := c.hub.sessions.Get(cmd.GameID)
	if sess == nil {
		c.reply(commandReply{Type: "ERROR", Error: "unknown game: " + cmd.GameID})
		return
	}

	action := game.ParseAction(cmd.Action)
	if !action.IsSmugglerAction() {
		c.reply(commandReply{Type: "ERROR", Error: "invalid action: " + cmd.Action})
		return
	}

	view, err := sess.PlayRound(context.Background(), action, cmd.Quantity)
	if err != nil {
		c.reply(commandReply{Type: "ERROR", Error: err.Error()})
		return
	}
	c.reply(commandReply{Type: "ROUND_RESULT", Data: view})
}

func (c *Client) handleState(cmd PlayerCommand) {
	sess := c.hub.sessions.Get(cmd.GameID)
	if sess == nil {
		c.reply(commandReply{Type: "ERROR", Error: "unknown game: " + cmd.GameID})
		return
	}
	c.reply(commandReply{Type: "GAME_STATE", Data: sess.Snapshot()})
}

// reply sends a message to this client only.
func (c *Client) reply(msg commandReply) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("Failed to serialize WebSocket reply: %v", err)
		return
	}
	select {
	case c.send <- payload:
		metrics.Get().RecordWSMessage(false)
	default:
		c.hub.logger.Warn("WebSocket send buffer full, dropping reply")
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
