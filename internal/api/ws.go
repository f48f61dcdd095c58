package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsSendBuffer   = 16
	wsWriteTimeout = 10 * time.Second
	wsMaxMessage   = 4 << 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClient is one connection on the command channel.
type wsClient struct {
	conn *websocket.Conn
	send chan Envelope

	mu     sync.Mutex
	userID string
	games  map[string]bool
}

func (c *wsClient) user() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// login sets the user once. Later logins are refused.
func (c *wsClient) login(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID != "" {
		return false
	}
	c.userID = userID
	return true
}

func (c *wsClient) subscribed(gameID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.games[gameID]
}

func (c *wsClient) setSubscribed(gameID string, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on {
		c.games[gameID] = true
	} else {
		delete(c.games, gameID)
	}
}

// Hub tracks command-channel clients and fans board updates out to them.
type Hub struct {
	logger  *slog.Logger
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{logger: logger, clients: make(map[*wsClient]struct{})}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// remove unregisters c and closes its send queue. Safe to call twice.
func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Broadcast queues msg for every client subscribed to gameID.
// Slow clients whose queue is full miss the update.
func (h *Hub) Broadcast(gameID string, msg Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !c.subscribed(gameID) {
			continue
		}
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("ws client queue full, dropping board", "user_id", c.user(), "game_id", gameID)
		}
	}
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		c.conn.Close()
	}
}

// reply queues msg for c unless the hub already dropped it.
func (h *Hub) reply(c *wsClient, msg Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
		h.logger.Warn("ws client queue full, dropping reply", "user_id", c.user(), "type", msg.Type)
	}
}

// handleWS runs the command channel. The first message must be a login.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Warn("ws upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(wsMaxMessage)

	c := &wsClient{
		conn:  conn,
		send:  make(chan Envelope, wsSendBuffer),
		games: make(map[string]bool),
	}
	s.hub.add(c)
	go writePump(c)

	defer func() {
		s.hub.remove(c)
		conn.Close()
		s.Logger.Info("ws client disconnected", "user_id", c.user())
	}()

	ip := clientIP(r)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				s.Logger.Debug("ws read ended", "error", err)
			}
			return
		}

		var msg Envelope
		if err := json.Unmarshal(data, &msg); err != nil {
			s.hub.reply(c, Envelope{Type: MsgError, Error: "malformed message"})
			continue
		}
		s.dispatch(c, ip, msg)
	}
}

// dispatch handles one inbound command.
func (s *Server) dispatch(c *wsClient, ip string, msg Envelope) {
	if c.user() == "" && msg.Type != MsgLogin {
		s.hub.reply(c, Envelope{Type: MsgError, Error: "login required"})
		return
	}

	switch msg.Type {
	case MsgLogin:
		if msg.UserID == "" {
			s.hub.reply(c, Envelope{Type: MsgError, Error: "userId is required"})
			return
		}
		if !c.login(msg.UserID) {
			s.hub.reply(c, Envelope{Type: MsgError, UserID: c.user(), Error: "already logged in"})
			return
		}
		s.Logger.Info("ws client logged in", "user_id", msg.UserID)
		s.hub.reply(c, Envelope{Type: MsgWelcome, UserID: msg.UserID})

	case MsgSubscribe:
		g, err := s.Games.Get(msg.GameID)
		if err != nil {
			s.hub.reply(c, Envelope{Type: MsgError, GameID: msg.GameID, Error: err.Error()})
			return
		}
		c.setSubscribed(g.ID, true)
		s.hub.reply(c, Envelope{Type: MsgBoard, GameID: g.ID, Seed: g.Seed, Board: g.Map.Board()})

	case MsgUnsubscribe:
		c.setSubscribed(msg.GameID, false)

	case MsgGenerate:
		if !s.limiter.Allow(ip) {
			s.hub.reply(c, Envelope{Type: MsgError, Error: "rate limit exceeded"})
			return
		}
		g, err := s.createGame(msg.Seed, nil)
		if err != nil {
			s.hub.reply(c, Envelope{Type: MsgError, Error: err.Error()})
			return
		}
		c.setSubscribed(g.ID, true)
		s.hub.reply(c, Envelope{Type: MsgCreated, GameID: g.ID, Seed: g.Seed})
		s.hub.reply(c, Envelope{Type: MsgBoard, GameID: g.ID, Seed: g.Seed, Board: g.Map.Board()})

	case MsgPing:
		s.hub.reply(c, Envelope{Type: MsgPong})

	default:
		s.hub.reply(c, Envelope{Type: MsgError, Error: "unknown message type: " + msg.Type})
	}
}

// writePump drains c.send onto the socket until the hub closes the queue.
func writePump(c *wsClient) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
