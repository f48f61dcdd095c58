package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/hexboard/internal/api"
	"github.com/talgya/hexboard/internal/world"
)

// Conn is a logged-in session on the server's command channel.
// Reads and writes may happen from different goroutines, but only one
// goroutine may call Next at a time.
type Conn struct {
	conn   *websocket.Conn
	UserID string

	writeMu sync.Mutex
}

// BoardUpdate is one pushed board.
type BoardUpdate struct {
	GameID string
	Seed   int64
	Board  world.Board
}

// Dial opens the command channel on the server at baseURL and logs in.
func Dial(ctx context.Context, baseURL, userID string) (*Conn, error) {
	wsURL, err := wsEndpoint(baseURL)
	if err != nil {
		return nil, err
	}
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", wsURL, err)
	}

	c := &Conn{conn: ws, UserID: userID}
	if err := c.send(api.Envelope{Type: api.MsgLogin, UserID: userID}); err != nil {
		ws.Close()
		return nil, err
	}
	msg, err := c.read(ctx)
	if err != nil {
		ws.Close()
		return nil, fmt.Errorf("login: %w", err)
	}
	if msg.Type != api.MsgWelcome {
		ws.Close()
		return nil, fmt.Errorf("login: unexpected %q reply", msg.Type)
	}
	return c, nil
}

// Subscribe asks for gameID's board now and on every regeneration.
func (c *Conn) Subscribe(gameID string) error {
	return c.send(api.Envelope{Type: api.MsgSubscribe, GameID: gameID})
}

// Unsubscribe stops pushes for gameID.
func (c *Conn) Unsubscribe(gameID string) error {
	return c.send(api.Envelope{Type: api.MsgUnsubscribe, GameID: gameID})
}

// Generate asks the server for a new game. Its board arrives through Next.
func (c *Conn) Generate(seed int64) error {
	return c.send(api.Envelope{Type: api.MsgGenerate, Seed: seed})
}

// Ping checks the channel is alive; the pong is skipped by Next.
func (c *Conn) Ping() error {
	return c.send(api.Envelope{Type: api.MsgPing})
}

// Next blocks until the next board arrives. Server errors are returned as
// *ServerError and leave the connection usable; cancelling ctx does not.
func (c *Conn) Next(ctx context.Context) (BoardUpdate, error) {
	for {
		msg, err := c.read(ctx)
		if err != nil {
			return BoardUpdate{}, err
		}
		switch msg.Type {
		case api.MsgBoard:
			return BoardUpdate{GameID: msg.GameID, Seed: msg.Seed, Board: msg.Board}, nil
		case api.MsgError:
			return BoardUpdate{}, &ServerError{GameID: msg.GameID, Message: msg.Error}
		}
	}
}

// Close sends a close frame and drops the connection.
func (c *Conn) Close() error {
	c.writeMu.Lock()
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return c.conn.Close()
}

// ServerError is an error envelope from the server.
type ServerError struct {
	GameID  string
	Message string
}

func (e *ServerError) Error() string {
	if e.GameID != "" {
		return fmt.Sprintf("server: game %s: %s", e.GameID, e.Message)
	}
	return "server: " + e.Message
}

func (c *Conn) send(msg api.Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.Type, err)
	}
	return nil
}

func (c *Conn) read(ctx context.Context) (api.Envelope, error) {
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	var msg api.Envelope
	if err := c.conn.ReadJSON(&msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return msg, ctxErr
		}
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) {
			return msg, fmt.Errorf("connection closed: %w", err)
		}
		return msg, fmt.Errorf("read: %w", err)
	}
	return msg, nil
}

// wsEndpoint maps http(s)://host to ws(s)://host/api/v1/ws.
func wsEndpoint(baseURL string) (string, error) {
	base := strings.TrimRight(baseURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://") + "/api/v1/ws", nil
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://") + "/api/v1/ws", nil
	}
	return "", fmt.Errorf("server url %q: scheme must be http or https", baseURL)
}
