package api

import "github.com/talgya/hexboard/internal/world"

// Wire types shared by the server and internal/client. Field names follow
// the game client's camelCase JSON.

// CreateGameRequest is the optional body of POST /api/v1/games.
// Config is overlaid on the server defaults key by key.
type CreateGameRequest struct {
	Seed   int64          `json:"seed,omitempty"`
	Config map[string]any `json:"config,omitempty"`
}

// CreateGameResponse answers a successful create.
type CreateGameResponse struct {
	GameID string `json:"gameId"`
	Seed   int64  `json:"seed"`
}

// JoinRequest is the body of POST /api/v1/games/{id}/join.
type JoinRequest struct {
	PlayerName string `json:"playerName"`
}

// Player is one seat at a game.
type Player struct {
	ID   string `json:"playerId"`
	Name string `json:"playerName"`
}

// JoinResponse answers a successful join.
type JoinResponse struct {
	PlayerID string   `json:"playerId"`
	Players  []Player `json:"players"`
}

// GameResponse is the full board state of one game.
type GameResponse struct {
	GameID  string      `json:"gameId"`
	Seed    int64       `json:"seed"`
	Radius  int         `json:"radius"`
	HexSize float64     `json:"hexSize"`
	Players []Player    `json:"players"`
	Board   world.Board `json:"board"`
}

// GameSummary is one row of GET /api/v1/games.
type GameSummary struct {
	GameID  string `json:"gameId"`
	Seed    int64  `json:"seed"`
	Radius  int    `json:"radius"`
	Players int    `json:"players"`
	Created string `json:"created"` // Relative, e.g. "3 minutes ago"
}

// RegenerateRequest is the optional body of POST /api/v1/games/{id}/regenerate.
type RegenerateRequest struct {
	Seed int64 `json:"seed,omitempty"`
}

// HexDetail describes one tile, including the inert noise sample.
type HexDetail struct {
	Q         int                `json:"q"`
	R         int                `json:"r"`
	S         int                `json:"s"`
	Ring      int                `json:"ring"`
	Type      world.ResourceType `json:"type"`
	Noise     float64            `json:"noise"`
	WorldPos  world.Vec3         `json:"worldPos"`
	Neighbors []world.Tile       `json:"neighbors"`
}

// Envelope is every message on the WebSocket command channel, both ways.
//
// Client to server: login{userId}, subscribe{gameId}, unsubscribe{gameId},
// generate{seed?}, ping.
// Server to client: welcome, board{gameId, seed, board}, created{gameId, seed},
// pong, error{error}.
type Envelope struct {
	Type   string      `json:"type"`
	UserID string      `json:"userId,omitempty"`
	GameID string      `json:"gameId,omitempty"`
	Seed   int64       `json:"seed,omitempty"`
	Board  world.Board `json:"board,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Envelope types.
const (
	MsgLogin       = "login"
	MsgWelcome     = "welcome"
	MsgSubscribe   = "subscribe"
	MsgUnsubscribe = "unsubscribe"
	MsgGenerate    = "generate"
	MsgCreated     = "created"
	MsgBoard       = "board"
	MsgPing        = "ping"
	MsgPong        = "pong"
	MsgError       = "error"
)
