// Package client talks to a hexboard server: it creates and joins games,
// loads boards over HTTP and follows board pushes on the WebSocket channel.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/talgya/hexboard/internal/api"
	"github.com/talgya/hexboard/internal/world"
)

// Client wraps the board server's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client for the server at baseURL, e.g. "http://localhost:3000".
func New(baseURL string, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}, nil
}

// CreateGame asks the server for a new board. A zero seed lets the server
// pick one; overrides use the server's JSON config keys.
func (c *Client) CreateGame(ctx context.Context, seed int64, overrides map[string]any) (api.CreateGameResponse, error) {
	var out api.CreateGameResponse
	req := api.CreateGameRequest{Seed: seed, Config: overrides}
	if err := c.do(ctx, http.MethodPost, "/api/v1/games", req, http.StatusCreated, &out); err != nil {
		return out, fmt.Errorf("create game: %w", err)
	}
	c.logger.Debug("game created", "game_id", out.GameID, "seed", out.Seed)
	return out, nil
}

// JoinGame takes a seat at gameID.
func (c *Client) JoinGame(ctx context.Context, gameID, playerName string) (api.JoinResponse, error) {
	var out api.JoinResponse
	path := "/api/v1/games/" + url.PathEscape(gameID) + "/join"
	if err := c.do(ctx, http.MethodPost, path, api.JoinRequest{PlayerName: playerName}, http.StatusOK, &out); err != nil {
		return out, fmt.Errorf("join game: %w", err)
	}
	return out, nil
}

// LoadGame fetches the full game state.
func (c *Client) LoadGame(ctx context.Context, gameID string) (api.GameResponse, error) {
	var out api.GameResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/games/"+url.PathEscape(gameID), nil, http.StatusOK, &out); err != nil {
		return out, fmt.Errorf("load game: %w", err)
	}
	return out, nil
}

// LoadBoard fetches only the tiles of gameID. Unknown tile labels come back
// as ResourceUnset rather than failing the whole board.
func (c *Client) LoadBoard(ctx context.Context, gameID string) (world.Board, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/v1/games/"+url.PathEscape(gameID), nil, http.StatusOK, &raw); err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	return ParseBoard(raw, c.logger)
}

// do sends body as JSON (if non-nil) and decodes a response with the
// wanted status into out.
func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != want {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// StatusError is a non-success answer from the server.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Body)
}

// rawTile keeps the label as text so one bad tile does not sink the board.
type rawTile struct {
	Q    int    `json:"q"`
	R    int    `json:"r"`
	Type string `json:"type"`
}

// ParseBoard extracts the tile list from a server payload. It accepts a bare
// array, an object with a top-level "board", or one nested under "state".
// Tiles with unknown labels are kept as ResourceUnset and logged.
func ParseBoard(data []byte, logger *slog.Logger) (world.Board, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var tiles []rawTile
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return world.Board{}, nil
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &tiles); err != nil {
			return nil, fmt.Errorf("parse board: %w", err)
		}
	default:
		var payload struct {
			Board []rawTile `json:"board"`
			State *struct {
				Board []rawTile `json:"board"`
			} `json:"state"`
		}
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return nil, fmt.Errorf("parse board: %w", err)
		}
		tiles = payload.Board
		if tiles == nil && payload.State != nil {
			tiles = payload.State.Board
		}
	}

	board := make(world.Board, 0, len(tiles))
	for _, t := range tiles {
		rt, err := world.ParseResource(t.Type)
		if err != nil {
			logger.Warn("unknown tile type", "q", t.Q, "r", t.R, "type", t.Type)
			rt = world.ResourceUnset
		}
		board = append(board, world.Tile{Q: t.Q, R: t.R, Type: rt})
	}
	return board, nil
}
