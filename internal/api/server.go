// Package api serves generated boards over HTTP and a WebSocket command channel.
// GET endpoints are public. Regenerating an existing board requires the
// admin bearer token.
package api

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/talgya/hexboard/internal/config"
	"github.com/talgya/hexboard/internal/entropy"
	"github.com/talgya/hexboard/internal/world"
)

const maxBodyBytes = 64 << 10

// Server serves boards over HTTP.
type Server struct {
	Games    *Registry
	Defaults world.GenConfig // Base configuration every request overlays
	Settings config.Server
	Logger   *slog.Logger

	gen     *world.Generator
	hub     *Hub
	limiter *RateLimiter
	started time.Time
}

// NewServer wires a server from loaded configuration.
func NewServer(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Games:    NewRegistry(),
		Defaults: cfg.Generation,
		Settings: cfg.Server,
		Logger:   logger,
		gen:      &world.Generator{Logger: logger},
		hub:      NewHub(logger),
		limiter:  NewRateLimiter(cfg.Server.GenerateLimit, cfg.Server.GenerateWindow),
		started:  time.Now(),
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(corsMiddleware(s.Settings.CORSOrigins))

	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/api/v1/ws", s.handleWS)
	r.Get("/adminws", s.handleWS) // Path the game client dials

	r.Route("/api/v1/games", func(r chi.Router) {
		r.Get("/", s.handleListGames)
		r.With(s.limiter.Middleware).Post("/", s.handleCreateGame)

		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Post("/join", s.handleJoin)
			r.Get("/hex/{q}/{r}", s.handleHexDetail)
			r.With(s.adminOnly).Post("/regenerate", s.handleRegenerate)
		})
	})
	return r
}

// Run serves on Settings.Addr until ctx is cancelled, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Settings.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.Logger.Info("HTTP API starting", "addr", srv.Addr, "admin_auth", s.Settings.AdminKey != "")

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.hub.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// generate runs one board generation with its own random source.
// A zero seed is replaced by a fresh one.
func (s *Server) generate(cfg world.GenConfig) (*world.Map, int64, error) {
	if s.Settings.MaxRadius > 0 && cfg.Radius > s.Settings.MaxRadius {
		return nil, 0, &world.ConfigError{
			Field:  "radius",
			Value:  cfg.Radius,
			Reason: fmt.Sprintf("exceeds server limit %d", s.Settings.MaxRadius),
		}
	}
	seed, _ := entropy.Resolve(cfg.Seed)
	cfg.Seed = seed

	start := time.Now()
	m, rep, err := s.gen.Generate(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, 0, err
	}
	s.Logger.Info("board generated",
		"seed", seed,
		"radius", cfg.Radius,
		"land", rep.Resources.Land,
		"lakes", rep.Water.Interior,
		"elapsed", time.Since(start),
	)
	return m, seed, nil
}

// createGame overlays overrides on the defaults, generates and stores a board.
func (s *Server) createGame(seed int64, overrides map[string]any) (Game, error) {
	cfg, err := s.overlay(overrides)
	if err != nil {
		return Game{}, err
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	m, used, err := s.generate(cfg)
	if err != nil {
		return Game{}, err
	}
	cfg.Seed = used
	return s.Games.Add(used, cfg, m), nil
}

// overlay applies JSON-keyed overrides to the default configuration.
func (s *Server) overlay(overrides map[string]any) (world.GenConfig, error) {
	cfg := s.Defaults
	if len(overrides) == 0 {
		return cfg, nil
	}
	raw, err := json.Marshal(overrides)
	if err != nil {
		return cfg, fmt.Errorf("%w: config: %v", world.ErrInvalidConfig, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: config: %v", world.ErrInvalidConfig, err)
	}
	return cfg, nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"games":      s.Games.Len(),
		"ws_clients": s.hub.Len(),
		"uptime":     time.Since(s.started).Round(time.Second).String(),
		"defaults":   s.Defaults,
	})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games := s.Games.List()
	out := make([]GameSummary, 0, len(games))
	for _, g := range games {
		out = append(out, GameSummary{
			GameID:  g.ID,
			Seed:    g.Seed,
			Radius:  g.Map.Radius,
			Players: len(g.Players),
			Created: humanize.Time(g.CreatedAt),
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	g, err := s.createGame(req.Seed, req.Config)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, CreateGameResponse{GameID: g.ID, Seed: g.Seed})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.Games.Get(chi.URLParam(r, "gameID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, g.Response())
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if !decodeBody(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		http.Error(w, "playerName is required", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "gameID")
	p, players, err := s.Games.Join(id, name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.Logger.Info("player joined", "game_id", id, "player", name)
	writeJSON(w, JoinResponse{PlayerID: p.ID, Players: players})
}

// handleHexDetail returns one tile with its neighbors (GET /games/{id}/hex/{q}/{r}).
func (s *Server) handleHexDetail(w http.ResponseWriter, r *http.Request) {
	g, err := s.Games.Get(chi.URLParam(r, "gameID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	q, errQ := strconv.Atoi(chi.URLParam(r, "q"))
	rr, errR := strconv.Atoi(chi.URLParam(r, "r"))
	if errQ != nil || errR != nil {
		http.Error(w, "q and r must be integers", http.StatusBadRequest)
		return
	}

	coord := world.HexCoord{Q: q, R: rr}
	hex := g.Map.Get(coord)
	if hex == nil {
		http.Error(w, "hex not on board", http.StatusNotFound)
		return
	}

	neighbors := make([]world.Tile, 0, 6)
	for _, nc := range coord.Neighbors() {
		if n := g.Map.Get(nc); n != nil {
			neighbors = append(neighbors, world.Tile{Q: nc.Q, R: nc.R, Type: n.Resource})
		}
	}
	writeJSON(w, HexDetail{
		Q:         q,
		R:         rr,
		S:         coord.S(),
		Ring:      coord.Ring(),
		Type:      hex.Resource,
		Noise:     hex.Noise,
		WorldPos:  hex.WorldPos,
		Neighbors: neighbors,
	})
}

// handleRegenerate rebuilds a game's board with a new seed and pushes it to subscribers.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	var req RegenerateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "gameID")
	g, err := s.Games.Get(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	cfg := g.Config
	cfg.Seed = req.Seed
	m, seed, err := s.generate(cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	g, err = s.Games.Replace(id, seed, m)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := g.Response()
	s.hub.Broadcast(id, Envelope{Type: MsgBoard, GameID: id, Seed: seed, Board: resp.Board})
	writeJSON(w, resp)
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || s.Settings.AdminKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.Settings.AdminKey)) == 1
}

// adminOnly requires the admin bearer token.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Settings.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no HEXBOARD_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeError maps domain errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, world.ErrInvalidConfig):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrGameNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		s.Logger.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// decodeBody reads an optional JSON body into v. An empty body leaves v
// untouched. Writes a 400 and returns false on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Localhost dev servers are always allowed.
func corsMiddleware(extra []string) func(http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	for _, origin := range extra {
		allowedOrigins[origin] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowedOrigins[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
