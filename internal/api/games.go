package api

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/hexboard/internal/world"
)

// ErrGameNotFound is returned for unknown game IDs.
var ErrGameNotFound = errors.New("game not found")

// Game is one generated board and the players seated at it.
// A Game returned by the Registry is a copy; the Map is never mutated after
// generation, so sharing it is safe.
type Game struct {
	ID        string
	Seed      int64
	Config    world.GenConfig
	Map       *world.Map
	Players   []Player
	CreatedAt time.Time
}

// Response renders the game as the wire type.
func (g Game) Response() GameResponse {
	players := g.Players
	if players == nil {
		players = []Player{}
	}
	return GameResponse{
		GameID:  g.ID,
		Seed:    g.Seed,
		Radius:  g.Map.Radius,
		HexSize: g.Map.HexSize,
		Players: players,
		Board:   g.Map.Board(),
	}
}

// Registry holds games in memory for the life of the process.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*Game
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{games: make(map[string]*Game)}
}

// Add stores a freshly generated board under a new ID.
func (r *Registry) Add(seed int64, cfg world.GenConfig, m *world.Map) Game {
	g := &Game{
		ID:        uuid.NewString(),
		Seed:      seed,
		Config:    cfg,
		Map:       m,
		CreatedAt: time.Now(),
	}
	r.mu.Lock()
	r.games[g.ID] = g
	r.mu.Unlock()
	return g.copy()
}

// Get returns a copy of the game.
func (r *Registry) Get(id string) (Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok {
		return Game{}, ErrGameNotFound
	}
	return g.copy(), nil
}

// Join seats a new player and returns it with the full seat list.
func (r *Registry) Join(id, name string) (Player, []Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return Player{}, nil, ErrGameNotFound
	}
	p := Player{ID: uuid.NewString(), Name: name}
	g.Players = append(g.Players, p)
	return p, append([]Player(nil), g.Players...), nil
}

// Replace swaps in a regenerated board, keeping the players.
func (r *Registry) Replace(id string, seed int64, m *world.Map) (Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return Game{}, ErrGameNotFound
	}
	g.Seed = seed
	g.Config.Seed = seed
	g.Map = m
	return g.copy(), nil
}

// List returns copies of every game, oldest first.
func (r *Registry) List() []Game {
	r.mu.RLock()
	out := make([]Game, 0, len(r.games))
	for _, g := range r.games {
		out = append(out, g.copy())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of games.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

func (g *Game) copy() Game {
	c := *g
	c.Players = append([]Player(nil), g.Players...)
	return c
}
