package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/talgya/hexboard/internal/config"
	"github.com/talgya/hexboard/internal/world"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.Default()
	cfg.Server.AdminKey = "secret"
	cfg.Server.MaxRadius = 8
	s := NewServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, method, url, body string, header map[string]string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode %T: %v", v, err)
	}
	return v
}

func createGame(t *testing.T, ts *httptest.Server, body string) CreateGameResponse {
	t.Helper()
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/games", body, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	return decode[CreateGameResponse](t, resp)
}

func TestCreateAndGetGame(t *testing.T) {
	_, ts := newTestServer(t)

	created := createGame(t, ts, `{"seed": 7}`)
	if created.GameID == "" || created.Seed != 7 {
		t.Fatalf("created = %+v", created)
	}

	resp := do(t, http.MethodGet, ts.URL+"/api/v1/games/"+created.GameID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	game := decode[GameResponse](t, resp)
	if game.Radius != 4 || len(game.Board) != 61 {
		t.Errorf("radius %d with %d tiles, want 4 with 61", game.Radius, len(game.Board))
	}
	if game.Players == nil {
		t.Error("players should encode as an empty list")
	}

	// Same seed, same defaults: identical board.
	cfg := world.DefaultGenConfig()
	cfg.Seed = 7
	m, err := world.Generate(cfg, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := m.Board()
	for i := range want {
		if game.Board[i] != want[i] {
			t.Fatalf("tile %d = %+v, want %+v", i, game.Board[i], want[i])
		}
	}
}

func TestCreateGameEmptyBody(t *testing.T) {
	_, ts := newTestServer(t)
	created := createGame(t, ts, "")
	if created.Seed == 0 {
		t.Error("server should pick a nonzero seed")
	}
}

func TestCreateGameConfigOverrides(t *testing.T) {
	_, ts := newTestServer(t)
	created := createGame(t, ts, `{"seed": 3, "config": {"radius": 2, "edgeWaterDepth": 1}}`)

	resp := do(t, http.MethodGet, ts.URL+"/api/v1/games/"+created.GameID, "", nil)
	game := decode[GameResponse](t, resp)
	if game.Radius != 2 || len(game.Board) != 19 {
		t.Errorf("radius %d with %d tiles, want 2 with 19", game.Radius, len(game.Board))
	}
}

func TestCreateGameRejectsBadConfig(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"seed":`, http.StatusBadRequest},
		{"unknown key", `{"config": {"colour": "red"}}`, http.StatusBadRequest},
		{"out of range", `{"config": {"desertFraction": 0.9}}`, http.StatusBadRequest},
		{"over server limit", `{"config": {"radius": 9}}`, http.StatusBadRequest},
		{"wrong type", `{"config": {"radius": "big"}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/api/v1/games", tt.body, nil)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestGetUnknownGame(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/v1/games/nope", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestJoinGame(t *testing.T) {
	_, ts := newTestServer(t)
	created := createGame(t, ts, `{"seed": 1}`)
	url := ts.URL + "/api/v1/games/" + created.GameID + "/join"

	first := decode[JoinResponse](t, do(t, http.MethodPost, url, `{"playerName": "ana"}`, nil))
	second := decode[JoinResponse](t, do(t, http.MethodPost, url, `{"playerName": "bo"}`, nil))

	if first.PlayerID == "" || first.PlayerID == second.PlayerID {
		t.Errorf("player IDs %q, %q should be distinct and nonempty", first.PlayerID, second.PlayerID)
	}
	if len(second.Players) != 2 || second.Players[0].Name != "ana" || second.Players[1].Name != "bo" {
		t.Errorf("players = %+v", second.Players)
	}

	resp := do(t, http.MethodPost, url, `{"playerName": "  "}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("blank name status = %d, want 400", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, ts.URL+"/api/v1/games/nope/join", `{"playerName": "x"}`, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown game status = %d, want 404", resp.StatusCode)
	}
}

func TestListGames(t *testing.T) {
	_, ts := newTestServer(t)
	a := createGame(t, ts, `{"seed": 11}`)
	b := createGame(t, ts, `{"seed": 12}`)

	list := decode[[]GameSummary](t, do(t, http.MethodGet, ts.URL+"/api/v1/games", "", nil))
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	ids := map[string]bool{list[0].GameID: true, list[1].GameID: true}
	if !ids[a.GameID] || !ids[b.GameID] {
		t.Errorf("list = %+v", list)
	}
	for _, g := range list {
		if g.Created == "" {
			t.Errorf("game %s has no created time", g.GameID)
		}
	}
}

func TestHexDetail(t *testing.T) {
	_, ts := newTestServer(t)
	created := createGame(t, ts, `{"seed": 5}`)
	base := ts.URL + "/api/v1/games/" + created.GameID + "/hex/"

	resp := do(t, http.MethodGet, base+"0/0", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	center := decode[HexDetail](t, resp)
	if center.Ring != 0 || center.S != 0 || len(center.Neighbors) != 6 {
		t.Errorf("center = %+v", center)
	}
	if center.Type == world.ResourceUnset {
		t.Error("center type unset")
	}

	corner := decode[HexDetail](t, do(t, http.MethodGet, base+"4/-4", "", nil))
	if corner.Type != world.ResourceWater || len(corner.Neighbors) != 3 || corner.Noise != 0 {
		t.Errorf("corner = %+v", corner)
	}

	if resp := do(t, http.MethodGet, base+"5/0", "", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("off-board status = %d, want 404", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, base+"a/0", "", nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad coord status = %d, want 400", resp.StatusCode)
	}
}

func TestRegenerateRequiresAdmin(t *testing.T) {
	s, ts := newTestServer(t)
	created := createGame(t, ts, `{"seed": 21}`)
	url := ts.URL + "/api/v1/games/" + created.GameID + "/regenerate"

	if resp := do(t, http.MethodPost, url, "", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", resp.StatusCode)
	}
	bad := map[string]string{"Authorization": "Bearer wrong"}
	if resp := do(t, http.MethodPost, url, "", bad); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", resp.StatusCode)
	}

	s.Settings.AdminKey = ""
	if resp := do(t, http.MethodPost, url, "", nil); resp.StatusCode != http.StatusForbidden {
		t.Errorf("disabled status = %d, want 403", resp.StatusCode)
	}
}

func TestRegenerate(t *testing.T) {
	s, ts := newTestServer(t)
	created := createGame(t, ts, `{"seed": 21, "config": {"radius": 3}}`)
	url := ts.URL + "/api/v1/games/" + created.GameID
	do(t, http.MethodPost, url+"/join", `{"playerName": "ana"}`, nil)

	auth := map[string]string{"Authorization": "Bearer secret"}
	resp := do(t, http.MethodPost, url+"/regenerate", `{"seed": 22}`, auth)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	game := decode[GameResponse](t, resp)
	if game.Seed != 22 || game.Radius != 3 {
		t.Errorf("seed %d radius %d, want 22 and 3", game.Seed, game.Radius)
	}
	if len(game.Players) != 1 {
		t.Errorf("players = %+v, want ana kept", game.Players)
	}

	g, err := s.Games.Get(created.GameID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if g.Config.Seed != 22 {
		t.Errorf("stored config seed = %d, want 22", g.Config.Seed)
	}
}

func TestStatus(t *testing.T) {
	_, ts := newTestServer(t)
	createGame(t, ts, "")

	status := decode[map[string]any](t, do(t, http.MethodGet, ts.URL+"/api/v1/status", "", nil))
	if status["games"] != float64(1) {
		t.Errorf("games = %v, want 1", status["games"])
	}
	if _, ok := status["defaults"].(map[string]any); !ok {
		t.Errorf("defaults = %v", status["defaults"])
	}
}

func TestCORS(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, http.MethodOptions, ts.URL+"/api/v1/games", "", map[string]string{"Origin": "http://localhost:5173"})
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/v1/status", "", map[string]string{"Origin": "https://evil.example"})
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}
}

func TestDecodeBodyLimit(t *testing.T) {
	_, ts := newTestServer(t)
	big := `{"seed": 1, "config": {"scale": 0.8` + strings.Repeat(" ", maxBodyBytes) + `}}`
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/games", big, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "invalid JSON body") {
		t.Errorf("body = %q", buf.String())
	}
}

func TestCheckBearerToken(t *testing.T) {
	s := &Server{}
	tests := []struct {
		key    string
		header string
		want   bool
	}{
		{"secret", "Bearer secret", true},
		{"secret", "Bearer secre", false},
		{"secret", "Bearer secrets", false},
		{"secret", "secret", false},
		{"secret", "", false},
		{"", "Bearer ", false},
	}
	for _, tt := range tests {
		s.Settings.AdminKey = tt.key
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		if got := s.checkBearerToken(req); got != tt.want {
			t.Errorf("key %q header %q: got %v, want %v", tt.key, tt.header, got, tt.want)
		}
	}
}
