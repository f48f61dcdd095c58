// Package config loads generator and server settings from TOML.
//
// Every key is optional; missing keys keep the defaults from Default.
// Unknown keys are rejected so a typo cannot silently fall back to a default.
//
//	[generation]
//	radius = 6
//	water_fraction = 0.2
//	noise = "perlin"
//
//	[server]
//	addr = ":3000"
//	generate_window = "1m"
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/talgya/hexboard/internal/world"
)

// Config is the full file layout.
type Config struct {
	Generation world.GenConfig `toml:"generation"`
	Server     Server          `toml:"server"`
}

// Server holds board server settings.
type Server struct {
	Addr        string   `toml:"addr"`
	AdminKey    string   `toml:"admin_key"`    // Bearer token for regenerate. Empty = disabled.
	CORSOrigins []string `toml:"cors_origins"` // Extra allowed origins besides localhost dev servers
	MaxRadius   int      `toml:"max_radius"`   // Largest radius a client may request

	GenerateLimit  int           `toml:"generate_limit"` // Board creations per window per IP
	GenerateWindow time.Duration `toml:"generate_window"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Generation: world.DefaultGenConfig(),
		Server: Server{
			Addr:           ":3000",
			MaxRadius:      32,
			GenerateLimit:  60,
			GenerateWindow: time.Minute,
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if cfg, err = Parse(string(data)); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults without touching the environment.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate checks the generation block and server limits.
func (c Config) Validate() error {
	if err := c.Generation.Validate(); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	if c.Server.MaxRadius < 0 {
		return fmt.Errorf("server: max_radius must be >= 0, got %d", c.Server.MaxRadius)
	}
	if c.Server.GenerateLimit < 1 {
		return fmt.Errorf("server: generate_limit must be >= 1, got %d", c.Server.GenerateLimit)
	}
	if c.Server.GenerateWindow <= 0 {
		return fmt.Errorf("server: generate_window must be > 0, got %s", c.Server.GenerateWindow)
	}
	return nil
}

// applyEnv lets deployments keep secrets out of the file.
// HEXBOARD_ADMIN_KEY sets the admin token; CORS_ORIGINS is a comma-separated
// list appended to the configured origins.
func applyEnv(c *Config) {
	if key := os.Getenv("HEXBOARD_ADMIN_KEY"); key != "" {
		c.Server.AdminKey = key
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.Server.CORSOrigins = append(c.Server.CORSOrigins, origin)
			}
		}
	}
}
