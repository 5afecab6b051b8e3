// Package config loads settings from an optional TOML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/thywilljoshua/pdf-mindmap/internal/ai"
	"github.com/thywilljoshua/pdf-mindmap/internal/errs"
	"github.com/thywilljoshua/pdf-mindmap/internal/scrape"
)

const (
	DefaultAddr        = ":8080"
	DefaultMaxDuration = 60 * time.Second
	DefaultModel       = ai.DefaultModel
	DefaultFirecrawl   = scrape.DefaultBaseURL
	DefaultCacheTTL    = 24 * time.Hour
)

type Config struct {
	Server    Server    `toml:"server"`
	Gemini    Gemini    `toml:"gemini"`
	Firecrawl Firecrawl `toml:"firecrawl"`
	Cache     Cache     `toml:"cache"`
	Log       Log       `toml:"log"`
}

type Server struct {
	Addr string `toml:"addr"`
	// MaxDuration bounds a single generate request.
	MaxDuration time.Duration `toml:"max_duration"`
}

type Gemini struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

type Firecrawl struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Cache configures the outline cache. An empty RedisAddr disables it.
type Cache struct {
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
}

type Log struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Server:    Server{Addr: DefaultAddr, MaxDuration: DefaultMaxDuration},
		Gemini:    Gemini{Model: DefaultModel},
		Firecrawl: Firecrawl{BaseURL: DefaultFirecrawl},
		Cache:     Cache{TTL: DefaultCacheTTL},
		Log:       Log{Level: "info"},
	}
}

// Load reads path (if non-empty) over the defaults, then applies environment
// overrides. A missing file is an error; an empty path is not.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			var perr toml.ParseError
			if errors.As(err, &perr) {
				return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s: %s", path, perr.Message)
			}
			return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, errs.New(errs.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}
	cfg.applyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, names ...string) {
		for _, n := range names {
			if v := strings.TrimSpace(getenv(n)); v != "" {
				*dst = v
				return
			}
		}
	}
	set(&c.Gemini.APIKey, "GOOGLE_API_KEY", "GEMINI_API_KEY")
	set(&c.Firecrawl.APIKey, "FIRECRAWL_API_KEY")
	set(&c.Server.Addr, "MINDMAP_ADDR")
	set(&c.Cache.RedisAddr, "MINDMAP_REDIS_ADDR")
	set(&c.Log.Level, "MINDMAP_LOG_LEVEL")
}

func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	if c.Server.MaxDuration <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server.max_duration must be positive")
	}
	if c.Cache.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Gemini.Model == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "gemini.model must not be empty")
	}
	return nil
}
