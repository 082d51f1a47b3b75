package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/ByLCY/mathtype/cache"
	"github.com/ByLCY/mathtype/dsl"
	"github.com/ByLCY/mathtype/engine"
	"github.com/ByLCY/mathtype/markup"
)

const (
	// appName is the application name used for directories and display.
	appName = "mathtype"

	// defaultConfigFile is read from the working directory when --config is not given.
	defaultConfigFile = "mathtype.toml"

	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the content of mathtype.toml.
type Config struct {
	FontSize float64 `toml:"font_size"`
	Mode     string  `toml:"mode"`
	MaxWidth float64 `toml:"max_width"`
	// Symbols is the path of a symbol file that extends the built-in table.
	Symbols string       `toml:"symbols"`
	Cache   CacheConfig  `toml:"cache"`
	Server  ServerConfig `toml:"server"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend   string        `toml:"backend"` // file, redis or none
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
	// LRUSize bounds the in-memory layout cache.
	LRUSize int `toml:"lru_size"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

func defaultConfig() Config {
	return Config{
		FontSize: engine.DefaultFontSize,
		Mode:     "",
		Cache: CacheConfig{
			Backend: backendFile,
			TTL:     24 * time.Hour,
			LRUSize: engine.DefaultCacheSize,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// loadConfig reads path on top of the defaults. An empty path falls back to
// ./mathtype.toml when it exists. Unknown keys are logged, not rejected.
func loadConfig(path string, logger *log.Logger) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return defaultConfig(), nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		logger.Warn("unknown config key", "key", key.String(), "file", path)
	}
	// relative paths are resolved against the config file
	base := filepath.Dir(path)
	if cfg.Symbols != "" && !filepath.IsAbs(cfg.Symbols) {
		cfg.Symbols = filepath.Join(base, cfg.Symbols)
	}
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(base, cfg.Cache.Dir)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.FontSize <= 0 {
		return fmt.Errorf("font_size must be positive, got %g", c.FontSize)
	}
	if c.MaxWidth < 0 {
		return fmt.Errorf("max_width must not be negative, got %g", c.MaxWidth)
	}
	if _, ok := markup.ParseModeName(c.Mode); !ok {
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	switch c.Cache.Backend {
	case backendFile, backendRedis, backendNone:
	default:
		return fmt.Errorf("unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == backendRedis && c.Cache.RedisAddr == "" {
		return errors.New("cache.redis_addr is required for the redis backend")
	}
	return nil
}

func withConfig(ctx context.Context, c Config) context.Context {
	return context.WithValue(ctx, configKey, c)
}

func configFromContext(ctx context.Context) Config {
	if c, ok := ctx.Value(configKey).(Config); ok {
		return c
	}
	return defaultConfig()
}

// newEngine builds an engine with the configured symbol extensions.
func newEngine(cfg Config, logger *log.Logger) (*engine.Engine, error) {
	symbols := markup.DefaultSymbols()
	if cfg.Symbols != "" {
		src, err := os.ReadFile(cfg.Symbols)
		if err != nil {
			return nil, fmt.Errorf("read symbols: %w", err)
		}
		if symbols, err = dsl.Load(symbols, string(src)); err != nil {
			return nil, fmt.Errorf("symbols %s: %w", cfg.Symbols, err)
		}
		logger.Debug("loaded symbol file", "path", cfg.Symbols)
	}
	return engine.New(
		engine.WithSymbols(symbols),
		engine.WithLogger(logger),
		engine.WithDefaultFontSize(cfg.FontSize),
		engine.WithCacheSize(cfg.Cache.LRUSize),
	), nil
}

// newArtifactCache opens the configured backend. noCache forces the no-op cache.
func newArtifactCache(ctx context.Context, cfg CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.Discard, nil
	}
	switch strings.ToLower(cfg.Backend) {
	case backendNone:
		return cache.Discard, nil
	case backendRedis:
		return cache.NewRedisCache(ctx, cfg.RedisAddr, appName)
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.Discard, nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/mathtype/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
