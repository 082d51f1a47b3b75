package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mathtype.toml")
	writeFile(t, path, `
font_size = 14
mode = "inline"
max_width = 300
symbols = "extra.sym"

[cache]
backend = "none"
ttl = "1h"

[server]
addr = "127.0.0.1:9000"
`)

	cfg, err := loadConfig(path, newLogger(&bytes.Buffer{}, log.InfoLevel))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.FontSize != 14 || cfg.Mode != "inline" || cfg.MaxWidth != 300 {
		t.Errorf("top-level fields = %+v", cfg)
	}
	if cfg.Cache.Backend != backendNone || cfg.Cache.TTL != time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.LRUSize != defaultConfig().Cache.LRUSize {
		t.Errorf("unset lru_size should keep the default, got %d", cfg.Cache.LRUSize)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("server.addr = %q", cfg.Server.Addr)
	}
	if want := filepath.Join(dir, "extra.sym"); cfg.Symbols != want {
		t.Errorf("symbols = %q, want %q", cfg.Symbols, want)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mathtype.toml")
	writeFile(t, path, "font_size = 12\ncolour = \"red\"\n")

	var buf bytes.Buffer
	if _, err := loadConfig(path, newLogger(&buf, log.InfoLevel)); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !strings.Contains(buf.String(), "colour") {
		t.Errorf("unknown key should be logged, got %q", buf.String())
	}
}

func TestLoadConfigMissing(t *testing.T) {
	logger := newLogger(&bytes.Buffer{}, log.InfoLevel)

	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"), logger); err == nil {
		t.Error("explicit missing config should fail")
	}

	t.Chdir(t.TempDir())
	cfg, err := loadConfig("", logger)
	if err != nil {
		t.Fatalf("missing default config should fall back: %v", err)
	}
	if cfg != defaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"zero font size", func(c *Config) { c.FontSize = 0 }, "font_size"},
		{"negative width", func(c *Config) { c.MaxWidth = -1 }, "max_width"},
		{"bad mode", func(c *Config) { c.Mode = "block" }, "mode"},
		{"bad backend", func(c *Config) { c.Cache.Backend = "memcached" }, "backend"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = backendRedis }, "redis_addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(&cfg)
			err := cfg.validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}

	if err := defaultConfig().validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestNewEngineWithSymbols(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.sym")
	writeFile(t, path, `symbol \RR ordinary "ℝ"`+"\n")

	cfg := defaultConfig()
	cfg.Symbols = path
	eng, err := newEngine(cfg, newLogger(&bytes.Buffer{}, log.InfoLevel))
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}
	l, _, err := eng.Parse(`\RR`)
	if err != nil {
		t.Fatalf("Parse(\\RR): %v", err)
	}
	if atoms := l.Atoms(); len(atoms) != 1 || atoms[0].Base().Nucleus != "ℝ" {
		t.Errorf("\\RR parsed to %v", atoms)
	}

	cfg.Symbols = filepath.Join(dir, "missing.sym")
	if _, err := newEngine(cfg, newLogger(&bytes.Buffer{}, log.InfoLevel)); err == nil {
		t.Error("missing symbol file should fail")
	}
}
