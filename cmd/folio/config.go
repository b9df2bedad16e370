package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/eringen/folio"
)

// loadConfig reads .env next to the config file (if any), then site.yaml,
// then applies environment overrides. Flags are applied by the caller.
func loadConfig(g *globalFlags) (folio.Config, error) {
	root := filepath.Dir(g.config)
	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return folio.Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := folio.LoadConfig(g.config)
	if err != nil {
		return folio.Config{}, err
	}

	cfg.Addr = folio.EnvOr("ADDR", cfg.Addr)
	cfg.ContentDir = resolve(root, folio.EnvOr("CONTENT_DIR", cfg.ContentDir))
	cfg.StaticDir = resolve(root, folio.EnvOr("STATIC_DIR", cfg.StaticDir))
	cfg.SearchDatabasePath = resolve(root, folio.EnvOr("SEARCH_DB_PATH", cfg.SearchDatabasePath))
	cfg.SessionSecret = folio.EnvOr("SESSION_SECRET", cfg.SessionSecret)
	cfg.LogLevel = folio.EnvOr("LOG_LEVEL", cfg.LogLevel)

	if v := folio.EnvOr("COOKIE_SECURE", ""); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return folio.Config{}, fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = secure
	}
	if v := folio.EnvOr("CONTENT_RELOAD", ""); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return folio.Config{}, fmt.Errorf("CONTENT_RELOAD: %w", err)
		}
		cfg.ContentReloadTTL = ttl
	}

	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	return cfg, nil
}

// resolve makes relative paths relative to the config file's directory.
func resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
