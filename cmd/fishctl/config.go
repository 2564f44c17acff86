package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/fishctl/internal/config"
)

// fishctl serve config.toml key mapping. The [engine] and [link] tables may
// live in the same file or behind session_config_path.
type fileConfig struct {
	ID                string   `toml:"id"`
	AdminAddr         string   `toml:"admin_addr"`
	CorsOrigins       []string `toml:"cors_origins"`
	SessionConfigPath string   `toml:"session_config_path"`
}

type serveOptions struct {
	ID          string
	AdminAddr   string
	CorsOrigins []string
	Session     config.SessionConfig
}

// loadServeOptions overlays config.toml onto defaults.
func loadServeOptions(path string) (serveOptions, error) {
	opts := serveOptions{ID: "fishctl"}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return serveOptions{}, fmt.Errorf("load serve config: %w", err)
	}

	if meta.IsDefined("id") {
		opts.ID = strings.TrimSpace(raw.ID)
	}
	if meta.IsDefined("admin_addr") {
		opts.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("cors_origins") {
		opts.CorsOrigins = raw.CorsOrigins
	}

	sessionPath := path
	if meta.IsDefined("session_config_path") {
		resolved := strings.TrimSpace(raw.SessionConfigPath)
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(filepath.Dir(path), resolved)
		}
		sessionPath = resolved
	}
	session, err := config.LoadSessionConfig(sessionPath)
	if err != nil {
		return serveOptions{}, err
	}
	opts.Session = session

	if opts.ID == "" {
		return serveOptions{}, fmt.Errorf("load serve config: id must not be empty")
	}
	return opts, nil
}
