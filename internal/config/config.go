package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EngineConfig describes the simulation engine side of one session.
type EngineConfig struct {
	Product    string `toml:"product"`
	Executable string `toml:"executable"`
	Datafile   string `toml:"datafile"`
	AutoStart  bool   `toml:"auto_start"`
}

// LinkConfig describes the FISH socket endpoint.
type LinkConfig struct {
	SocketID        int    `toml:"socket_id"`
	Host            string `toml:"host"`
	AcceptTimeoutMS int64  `toml:"accept_timeout_ms"`
	ReadTimeoutMS   int64  `toml:"read_timeout_ms"`
	WriteTimeoutMS  int64  `toml:"write_timeout_ms"`
	RecordSessionTo string `toml:"record_session_to"`
}

// SessionConfig is one engine+link pairing loaded from session.toml.
type SessionConfig struct {
	Engine EngineConfig `toml:"engine"`
	Link   LinkConfig   `toml:"link"`
}

func LoadSessionConfig(path string) (SessionConfig, error) {
	var cfg SessionConfig
	if err := loadToml(path, &cfg); err != nil {
		return SessionConfig{}, err
	}
	if cfg.Engine.Product == "" {
		cfg.Engine.Product = "flac3d"
	}
	if err := ValidateSessionConfig(cfg); err != nil {
		return SessionConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateSessionConfig(cfg SessionConfig) error {
	if strings.TrimSpace(cfg.Engine.Product) == "" {
		return fmt.Errorf("session config missing engine product")
	}
	if cfg.Engine.AutoStart && strings.TrimSpace(cfg.Engine.Executable) == "" {
		return fmt.Errorf("session config auto_start requires executable")
	}
	if cfg.Engine.AutoStart && strings.TrimSpace(cfg.Engine.Datafile) == "" {
		return fmt.Errorf("session config auto_start requires datafile")
	}
	if cfg.Link.SocketID < 0 || cfg.Link.SocketID > 5 {
		return fmt.Errorf("session config socket_id %d out of range 0..5", cfg.Link.SocketID)
	}
	return nil
}
