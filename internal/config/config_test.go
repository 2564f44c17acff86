package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadSessionConfig(t *testing.T) {
	path := writeConfig(t, `
[engine]
product = "pfc3d"
executable = "/opt/itasca/pfc3d/exe64/pfc3d"
datafile = "model.dat"
auto_start = true

[link]
socket_id = 2
host = "127.0.0.1"
read_timeout_ms = 5000
`)
	cfg, err := LoadSessionConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.Product != "pfc3d" {
		t.Fatalf("unexpected product: %q", cfg.Engine.Product)
	}
	if cfg.Link.SocketID != 2 {
		t.Fatalf("unexpected socket id: %d", cfg.Link.SocketID)
	}
	if cfg.Link.ReadTimeoutMS != 5000 {
		t.Fatalf("unexpected read timeout: %d", cfg.Link.ReadTimeoutMS)
	}
}

func TestLoadSessionConfigDefaultsProduct(t *testing.T) {
	path := writeConfig(t, `
[link]
socket_id = 0
`)
	cfg, err := LoadSessionConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.Product != "flac3d" {
		t.Fatalf("unexpected default product: %q", cfg.Engine.Product)
	}
}

func TestLoadSessionConfigRejectsBadSocketID(t *testing.T) {
	path := writeConfig(t, `
[link]
socket_id = 9
`)
	if _, err := LoadSessionConfig(path); err == nil {
		t.Fatalf("expected socket id validation error")
	}
}

func TestLoadSessionConfigAutoStartRequiresExecutable(t *testing.T) {
	path := writeConfig(t, `
[engine]
product = "flac3d"
auto_start = true
datafile = "model.dat"
`)
	if _, err := LoadSessionConfig(path); err == nil {
		t.Fatalf("expected executable validation error")
	}
}
