package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "FISHCTL_LOG_LEVEL"
	EnvLogTimestamp = "FISHCTL_LOG_TIMESTAMP"
	EnvLogNoColor   = "FISHCTL_LOG_NOCOLOR"
	EnvLogQuiet     = "FISHCTL_LOG_QUIET"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

type config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	Quiet     bool
}

var configureOnce sync.Once

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

func Configure(profile Profile) {
	configureOnce.Do(func() {
		cfg := defaultConfig(profile)
		applyEnvOverrides(&cfg)

		var out io.Writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.NoColor,
		}
		if cfg.Quiet {
			out = io.Discard
		}
		ctx := zerolog.New(out).With()
		if cfg.Timestamp {
			ctx = ctx.Timestamp()
		}
		log.Logger = ctx.Logger()
		zerolog.SetGlobalLevel(cfg.Level)
	})
}

func defaultConfig(profile Profile) config {
	switch profile {
	case ProfileTest:
		return config{Level: zerolog.DebugLevel, Timestamp: false, Quiet: true}
	default:
		return config{Level: zerolog.InfoLevel, Timestamp: true}
	}
}

func applyEnvOverrides(cfg *config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogQuiet)); ok {
		cfg.Quiet = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
