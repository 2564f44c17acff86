// Package launch owns the boundary to the external simulation engine: which
// executable to spawn for a given product, and the convenience path of
// opening the FISH link and verifying the handshake once the engine dials in.
package launch

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/danmuck/fishctl/internal/fish/link"
	"github.com/rs/zerolog/log"
)

var (
	ErrManualStart    = errors.New("launch: product must be started manually")
	ErrUnknownProduct = errors.New("launch: unknown product")
	ErrNoExecutable   = errors.New("launch: executable path required")
	ErrNotStarted     = errors.New("launch: engine not started")
)

// Product describes how one simulation engine is launched. The per-product
// split is configuration, not behavior: manual-start products (FLAC, UDEC)
// simply refuse to spawn and expect the operator to start the program.
type Product struct {
	Name        string
	Executable  string
	ManualStart bool
}

// NewProduct resolves a product name from config. Executable paths are
// deployment-specific and required for spawnable products.
func NewProduct(name, executable string) (Product, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "flac3d":
		if strings.TrimSpace(executable) == "" {
			return Product{}, fmt.Errorf("%w: flac3d", ErrNoExecutable)
		}
		return Product{Name: "flac3d", Executable: executable}, nil
	case "pfc3d":
		if strings.TrimSpace(executable) == "" {
			return Product{}, fmt.Errorf("%w: pfc3d", ErrNoExecutable)
		}
		return Product{Name: "pfc3d", Executable: executable}, nil
	case "flac":
		return Product{Name: "flac", ManualStart: true}, nil
	case "udec":
		return Product{Name: "udec", ManualStart: true}, nil
	}
	return Product{}, fmt.Errorf("%w: %q", ErrUnknownProduct, name)
}

// Engine is one spawned (or manually started) simulation process.
type Engine struct {
	product Product
	cmd     *exec.Cmd
}

func NewEngine(p Product) *Engine {
	return &Engine{product: p}
}

func (e *Engine) Product() Product {
	return e.product
}

// Start launches the engine with the datafile as its command-line argument.
func (e *Engine) Start(ctx context.Context, datafile string) error {
	if e.product.ManualStart {
		return fmt.Errorf("%w: %s", ErrManualStart, e.product.Name)
	}
	cmd := exec.CommandContext(ctx, e.product.Executable, datafile)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch: start %s: %w", e.product.Name, err)
	}
	e.cmd = cmd
	log.Info().
		Str("product", e.product.Name).
		Str("datafile", datafile).
		Int("pid", cmd.Process.Pid).
		Msg("engine launched")
	return nil
}

// Wait blocks until a spawned engine process exits.
func (e *Engine) Wait() error {
	if e.cmd == nil {
		return ErrNotStarted
	}
	return e.cmd.Wait()
}

// Connect opens the FISH link and verifies the fishcode: the engine is
// expected to dial the conventional port and send the handshake as its
// first value. The link is closed on any handshake failure.
func Connect(ctx context.Context, cfg link.Config) (*link.Conn, error) {
	conn, err := link.NewConn(cfg)
	if err != nil {
		return nil, err
	}
	if err := conn.Start(ctx); err != nil {
		return nil, err
	}
	if err := conn.Handshake(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}
