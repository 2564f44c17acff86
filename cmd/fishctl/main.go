package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danmuck/fishctl/internal/fish"
	"github.com/danmuck/fishctl/internal/fish/link"
	"github.com/danmuck/fishctl/internal/fish/logfile"
	"github.com/danmuck/fishctl/internal/launch"
	"github.com/danmuck/fishctl/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	logging.ConfigureRuntime()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "dump":
		err = runDump(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "fishctl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  fishctl dump <file.fish> [...]")
	fmt.Fprintln(os.Stderr, "  fishctl serve <config.toml>")
}

// runDump prints every record of one or more .fish logs, one value per line.
func runDump(paths []string) error {
	if len(paths) == 0 {
		return errors.New("dump: at least one .fish file required")
	}
	for _, path := range paths {
		r, err := logfile.Open(path)
		if err != nil {
			return err
		}
		values, err := r.All()
		_ = r.Close()
		if err != nil {
			return err
		}
		for _, v := range values {
			fmt.Println(formatValue(v))
		}
	}
	return nil
}

func formatValue(v fish.Value) string {
	switch x := v.(type) {
	case fish.Int:
		return fmt.Sprintf("%d", int32(x))
	case fish.Real:
		return fmt.Sprintf("%g", float64(x))
	case fish.String:
		return fmt.Sprintf("%q", string(x))
	case fish.Vec2:
		return fmt.Sprintf("[%g, %g]", x[0], x[1])
	case fish.Vec3:
		return fmt.Sprintf("[%g, %g, %g]", x[0], x[1], x[2])
	case fish.Bool:
		return fmt.Sprintf("%t", bool(x))
	}
	return fmt.Sprintf("%v", v)
}

// runServe hosts one FISH session: optionally spawns the engine, waits for
// it to dial in, verifies the handshake, then logs (and optionally records)
// every value the engine sends until the stream ends.
func runServe(args []string) error {
	if len(args) != 1 {
		return errors.New("serve: config path required")
	}
	opts, err := loadServeOptions(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := link.NewConn(link.Config{
		SocketID:      opts.Session.Link.SocketID,
		Host:          opts.Session.Link.Host,
		AcceptTimeout: time.Duration(opts.Session.Link.AcceptTimeoutMS) * time.Millisecond,
		ReadTimeout:   time.Duration(opts.Session.Link.ReadTimeoutMS) * time.Millisecond,
		WriteTimeout:  time.Duration(opts.Session.Link.WriteTimeoutMS) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	startAdmin(opts, conn)

	product, err := launch.NewProduct(opts.Session.Engine.Product, opts.Session.Engine.Executable)
	if err != nil {
		return err
	}
	engine := launch.NewEngine(product)
	if opts.Session.Engine.AutoStart {
		if err := engine.Start(ctx, opts.Session.Engine.Datafile); err != nil {
			return err
		}
	} else {
		log.Info().
			Str("product", product.Name).
			Int("port", conn.Port()).
			Msg("waiting for manually started engine")
	}

	if err := conn.Start(ctx); err != nil {
		return err
	}
	if err := conn.Handshake(); err != nil {
		return err
	}
	go func() {
		// a signal unblocks the receive loop by tearing the link down
		<-ctx.Done()
		_ = conn.Close()
	}()

	var recorder *logfile.Writer
	if path := opts.Session.Link.RecordSessionTo; path != "" {
		recorder, err = logfile.Create(path)
		if err != nil {
			return err
		}
		defer recorder.Close()
	}

	for {
		v, err := conn.Receive()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, fish.ErrTruncated) {
				log.Info().Msg("engine closed the link")
				return nil
			}
			return err
		}
		log.Info().Stringer("tag", v.Tag()).Str("value", formatValue(v)).Msg("value received")
		if recorder != nil {
			if err := recorder.Write(v); err != nil {
				return err
			}
		}
	}
}
