package main

import (
	"github.com/danmuck/fishctl/internal/admin"
	"github.com/danmuck/fishctl/internal/fish/link"
	"github.com/rs/zerolog/log"
)

// startAdmin runs the HTTP status plane in the background when configured.
func startAdmin(opts serveOptions, conn *link.Conn) {
	if opts.AdminAddr == "" {
		return
	}
	srv := admin.New(opts.ID, conn, opts.CorsOrigins)
	go func() {
		if err := srv.Serve(opts.AdminAddr); err != nil {
			log.Error().Err(err).Str("addr", opts.AdminAddr).Msg("admin plane exited")
		}
	}()
}
