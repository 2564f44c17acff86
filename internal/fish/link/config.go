package link

import "time"

// BasePort anchors the engine port convention: socket id n listens on
// BasePort+n.
const BasePort = 3333

// MaxSocketID bounds the engine-side fish socket id range.
const MaxSocketID = 5

// Config defines one link endpoint. Zero timeouts block indefinitely, which
// is the protocol's own contract; bounded waits are a caller concern.
type Config struct {
	SocketID      int
	Host          string
	AcceptTimeout time.Duration
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}
