// Package link drives the fish codec against one live TCP connection.
//
// A Conn is the host side of the engine's FISH socket: it listens on the
// conventional port, accepts exactly one peer, verifies the fishcode
// handshake, then exchanges tagged values strictly in turn with the engine.
package link
