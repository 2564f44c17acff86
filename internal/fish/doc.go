// Package fish owns the tagged binary value contract shared by the socket
// link and the .fish log format.
//
// Ownership boundary:
// - tag table and handshake constant
// - value sum type and loose-value bridging
// - encode/decode primitives (no socket or file handling)
package fish
