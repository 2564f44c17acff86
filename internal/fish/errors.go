package fish

import "errors"

var (
	ErrUnsupportedType = errors.New("fish: unsupported value type")
	ErrInvalidShape    = errors.New("fish: vector length must be 2 or 3")
	ErrUnknownTag      = errors.New("fish: unknown tag")
	ErrInvalidLength   = errors.New("fish: invalid length")
	ErrTruncated       = errors.New("fish: truncated value")
)
