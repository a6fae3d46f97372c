package console

import "errors"

// ErrInvalidEncoding is returned by Decode for payloads that are not valid UTF-8.
var ErrInvalidEncoding = errors.New("console: payload is not valid UTF-8")
