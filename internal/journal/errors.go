package journal

import "errors"

// ErrClosed is returned by Recent after Close.
var ErrClosed = errors.New("journal: closed")
