package console

import (
	"fmt"
	"unicode/utf8"
)

// Decode returns payload as text. Payloads that are not valid UTF-8 yield
// ErrInvalidEncoding naming the first offending byte.
func Decode(payload []byte) (string, error) {
	if utf8.Valid(payload) {
		return string(payload), nil
	}

	for i := 0; i < len(payload); {
		r, size := utf8.DecodeRune(payload[i:])
		if r == utf8.RuneError && size == 1 {
			return "", fmt.Errorf("%w: invalid byte 0x%02x at offset %d", ErrInvalidEncoding, payload[i], i)
		}
		i += size
	}

	return "", ErrInvalidEncoding
}
