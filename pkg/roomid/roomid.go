package roomid

import (
	"crypto/rand"
	"fmt"
)

const (
	// Length is the wire format length of a room identifier.
	Length = 6

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// maxUnbiasedByte is the largest multiple of len(alphabet) that fits in a
// byte; values at or above it are rejected to keep the draw uniform.
const maxUnbiasedByte = 248

// New returns a fresh room identifier: Length characters drawn uniformly
// from [A-Za-z0-9].
func New() (string, error) {
	id := make([]byte, 0, Length)
	buf := make([]byte, Length)
	for {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= maxUnbiasedByte {
				continue
			}
			id = append(id, alphabet[int(b)%len(alphabet)])
			if len(id) == Length {
				return string(id), nil
			}
		}
	}
}

// Valid reports whether s is a well-formed room identifier.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
