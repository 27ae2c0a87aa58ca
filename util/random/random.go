// Package random provides utilities for generating random strings.
package random

import (
	"crypto/rand"
	"encoding/hex"
)

// Hex generates n random bytes and returns them hex-encoded (2n characters).
func Hex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
