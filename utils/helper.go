package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Event codes avoid 0/O/1/I so they survive being read aloud or
// scribbled on a napkin.
const eventCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateEventCode returns a short human-enterable code used as the
// only externally addressable handle to a feed.
func GenerateEventCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(eventCodeChars))))
		if err != nil {
			return "", err
		}
		code[i] = eventCodeChars[n.Int64()]
	}
	return string(code), nil
}

// GenerateOTPCode returns a 6-digit one-time sign-in code.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
