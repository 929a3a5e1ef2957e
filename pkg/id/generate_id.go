package id

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ShortToken returns n lowercase hex characters (n <= 32) taken from a random UUID.
func ShortToken(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n <= 0 || n > len(s) {
		return s
	}
	return s[:n]
}

// ApplicationNumber formats PREFIX-YYYYMMDDHHMMSS-XXXXXX where the suffix is
// six uppercase hex characters from a random UUID.
func ApplicationNumber(prefix string, at time.Time) string {
	return prefix + "-" + at.Format("20060102150405") + "-" + strings.ToUpper(ShortToken(6))
}
