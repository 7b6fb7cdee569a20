package id

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"time"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewLoanNumber returns the human-facing loan number: the submission time in
// epoch milliseconds followed by four random digits. Collisions within one
// millisecond are rare and caught by the unique index.
func NewLoanNumber(at time.Time) string {
	var b [2]byte
	_, _ = rand.Read(b[:])
	suffix := binary.BigEndian.Uint16(b[:]) % 10000
	return strconv.FormatInt(at.UnixMilli()*10000+int64(suffix), 10)
}
