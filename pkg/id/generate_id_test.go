package id

import (
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

func TestNewID32_FormatAndDecode(t *testing.T) {
	got := NewID32()

	// length
	if len(got) != 32 {
		t.Fatalf("length = %d, want 32 (got=%q)", len(got), got)
	}
	// lowercase hex only (no separators/prefixes)
	if !reHex32.MatchString(got) {
		t.Fatalf("not 32-char lowercase hex: %q", got)
	}
	// decodes to exactly 16 bytes
	b, err := hex.DecodeString(got)
	if err != nil {
		t.Fatalf("hex.DecodeString error: %v", err)
	}
	if len(b) != 16 {
		t.Fatalf("decoded bytes = %d, want 16", len(b))
	}
}

func TestNewID32_Uniqueness(t *testing.T) {
	const n = 200
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewID32()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id after %d iterations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

var reDigits = regexp.MustCompile(`^[0-9]+$`)

func TestNewLoanNumber_TimestampPrefix(t *testing.T) {
	at := time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)
	got := NewLoanNumber(at)

	if !reDigits.MatchString(got) {
		t.Fatalf("loan number not numeric: %q", got)
	}
	prefix := strconv.FormatInt(at.UnixMilli(), 10)
	if !strings.HasPrefix(got, prefix) {
		t.Fatalf("loan number %q does not start with %q", got, prefix)
	}
	if len(got) != len(prefix)+4 {
		t.Fatalf("loan number length = %d, want %d", len(got), len(prefix)+4)
	}
}

func TestNewLoanNumber_OrdersByTime(t *testing.T) {
	at := time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		a, _ := strconv.ParseInt(NewLoanNumber(at), 10, 64)
		b, _ := strconv.ParseInt(NewLoanNumber(at.Add(time.Millisecond)), 10, 64)
		if a >= b {
			t.Fatalf("loan number %d issued earlier is not below %d", a, b)
		}
	}
}
