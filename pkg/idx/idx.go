// Package idx generates the ULID identifiers used for stored records and
// request ids. ULIDs sort by creation time, which keeps listings stable.
package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a ULID for the current UTC time.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID carrying t. IDs created within the same millisecond
// are still strictly increasing.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t.UTC()), entropy).String()
}

// Valid reports whether s is a canonical ULID.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(strings.TrimSpace(s))
	return err == nil
}

// Time extracts the timestamp embedded in id.
func Time(id string) (time.Time, error) {
	u, err := ulid.ParseStrict(strings.TrimSpace(id))
	if err != nil {
		return time.Time{}, ErrInvalid
	}
	return ulid.Time(u.Time()).UTC(), nil
}
