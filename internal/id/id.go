// Package id issues and checks request identifiers. Identifiers are
// ULIDs, so log lines for a burst of requests sort in arrival order.
package id

import (
	cryptoRand "crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator hands out monotonic ULIDs stamped by its clock.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		entropy: ulid.Monotonic(cryptoRand.Reader, 0),
		now:     now,
	}
}

// Next fails only when the monotonic entropy overflows within a single
// millisecond.
func (g *Generator) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	v, err := ulid.New(ulid.Timestamp(g.now().UTC()), g.entropy)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

var std = NewGenerator(time.Now)

// New returns a fresh request identifier.
func New() string {
	s, err := std.Next()
	if err != nil {
		panic(err)
	}
	return s
}

// Valid reports whether s is a well-formed ULID.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

// OrNew keeps a caller-supplied identifier only when it is a valid ULID,
// so arbitrary header values never reach responses or logs.
func OrNew(candidate string) string {
	if Valid(candidate) {
		return candidate
	}
	return New()
}
