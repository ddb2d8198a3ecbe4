// Package id issues ULID run ids. ULIDs sort by creation time, so journal
// rows for later runs sort after earlier ones.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator issues monotonic ULIDs; ids created within the same
// millisecond still increase.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

// NewGenerator seeds a generator from crypto/rand.
func NewGenerator() *Generator {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewGeneratorFrom(rand.New(rand.NewSource(seed)), time.Now)
}

// NewGeneratorFrom builds a generator from explicit entropy and clock.
func NewGeneratorFrom(r io.Reader, now func() time.Time) *Generator {
	return &Generator{entropy: ulid.Monotonic(r, 0), now: now}
}

// New returns the next id.
func (g *Generator) New() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.now().UTC()), g.entropy)
	if err != nil {
		return "", fmt.Errorf("new ulid: %w", err)
	}
	return id.String(), nil
}

var std = NewGenerator()

// New returns a run id from the package generator. It panics only if the
// monotonic entropy overflows within one millisecond.
func New() string {
	s, err := std.New()
	if err != nil {
		panic(err)
	}
	return s
}

// Time returns the creation time encoded in a run id.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse run id %q: %w", s, err)
	}
	return ulid.Time(u.Time()).UTC(), nil
}
