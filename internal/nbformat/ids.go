package nbformat

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces cell ids.
type IDGenerator interface {
	Generate() string
}

// RandomIDGenerator generates short random cell ids: the first eight hex
// digits of a version 4 UUID, the form Jupyter front-ends use.
//
// Thread-safety: RandomIDGenerator is stateless and safe for concurrent use.
type RandomIDGenerator struct{}

// Generate returns a new id.
func (RandomIDGenerator) Generate() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// NewCellID returns a fresh random cell id.
func NewCellID() string {
	return RandomIDGenerator{}.Generate()
}

// FixedIDGenerator returns predetermined ids for testing.
//
// Thread-safety: FixedIDGenerator is safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator that returns ids in order.
//
// Example:
//
//	gen := NewFixedIDGenerator("a", "b")
//	gen.Generate() // "a"
//	gen.Generate() // "b"
//	gen.Generate() // panic: all ids exhausted
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next predetermined id.
// Panics if all ids have been consumed, to catch test misconfiguration.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedIDGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
