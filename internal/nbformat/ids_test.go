package nbformat

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var cellIDPattern = regexp.MustCompile(`^[0-9a-f]{8}$`)

func TestRandomIDGenerator(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewCellID()
		assert.Regexp(t, cellIDPattern, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 90, "ids should not repeat in practice")
}

func TestNewCellsGetIDs(t *testing.T) {
	assert.Regexp(t, cellIDPattern, NewCodeCell("").ID)
	assert.Regexp(t, cellIDPattern, NewMarkdownCell("").ID)
	assert.Regexp(t, cellIDPattern, NewRawCell("").ID)
	assert.NotNil(t, NewCodeCell("").Outputs)
}

func TestFixedIDGenerator(t *testing.T) {
	gen := NewFixedIDGenerator("a", "b")

	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestFixedIDGeneratorConcurrent(t *testing.T) {
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = string(rune('A' + i))
	}
	gen := NewFixedIDGenerator(ids...)

	var mu sync.Mutex
	got := make(map[string]bool)
	var wg sync.WaitGroup
	for range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := gen.Generate()
			mu.Lock()
			got[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, got, len(ids), "every id handed out exactly once")
}
