package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordQueryPerSession(t *testing.T) {
	store := NewStore(time.Minute)

	store.RecordQuery("s1", "aspirin")
	store.RecordQuery("s1", "ibuprofen")
	store.RecordQuery("s2", "metformin")

	assert.Equal(t, []string{"ibuprofen", "aspirin"}, store.History("s1"))
	assert.Equal(t, []string{"metformin"}, store.History("s2"))
}

func TestHistoryReturnsCopy(t *testing.T) {
	store := NewStore(time.Minute)
	store.RecordQuery("s1", "aspirin")

	h := store.History("s1")
	h[0] = "mutated"

	assert.Equal(t, []string{"aspirin"}, store.History("s1"))
}

func TestConcurrentRecordingStaysConsistent(t *testing.T) {
	store := NewStore(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.RecordQuery("s1", fmt.Sprintf("query-%d", i%7))
		}(i)
	}
	wg.Wait()

	history := store.History("s1")
	assert.LessOrEqual(t, len(history), 5)

	seen := make(map[string]bool)
	for _, q := range history {
		assert.False(t, seen[q], "duplicate entry %q", q)
		seen[q] = true
	}
}

func TestBrowseCursorResetsOnQueryChange(t *testing.T) {
	store := NewStore(time.Minute)

	assert.Equal(t, 1, store.BrowseCursor("s1", "pain", 1))
	assert.Equal(t, 3, store.BrowseCursor("s1", "pain", 3))

	// New filter query forces the cursor back to the first page.
	assert.Equal(t, 1, store.BrowseCursor("s1", "fever", 3))
	assert.Equal(t, 2, store.BrowseCursor("s1", "fever", 2))
}

func TestBrowseCursorFloorsAtOne(t *testing.T) {
	store := NewStore(time.Minute)
	store.BrowseCursor("s1", "pain", 1)

	assert.Equal(t, 1, store.BrowseCursor("s1", "pain", 0))
	assert.Equal(t, 1, store.BrowseCursor("s1", "pain", -2))
}

func TestSessionsDoNotLeakCursorState(t *testing.T) {
	store := NewStore(time.Minute)

	store.BrowseCursor("s1", "pain", 4)
	assert.Equal(t, 1, store.BrowseCursor("s2", "pain", 1))
}
