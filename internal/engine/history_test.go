package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordQuerySequence(t *testing.T) {
	var history []string
	for _, q := range []string{"a", "b", "a", "c", "d", "e", "f"} {
		history = RecordQuery(history, q)
	}

	assert.Equal(t, []string{"f", "e", "d", "c", "a"}, history)
}

func TestRecordQueryDeduplicatesExactRawQuery(t *testing.T) {
	history := RecordQuery(nil, "Aspirin")
	history = RecordQuery(history, "aspirin")
	history = RecordQuery(history, "Aspirin")

	// Dedup is on the raw query; casing variants are distinct entries.
	assert.Equal(t, []string{"Aspirin", "aspirin"}, history)
}

func TestRecordQueryCap(t *testing.T) {
	var history []string
	for _, q := range []string{"q1", "q2", "q3", "q4", "q5", "q6"} {
		history = RecordQuery(history, q)
	}

	assert.Len(t, history, HistoryLimit)
	assert.Equal(t, "q6", history[0])
	assert.NotContains(t, history, "q1")
}

func TestRecordQueryDoesNotMutateInput(t *testing.T) {
	original := []string{"b", "c"}
	_ = RecordQuery(original, "a")

	assert.Equal(t, []string{"b", "c"}, original)
}
