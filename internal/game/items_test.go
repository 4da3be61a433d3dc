package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandemly/wordpair/internal"
)

func sequenceSource() []internal.Item {
	return []internal.Item{
		{Target: "alpha"},
		{Target: "bravo"},
		{Target: "crane"},
		{Target: "delta"},
	}
}

func TestNewItemSequence(t *testing.T) {
	t.Run("linear order keeps the source order", func(t *testing.T) {
		seq := NewItemSequence(sequenceSource(), 4, internal.OrderLinear, 0)
		assert.Equal(t, []string{"alpha", "bravo", "crane", "delta"}, seq.Targets())
	})

	t.Run("truncates to the requested round count", func(t *testing.T) {
		seq := NewItemSequence(sequenceSource(), 2, internal.OrderLinear, 0)
		assert.Equal(t, 2, seq.Remaining())
	})

	t.Run("round count beyond the source is capped", func(t *testing.T) {
		seq := NewItemSequence(sequenceSource(), 99, internal.OrderLinear, 0)
		assert.Equal(t, 4, seq.Remaining())
	})

	t.Run("same seed shuffles the same way", func(t *testing.T) {
		a := NewItemSequence(sequenceSource(), 4, internal.OrderShuffled, 42)
		b := NewItemSequence(sequenceSource(), 4, internal.OrderShuffled, 42)
		assert.Equal(t, a.Targets(), b.Targets())
	})

	t.Run("shuffling leaves the source untouched", func(t *testing.T) {
		src := sequenceSource()
		NewItemSequence(src, 4, internal.OrderShuffled, 42)
		assert.Equal(t, "alpha", src[0].Target)
		assert.Equal(t, "delta", src[3].Target)
	})
}

func TestItemSequenceConsumption(t *testing.T) {
	seq := NewItemSequence(sequenceSource(), 2, internal.OrderLinear, 0)

	item, ok := seq.Current()
	require.True(t, ok)
	assert.Equal(t, "alpha", item.Target)

	// Current does not consume.
	item, _ = seq.Current()
	assert.Equal(t, "alpha", item.Target)

	seq.PopFront()
	item, ok = seq.Current()
	require.True(t, ok)
	assert.Equal(t, "bravo", item.Target)

	seq.PopFront()
	_, ok = seq.Current()
	assert.False(t, ok)
	assert.Zero(t, seq.Remaining())

	// Popping an exhausted sequence is a no-op.
	seq.PopFront()
	assert.Zero(t, seq.Remaining())
}
