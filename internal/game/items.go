package game

import (
	"math/rand"

	"github.com/tandemly/wordpair/internal"
)

// ItemSequence is the finite, order-fixed pool of items a session plays
// through. It is owned by exactly one session and guarded by that
// session's lock; it has no locking of its own.
type ItemSequence struct {
	items []internal.Item
}

// NewItemSequence builds a sequence of up to n items from src. In
// shuffled order the selection is drawn without replacement; a non-zero
// seed makes the draw deterministic. The source slice is never modified.
func NewItemSequence(src []internal.Item, n int, order internal.OrderMode, seed int64) *ItemSequence {
	if n <= 0 || n > len(src) {
		n = len(src)
	}

	items := make([]internal.Item, len(src))
	copy(items, src)

	if order == internal.OrderShuffled {
		rng := rand.New(rand.NewSource(seed))
		if seed == 0 {
			rng = rand.New(rand.NewSource(rand.Int63()))
		}
		rng.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
	}

	return &ItemSequence{items: items[:n]}
}

// Current returns the front item. The second value is false once the
// sequence is exhausted; exhaustion is permanent.
func (seq *ItemSequence) Current() (internal.Item, bool) {
	if len(seq.items) == 0 {
		return internal.Item{}, false
	}
	return seq.items[0], true
}

// PopFront drops the front item. Popping an empty sequence is a no-op.
func (seq *ItemSequence) PopFront() {
	if len(seq.items) == 0 {
		return
	}
	seq.items = seq.items[1:]
}

// Remaining reports how many items are left, including the current one.
func (seq *ItemSequence) Remaining() int {
	return len(seq.items)
}

// Targets lists the target words of all remaining items, used to extend
// the guessable-word set.
func (seq *ItemSequence) Targets() []string {
	targets := make([]string, 0, len(seq.items))
	for _, item := range seq.items {
		targets = append(targets, item.Target)
	}
	return targets
}
