package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionGate(t *testing.T) {
	t.Run("burst then throttle", func(t *testing.T) {
		gate := NewSubmissionGate(1, 2)

		assert.True(t, gate.Allow("u1"))
		assert.True(t, gate.Allow("u1"))
		assert.False(t, gate.Allow("u1"), "burst exhausted")
	})

	t.Run("participants are independent", func(t *testing.T) {
		gate := NewSubmissionGate(1, 1)

		assert.True(t, gate.Allow("u1"))
		assert.False(t, gate.Allow("u1"))
		assert.True(t, gate.Allow("u2"))
	})
}
