package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointsForRemaining(t *testing.T) {
	assert.Equal(t, 100, PointsForRemaining(6))
	assert.Equal(t, 50, PointsForRemaining(5))
	assert.Equal(t, 25, PointsForRemaining(4))
	assert.Equal(t, 10, PointsForRemaining(3))
	assert.Equal(t, 5, PointsForRemaining(2))
	assert.Equal(t, 1, PointsForRemaining(1))

	assert.Zero(t, PointsForRemaining(0))
	assert.Zero(t, PointsForRemaining(7))
	assert.Zero(t, PointsForRemaining(-1))
}
