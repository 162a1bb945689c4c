package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatAvailable(t *testing.T) {
	assert.True(t, seatAvailable(0, 2))
	assert.True(t, seatAvailable(1, 2), "last seat is still sellable")
	assert.False(t, seatAvailable(2, 2), "at capacity nothing is sellable")
	assert.False(t, seatAvailable(3, 2), "over capacity stays closed")
	assert.False(t, seatAvailable(0, 0), "zero-capacity airplane sells nothing")
}
