package spinner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameWraps(t *testing.T) {
	assert.Equal(t, Frame(0), Frame(len(frames)))
	assert.NotEqual(t, Frame(0), Frame(1))
}

func TestNewOwnerIsUnique(t *testing.T) {
	a, b := NewOwner(), NewOwner()
	assert.NotEqual(t, a, b)
}
