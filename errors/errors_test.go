package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelWrapping(t *testing.T) {
	err := Wrap(ErrInvalidModel, "decoding interface model")
	assert.True(t, Is(err, ErrInvalidModel))
	assert.Contains(t, err.Error(), "decoding interface model")
	assert.Contains(t, err.Error(), "invalid interface model")
}

func TestIsNoStrategy(t *testing.T) {
	err := NewNoStrategyError("no strategy for %s", "quaternion")
	assert.True(t, IsNoStrategy(err))
	assert.Contains(t, err.Error(), "quaternion")

	assert.False(t, IsNoStrategy(New("unrelated")))
	assert.False(t, IsNoStrategy(nil))
}

func TestAssertionFailure(t *testing.T) {
	err := AssertionFailedf("unreachable dispatch arm")
	assert.True(t, HasAssertionFailure(err))
	assert.False(t, HasAssertionFailure(New("ordinary failure")))
}
