package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("series", "s_deadbeef")
	assert.Equal(t, "series not found: s_deadbeef", err.Error())
	assert.True(t, IsNotFound(err))
}

func TestIsNotFoundWrapped(t *testing.T) {
	err := fmt.Errorf("updating volumes: %w", NewNotFoundError("series", "s_1"))
	assert.True(t, IsNotFound(err))
}

func TestIsNotFoundOtherError(t *testing.T) {
	assert.False(t, IsNotFound(errors.New("boom")))
	assert.False(t, IsNotFound(nil))
}
