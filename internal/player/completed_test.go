package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletedLog(t *testing.T) {
	c := NewCompletedLog()

	assert.False(t, c.IsDone("Smuggle"))
	c.MarkDone("Smuggle")
	assert.True(t, c.IsDone("Smuggle"))
	assert.Equal(t, 1, c.Len())

	// marking twice is harmless
	c.MarkDone("Smuggle")
	assert.Equal(t, 1, c.Len())
}

func TestCompletedLog_Seed(t *testing.T) {
	c := NewCompletedLog()
	c.Seed([]string{"A", "B"})
	assert.True(t, c.IsDone("A"))
	assert.True(t, c.IsDone("B"))
	assert.False(t, c.IsDone("C"))
}

func TestCompletedLog_Reset(t *testing.T) {
	c := NewCompletedLog()
	c.MarkDone("A")
	c.Reset()
	assert.False(t, c.IsDone("A"))
	assert.Equal(t, 0, c.Len())
}
