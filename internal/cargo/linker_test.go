package cargo

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openInventory accepts every handle.
type openInventory struct{}

func (openInventory) HasCargo(ID) bool { return true }

// fixedInventory accepts only listed handles.
type fixedInventory map[ID]bool

func (inv fixedInventory) HasCargo(id ID) bool { return inv[id] }

func newTestLinker() *Linker {
	return New(openInventory{}, zerolog.Nop())
}

func TestAttachDetach(t *testing.T) {
	l := newTestLinker()

	require.NoError(t, l.Attach(1, 100))
	owner, ok := l.OwnerOf(100)
	require.True(t, ok)
	assert.Equal(t, Owner(1), owner)

	require.NoError(t, l.Detach(1, 100))
	_, ok = l.OwnerOf(100)
	assert.False(t, ok)
}

func TestAttach_AlreadyLinkedElsewhere(t *testing.T) {
	l := newTestLinker()

	require.NoError(t, l.Attach(1, 100))
	err := l.Attach(2, 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyLinked))

	// still linked to the original mission
	owner, _ := l.OwnerOf(100)
	assert.Equal(t, Owner(1), owner)
}

func TestAttach_SameMissionIsIdempotent(t *testing.T) {
	l := newTestLinker()
	require.NoError(t, l.Attach(1, 100))
	require.NoError(t, l.Attach(1, 100))
	assert.Equal(t, []ID{100}, l.Owned(1))
}

func TestAttach_RelinkAfterDetach(t *testing.T) {
	l := newTestLinker()

	require.NoError(t, l.Attach(1, 100))
	require.NoError(t, l.Detach(1, 100))
	require.NoError(t, l.Attach(2, 100))

	owner, _ := l.OwnerOf(100)
	assert.Equal(t, Owner(2), owner)
}

func TestAttach_RejectsUnknownCargo(t *testing.T) {
	l := New(fixedInventory{100: true}, zerolog.Nop())
	require.NoError(t, l.Attach(1, 100))
	assert.Error(t, l.Attach(1, 200))
}

func TestDetach_NotLinked(t *testing.T) {
	l := newTestLinker()

	err := l.Detach(1, 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotLinked))

	// linked to a different mission counts as not linked for this one
	require.NoError(t, l.Attach(2, 100))
	err = l.Detach(1, 100)
	assert.True(t, errors.Is(err, ErrNotLinked))
}

func TestReleaseAll(t *testing.T) {
	l := newTestLinker()

	require.NoError(t, l.Attach(1, 103))
	require.NoError(t, l.Attach(1, 101))
	require.NoError(t, l.Attach(2, 200))

	released := l.ReleaseAll(1)
	assert.Equal(t, []ID{101, 103}, released)
	assert.Empty(t, l.Owned(1))

	// other missions untouched
	assert.Equal(t, []ID{200}, l.Owned(2))

	// second release finds nothing
	assert.Nil(t, l.ReleaseAll(1))
}
