package sqlast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateUnique(t *testing.T) {
	a := NewAliasAllocator()

	assert.Equal(t, "users", a.Allocate("users"))
	assert.Equal(t, "posts", a.Allocate("posts"))
	assert.Equal(t, 2, a.Len())
}

func TestAllocateCollisionAppendsSuffix(t *testing.T) {
	a := NewAliasAllocator()

	assert.Equal(t, "users", a.Allocate("users"))
	assert.Equal(t, "users$", a.Allocate("users"))
	assert.Equal(t, "users$$", a.Allocate("users"))
	assert.True(t, a.Taken("users$$"))
	assert.Equal(t, 3, a.Len())
}

func TestAllocatePersistsPastSuffixedNames(t *testing.T) {
	a := NewAliasAllocator()

	// A candidate that already carries the suffix still resolves.
	assert.Equal(t, "users$", a.Allocate("users$"))
	assert.Equal(t, "users", a.Allocate("users"))
	assert.Equal(t, "users$$", a.Allocate("users"))
	assert.Equal(t, "users$$$", a.Allocate("users$"))
}

func TestAllocatorsAreIndependent(t *testing.T) {
	a := NewAliasAllocator()
	b := NewAliasAllocator()

	assert.Equal(t, "users", a.Allocate("users"))
	assert.Equal(t, "users", b.Allocate("users"))
	assert.False(t, b.Taken("posts"))
}
