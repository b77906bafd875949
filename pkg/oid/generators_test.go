package oid_test

import (
	"testing"

	"github.com/julien-sobczak/the-noteweaver/pkg/oid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueGenerator(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		gen := oid.NewUniqueGenerator()

		oid1 := gen.New()
		oid2 := gen.New()

		assert.NotEqual(t, oid1, oid2)
		assert.Len(t, oid1, oid.Width)
		assert.True(t, oid.IsValid(oid1.String()))
		assert.True(t, oid.IsValid(oid2.String()))
	})

	t.Run("NewFromBytes", func(t *testing.T) {
		gen := oid.NewUniqueGenerator()

		oid1 := gen.NewFromBytes([]byte("test data"))
		oid2 := gen.NewFromBytes([]byte("test data"))
		oid3 := gen.NewFromBytes([]byte("other data"))

		assert.Equal(t, oid1, oid2)
		assert.NotEqual(t, oid1, oid3)
		assert.True(t, oid.IsValid(oid1.String()))
	})
}

func TestSuiteGenerator(t *testing.T) {
	gen := oid.NewSuiteGenerator("WWWWWWWWWW", "VVVVVVVVVV")

	assert.Equal(t, oid.OID("WWWWWWWWWW"), gen.New())
	assert.Equal(t, oid.OID("VVVVVVVVVV"), gen.NewFromBytes([]byte("ignored")))
	assert.Panics(t, func() {
		gen.New()
	})
}

func TestFixedGenerator(t *testing.T) {
	gen := oid.NewFixedGenerator("RRRRRRRRRR")
	assert.Equal(t, oid.OID("RRRRRRRRRR"), gen.New())
	assert.Equal(t, oid.OID("RRRRRRRRRR"), gen.New())
}

func TestSequenceGenerator(t *testing.T) {
	gen := oid.NewSequenceGenerator()

	oid1 := gen.New()
	oid2 := gen.New()
	require.Equal(t, oid.OID("XXXXXXXXXW"), oid1)
	require.Equal(t, oid.OID("XXXXXXXXXV"), oid2)

	v, err := oid2.Value()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)
}

func TestUseSequence(t *testing.T) {
	oid.UseSequence(t)
	assert.Equal(t, oid.OID("XXXXXXXXXW"), oid.New())
	assert.Equal(t, oid.OID("XXXXXXXXXV"), oid.NewFromBytes([]byte("ignored")))
}

func TestUseNext(t *testing.T) {
	t.Run("Suite", func(t *testing.T) {
		oid.UseNext(t, "WR9C7F3Q2M", "HJMPQRVW")
		assert.Equal(t, oid.OID("WR9C7F3Q2M"), oid.New())
		assert.Equal(t, oid.OID("HJMPQRVW"), oid.New())
		assert.Panics(t, func() { oid.New() })
	})

	t.Run("Restored", func(t *testing.T) {
		// Back to unique identifiers after the previous subtest
		assert.NotEqual(t, oid.New(), oid.New())
	})

	t.Run("Invalid", func(t *testing.T) {
		assert.Panics(t, func() { oid.UseNext(t, "invalid") })
	})
}
