package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivedKeyBytes(t *testing.T) {
	t.Run("valid 32-byte hex key", func(t *testing.T) {
		key := DerivedKey(strings.Repeat("ab", 32))
		raw, err := key.Bytes()
		require.NoError(t, err)
		assert.Len(t, raw, DerivedKeySize)
	})

	t.Run("not hex", func(t *testing.T) {
		_, err := DerivedKey("zz").Bytes()
		assert.ErrorIs(t, err, ErrInvalidKeyEncoding)
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := DerivedKey("abcd").Bytes()
		assert.ErrorIs(t, err, ErrInvalidKeyEncoding)
	})
}

func TestDerivedKeyIsZero(t *testing.T) {
	assert.True(t, DerivedKey("").IsZero())
	assert.False(t, DerivedKey("ab").IsZero())
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3}
	Zero(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
	Zero(nil)
}
