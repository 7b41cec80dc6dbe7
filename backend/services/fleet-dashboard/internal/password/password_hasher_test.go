package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost, false)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.True(t, IsBcryptHash(hash))

	assert.NoError(t, h.Compare(hash, "s3cret"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrMismatch)

	_, err = h.Hash("")
	assert.Error(t, err)
}

func TestPlaintextOnlyWhenAllowed(t *testing.T) {
	strict := NewBcryptHasher(bcrypt.MinCost, false)
	assert.ErrorIs(t, strict.Compare("admin", "admin"), ErrMismatch)

	legacy := NewBcryptHasher(bcrypt.MinCost, true)
	assert.NoError(t, legacy.Compare("admin", "admin"))
	assert.ErrorIs(t, legacy.Compare("admin", "Admin"), ErrMismatch)
	assert.ErrorIs(t, legacy.Compare("", ""), ErrMismatch)
}
