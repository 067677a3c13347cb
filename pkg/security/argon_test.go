package security

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgonHash(t *testing.T) {
	a, err := NewArgon()
	require.NoError(t, err)

	t.Run("produces a PHC string", func(t *testing.T) {
		h, err := a.Hash("password123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=65536,t=3,p=2$"))
		assert.NotContains(t, h, "password123")
	})

	t.Run("salts every hash", func(t *testing.T) {
		h1, err := a.Hash("samepassword")
		require.NoError(t, err)
		h2, err := a.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := a.Hash("")
		assert.ErrorIs(t, err, ErrEmptyPassword)
	})

	t.Run("verifies the right password only", func(t *testing.T) {
		h, err := a.Hash("correct horse")
		require.NoError(t, err)

		ok, err := a.Verify("correct horse", h)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = a.Verify("battery staple", h)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("verifies hashes made with other parameters", func(t *testing.T) {
		cheap := &ArgonHash{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}
		h, err := cheap.Hash("pw")
		require.NoError(t, err)

		ok, err := a.Verify("pw", h)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects malformed hashes", func(t *testing.T) {
		for _, h := range []string{
			"",
			"plaintext",
			"$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
			"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA",
			"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
			"$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA",
		} {
			_, err := a.Verify("pw", h)
			assert.ErrorIs(t, err, ErrInvalidHash, h)
		}
	})
}

func TestArgonDummy(t *testing.T) {
	a, err := NewArgon()
	require.NoError(t, err)

	ok, err := a.Verify("anything", a.dummy)
	require.NoError(t, err)
	assert.False(t, ok)

	t.Run("entropy failure fails construction", func(t *testing.T) {
		broken := &ArgonHash{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}
		boom := errors.New("no entropy")

		assert.ErrorIs(t, broken.initDummy(iotest.ErrReader(boom)), boom)
		assert.Empty(t, broken.dummy)
	})
}
