package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeep/shared/password"
)

func TestHashAndVerify(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		hash, err := password.Hash("correct horse battery staple")

		assert.NoError(t, err)
		assert.NotEqual(t, "correct horse battery staple", hash)
		assert.NoError(t, password.Verify("correct horse battery staple", hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		hash, err := password.Hash("secret123")

		assert.NoError(t, err)
		assert.ErrorIs(t, password.Verify("secret124", hash), password.ErrInvalidPassword)
	})

	t.Run("empty password rejected", func(t *testing.T) {
		_, err := password.Hash("")

		assert.Error(t, err)
		assert.ErrorIs(t, password.Verify("", "hash"), password.ErrInvalidPassword)
	})

	t.Run("unique salts", func(t *testing.T) {
		first, err := password.Hash("secret123")
		assert.NoError(t, err)

		second, err := password.Hash("secret123")
		assert.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}
