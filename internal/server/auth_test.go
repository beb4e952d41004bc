package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/tubelist/internal/shared"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"abc12!", true},
		{"pässw0rd", true},
		{"ab1!", false},
		{"abcdef!", false},
		{"123456!", false},
		{"abc123", false},
		{"", false},
	}

	for _, tc := range tests {
		err := ValidatePassword(tc.password)
		if tc.valid {
			assert.NoError(t, err, tc.password)
		} else {
			assert.ErrorIs(t, err, shared.ErrWeakPassword, tc.password)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	for _, ok := range []string{"dana", "d.a_n-a", "A1"} {
		assert.NoError(t, ValidateUsername(ok), ok)
	}
	for _, bad := range []string{"", "has space", "../etc", "emoji🙂"} {
		assert.ErrorIs(t, ValidateUsername(bad), shared.ErrInvalidInput, bad)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("abc12!")
	require.NoError(t, err)
	assert.NotEqual(t, "abc12!", hash)
	assert.True(t, CheckPassword(hash, "abc12!"))
	assert.False(t, CheckPassword(hash, "abc12?"))
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	t.Run("round trip", func(t *testing.T) {
		token, err := issuer.Issue("dana")
		require.NoError(t, err)

		username, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "dana", username)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewTokenIssuer("other", time.Hour).Issue("dana")
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, shared.ErrNotAuthenticated)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewTokenIssuer("secret", time.Minute)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := past.Issue("dana")
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, shared.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Verify("not-a-token")
		assert.ErrorIs(t, err, shared.ErrNotAuthenticated)
	})
}
