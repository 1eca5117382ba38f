package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_GenerateAndParse(t *testing.T) {
	tm := NewTokenManager(TokenConfig{
		SecretKey: "unit-test-key",
		Expiry:    time.Hour,
	})

	token, err := tm.Generate(42, "alice", "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "127.0.0.1", claims.IP)
	assert.Equal(t, DefaultTokenIssuer, claims.Issuer)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager(TokenConfig{
		SecretKey: "unit-test-key",
		Expiry:    -time.Minute,
	})

	token, err := tm.Generate(1, "bob", "127.0.0.1")
	require.NoError(t, err)

	err = tm.Validate(token)
	assert.Error(t, err)
}

func TestTokenManager_WrongKey(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "key-a"})
	other := NewTokenManager(TokenConfig{SecretKey: "key-b"})

	token, err := tm.Generate(7, "carol", "10.0.0.1")
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.Error(t, err)
}
