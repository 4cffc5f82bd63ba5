package encryption

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAESRoundTrip(t *testing.T) {
	svc, err := NewServiceWithKey("correct-horse-Battery-9!")
	require.NoError(t, err)
	assert.True(t, svc.Enabled())

	sealed, err := svc.Encrypt(`{"kind":"int","value":3}`)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "kind")

	again, err := svc.Encrypt(`{"kind":"int","value":3}`)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per call")

	plain, err := svc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"int","value":3}`, plain)
}

func TestDecryptFailures(t *testing.T) {
	svc, err := NewServiceWithKey("key-one-Strong-1!")
	require.NoError(t, err)
	other, err := NewServiceWithKey("key-two-Strong-2!")
	require.NoError(t, err)

	sealed, err := svc.Encrypt("value")
	require.NoError(t, err)

	_, err = other.Decrypt(sealed)
	assert.ErrorContains(t, err, "decryption failed")

	_, err = svc.Decrypt("not-hex")
	assert.ErrorContains(t, err, "invalid hex data")

	_, err = svc.Decrypt("abcd")
	assert.ErrorContains(t, err, "ciphertext too short")
}

func TestNoopService(t *testing.T) {
	svc, err := NewServiceWithKey("")
	require.NoError(t, err)
	assert.False(t, svc.Enabled())

	out, err := svc.Encrypt("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", out)
}
