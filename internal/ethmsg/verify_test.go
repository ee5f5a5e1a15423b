package ethmsg

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverAddress(t *testing.T) {
	key, err := crypto.HexToECDSA(testPrivateKey)
	require.NoError(t, err)
	hasher := &fakeHasher{rec: &recorder{}}

	sign := func(t *testing.T, message []byte) [SignatureLen]byte {
		t.Helper()
		f, err := Frame(message)
		require.NoError(t, err)
		raw, err := crypto.Sign(crypto.Keccak256(f.Bytes()), key)
		require.NoError(t, err)
		var sig [SignatureLen]byte
		copy(sig[:], raw)
		return sig
	}

	t.Run("recovers signer", func(t *testing.T) {
		sig := sign(t, []byte("Hello, Ethereum!"))

		addr, err := RecoverAddress(hasher, []byte("Hello, Ethereum!"), sig)
		require.NoError(t, err)
		assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", addr.Hex())
	})

	t.Run("accepts legacy v", func(t *testing.T) {
		sig := sign(t, []byte("legacy"))
		sig[64] += 27

		addr, err := RecoverAddress(hasher, []byte("legacy"), sig)
		require.NoError(t, err)
		assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", addr.Hex())
	})

	t.Run("different message recovers different address", func(t *testing.T) {
		sig := sign(t, []byte("original"))

		addr, err := RecoverAddress(hasher, []byte("tampered"), sig)
		if err == nil {
			assert.NotEqual(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", addr.Hex())
		}
	})

	t.Run("rejects bad recovery id", func(t *testing.T) {
		sig := sign(t, []byte("x"))
		sig[64] = 5

		_, err := RecoverAddress(hasher, []byte("x"), sig)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects oversized message", func(t *testing.T) {
		_, err := RecoverAddress(hasher, make([]byte, MaxMessageLen+1), [SignatureLen]byte{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
