package ethmsg

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame(t *testing.T) {
	t.Run("frames short message byte-exact", func(t *testing.T) {
		f, err := Frame([]byte("hi"))
		require.NoError(t, err)

		want := append([]byte{0x19}, []byte("Ethereum Signed Message:\n2hi")...)
		assert.Equal(t, want, f.Bytes())
		assert.Equal(t, len(MessagePrefix)+1, f.PayloadOffset)
		assert.Equal(t, []byte("hi"), f.Payload())
	})

	t.Run("frames empty message", func(t *testing.T) {
		f, err := Frame(nil)
		require.NoError(t, err)

		assert.Equal(t, []byte(MessagePrefix+"0"), f.Bytes())
		assert.Empty(t, f.Payload())
	})

	t.Run("payload offset follows digit count", func(t *testing.T) {
		for _, n := range []int{9, 10, 99, 100, 999, 1000} {
			f, err := Frame(bytes.Repeat([]byte{'x'}, n))
			require.NoError(t, err)

			wantOffset := len(MessagePrefix) + len(strconv.Itoa(n))
			assert.Equal(t, wantOffset, f.PayloadOffset, "len %d", n)
			assert.Equal(t, wantOffset+n, f.Len(), "len %d", n)
		}
	})

	t.Run("fills the buffer at max length", func(t *testing.T) {
		msg := bytes.Repeat([]byte{0xff}, MaxMessageLen)
		f, err := Frame(msg)
		require.NoError(t, err)

		assert.Equal(t, frameCapacity, f.Len())
		assert.Equal(t, []byte(MessagePrefix+"1024"), f.Bytes()[:f.PayloadOffset])
		assert.Equal(t, msg, f.Payload())
	})

	t.Run("rejects oversized message", func(t *testing.T) {
		_, err := Frame(make([]byte, MaxMessageLen+1))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("matches go-ethereum text hash", func(t *testing.T) {
		msg := []byte("hello")
		f, err := Frame(msg)
		require.NoError(t, err)

		assert.Equal(t, accounts.TextHash(msg), crypto.Keccak256(f.Bytes()))
	})
}

