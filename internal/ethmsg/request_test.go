package ethmsg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yolodolo42/msgsign/internal/chain"
)

func TestValidateRequest(t *testing.T) {
	t.Run("accepts mainnet request", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(validRequest("hello")))
	})

	t.Run("accepts empty message", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(SignRequest{Network: chain.Ethereum, Keypath: testKeypath}))
	})

	t.Run("rejects 1025 bytes", func(t *testing.T) {
		req := validRequest("")
		req.Message = make([]byte, 1025)
		assert.ErrorIs(t, ValidateRequest(req), ErrInvalidInput)
	})

	t.Run("rejects testnet", func(t *testing.T) {
		req := validRequest("hello")
		req.Network = chain.Sepolia
		err := ValidateRequest(req)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "sepolia")
	})
}
