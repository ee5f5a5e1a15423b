package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yolodolo42/msgsign/internal/chain"
)

func TestParseKeypath(t *testing.T) {
	t.Run("parses absolute path", func(t *testing.T) {
		kp, err := ParseKeypath("m/44'/60'/0'/0/7")
		require.NoError(t, err)
		assert.Equal(t, []uint32{44 + hardened, 60 + hardened, hardened, 0, 7}, kp)
	})

	t.Run("round trips through format", func(t *testing.T) {
		kp, err := ParseKeypath("m/44'/60'/0'/0/12")
		require.NoError(t, err)
		assert.Equal(t, "m/44'/60'/0'/0/12", FormatKeypath(kp))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseKeypath("m/44'/not-a-number")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidKeypath)
	})
}

func TestValidateAddressKeypath(t *testing.T) {
	mainnet, err := DefaultKeypath(chain.Ethereum, 0)
	require.NoError(t, err)

	t.Run("accepts default mainnet path", func(t *testing.T) {
		assert.NoError(t, ValidateAddressKeypath(chain.Ethereum, mainnet))
	})

	t.Run("accepts highest address index", func(t *testing.T) {
		kp, err := DefaultKeypath(chain.Ethereum, maxAddressIndex-1)
		require.NoError(t, err)
		assert.NoError(t, ValidateAddressKeypath(chain.Ethereum, kp))
	})

	t.Run("rejects address index at bound", func(t *testing.T) {
		kp, err := DefaultKeypath(chain.Ethereum, maxAddressIndex)
		require.NoError(t, err)
		assert.ErrorIs(t, ValidateAddressKeypath(chain.Ethereum, kp), ErrInvalidKeypath)
	})

	t.Run("rejects mainnet path on testnet", func(t *testing.T) {
		assert.ErrorIs(t, ValidateAddressKeypath(chain.Sepolia, mainnet), ErrInvalidKeypath)
	})

	t.Run("accepts testnet coin type on testnet", func(t *testing.T) {
		kp, err := DefaultKeypath(chain.Sepolia, 3)
		require.NoError(t, err)
		assert.NoError(t, ValidateAddressKeypath(chain.Sepolia, kp))
	})

	t.Run("rejects malformed shapes", func(t *testing.T) {
		cases := map[string][]uint32{
			"too short":          {44 + hardened, 60 + hardened, hardened, 0},
			"too long":           {44 + hardened, 60 + hardened, hardened, 0, 0, 0},
			"unhardened purpose": {44, 60 + hardened, hardened, 0, 0},
			"wrong purpose":      {49 + hardened, 60 + hardened, hardened, 0, 0},
			"second account":     {44 + hardened, 60 + hardened, hardened + 1, 0, 0},
			"change branch":      {44 + hardened, 60 + hardened, hardened, 1, 0},
			"hardened index":     {44 + hardened, 60 + hardened, hardened, 0, hardened},
		}
		for name, kp := range cases {
			assert.ErrorIs(t, ValidateAddressKeypath(chain.Ethereum, kp), ErrInvalidKeypath, name)
		}
	})

	t.Run("rejects unknown network", func(t *testing.T) {
		assert.ErrorIs(t, ValidateAddressKeypath(chain.Network(99), mainnet), ErrInvalidKeypath)
	})
}
