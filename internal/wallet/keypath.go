package wallet

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/yolodolo42/msgsign/internal/chain"
)

const (
	hardened = 0x80000000

	bip44Purpose = 44
	// maxAddressIndex is the exclusive bound of the last keypath element.
	maxAddressIndex = 10000
)

// ErrInvalidKeypath is returned for keypaths outside the address policy.
var ErrInvalidKeypath = errors.New("invalid keypath")

// ParseKeypath parses "m/44'/60'/0'/0/0" style derivation paths.
func ParseKeypath(path string) ([]uint32, error) {
	dp, err := accounts.ParseDerivationPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeypath, err)
	}
	return []uint32(dp), nil
}

// FormatKeypath renders keypath in the canonical "m/44'/60'/..." form.
func FormatKeypath(keypath []uint32) string {
	return accounts.DerivationPath(keypath).String()
}

// DefaultKeypath returns m/44'/coin'/0'/0/index for network.
func DefaultKeypath(network chain.Network, index uint32) ([]uint32, error) {
	cfg := network.Config()
	if cfg == nil {
		return nil, fmt.Errorf("%w: unknown network %s", ErrInvalidKeypath, network)
	}
	return []uint32{bip44Purpose + hardened, cfg.CoinType + hardened, hardened, 0, index}, nil
}

// ValidateAddressKeypath accepts only m/44'/coin'/0'/0/i with the network's
// coin type and i below maxAddressIndex.
func ValidateAddressKeypath(network chain.Network, keypath []uint32) error {
	cfg := network.Config()
	if cfg == nil {
		return fmt.Errorf("%w: unknown network %s", ErrInvalidKeypath, network)
	}
	if len(keypath) != 5 {
		return fmt.Errorf("%w: expected 5 elements, got %d", ErrInvalidKeypath, len(keypath))
	}
	if keypath[0] != bip44Purpose+hardened {
		return fmt.Errorf("%w: purpose must be 44'", ErrInvalidKeypath)
	}
	if keypath[1] != cfg.CoinType+hardened {
		return fmt.Errorf("%w: coin type must be %d' for %s", ErrInvalidKeypath, cfg.CoinType, network)
	}
	if keypath[2] != hardened {
		return fmt.Errorf("%w: account must be 0'", ErrInvalidKeypath)
	}
	if keypath[3] != 0 {
		return fmt.Errorf("%w: change must be 0", ErrInvalidKeypath)
	}
	if keypath[4] >= maxAddressIndex {
		return fmt.Errorf("%w: address index %d exceeds %d", ErrInvalidKeypath, keypath[4], maxAddressIndex-1)
	}
	return nil
}
