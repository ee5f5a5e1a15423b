package wallet

import (
	"context"
	"crypto/ecdsa"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tyler-smith/go-bip32"
	"github.com/yolodolo42/msgsign/internal/chain"
	"github.com/yolodolo42/msgsign/internal/ethmsg"
)

var (
	ErrDeviceLocked = errors.New("device is locked")
	ErrInvalidSeed  = errors.New("invalid seed")
)

// BIP-32 seed length bounds in bytes.
const (
	minSeedLen = 16
	maxSeedLen = 64
)

var (
	_ ethmsg.AddressResolver = (*Device)(nil)
	_ ethmsg.Signer          = (*Device)(nil)
)

// Device is a software signing device backed by an HD seed. It derives
// addresses and signs digests for BIP-32 keypaths.
type Device struct {
	// mu protects seed. Lock zeroes it while a derivation may be running.
	mu   sync.RWMutex
	seed []byte // nil when locked
	log  zerolog.Logger
}

// NewDevice creates a device holding a copy of seed.
func NewDevice(seed []byte) (*Device, error) {
	if len(seed) < minSeedLen || len(seed) > maxSeedLen {
		return nil, errors.Wrapf(ErrInvalidSeed, "seed must be %d-%d bytes, got %d", minSeedLen, maxSeedLen, len(seed))
	}

	return &Device{
		seed: append([]byte(nil), seed...),
		log:  log.With().Str("component", "device").Logger(),
	}, nil
}

// Address returns the EIP-55 checksummed address at keypath. The keypath
// must satisfy ValidateAddressKeypath for network.
func (d *Device) Address(ctx context.Context, network chain.Network, keypath []uint32) (string, error) {
	if err := ValidateAddressKeypath(network, keypath); err != nil {
		return "", err
	}

	addr, err := d.address(keypath)
	if err != nil {
		return "", err
	}
	return addr.Hex(), nil
}

// SignDigest signs digest with the key at keypath. The recovery id is 0 or 1.
func (d *Device) SignDigest(ctx context.Context, keypath []uint32, digest common.Hash) (ethmsg.RecoverableSignature, error) {
	if err := ctx.Err(); err != nil {
		return ethmsg.RecoverableSignature{}, err
	}

	key, err := d.deriveKey(keypath)
	if err != nil {
		return ethmsg.RecoverableSignature{}, err
	}
	defer zeroKey(key)

	raw, err := crypto.Sign(digest[:], key)
	if err != nil {
		return ethmsg.RecoverableSignature{}, errors.Wrap(err, "failed to sign digest")
	}

	var sig ethmsg.RecoverableSignature
	copy(sig.RS[:], raw[:64])
	sig.RecoveryID = int(raw[64])

	d.log.Debug().Str("keypath", FormatKeypath(keypath)).Msg("digest signed")
	return sig, nil
}

// Lock zeroes the seed. Later calls return ErrDeviceLocked. Safe to call
// multiple times.
func (d *Device) Lock() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.seed {
		d.seed[i] = 0
	}
	d.seed = nil
}

func (d *Device) address(keypath []uint32) (common.Address, error) {
	key, err := d.deriveKey(keypath)
	if err != nil {
		return common.Address{}, err
	}
	defer zeroKey(key)

	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// deriveKey walks keypath from the master key. Caller must zeroKey the result.
func (d *Device) deriveKey(keypath []uint32) (*ecdsa.PrivateKey, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.seed == nil {
		return nil, ErrDeviceLocked
	}
	if len(keypath) == 0 {
		return nil, errors.Wrap(ErrInvalidKeypath, "empty keypath")
	}

	key, err := bip32.NewMasterKey(d.seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}
	for _, index := range keypath {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at index %d", index)
		}
	}

	raw := common.LeftPadBytes(key.Key, 32)
	defer func() {
		for i := range raw {
			raw[i] = 0
		}
	}()

	priv, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert to ECDSA private key")
	}
	return priv, nil
}

func zeroKey(key *ecdsa.PrivateKey) {
	if key != nil && key.D != nil {
		key.D.SetInt64(0)
	}
}
