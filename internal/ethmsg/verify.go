package ethmsg

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverAddress returns the address whose key produced signature over the
// EIP-191 framing of message. The recovery id may be 0/1 or 27/28.
func RecoverAddress(hasher Hasher, message []byte, signature [SignatureLen]byte) (common.Address, error) {
	framed, err := Frame(message)
	if err != nil {
		return common.Address{}, err
	}

	sig := signature
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return common.Address{}, fmt.Errorf("%w: recovery id %d", ErrInvalidInput, signature[64])
	}

	digest := hasher.Hash(framed.Bytes())
	pub, err := crypto.SigToPub(digest[:], sig[:])
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: recover signer: %v", ErrInvalidInput, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
