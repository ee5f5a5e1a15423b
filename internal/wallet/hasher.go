package wallet

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/yolodolo42/msgsign/internal/ethmsg"
)

var _ ethmsg.Hasher = Keccak256Hasher{}

// Keccak256Hasher hashes with the legacy Keccak-256 used by Ethereum.
type Keccak256Hasher struct{}

func (Keccak256Hasher) Hash(data []byte) common.Hash {
	return crypto.Keccak256Hash(data)
}
