package ethmsg

import (
	"fmt"

	"github.com/yolodolo42/msgsign/internal/chain"
)

// MaxMessageLen is the largest message accepted for signing.
const MaxMessageLen = 1024

// SupportedNetwork is the only network this flow signs for.
const SupportedNetwork = chain.Ethereum

// SignRequest asks for an EIP-191 signature over Message with the key at Keypath.
type SignRequest struct {
	Network chain.Network
	Keypath []uint32
	Message []byte
}

// ValidateRequest rejects requests that must not reach address resolution.
func ValidateRequest(req SignRequest) error {
	if len(req.Message) > MaxMessageLen {
		return fmt.Errorf("%w: message is %d bytes, max %d", ErrInvalidInput, len(req.Message), MaxMessageLen)
	}
	if req.Network != SupportedNetwork {
		return fmt.Errorf("%w: unsupported network %s", ErrInvalidInput, req.Network)
	}
	if len(req.Keypath) == 0 {
		return fmt.Errorf("%w: empty keypath", ErrInvalidInput)
	}
	return nil
}
