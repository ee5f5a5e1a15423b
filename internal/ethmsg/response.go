package ethmsg

import "github.com/rs/zerolog/log"

// SignatureLen is r (32) ++ s (32) ++ recovery id (1).
const SignatureLen = 65

// SignatureLen is pinned to 65.
const (
	_ = uint(SignatureLen - 65)
	_ = uint(65 - SignatureLen)
)

// RecoverableSignature is what a Signer produces for a digest.
type RecoverableSignature struct {
	RS         [64]byte
	RecoveryID int
}

// SignResponse carries the packed signature.
type SignResponse struct {
	Signature [SignatureLen]byte
}

// RecoveryID returns the last byte of the signature.
func (r *SignResponse) RecoveryID() byte {
	return r.Signature[SignatureLen-1]
}

// buildResponse packs sig into a SignResponse. It panics if the recovery id
// does not fit in one byte.
func buildResponse(sig RecoverableSignature) *SignResponse {
	if sig.RecoveryID < 0 || sig.RecoveryID > 0xff {
		log.Panic().Int("recovery_id", sig.RecoveryID).Msg("unexpected recovery id")
	}

	resp := &SignResponse{}
	copy(resp.Signature[:64], sig.RS[:])
	resp.Signature[64] = byte(sig.RecoveryID)
	return resp
}
