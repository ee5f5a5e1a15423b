package ethmsg

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yolodolo42/msgsign/internal/chain"
)

// AddressResolver derives the display address for a keypath.
type AddressResolver interface {
	Address(ctx context.Context, network chain.Network, keypath []uint32) (string, error)
}

// ConfirmParams is a title/body pair shown to the user.
type ConfirmParams struct {
	Title      string
	Body       string
	Scrollable bool
}

// ConfirmationGate shows params and blocks until the user accepts or rejects.
type ConfirmationGate interface {
	Confirm(ctx context.Context, params ConfirmParams) bool
}

// Hasher computes the legacy Keccak-256 digest (not SHA3-256).
type Hasher interface {
	Hash(data []byte) common.Hash
}

// Signer signs a digest with the key at keypath.
type Signer interface {
	SignDigest(ctx context.Context, keypath []uint32, digest common.Hash) (RecoverableSignature, error)
}

// AddressTitle is shown above the address the user is asked to verify.
const AddressTitle = "Your\naddress"

// State is a step of the signing flow.
type State int

const (
	StateStart State = iota
	StateValidated
	StateAddressConfirmed
	StateMessageConfirmed
	StateHashed
	StateSigned
	StateDone
	StateRejected
	StateFailed
)

var stateNames = [...]string{
	StateStart:            "start",
	StateValidated:        "validated",
	StateAddressConfirmed: "address_confirmed",
	StateMessageConfirmed: "message_confirmed",
	StateHashed:           "hashed",
	StateSigned:           "signed",
	StateDone:             "done",
	StateRejected:         "rejected",
	StateFailed:           "failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Service runs the EIP-191 message signing flow. It is not safe for
// concurrent use; each call is a complete, independent flow.
type Service struct {
	resolver AddressResolver
	gate     ConfirmationGate
	hasher   Hasher
	signer   Signer
	log      zerolog.Logger
}

// NewService wires the flow to its collaborators.
func NewService(resolver AddressResolver, gate ConfirmationGate, hasher Hasher, signer Signer) *Service {
	return &Service{
		resolver: resolver,
		gate:     gate,
		hasher:   hasher,
		signer:   signer,
		log:      log.With().Str("component", "ethmsg").Logger(),
	}
}

type flow struct {
	state State
	log   zerolog.Logger
}

func (f *flow) advance(next State) {
	f.log.Debug().Stringer("from", f.state).Stringer("to", next).Msg("sign flow transition")
	f.state = next
}

// SignMessage asks the user to confirm the address and a preview of the
// message, then signs keccak256(Frame(message)). The hasher and signer are
// only reached after both confirmations succeed.
func (s *Service) SignMessage(ctx context.Context, req SignRequest) (*SignResponse, error) {
	f := &flow{state: StateStart, log: s.log}

	if err := ValidateRequest(req); err != nil {
		f.advance(StateFailed)
		return nil, err
	}
	f.advance(StateValidated)

	address, err := s.resolver.Address(ctx, req.Network, req.Keypath)
	if err != nil {
		f.advance(StateFailed)
		return nil, fmt.Errorf("%w: resolve address: %v", ErrInvalidInput, err)
	}
	if !s.gate.Confirm(ctx, ConfirmParams{Title: AddressTitle, Body: address, Scrollable: true}) {
		f.advance(StateRejected)
		return nil, fmt.Errorf("%w: address rejected", ErrUserAbort)
	}
	f.advance(StateAddressConfirmed)

	framed, err := Frame(req.Message)
	if err != nil {
		f.advance(StateFailed)
		return nil, err
	}
	preview := RenderPreview(req.Message)
	if !s.gate.Confirm(ctx, ConfirmParams{Title: preview.Title, Body: preview.Body, Scrollable: true}) {
		f.advance(StateRejected)
		return nil, fmt.Errorf("%w: message rejected", ErrUserAbort)
	}
	f.advance(StateMessageConfirmed)

	digest := s.hasher.Hash(framed.Bytes())
	f.advance(StateHashed)

	sig, err := s.signer.SignDigest(ctx, req.Keypath, digest)
	if err != nil {
		f.advance(StateFailed)
		return nil, fmt.Errorf("%w: sign: %v", ErrUnknown, err)
	}
	f.advance(StateSigned)

	resp := buildResponse(sig)
	f.advance(StateDone)

	s.log.Info().
		Int("message_len", len(req.Message)).
		Bool("hex_preview", preview.Hex).
		Str("digest", digest.Hex()).
		Msg("message signed")

	return resp, nil
}
