package ethmsg

import "errors"

var (
	// ErrInvalidInput marks a malformed request. Nothing was signed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUserAbort is returned when the user rejects either confirmation.
	ErrUserAbort = errors.New("user abort")
	// ErrUnknown is returned when signing fails after both confirmations.
	ErrUnknown = errors.New("unknown error")
)

// ResultCode is the outcome of a signing request.
type ResultCode int

const (
	CodeOK ResultCode = iota
	CodeInvalidInput
	CodeUserAbort
	CodeUnknown
)

func (c ResultCode) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeInvalidInput:
		return "InvalidInput"
	case CodeUserAbort:
		return "UserAbort"
	default:
		return "Unknown"
	}
}

// Code maps an error returned by Service.SignMessage to its result code.
// Errors outside the taxonomy map to CodeUnknown.
func Code(err error) ResultCode {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrUserAbort):
		return CodeUserAbort
	default:
		return CodeUnknown
	}
}
