package wallet

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidMnemonic is returned for mnemonics with an unexpected word count.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// BIP-39 seed stretching parameters.
const (
	pbkdf2Iterations = 2048
	pbkdf2KeyLength  = 64
)

// SeedFromMnemonic converts a BIP-39 mnemonic and optional passphrase into a
// 64-byte seed. The word list checksum is not verified.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	words := strings.Fields(norm.NFKD.String(mnemonic))
	switch len(words) {
	case 12, 15, 18, 21, 24:
	default:
		return nil, fmt.Errorf("%w: expected 12, 15, 18, 21 or 24 words, got %d", ErrInvalidMnemonic, len(words))
	}

	return pbkdf2.Key(
		[]byte(strings.Join(words, " ")),
		[]byte("mnemonic"+norm.NFKD.String(passphrase)),
		pbkdf2Iterations,
		pbkdf2KeyLength,
		sha512.New,
	), nil
}
