package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yolodolo42/msgsign/internal/chain"
	"github.com/yolodolo42/msgsign/internal/ethmsg"
	"github.com/yolodolo42/msgsign/internal/history"
	"github.com/yolodolo42/msgsign/internal/ui"
	"github.com/yolodolo42/msgsign/internal/wallet"
)

// signError marks a failure of the signing flow itself, as opposed to
// setup errors such as a missing seed or a wrong password.
type signError struct {
	err error
}

func (e *signError) Error() string { return e.err.Error() }
func (e *signError) Unwrap() error { return e.err }

var signCmd = &cobra.Command{
	Use:   "sign-message [message]",
	Short: "Sign a personal message (EIP-191)",
	Long: `Sign a message with the "\x19Ethereum Signed Message:\n" prefix.

The signing address and a preview of the message are shown for confirmation
before anything is signed. The 65-byte signature is printed as hex.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSign,
}

func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.Flags().String("keypath", "", "Derivation path (default m/44'/60'/0'/0/0)")
	signCmd.Flags().String("file", "", "Read the message from a file")
	signCmd.Flags().Bool("hex", false, "Treat the message argument as hex")
	signCmd.Flags().Bool("legacy-v", false, "Encode the recovery id as 27/28")
}

// journalTap records the address and digest the flow computed so the
// history entry does not need to re-derive them.
type journalTap struct {
	resolver ethmsg.AddressResolver
	hasher   ethmsg.Hasher

	address string
	digest  common.Hash
}

func (t *journalTap) Address(ctx context.Context, network chain.Network, keypath []uint32) (string, error) {
	addr, err := t.resolver.Address(ctx, network, keypath)
	if err == nil {
		t.address = addr
	}
	return addr, err
}

func (t *journalTap) Hash(data []byte) common.Hash {
	t.digest = t.hasher.Hash(data)
	return t.digest
}

func readMessage(cmd *cobra.Command, args []string) ([]byte, error) {
	path, _ := cmd.Flags().GetString("file")
	asHex, _ := cmd.Flags().GetBool("hex")

	switch {
	case path != "" && len(args) > 0:
		return nil, fmt.Errorf("pass either a message argument or --file, not both")
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read message file: %w", err)
		}
		if asHex {
			return decodeHex(strings.TrimSpace(string(data)))
		}
		return data, nil
	case len(args) == 0:
		return nil, fmt.Errorf("message required")
	case asHex:
		return decodeHex(args[0])
	default:
		return []byte(args[0]), nil
	}
}

func decodeHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	if s == "0x" {
		return []byte{}, nil
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex message: %w", err)
	}
	return b, nil
}

// encodeSignature renders r || s || v, optionally with v offset by 27.
func encodeSignature(sig [ethmsg.SignatureLen]byte, legacyV bool) string {
	if legacyV {
		sig[ethmsg.SignatureLen-1] += 27
	}
	return hexutil.Encode(sig[:])
}

func runSign(cmd *cobra.Command, args []string) error {
	message, err := readMessage(cmd, args)
	if err != nil {
		return err
	}
	network, keypath, err := requestTarget(cmd)
	if err != nil {
		return err
	}

	dev, err := unlockDevice()
	if err != nil {
		return err
	}
	defer dev.Lock()

	tap := &journalTap{resolver: dev, hasher: wallet.Keccak256Hasher{}}
	gate := ui.NewGate(stdio.tty, stdio.lines, cmd.ErrOrStderr())
	svc := ethmsg.NewService(tap, gate, tap, dev)

	resp, err := svc.SignMessage(cmd.Context(), ethmsg.SignRequest{
		Network: network,
		Keypath: keypath,
		Message: message,
	})
	if err != nil {
		return &signError{err: err}
	}

	legacyV, _ := cmd.Flags().GetBool("legacy-v")
	signature := encodeSignature(resp.Signature, legacyV)
	fmt.Fprintln(cmd.OutOrStdout(), signature)

	if viper.GetBool("history") {
		recordSignature(history.Entry{
			Address:   tap.address,
			Keypath:   wallet.FormatKeypath(keypath),
			Digest:    tap.digest.Hex(),
			Signature: signature,
		})
	}
	return nil
}

// recordSignature journals a signature. Journal failures are logged and
// never fail a signature that was already produced.
func recordSignature(e history.Entry) {
	dir, err := dataDir()
	if err != nil {
		log.Warn().Err(err).Msg("history unavailable")
		return
	}
	store, err := history.Open(dir)
	if err != nil {
		log.Warn().Err(err).Msg("history unavailable")
		return
	}
	defer store.Close()

	if _, err := store.Record(e); err != nil {
		log.Warn().Err(err).Msg("failed to record signature")
	}
}
