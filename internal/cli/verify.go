package cli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/yolodolo42/msgsign/internal/ethmsg"
	"github.com/yolodolo42/msgsign/internal/ui"
	"github.com/yolodolo42/msgsign/internal/wallet"
)

var verifyCmd = &cobra.Command{
	Use:   "verify-message [message]",
	Short: "Recover the signer of a personal message",
	Long: `Recover the address that signed a message, and optionally check it
against an expected address. No seed or password is needed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().String("signature", "", "65-byte signature as hex (required)")
	verifyCmd.Flags().String("address", "", "Expected signer address")
	verifyCmd.Flags().String("file", "", "Read the message from a file")
	verifyCmd.Flags().Bool("hex", false, "Treat the message argument as hex")
	_ = verifyCmd.MarkFlagRequired("signature")
}

func parseSignature(s string) ([ethmsg.SignatureLen]byte, error) {
	var sig [ethmsg.SignatureLen]byte
	b, err := decodeHex(s)
	if err != nil {
		return sig, fmt.Errorf("invalid signature: %w", err)
	}
	if len(b) != ethmsg.SignatureLen {
		return sig, fmt.Errorf("invalid signature: want %d bytes, got %d", ethmsg.SignatureLen, len(b))
	}
	copy(sig[:], b)
	return sig, nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	message, err := readMessage(cmd, args)
	if err != nil {
		return err
	}
	rawSig, _ := cmd.Flags().GetString("signature")
	sig, err := parseSignature(rawSig)
	if err != nil {
		return err
	}

	signer, err := ethmsg.RecoverAddress(wallet.Keccak256Hasher{}, message, sig)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	expected, _ := cmd.Flags().GetString("address")
	if expected == "" {
		fmt.Fprintln(out, signer.Hex())
		return nil
	}

	if !common.IsHexAddress(expected) {
		return fmt.Errorf("invalid address: %s", expected)
	}
	if common.HexToAddress(expected) != signer {
		fmt.Fprintln(out, ui.RejectStyle.Render(ui.SymbolCross+" Signed by "+signer.Hex()))
		return fmt.Errorf("signature does not match %s", expected)
	}

	fmt.Fprintln(out, ui.AcceptStyle.Render(ui.SymbolCheck+" Valid signature from "+signer.Hex()))
	return nil
}
