package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yolodolo42/msgsign/internal/chain"
	"github.com/yolodolo42/msgsign/internal/ethmsg"
	"github.com/yolodolo42/msgsign/internal/ui"
	"github.com/yolodolo42/msgsign/internal/wallet"
	"golang.org/x/term"
)

const minPasswordLength = 8

// console is the stream prompts and confirmations read from. Piped input
// goes through one shared buffer.
type console struct {
	tty   *os.File
	lines *bufio.Reader
}

var stdio = console{tty: os.Stdin, lines: bufio.NewReader(os.Stdin)}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the encrypted device seed from a mnemonic",
	Long: `Derive a BIP-39 seed from a mnemonic and optional passphrase, and store it
encrypted with a password under the data directory.`,
	RunE: runInit,
}

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Show the address for a keypath",
	RunE:  runAddress,
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addressCmd)

	initCmd.Flags().String("mnemonic-file", "", "Read the mnemonic from a file instead of prompting")

	addressCmd.Flags().String("keypath", "", "Derivation path (default first address of the network)")
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if !ui.IsInteractive(stdio.tty) {
		line, err := stdio.lines.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	password, err := term.ReadPassword(int(stdio.tty.Fd()))
	fmt.Fprintln(os.Stderr) // newline after password input
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func openSeedStore() (*wallet.SeedStore, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	store, err := wallet.NewSeedStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keystore: %w", err)
	}
	return store, nil
}

func unlockDevice() (*wallet.Device, error) {
	store, err := openSeedStore()
	if err != nil {
		return nil, err
	}
	if !store.Exists() {
		return nil, fmt.Errorf("no device seed found, run 'msgsign init' first")
	}

	password, err := readPassword("Enter device password: ")
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return store.Unlock(password)
}

// requestTarget resolves the network and keypath. A --keypath flag wins
// over the keypath config key.
func requestTarget(cmd *cobra.Command) (chain.Network, []uint32, error) {
	network, err := chain.Lookup(viper.GetString("network"))
	if err != nil {
		return 0, nil, err
	}

	path := viper.GetString("keypath")
	if f := cmd.Flags().Lookup("keypath"); f != nil && f.Changed {
		path = f.Value.String()
	}
	if path == "" {
		kp, err := wallet.DefaultKeypath(network, 0)
		return network, kp, err
	}
	kp, err := wallet.ParseKeypath(path)
	if err != nil {
		return 0, nil, err
	}
	return network, kp, nil
}

func readMnemonic(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("mnemonic-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read mnemonic file: %w", err)
		}
		return string(data), nil
	}
	return readPassword("Enter mnemonic: ")
}

func runInit(cmd *cobra.Command, args []string) error {
	store, err := openSeedStore()
	if err != nil {
		return err
	}
	if store.Exists() {
		return fmt.Errorf("%w: %s", wallet.ErrSeedExists, store.Path())
	}

	mnemonic, err := readMnemonic(cmd)
	if err != nil {
		return err
	}
	passphrase, err := readPassword("Enter BIP-39 passphrase (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read passphrase: %w", err)
	}

	seed, err := wallet.SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return err
	}
	defer func() {
		for i := range seed {
			seed[i] = 0
		}
	}()

	password, err := readPassword("Enter password for device: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %w", err)
	}

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	addr, err := store.Create(seed, password)
	if err != nil {
		return fmt.Errorf("failed to create device seed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.AcceptStyle.Render(ui.SymbolCheck+" Device initialized"))
	fmt.Fprintf(out, "Address: %s\n", addr.Hex())
	fmt.Fprintf(out, "Keystore: %s\n", store.Path())
	fmt.Fprintln(out, ui.WarningStyle.Render("\nIMPORTANT: Back up your mnemonic and remember your password!"))

	return nil
}

func runAddress(cmd *cobra.Command, args []string) error {
	network, keypath, err := requestTarget(cmd)
	if err != nil {
		return err
	}

	// The first mainnet address is recorded in the seed file.
	if network == chain.Ethereum && isFirstAddress(network, keypath) {
		store, err := openSeedStore()
		if err != nil {
			return err
		}
		if addr, err := store.Address(); err == nil {
			return printAddress(cmd.OutOrStdout(), network, keypath, addr.Hex())
		}
	}

	if network.Config().IsTestnet {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.WarningStyle.Render(
			fmt.Sprintf("%s is a testnet; sign-message only signs for %s", network.Config().Name, ethmsg.SupportedNetwork.Config().Name)))
	}

	dev, err := unlockDevice()
	if err != nil {
		return err
	}
	defer dev.Lock()

	addr, err := dev.Address(cmd.Context(), network, keypath)
	if err != nil {
		return err
	}
	return printAddress(cmd.OutOrStdout(), network, keypath, addr)
}

func isFirstAddress(network chain.Network, keypath []uint32) bool {
	first, err := wallet.DefaultKeypath(network, 0)
	if err != nil || len(first) != len(keypath) {
		return false
	}
	for i := range first {
		if first[i] != keypath[i] {
			return false
		}
	}
	return true
}

func printAddress(w io.Writer, network chain.Network, keypath []uint32, addr string) error {
	cfg := network.Config()
	_, err := fmt.Fprintf(w, "%s (%s, %s, chain id %s)\n", addr, wallet.FormatKeypath(keypath), cfg.Name, cfg.ChainID)
	return err
}
