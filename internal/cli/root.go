package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yolodolo42/msgsign/internal/ethmsg"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "msgsign",
		Short: "Sign Ethereum messages with explicit confirmation",
		Long: `msgsign signs EIP-191 personal messages with keys derived from an
encrypted HD seed.

Every signature requires two confirmations: the signing address, and a
preview of the message. Nothing is hashed or signed until both are accepted.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(viper.GetString("log_level"), cmd.ErrOrStderr())
		},
	}
)

// Exit statuses for signing outcomes.
const (
	exitOK           = 0
	exitFailure      = 1
	exitInvalidInput = 2
	exitUserAbort    = 3
	exitUnknown      = 4
)

// Execute runs the root command, cancelling on interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var se *signError
	if !errors.As(err, &se) {
		return exitFailure
	}
	switch ethmsg.Code(se.err) {
	case ethmsg.CodeInvalidInput:
		return exitInvalidInput
	case ethmsg.CodeUserAbort:
		return exitUserAbort
	default:
		return exitUnknown
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.msgsign/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (default is $HOME/.msgsign)")
	rootCmd.PersistentFlags().String("network", "ethereum", "Network to derive addresses for")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("network", rootCmd.PersistentFlags().Lookup("network"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetDefault("history", true)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(defaultDataDir())
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("msgsign")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Silently ignore missing config file - it's optional
	_ = viper.ReadInConfig()
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".msgsign"
	}
	return filepath.Join(home, ".msgsign")
}

// dataDir returns the configured data directory, creating it if needed.
func dataDir() (string, error) {
	dir := viper.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

func setupLogging(level string, w io.Writer) error {
	lvl := zerolog.WarnLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	return nil
}
