// Package main provides the zpcwallet CLI for creating, unlocking and using a
// ZippyCoin self-custody wallet.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/complex-gh/zpcwallet"
	"github.com/kelseyhightower/envconfig"
	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

// envConfig is read from ZPC_* environment variables. Flags given on the
// command line take precedence.
type envConfig struct {
	WalletFile string `envconfig:"WALLET_FILE"`
	Network    string `envconfig:"NETWORK" default:"mainnet"`
	CoinType   uint32 `envconfig:"COIN_TYPE" default:"2187"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	Language   string `envconfig:"LANGUAGE" default:"en"`
}

var (
	walletFile  string
	networkName string
	coinType    uint32
	logLevel    string
	language    string

	// Resolved in PersistentPreRunE.
	walletCfg zpcwallet.Config

	rootCmd = &cobra.Command{
		Use:   "zpcwallet",
		Short: "ZippyCoin self-custody wallet",
		Long: `ZippyCoin self-custody wallet.

All account keys are derived from a single recovery phrase. The root seed
is stored encrypted under your wallet passphrase and is only held in memory
while a command runs.

SECURITY TIP: Never pass a recovery phrase as a command argument. Pipe it
on stdin or type it when prompted, so it does not end up in your shell
history.`,
		Example: `  zpcwallet create --name "Savings"
  zpcwallet restore < phrase.txt
  zpcwallet account 0 1 2
  zpcwallet receive 0
  echo -n "payload" | zpcwallet sign 0 --algorithm quantum
  zpcwallet validate zpc1cd86a1e04e028fd5d7b20514ae7c858beef9451`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	manCmd = &cobra.Command{
		Use:          "man",
		Args:         cobra.NoArgs,
		Short:        "generate man pages",
		Hidden:       true,
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			manPage, err := mcobra.NewManPage(1, rootCmd)
			if err != nil {
				//nolint: wrapcheck
				return err
			}
			manPage = manPage.WithSection("Copyright", "(C) 2025-2026 complex.\n"+
				"Released under MIT license.")
			fmt.Println(manPage.Build(roff.NewDocument()))
			return nil
		},
	}

	// completionCmd generates shell completion scripts for bash, zsh, fish, and powershell.
	completionCmd = &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for zpcwallet.

To load completions:

Bash:
  $ source <(zpcwallet completion bash)

Zsh:
  $ zpcwallet completion zsh > "${fpath[1]}/_zpcwallet"

Fish:
  $ zpcwallet completion fish | source

PowerShell:
  PS> zpcwallet completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		SilenceUsage:          true,
		RunE: func(_ *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unknown shell: %s", args[0])
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&walletFile, "wallet", "f", "", "Wallet file (default ~/.zpcwallet/wallet.json)")
	rootCmd.PersistentFlags().StringVarP(&networkName, "network", "n", "", "Network: mainnet, testnet or devnet")
	rootCmd.PersistentFlags().Uint32Var(&coinType, "coin-type", 0, "BIP44 coin type")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, critical, off")
	rootCmd.PersistentFlags().StringVarP(&language, "language", "l", "", "Recovery phrase language")

	rootCmd.AddCommand(
		createCmd,
		restoreCmd,
		accountCmd,
		signCmd,
		verifyCmd,
		validateCmd,
		receiveCmd,
		backupCmd,
		upgradeCmd,
		fingerprintCmd,
		manCmd,
		completionCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// setup merges the environment into any flag the user did not set, then
// configures logging, the wordlist and the wallet config.
func setup(cmd *cobra.Command, _ []string) error {
	var env envConfig
	if err := envconfig.Process("zpc", &env); err != nil {
		return fmt.Errorf("failed to process environment: %w", err)
	}

	flags := cmd.Flags()
	if !flags.Changed("wallet") {
		walletFile = env.WalletFile
	}
	if !flags.Changed("network") {
		networkName = env.Network
	}
	if !flags.Changed("coin-type") {
		coinType = env.CoinType
	}
	if !flags.Changed("log-level") {
		logLevel = env.LogLevel
	}
	if !flags.Changed("language") {
		language = env.Language
	}

	if walletFile == "" {
		path, err := defaultWalletFile()
		if err != nil {
			return err
		}
		walletFile = path
	}

	if err := setupLogging(logLevel); err != nil {
		return err
	}
	if err := setLanguage(language); err != nil {
		return err
	}

	network, err := zpcwallet.ParseNetwork(networkName)
	if err != nil {
		return err
	}
	walletCfg, err = zpcwallet.NewConfig(network, coinType)
	return err
}

func defaultWalletFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory: %w", err)
	}
	return filepath.Join(home, ".zpcwallet", "wallet.json"), nil
}

// setupLogging routes the wallet's logger to stderr at the given level.
func setupLogging(level string) error {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("invalid log level %q", level)
	}

	logger := btclog.NewBackend(os.Stderr).Logger("ZPCW")
	logger.SetLevel(lvl)
	zpcwallet.UseLogger(logger)

	return nil
}

// openWallet returns a locked handle over the configured wallet file.
func openWallet() (*zpcwallet.Wallet, error) {
	//nolint: wrapcheck
	return zpcwallet.New(walletCfg, zpcwallet.NewFileStore(walletFile))
}

// unlockWallet opens the wallet and unlocks it with a passphrase read from
// the terminal. The caller must Lock the returned wallet.
func unlockWallet() (*zpcwallet.Wallet, error) {
	w, err := openWallet()
	if err != nil {
		return nil, err
	}

	pass, err := readPassword("Wallet passphrase: ")
	if err != nil {
		return nil, err
	}
	defer clear(pass)

	if err := w.Unlock(string(pass)); err != nil {
		if errors.Is(err, zpcwallet.ErrDecryptionFailed) {
			return nil, fmt.Errorf("could not unlock wallet: wrong passphrase or damaged wallet file")
		}
		return nil, fmt.Errorf("could not unlock wallet: %w", err)
	}
	return w, nil
}
