package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/complex-gh/zpcwallet"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

var (
	walletName     string
	seedPassphrase bool
	force          bool
	newAccount     bool
	showXpub       bool
	jsonOutput     bool
	algorithm      string
	message        string
	signatureHex   string
	backupFile     string

	createCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a new wallet",
		Long: `Create a new wallet from 256 bits of fresh entropy.

The 24-word recovery phrase is printed once. Anyone holding it controls
every account of the wallet.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			w, err := openFreshWallet()
			if err != nil {
				return err
			}

			creds, err := readCredentials()
			if err != nil {
				return err
			}

			gen, err := w.Generate(walletName, creds)
			if err != nil {
				return err //nolint: wrapcheck
			}
			defer w.Lock()

			printMnemonic(gen.Mnemonic)
			printField("Wallet", walletFile)
			return printAccounts(w, gen.Accounts)
		},
	}

	restoreCmd = &cobra.Command{
		Use:   "restore",
		Short: "Restore a wallet from its recovery phrase",
		Long: `Restore a wallet from its recovery phrase.

The phrase is read from stdin when piped, otherwise it is prompted for on
the terminal without echo.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			w, err := openFreshWallet()
			if err != nil {
				return err
			}

			mnemonic, err := readMnemonic()
			if err != nil {
				return err
			}
			// Fail before asking for passphrases.
			if err := zpcwallet.ValidateMnemonic(mnemonic); err != nil {
				return err //nolint: wrapcheck
			}

			creds, err := readCredentials()
			if err != nil {
				return err
			}

			accounts, err := w.Restore(mnemonic, walletName, creds)
			if err != nil {
				return err //nolint: wrapcheck
			}
			defer w.Lock()

			printField("Wallet", walletFile)
			return printAccounts(w, accounts)
		},
	}

	accountCmd = &cobra.Command{
		Use:   "account [index...]",
		Short: "Show accounts",
		Long: `Show accounts by index. Without an index every opened account is shown.

Use --new to open the next account.`,
		Example: `  zpcwallet account
  zpcwallet account 0 3
  zpcwallet account --new
  zpcwallet account 0 --xpub`,
		RunE: func(_ *cobra.Command, args []string) error {
			indices, err := parseIndices(args)
			if err != nil {
				return err
			}

			w, err := unlockWallet()
			if err != nil {
				return err
			}
			defer w.Lock()

			if newAccount {
				acct, err := w.AddAccount()
				if err != nil {
					return err //nolint: wrapcheck
				}
				return printAccounts(w, []zpcwallet.WalletAccount{acct})
			}

			if len(indices) == 0 {
				for i := 0; i < w.AccountCount(); i++ {
					indices = append(indices, uint32(i))
				}
			}

			accounts := make([]zpcwallet.WalletAccount, 0, len(indices))
			for _, idx := range indices {
				acct, err := w.DeriveAccount(idx)
				if err != nil {
					return err //nolint: wrapcheck
				}
				accounts = append(accounts, acct)
			}
			return printAccounts(w, accounts)
		},
	}

	signCmd = &cobra.Command{
		Use:   "sign <index>",
		Short: "Sign a payload with an account key",
		Long: `Sign a payload with the account key at m/44'/coin'/account'.

The payload is taken from --message or read from stdin. The signature is
printed as JSON with its algorithm tag.`,
		Example: `  zpcwallet sign 0 --message "hello"
  cat tx.json | zpcwallet sign 0 --algorithm quantum`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			algo, err := parseAlgorithm(algorithm)
			if err != nil {
				return err
			}
			payload, err := readPayload(message, cmd.Flags().Changed("message"))
			if err != nil {
				return err
			}

			w, err := unlockWallet()
			if err != nil {
				return err
			}
			defer w.Lock()

			sig, err := w.Sign(idx, payload, algo)
			if err != nil {
				return err //nolint: wrapcheck
			}
			return printJSON(sig)
		},
	}

	verifyCmd = &cobra.Command{
		Use:     "verify <index>",
		Short:   "Verify a signature against an account key",
		Example: `  zpcwallet verify 0 --message "hello" --signature 3045... --algorithm classical`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			algo, err := parseAlgorithm(algorithm)
			if err != nil {
				return err
			}
			if signatureHex == "" {
				return errors.New("--signature is required")
			}
			payload, err := readPayload(message, cmd.Flags().Changed("message"))
			if err != nil {
				return err
			}

			w, err := unlockWallet()
			if err != nil {
				return err
			}
			defer w.Lock()

			sig := zpcwallet.Signature{SignatureHex: signatureHex, Algorithm: algo.ID()}
			if err := w.Verify(idx, payload, sig); err != nil {
				return err //nolint: wrapcheck
			}
			fmt.Println("Signature is valid.")
			return nil
		},
	}

	validateCmd = &cobra.Command{
		Use:   "validate <address>",
		Short: "Check that an address is well formed",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := zpcwallet.ValidateAddress(args[0]); err != nil {
				return err //nolint: wrapcheck
			}
			fmt.Println("Address is valid.")
			return nil
		},
	}

	receiveCmd = &cobra.Command{
		Use:   "receive <index>",
		Short: "Show an account's receiving address as a QR code",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			idx, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			w, err := unlockWallet()
			if err != nil {
				return err
			}
			defer w.Lock()

			acct, err := w.DeriveAccount(idx)
			if err != nil {
				return err //nolint: wrapcheck
			}

			qr, err := qrcode.New(acct.Address, qrcode.Medium)
			if err != nil {
				return fmt.Errorf("failed to create QR code: %w", err)
			}
			fmt.Print(qr.ToSmallString(false))
			printField(acct.DisplayName, acct.Address)
			return nil
		},
	}

	backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Export the root seed encrypted under a backup passphrase",
		Long: `Export the root seed encrypted under a backup passphrase.

The backup is a JSON object with the fields encryptedSeed, salt and iv. It
is written to --out, or to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			w, err := unlockWallet()
			if err != nil {
				return err
			}
			defer w.Lock()

			pass, err := readNewPassword("Backup passphrase: ")
			if err != nil {
				return err
			}
			defer clear(pass)

			blob, err := w.Backup(string(pass))
			if err != nil {
				return err //nolint: wrapcheck
			}

			if backupFile == "" {
				return printJSON(blob)
			}

			b, err := json.MarshalIndent(blob, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal backup: %w", err)
			}
			if err := os.WriteFile(backupFile, append(b, '\n'), 0o600); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}
			printField("Backup", backupFile)
			return nil
		},
	}

	upgradeCmd = &cobra.Command{
		Use:   "upgrade",
		Short: "Re-encrypt the wallet file with the current vault parameters",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			w, err := openWallet()
			if err != nil {
				return err
			}

			pass, err := readPassword("Wallet passphrase: ")
			if err != nil {
				return err
			}
			defer clear(pass)

			upgraded, err := w.UpgradeVault(string(pass))
			if err != nil {
				return err //nolint: wrapcheck
			}
			if upgraded {
				fmt.Println("Wallet file upgraded.")
			} else {
				fmt.Println("Wallet file is up to date.")
			}
			return nil
		},
	}

	fingerprintCmd = &cobra.Command{
		Use:   "fingerprint",
		Short: "Show the master key fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			w, err := unlockWallet()
			if err != nil {
				return err
			}
			defer w.Lock()

			fp, err := w.MasterFingerprint()
			if err != nil {
				return err //nolint: wrapcheck
			}
			fmt.Println(fp)
			return nil
		},
	}
)

func init() {
	for _, cmd := range []*cobra.Command{createCmd, restoreCmd} {
		cmd.Flags().StringVar(&walletName, "name", "", "Wallet name")
		cmd.Flags().BoolVar(&seedPassphrase, "seed-passphrase", false, "Prompt for an optional BIP39 passphrase")
		cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing wallet file")
	}

	accountCmd.Flags().BoolVar(&newAccount, "new", false, "Open the next account")
	for _, cmd := range []*cobra.Command{createCmd, restoreCmd, accountCmd} {
		cmd.Flags().BoolVar(&showXpub, "xpub", false, "Also show each account's extended public key")
		cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print accounts as JSON")
	}

	for _, cmd := range []*cobra.Command{signCmd, verifyCmd} {
		cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "classical", "Signature algorithm: classical or quantum")
		cmd.Flags().StringVarP(&message, "message", "m", "", "Payload to sign or verify (default: stdin)")
	}
	verifyCmd.Flags().StringVarP(&signatureHex, "signature", "s", "", "Hex encoded signature")

	backupCmd.Flags().StringVarP(&backupFile, "out", "o", "", "Write the backup to this file")
}

// openFreshWallet returns a locked handle, refusing to overwrite an
// existing wallet file unless --force is set.
func openFreshWallet() (*zpcwallet.Wallet, error) {
	store := zpcwallet.NewFileStore(walletFile)
	_, err := store.LoadRecord()
	switch {
	case err == nil && !force:
		return nil, fmt.Errorf("a wallet already exists at %s (use --force to replace it)", walletFile)
	case err != nil && !errors.Is(err, zpcwallet.ErrNoWallet):
		return nil, err //nolint: wrapcheck
	}

	//nolint: wrapcheck
	return zpcwallet.New(walletCfg, store)
}

// readCredentials prompts for the vault passphrase and, with
// --seed-passphrase, the BIP39 passphrase.
func readCredentials() (zpcwallet.Credentials, error) {
	pass, err := readNewPassword("New wallet passphrase: ")
	if err != nil {
		return zpcwallet.Credentials{}, err
	}
	defer clear(pass)

	creds := zpcwallet.Credentials{Passphrase: string(pass)}
	if seedPassphrase {
		sp, err := readNewPassword("BIP39 passphrase: ")
		if err != nil {
			return zpcwallet.Credentials{}, err
		}
		defer clear(sp)
		creds.SeedPassphrase = string(sp)
	}
	return creds, nil
}

func parseIndex(s string) (uint32, error) {
	idx, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid account index %q", s)
	}
	return uint32(idx), nil
}

func parseIndices(args []string) ([]uint32, error) {
	indices := make([]uint32, 0, len(args))
	for _, arg := range args {
		idx, err := parseIndex(arg)
		if err != nil {
			return nil, err
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

func parseAlgorithm(name string) (zpcwallet.Algorithm, error) {
	switch name {
	case "classical", "ecdsa":
		return zpcwallet.Classical{}, nil
	case "quantum", "qr":
		return zpcwallet.QuantumResistant{}, nil
	default:
		//nolint: wrapcheck
		return zpcwallet.AlgorithmByID(name)
	}
}

// accountOutput is the JSON form of an account, optionally with its xpub.
type accountOutput struct {
	zpcwallet.WalletAccount
	ExtendedPublicKey string `json:"xpub,omitempty"`
}

func printAccounts(w *zpcwallet.Wallet, accounts []zpcwallet.WalletAccount) error {
	out := make([]accountOutput, 0, len(accounts))
	for _, acct := range accounts {
		o := accountOutput{WalletAccount: acct}
		if showXpub {
			xpub, err := w.AccountExtendedPublicKey(acct.Index)
			if err != nil {
				return err //nolint: wrapcheck
			}
			o.ExtendedPublicKey = xpub
		}
		out = append(out, o)
	}

	if jsonOutput {
		return printJSON(out)
	}

	for _, o := range out {
		fmt.Println()
		printField(o.DisplayName, o.Address)
		printField("  Path", o.DerivationPath)
		printField("  Public key", o.PublicKeyHex)
		if o.ExtendedPublicKey != "" {
			printField("  xpub", o.ExtendedPublicKey)
		}
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
