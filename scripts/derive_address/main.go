// derive_address derives the first ZippyCoin receiving address from a BIP39
// mnemonic for testing.
//
// Usage:
//
//	go run ./scripts/derive_address "your 24 word seed phrase here"
//
// Or with stdin:
//
//	echo "your 24 word seed phrase" | go run ./scripts/derive_address
//
// The address is derived at m/44'/2187'/0'/0/0 with an empty BIP39
// passphrase, the same key a restored wallet shows as "Account 1".
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/complex-gh/zpcwallet"
)

func main() {
	var mnemonic string

	if len(os.Args) > 1 {
		mnemonic = strings.Join(os.Args[1:], " ")
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			mnemonic = strings.TrimSpace(scanner.Text())
		}
	}

	if mnemonic == "" {
		fmt.Fprintln(os.Stderr, "Usage: derive_address \"24 word seed phrase\"")
		fmt.Fprintln(os.Stderr, "   or: echo \"seed phrase\" | derive_address")
		os.Exit(1)
	}

	addr, err := deriveAddress(mnemonic)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(addr)
}

func deriveAddress(mnemonic string) (string, error) {
	seed, err := zpcwallet.DeriveSeed(mnemonic, "")
	if err != nil {
		return "", err
	}
	defer seed.Zero()

	master, err := zpcwallet.DeriveMaster(&seed, zpcwallet.DefaultConfig())
	if err != nil {
		return "", err
	}
	defer master.Zero()

	node, err := master.DerivePath(zpcwallet.ReceivingPath(zpcwallet.CoinType, 0))
	if err != nil {
		return "", err
	}
	defer node.Zero()

	pub, err := node.PublicKey()
	if err != nil {
		return "", err
	}
	return zpcwallet.EncodeAddress(pub), nil
}
