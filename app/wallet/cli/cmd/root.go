// Package cmd contains wallet app
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var (
	accountName string
	accountPath string
	url         string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private", "Name of the private key file.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
}

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Your simple wallet",
}

// Execute runs the command selected by the arguments.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// privateKeyPath returns the key file for the account. A name without an
// extension is looked up as an RSA key first and a secp256k1 key second.
func privateKeyPath(folder string, name string) (string, error) {
	ext := filepath.Ext(name)
	if ext == signature.ExtRSA || ext == signature.ExtSecp256k1 {
		return filepath.Join(folder, name), nil
	}

	for _, ext := range []string{signature.ExtRSA, signature.ExtSecp256k1} {
		path := filepath.Join(folder, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no key file for account %q in %q", name, folder)
}

// loadSigner reads the key file for the account selected by the flags.
func loadSigner() (signature.Signer, error) {
	path, err := privateKeyPath(accountPath, accountName)
	if err != nil {
		return nil, err
	}

	return signature.LoadKeyFile(path)
}
