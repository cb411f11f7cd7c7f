package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var scheme string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&scheme, "scheme", "s", signature.SchemeRSA, "Signing scheme: rsa or secp256k1.")
}

func generateRun(cmd *cobra.Command, args []string) {
	path, err := generate(accountPath, accountName, scheme)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Key written to:", path)
}

// generate creates a key pair for the scheme and writes the private key into
// the folder. An existing key file is never overwritten.
func generate(folder string, name string, scheme string) (string, error) {
	ext, err := signature.Extension(scheme)
	if err != nil {
		return "", err
	}

	signer, err := signature.GenerateKey(scheme)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(folder, 0700); err != nil {
		return "", err
	}

	path := filepath.Join(folder, strings.TrimSuffix(name, filepath.Ext(name))+ext)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("key file %q already exists", path)
	}

	if err := signature.SaveKeyFile(path, signer); err != nil {
		return "", err
	}

	return path, nil
}
