package signature

import (
	"fmt"
	"os"
	"path/filepath"
)

// List of the supported signing schemes.
const (
	SchemeRSA       = "rsa"
	SchemeSecp256k1 = "secp256k1"
)

// Key file extensions for each scheme.
const (
	ExtRSA       = ".pem"
	ExtSecp256k1 = ".ecdsa"
)

// GenerateKey constructs a new key pair for the named scheme.
func GenerateKey(scheme string) (Signer, error) {
	switch scheme {
	case SchemeRSA:
		return GenerateRSAKey()
	case SchemeSecp256k1:
		return GenerateSecp256k1Key()
	}

	return nil, fmt.Errorf("scheme %q does not exist", scheme)
}

// Extension returns the key file extension for the named scheme.
func Extension(scheme string) (string, error) {
	switch scheme {
	case SchemeRSA:
		return ExtRSA, nil
	case SchemeSecp256k1:
		return ExtSecp256k1, nil
	}

	return "", fmt.Errorf("scheme %q does not exist", scheme)
}

// SaveKeyFile writes the private key of the signer to the path.
func SaveKeyFile(path string, signer Signer) error {
	switch k := signer.(type) {
	case *RSAKey:
		data, err := k.PrivatePEM()
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0600)

	case *Secp256k1Key:
		return k.Save(path)
	}

	return fmt.Errorf("signer %T can't be saved", signer)
}

// LoadKeyFile reads a private key, choosing the scheme by file extension.
func LoadKeyFile(path string) (Signer, error) {
	switch filepath.Ext(path) {
	case ExtRSA:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return LoadRSAKey(data)

	case ExtSecp256k1:
		return LoadSecp256k1Key(path)
	}

	return nil, fmt.Errorf("file %q has no known key extension", path)
}
