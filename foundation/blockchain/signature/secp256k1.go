package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Secp256k1 is the ECDSA scheme used by Ethereum, applied to the SHA-256
// digest of the data. Identities are 0x prefixed hex encoded uncompressed
// public keys.
type Secp256k1 struct{}

// Name returns the name of the scheme.
func (Secp256k1) Name() string {
	return SchemeSecp256k1
}

// Owns reports whether the identity looks like an uncompressed public key.
func (Secp256k1) Owns(identity string) bool {
	return len(identity) == 2+2*65 && strings.HasPrefix(identity, "0x04")
}

// Verify implements the Verifier interface.
func (Secp256k1) Verify(identity string, data []byte, sig []byte) error {
	publicKey, err := hexutil.Decode(identity)
	if err != nil {
		return fmt.Errorf("decoding public key: %w", err)
	}

	if _, err := crypto.UnmarshalPubkey(publicKey); err != nil {
		return fmt.Errorf("parsing public key: %w", err)
	}

	if len(sig) != crypto.SignatureLength {
		return fmt.Errorf("%w: length %d, exp %d", ErrInvalidSignature, len(sig), crypto.SignatureLength)
	}

	// The recovery id is not part of the verification.
	digest := sha256.Sum256(data)
	if !crypto.VerifySignature(publicKey, digest[:], sig[:crypto.RecoveryIDOffset]) {
		return ErrInvalidSignature
	}

	return nil
}

// =============================================================================

// Secp256k1Key is an ECDSA private key implementing the Signer interface.
type Secp256k1Key struct {
	privateKey *ecdsa.PrivateKey
	identity   string
}

// GenerateSecp256k1Key constructs a new secp256k1 key pair.
func GenerateSecp256k1Key() (*Secp256k1Key, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating secp256k1 key: %w", err)
	}

	return newSecp256k1Key(privateKey), nil
}

// HexToSecp256k1Key parses a hex encoded private key.
func HexToSecp256k1Key(hexKey string) (*Secp256k1Key, error) {
	privateKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("parsing secp256k1 key: %w", err)
	}

	return newSecp256k1Key(privateKey), nil
}

// LoadSecp256k1Key reads a hex encoded private key from a file.
func LoadSecp256k1Key(path string) (*Secp256k1Key, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return nil, fmt.Errorf("loading secp256k1 key: %w", err)
	}

	return newSecp256k1Key(privateKey), nil
}

// Identity implements the Signer interface.
func (k *Secp256k1Key) Identity() string {
	return k.identity
}

// Sign implements the Signer interface. The signature is in the 65 byte
// [R|S|V] format.
func (k *Secp256k1Key) Sign(data []byte) ([]byte, error) {
	digest := sha256.Sum256(data)

	sig, err := crypto.Sign(digest[:], k.privateKey)
	if err != nil {
		return nil, fmt.Errorf("signing: %w", err)
	}

	return sig, nil
}

// Save writes the private key to the file in hex.
func (k *Secp256k1Key) Save(path string) error {
	return crypto.SaveECDSA(path, k.privateKey)
}

func newSecp256k1Key(privateKey *ecdsa.PrivateKey) *Secp256k1Key {
	return &Secp256k1Key{
		privateKey: privateKey,
		identity:   hexutil.Encode(crypto.FromECDSAPub(&privateKey.PublicKey)),
	}
}
