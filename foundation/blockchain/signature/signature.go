// Package signature provides the signing provider contract for the blockchain
// and the hashing helpers every other package relies on.
package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/ardanlabs/powledger/foundation/blockchain/canonical"
)

// InvalidHash is returned by Hash when a value can't be encoded. It can never
// satisfy a difficulty target or match a real hash.
const InvalidHash = ""

// Set of errors reported by the signing schemes.
var (
	ErrInvalidSignature = errors.New("signature does not match the data and identity")
	ErrUnknownScheme    = errors.New("identity does not belong to a known signing scheme")
)

// =============================================================================

// Signer represents a private key able to sign data. The identity is the
// public key in the text form recorded as a transaction sender.
type Signer interface {
	Identity() string
	Sign(data []byte) ([]byte, error)
}

// Verifier checks a signature against the identity that claims to have
// produced it. Any parsing or cryptographic fault is returned as an error.
type Verifier interface {
	Verify(identity string, data []byte, sig []byte) error
}

// Scheme is a Verifier that can recognize the identities it owns.
type Scheme interface {
	Verifier
	Name() string
	Owns(identity string) bool
}

// Schemes dispatches verification to the first scheme owning the identity.
type Schemes []Scheme

// Default is the set of schemes a node accepts.
var Default = Schemes{RSA{}, Secp256k1{}}

// Verify implements the Verifier interface.
func (s Schemes) Verify(identity string, data []byte, sig []byte) error {
	for _, scheme := range s {
		if scheme.Owns(identity) {
			return scheme.Verify(identity, data, sig)
		}
	}

	return ErrUnknownScheme
}

// =============================================================================

// Hash returns the hex encoded SHA-256 digest of the canonical encoding of the
// value.
func Hash(value any) string {
	data, err := canonical.Marshal(value)
	if err != nil {
		return InvalidHash
	}

	return HashBytes(data)
}

// HashBytes returns the hex encoded SHA-256 digest of the data.
func HashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
