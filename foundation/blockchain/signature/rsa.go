package signature

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

// RSAKeyBits is the modulus size of generated RSA keys.
const RSAKeyBits = 2048

// pssOptions selects the largest salt the key allows when signing and makes
// verification detect the salt length. MGF1 uses the signing hash.
var pssOptions = rsa.PSSOptions{
	SaltLength: rsa.PSSSaltLengthAuto,
	Hash:       crypto.SHA256,
}

// RSA is the RSA-PSS over SHA-256 scheme. Identities are PEM encoded PKIX
// public keys.
type RSA struct{}

// Name returns the name of the scheme.
func (RSA) Name() string {
	return SchemeRSA
}

// Owns reports whether the identity is a PEM public key.
func (RSA) Owns(identity string) bool {
	return strings.HasPrefix(strings.TrimSpace(identity), "-----BEGIN")
}

// Verify implements the Verifier interface.
func (RSA) Verify(identity string, data []byte, sig []byte) error {
	publicKey, err := parseRSAPublicKey([]byte(identity))
	if err != nil {
		return err
	}

	digest := sha256.Sum256(data)
	if err := rsa.VerifyPSS(publicKey, crypto.SHA256, digest[:], sig, &pssOptions); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	return nil
}

// =============================================================================

// RSAKey is an RSA private key implementing the Signer interface.
type RSAKey struct {
	privateKey *rsa.PrivateKey
	identity   string
}

// GenerateRSAKey constructs a new RSA key pair.
func GenerateRSAKey() (*RSAKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, RSAKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generating rsa key: %w", err)
	}

	return newRSAKey(privateKey)
}

// LoadRSAKey parses a PEM encoded PKCS8 (or PKCS1) private key.
func LoadRSAKey(privatePEM []byte) (*RSAKey, error) {
	block, _ := pem.Decode(privatePEM)
	if block == nil {
		return nil, errors.New("private key is not pem encoded")
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		privateKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("private key is a %T, not rsa", key)
		}
		return newRSAKey(privateKey)
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing rsa private key: %w", err)
	}

	return newRSAKey(privateKey)
}

// Identity implements the Signer interface.
func (k *RSAKey) Identity() string {
	return k.identity
}

// Sign implements the Signer interface.
func (k *RSAKey) Sign(data []byte) ([]byte, error) {
	digest := sha256.Sum256(data)

	sig, err := rsa.SignPSS(rand.Reader, k.privateKey, crypto.SHA256, digest[:], &pssOptions)
	if err != nil {
		return nil, fmt.Errorf("signing: %w", err)
	}

	return sig, nil
}

// PrivatePEM returns the private key as PEM encoded PKCS8.
func (k *RSAKey) PrivatePEM() ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(k.privateKey)
	if err != nil {
		return nil, err
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// =============================================================================

func newRSAKey(privateKey *rsa.PrivateKey) (*RSAKey, error) {
	der, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshaling public key: %w", err)
	}

	k := RSAKey{
		privateKey: privateKey,
		identity:   string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})),
	}

	return &k, nil
}

func parseRSAPublicKey(publicPEM []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(publicPEM)
	if block == nil {
		return nil, errors.New("public key is not pem encoded")
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}

	publicKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is a %T, not rsa", key)
	}

	return publicKey, nil
}
