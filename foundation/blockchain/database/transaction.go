package database

import (
	"fmt"
	"math"

	"github.com/ardanlabs/powledger/foundation/blockchain/canonical"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/clock"
)

// MaxAmount is the largest value a single transaction can move. Balances are
// signed, so an amount must fit in an int64.
const MaxAmount = math.MaxInt64

// Tx is a transfer of value between two parties.
type Tx struct {
	Sender    Identity `json:"sender"`    // Public key of the sender or the coinbase.
	Recipient Identity `json:"recipient"` // Public key of the party receiving the value.
	Amount    uint64   `json:"amount"`    // Value being transferred.
	TimeStamp int64    `json:"timestamp"` // Unix seconds when the transaction was created.
	Signature []byte   `json:"signature,omitempty"`
}

// NewTx constructs an unsigned transaction. A zero timestamp is replaced with
// the current system time.
func NewTx(sender Identity, recipient Identity, amount uint64, timeStamp int64) (Tx, error) {
	return NewSignedTx(sender, recipient, amount, timeStamp, nil)
}

// NewSignedTx constructs a transaction carrying an existing signature.
func NewSignedTx(sender Identity, recipient Identity, amount uint64, timeStamp int64, sig []byte) (Tx, error) {
	if timeStamp == 0 {
		timeStamp = clock.Unix(clock.System{})
	}

	tx := Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		TimeStamp: timeStamp,
		Signature: sig,
	}

	if err := tx.CheckFields(); err != nil {
		return Tx{}, err
	}

	return tx, nil
}

// CheckFields validates the structure of the transaction. Transactions that
// arrive already decoded must pass this before anything else.
func (tx Tx) CheckFields() error {
	if tx.Sender.IsZero() {
		return &ValidationError{Field: "sender", Reason: "must be a public key or the coinbase"}
	}

	if tx.Recipient.IsZero() {
		return &ValidationError{Field: "recipient", Reason: "must be a public key"}
	}

	if tx.Recipient.IsCoinbase() {
		return &ValidationError{Field: "recipient", Reason: "the coinbase can't receive value"}
	}

	if tx.Amount == 0 {
		return &ValidationError{Field: "amount", Reason: "must be a positive number"}
	}

	if tx.Amount > MaxAmount {
		return &ValidationError{Field: "amount", Reason: fmt.Sprintf("can't exceed %d", uint64(MaxAmount))}
	}

	return nil
}

// =============================================================================

// TxData is the dictionary form of a transaction. It's the exact input for
// the content hash, the signature and the block hash.
type TxData struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
	TimeStamp int64  `json:"timestamp"`
}

// Data returns the dictionary form of the transaction.
func (tx Tx) Data() TxData {
	return TxData{
		Sender:    tx.Sender.String(),
		Recipient: tx.Recipient.String(),
		Amount:    tx.Amount,
		TimeStamp: tx.TimeStamp,
	}
}

// Canonical returns the bytes that are hashed and signed.
func (tx Tx) Canonical() ([]byte, error) {
	return canonical.Marshal(tx.Data())
}

// ContentHash returns the unique hash for the transaction. The signature is
// not part of the hash.
func (tx Tx) ContentHash() string {
	return signature.Hash(tx.Data())
}

// =============================================================================

// Sign uses the signer to produce a signed copy of the transaction.
func (tx Tx) Sign(signer signature.Signer) (Tx, error) {
	if len(tx.Signature) > 0 {
		return Tx{}, ErrAlreadySigned
	}

	data, err := tx.Canonical()
	if err != nil {
		return Tx{}, err
	}

	sig, err := signer.Sign(data)
	if err != nil {
		return Tx{}, err
	}

	tx.Signature = sig
	return tx, nil
}

// Validate verifies the transaction carries a signature produced by the
// sender over the canonical form. Coinbase transactions need no signature.
func (tx Tx) Validate(verifier signature.Verifier) error {
	if tx.Sender.IsCoinbase() {
		return nil
	}

	if len(tx.Signature) == 0 {
		return ErrUnsigned
	}

	data, err := tx.Canonical()
	if err != nil {
		return err
	}

	if err := verifier.Verify(tx.Sender.String(), data, tx.Signature); err != nil {
		return fmt.Errorf("verifying signature: %w", err)
	}

	return nil
}

// IsValid reports whether Validate succeeds. The cause of a failure is only
// available through Validate.
func (tx Tx) IsValid(verifier signature.Verifier) bool {
	return tx.Validate(verifier) == nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.Sender.Short(), tx.Recipient.Short(), tx.Amount)
}
