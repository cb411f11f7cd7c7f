package database

import (
	"errors"
	"fmt"
	"strings"
)

// Set of errors for signing and validating transactions and blocks.
var (
	ErrAlreadySigned = errors.New("transaction is already signed")
	ErrUnsigned      = errors.New("transaction is not signed")
	ErrUnsolvable    = fmt.Errorf("difficulty can't exceed %d hex digits", MaxDifficulty)
)

// ValidationError is returned when a transaction is constructed with
// malformed fields.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("invalid transaction %s: %s", ve.Field, ve.Reason)
}

// =============================================================================

// TxError represents a transaction inside a block that failed validation.
type TxError struct {
	Position int
	Hash     string
	Err      error
}

// Error implements the error interface.
func (txe *TxError) Error() string {
	return fmt.Sprintf("tx[%d] %s: %s", txe.Position, txe.Hash, txe.Err)
}

// Unwrap returns the cause of the failure.
func (txe *TxError) Unwrap() error {
	return txe.Err
}

// TxErrors represents the set of transactions in a block that failed.
type TxErrors []*TxError

// Error implements the error interface.
func (txes TxErrors) Error() string {
	var sb strings.Builder
	for i, txe := range txes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(txe.Error())
	}

	return sb.String()
}
