// Package database defines the transactions and blocks held by the
// blockchain along with the proof of work that seals a block.
package database

import (
	"strings"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// GenesisPrevHash is the previous hash recorded by the genesis block.
const GenesisPrevHash = "0"

// MaxDifficulty is the number of hex digits in a hash.
const MaxDifficulty = 64

// =============================================================================

// Block represents a group of transactions batched together.
type Block struct {
	Index     uint64 // Position of the block in the chain.
	PrevHash  string // Hash of the previous block in the chain.
	TimeStamp int64  // Unix seconds when the block was created.
	Nonce     uint64 // Value identified to solve the hash solution.
	Trans     []Tx   // Transactions in the order they are hashed.

	hash string
}

// NewBlock constructs a block and computes its hash.
func NewBlock(index uint64, prevHash string, trans []Tx, timeStamp int64, nonce uint64) Block {
	b := Block{
		Index:     index,
		PrevHash:  prevHash,
		TimeStamp: timeStamp,
		Nonce:     nonce,
		Trans:     append([]Tx(nil), trans...),
	}
	b.hash = b.CalculateHash()

	return b
}

// NewGenesisBlock constructs the first block of a chain holding the single
// issuance transaction. The genesis block is never mined.
func NewGenesisBlock(recipient Identity, reward uint64, timeStamp int64) (Block, error) {
	tx, err := NewTx(Coinbase, recipient, reward, timeStamp)
	if err != nil {
		return Block{}, err
	}

	return NewBlock(0, GenesisPrevHash, []Tx{tx}, timeStamp, 0), nil
}

// Hash returns the hash stored for the block.
func (b Block) Hash() string {
	return b.hash
}

// CalculateHash recomputes the hash from the current content of the block.
func (b Block) CalculateHash() string {
	return signature.Hash(b.Data())
}

// IsSolved reports whether the stored hash meets the difficulty.
func (b Block) IsSolved(difficulty uint) bool {
	return IsHashSolved(difficulty, b.hash)
}

// BlockData is the dictionary form of a block used for hashing.
type BlockData struct {
	Index     uint64   `json:"index"`
	PrevHash  string   `json:"previous_hash"`
	TimeStamp int64    `json:"timestamp"`
	Nonce     uint64   `json:"nonce"`
	Trans     []TxData `json:"transactions"`
}

// Data returns the dictionary form of the block.
func (b Block) Data() BlockData {
	trans := make([]TxData, len(b.Trans))
	for i, tx := range b.Trans {
		trans[i] = tx.Data()
	}

	return BlockData{
		Index:     b.Index,
		PrevHash:  b.PrevHash,
		TimeStamp: b.TimeStamp,
		Nonce:     b.Nonce,
		Trans:     trans,
	}
}

// =============================================================================

// ValidateTransactions checks every transaction in the block and returns
// all the failures.
func (b Block) ValidateTransactions(verifier signature.Verifier) error {
	var txErrs TxErrors
	for i, tx := range b.Trans {
		if err := tx.Validate(verifier); err != nil {
			txErrs = append(txErrs, &TxError{Position: i, Hash: tx.ContentHash(), Err: err})
		}
	}

	if len(txErrs) > 0 {
		return txErrs
	}

	return nil
}

// HasValidTransactions reports whether every transaction in the block is
// valid.
func (b Block) HasValidTransactions(verifier signature.Verifier) bool {
	return b.ValidateTransactions(verifier) == nil
}

// =============================================================================

// BlockFS represents the block as it's presented outside the node.
type BlockFS struct {
	Hash      string `json:"hash"`
	Index     uint64 `json:"index"`
	PrevHash  string `json:"previous_hash"`
	TimeStamp int64  `json:"timestamp"`
	Nonce     uint64 `json:"nonce"`
	Trans     []Tx   `json:"transactions"`
}

// NewBlockFS constructs the value to serialize. The stored hash is recorded
// as is, so a block altered after hashing shows the mismatch.
func NewBlockFS(b Block) BlockFS {
	return BlockFS{
		Hash:      b.hash,
		Index:     b.Index,
		PrevHash:  b.PrevHash,
		TimeStamp: b.TimeStamp,
		Nonce:     b.Nonce,
		Trans:     append([]Tx(nil), b.Trans...),
	}
}

// =============================================================================

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if len(hash) != MaxDifficulty || difficulty > MaxDifficulty {
		return false
	}

	return strings.Count(hash[:difficulty], "0") == int(difficulty)
}
