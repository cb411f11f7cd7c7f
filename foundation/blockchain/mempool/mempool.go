// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// ErrInvalidTransaction is returned when a transaction that fails validation
// is added to the pool.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Mempool represents the set of transactions waiting to be mined, kept in
// insertion order with a second key on the transaction content hash.
type Mempool struct {
	mu       sync.RWMutex
	pending  []database.Tx
	hashes   map[string]struct{}
	verifier signature.Verifier
}

// New constructs a new mempool validating transactions with the verifier.
func New(verifier signature.Verifier) *Mempool {
	return &Mempool{
		hashes:   make(map[string]struct{}),
		verifier: verifier,
	}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pending)
}

// Add appends the transaction to the pool. It returns false without any
// change when a transaction with the same content hash is already pending.
func (mp *Mempool) Add(tx database.Tx) (bool, error) {
	if err := tx.Validate(mp.verifier); err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	hash := tx.ContentHash()

	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, exists := mp.hashes[hash]; exists {
		return false, nil
	}

	mp.pending = append(mp.pending, tx)
	mp.hashes[hash] = struct{}{}

	return true, nil
}

// Remove deletes the specified transactions from the pool. Transactions that
// are not pending are ignored.
func (mp *Mempool) Remove(trans []database.Tx) {
	remove := make(map[string]struct{}, len(trans))
	for _, tx := range trans {
		remove[tx.ContentHash()] = struct{}{}
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	pending := mp.pending[:0]
	for _, tx := range mp.pending {
		hash := tx.ContentHash()
		if _, exists := remove[hash]; exists {
			delete(mp.hashes, hash)
			continue
		}
		pending = append(pending, tx)
	}

	// Clear the tail so removed transactions can be collected.
	clear(mp.pending[len(pending):])
	mp.pending = pending
}

// Take returns up to howMany pending transactions in insertion order without
// removing them. Receiving -1 for howMany returns all of them.
func (mp *Mempool) Take(howMany int) []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	if howMany < 0 || howMany > len(mp.pending) {
		howMany = len(mp.pending)
	}

	trans := make([]database.Tx, howMany)
	copy(trans, mp.pending)

	return trans
}

// Contains reports whether a transaction with the content hash is pending.
func (mp *Mempool) Contains(hash string) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	_, exists := mp.hashes[hash]
	return exists
}

// Copy returns all the pending transactions in insertion order.
func (mp *Mempool) Copy() []database.Tx {
	return mp.Take(-1)
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pending = nil
	mp.hashes = make(map[string]struct{})
}
