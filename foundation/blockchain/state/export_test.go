package state

import "github.com/ardanlabs/powledger/foundation/blockchain/database"

// TamperAmount changes the amount of a transaction already in the chain.
func (s *State) TamperAmount(index int, pos int, amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trans := append([]database.Tx(nil), s.chain[index].Trans...)
	trans[pos].Amount = amount
	s.chain[index].Trans = trans
}

// ReplaceBlock swaps a block of the chain without any checks.
func (s *State) ReplaceBlock(index int, block database.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chain[index] = block
}
