package state

import (
	"errors"
	"fmt"
	"math"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
)

// ErrBalanceOverflow is returned when replaying the chain produces a balance
// outside the range of an int64.
var ErrBalanceOverflow = errors.New("balance overflows int64")

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// GenesisBlock returns the first block of the chain.
func (s *State) GenesisBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain[0]
}

// LatestBlock returns the last block appended to the chain.
func (s *State) LatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain[len(s.chain)-1]
}

// Blocks returns a snapshot of the chain. Changing the returned blocks has
// no effect on the chain.
func (s *State) Blocks() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks := make([]database.Block, len(s.chain))
	for i, block := range s.chain {
		block.Trans = append([]database.Tx(nil), block.Trans...)
		blocks[i] = block
	}

	return blocks
}

// Length returns the number of blocks in the chain including genesis.
func (s *State) Length() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.chain)
}

// Difficulty returns the number of leading zeros the next block must have.
func (s *State) Difficulty() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.difficulty
}

// BalanceOf replays the chain to calculate the balance of the account. Value
// sent subtracts and value received adds, so the result can be negative. An
// error is returned when the balance doesn't fit in an int64.
func (s *State) BalanceOf(account database.Identity) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var balance int64
	for _, block := range s.chain {
		for _, tx := range block.Trans {
			if tx.Sender != account && tx.Recipient != account {
				continue
			}

			if tx.Amount > database.MaxAmount {
				return 0, fmt.Errorf("block[%d] tx[%s]: %w", block.Index, tx, ErrBalanceOverflow)
			}
			amount := int64(tx.Amount)

			if tx.Sender == account {
				if balance < math.MinInt64+amount {
					return 0, fmt.Errorf("block[%d] tx[%s]: %w", block.Index, tx, ErrBalanceOverflow)
				}
				balance -= amount
			}

			if tx.Recipient == account {
				if balance > math.MaxInt64-amount {
					return 0, fmt.Errorf("block[%d] tx[%s]: %w", block.Index, tx, ErrBalanceOverflow)
				}
				balance += amount
			}
		}
	}

	return balance, nil
}
