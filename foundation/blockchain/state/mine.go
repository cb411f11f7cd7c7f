package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// ErrNoTransactions is returned when a block is requested to be created
// and there are not enough transactions.
var ErrNoTransactions = errors.New("no transactions in mempool")

// =============================================================================

// MineNewBlock takes the next batch of transactions from the mempool and
// mines them into a new block. The transactions leave the mempool only when
// the block is appended.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.muMine.Lock()
	defer s.muMine.Unlock()

	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	trans := s.mempool.Take(s.genesis.TransPerBlock)
	if len(trans) == 0 {
		return database.Block{}, ErrNoTransactions
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW: Txs[%d]", len(trans))

	block, err := s.addBlock(ctx, trans)
	if err != nil {
		return database.Block{}, err
	}

	s.mempool.Remove(trans)
	s.metrics.SetMempoolSize(s.mempool.Count())

	return block, nil
}

// AddBlock builds the block following the latest block, mines it at the
// current difficulty and appends it to the chain. The mining can be
// cancelled through the context.
func (s *State) AddBlock(ctx context.Context, trans []database.Tx) (database.Block, error) {
	s.muMine.Lock()
	defer s.muMine.Unlock()

	return s.addBlock(ctx, trans)
}

// AdjustDifficulty runs the difficulty strategy over the chain and returns
// the difficulty for the next block.
func (s *State) AdjustDifficulty() uint {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.adjustDifficulty()
}

// =============================================================================

// addBlock performs the work of AddBlock. The caller must hold muMine.
func (s *State) addBlock(ctx context.Context, trans []database.Tx) (database.Block, error) {
	for i, tx := range trans {
		if err := tx.CheckFields(); err != nil {
			return database.Block{}, fmt.Errorf("tx[%d]: %w", i, err)
		}
	}

	args := database.POWArgs{
		PrevBlock:  s.LatestBlock(),
		Trans:      trans,
		TimeStamp:  s.clock.Now().Unix(),
		Difficulty: s.Difficulty(),
		Workers:    s.workers,
		EvHandler:  database.EventHandler(s.evHandler),
	}

	sol, err := database.POW(ctx, args)
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: addBlock: MINING: update local state: blk[%d] attempts[%d]", sol.Block.Index, sol.Attempts)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.chain = append(s.chain, sol.Block)
	s.adjustDifficulty()

	s.metrics.BlockMined(sol.Attempts)
	s.metrics.SetChain(len(s.chain), s.difficulty)

	return sol.Block, nil
}

// adjustDifficulty applies the strategy. The caller must hold mu.
func (s *State) adjustDifficulty() uint {
	next := s.strategy(s.chain, s.difficulty)
	if next > database.MaxDifficulty {
		next = database.MaxDifficulty
	}

	if next != s.difficulty {
		s.evHandler("state: adjustDifficulty: difficulty[%d] -> difficulty[%d]", s.difficulty, next)
		s.difficulty = next
	}

	return s.difficulty
}
