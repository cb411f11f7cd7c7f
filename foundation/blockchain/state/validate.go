package state

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"go.uber.org/multierr"
)

// Set of checks performed on every block after genesis.
const (
	CheckHash         = "hash"
	CheckLink         = "link"
	CheckTransactions = "transactions"
)

// ChainError identifies a block of the chain that failed a check.
type ChainError struct {
	Index uint64
	Check string
	Err   error
}

// Error implements the error interface.
func (ce *ChainError) Error() string {
	return fmt.Sprintf("block[%d] failed %s check: %s", ce.Index, ce.Check, ce.Err)
}

// Unwrap returns the cause of the failure.
func (ce *ChainError) Unwrap() error {
	return ce.Err
}

// =============================================================================

// Validate checks every block after genesis and returns a *ChainError for
// the first block that fails.
func (s *State) Validate() error {
	blocks := s.Blocks()

	for i := 1; i < len(blocks); i++ {
		if errs := s.checkBlock(blocks[i], blocks[i-1]); len(errs) > 0 {
			s.metrics.InvalidScan(errs[0].Check)
			s.evHandler("state: Validate: %s", errs[0])
			return errs[0]
		}
	}

	return nil
}

// IsValid reports whether the chain passes validation.
func (s *State) IsValid() bool {
	return s.Validate() == nil
}

// Audit checks every block after genesis and returns all the failures. Each
// failure is a *ChainError and can be extracted with multierr.Errors.
func (s *State) Audit() error {
	blocks := s.Blocks()

	var err error
	for i := 1; i < len(blocks); i++ {
		for _, ce := range s.checkBlock(blocks[i], blocks[i-1]) {
			err = multierr.Append(err, ce)
		}
	}

	return err
}

// =============================================================================

// checkBlock runs the hash, link and transaction checks on the block and
// returns the failures in that order.
func (s *State) checkBlock(block database.Block, prev database.Block) []*ChainError {
	var errs []*ChainError

	if hash := block.CalculateHash(); hash != block.Hash() {
		errs = append(errs, &ChainError{Index: block.Index, Check: CheckHash, Err: fmt.Errorf("stored[%s] calculated[%s]", block.Hash(), hash)})
	}

	if block.PrevHash != prev.Hash() {
		errs = append(errs, &ChainError{Index: block.Index, Check: CheckLink, Err: fmt.Errorf("prev[%s] linked[%s]", prev.Hash(), block.PrevHash)})
	}

	if err := block.ValidateTransactions(s.verifier); err != nil {
		errs = append(errs, &ChainError{Index: block.Index, Check: CheckTransactions, Err: err})
	}

	return errs
}
