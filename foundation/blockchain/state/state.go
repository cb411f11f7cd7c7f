// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/difficulty"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/powledger/foundation/blockchain/metrics"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/clock"
)

// EventHandler defines a function that is called when events
// occur in the processing of mining blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining() (done func())
}

// =============================================================================

// Config represents the configuration required to start the blockchain.
type Config struct {
	Genesis   genesis.Genesis
	Verifier  signature.Verifier
	Clock     clock.Clock
	Workers   int
	EvHandler EventHandler
	Metrics   *metrics.Metrics
}

// State manages the blockchain held in memory.
type State struct {
	genesis   genesis.Genesis
	verifier  signature.Verifier
	clock     clock.Clock
	workers   int
	evHandler EventHandler
	metrics   *metrics.Metrics
	strategy  difficulty.Func
	mempool   *mempool.Mempool

	// muMine serializes the writers of the chain. mu guards the chain and
	// the difficulty so readers see consistent snapshots while a block is
	// being mined.
	muMine     sync.Mutex
	mu         sync.RWMutex
	chain      []database.Block
	difficulty uint

	Worker Worker
}

// New constructs a new blockchain seeded with the genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	if cfg.Genesis.Difficulty > database.MaxDifficulty {
		return nil, database.ErrUnsolvable
	}

	strategy, err := difficulty.Retrieve(cfg.Genesis.Strategy)
	if err != nil {
		return nil, err
	}

	if cfg.Verifier == nil {
		cfg.Verifier = signature.Default
	}

	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}

	// The genesis block issues the initial value and is never mined.
	genesisBlock, err := database.NewGenesisBlock(database.Account(cfg.Genesis.Recipient), cfg.Genesis.Reward, clock.Unix(cfg.Clock))
	if err != nil {
		return nil, fmt.Errorf("constructing genesis block: %w", err)
	}

	state := State{
		genesis:    cfg.Genesis,
		verifier:   cfg.Verifier,
		clock:      cfg.Clock,
		workers:    cfg.Workers,
		evHandler:  ev,
		metrics:    cfg.Metrics,
		strategy:   strategy,
		mempool:    mempool.New(cfg.Verifier),
		chain:      []database.Block{genesisBlock},
		difficulty: cfg.Genesis.Difficulty,
	}

	state.metrics.SetChain(1, state.difficulty)
	ev("state: New: genesis block[%s] difficulty[%d]", genesisBlock.Hash(), state.difficulty)

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
