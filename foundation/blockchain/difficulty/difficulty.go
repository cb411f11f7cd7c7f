// Package difficulty provides the strategies that adjust the mining
// difficulty as the chain grows.
//
// The fixed strategy is the default and keeps the configured difficulty for
// the life of the chain. The target strategy is an opt-in extension, chosen
// by name in the genesis file, that nudges the difficulty toward a block
// time. Other strategies plug in by adding a Func to the registry.
package difficulty

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// List of different adjustment strategies.
const (
	StrategyFixed  = "fixed"
	StrategyTarget = "target"
)

// Settings for the target strategy.
const (
	TargetBlockTime = 10 // Seconds expected between blocks.
	TargetWindow    = 10 // Number of recent blocks averaged.
)

// Map of different adjustment strategies with functions.
var strategies = map[string]Func{
	StrategyFixed:  fixed,
	StrategyTarget: target,
}

// Func defines a function that takes the blocks of the chain, oldest first,
// and the current difficulty and returns the difficulty for the next block.
// A strategy must not modify the blocks.
type Func func(blocks []database.Block, current uint) uint

// Retrieve returns the specified adjustment strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// fixed never changes the difficulty.
func fixed(blocks []database.Block, current uint) uint {
	return current
}

// target raises the difficulty by one when the recent blocks came in under
// half the target block time and lowers it by one when they took over twice
// as long. The genesis block is not counted since it was never mined.
func target(blocks []database.Block, current uint) uint {
	if len(blocks) > 0 && blocks[0].Index == 0 {
		blocks = blocks[1:]
	}

	if len(blocks) < 2 {
		return current
	}

	if len(blocks) > TargetWindow {
		blocks = blocks[len(blocks)-TargetWindow:]
	}

	elapsed := blocks[len(blocks)-1].TimeStamp - blocks[0].TimeStamp
	average := elapsed / int64(len(blocks)-1)

	switch {
	case average*2 < TargetBlockTime && current < database.MaxDifficulty:
		return current + 1
	case average > TargetBlockTime*2 && current > 1:
		return current - 1
	}

	return current
}
