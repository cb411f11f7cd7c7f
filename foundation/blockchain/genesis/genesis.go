// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/difficulty"
)

// Defaults applied when the genesis file leaves a value out.
const (
	DefaultDifficulty    = 4
	DefaultTransPerBlock = 10
	DefaultReward        = 50
	DefaultRecipient     = "GENESIS"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date          time.Time `json:"date"`
	Difficulty    uint      `json:"difficulty"`      // How difficult it needs to be to solve the work problem.
	TransPerBlock int       `json:"trans_per_block"` // The maximum number of transactions that can be in a block.
	Recipient     string    `json:"recipient"`       // Account receiving the issuance of the genesis block.
	Reward        uint64    `json:"reward"`          // Value issued by the genesis block.
	Strategy      string    `json:"strategy"`        // Name of the difficulty adjustment strategy.
}

// Default returns the genesis used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:          time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Difficulty:    DefaultDifficulty,
		TransPerBlock: DefaultTransPerBlock,
		Recipient:     DefaultRecipient,
		Reward:        DefaultReward,
		Strategy:      difficulty.StrategyFixed,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Values missing from the file
// take the defaults.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	gen := Default()
	if err := json.Unmarshal(content, &gen); err != nil {
		return Genesis{}, fmt.Errorf("parsing genesis file: %w", err)
	}

	if err := gen.Validate(); err != nil {
		return Genesis{}, err
	}

	return gen, nil
}

// Validate checks the genesis values can seed a chain.
func (g Genesis) Validate() error {
	if g.Reward == 0 {
		return fmt.Errorf("genesis reward must be positive")
	}

	if g.Recipient == "" {
		return fmt.Errorf("genesis recipient is required")
	}

	if g.TransPerBlock < 1 {
		return fmt.Errorf("trans per block must be positive, got %d", g.TransPerBlock)
	}

	if _, err := difficulty.Retrieve(g.Strategy); err != nil {
		return err
	}

	return nil
}
