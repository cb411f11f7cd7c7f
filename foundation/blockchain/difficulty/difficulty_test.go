package difficulty_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/difficulty"
)

func Test_Fixed(t *testing.T) {
	fn, err := difficulty.Retrieve(difficulty.StrategyFixed)
	if err != nil {
		t.Fatalf("Should be able to retrieve the fixed strategy: %s", err)
	}

	blocks := []database.Block{database.NewBlock(0, database.GenesisPrevHash, nil, 1, 0)}
	if got := fn(blocks, 4); got != 4 {
		t.Logf("got: %d", got)
		t.Logf("exp: %d", 4)
		t.Fatalf("Should keep the difficulty unchanged.")
	}

	if _, err := difficulty.Retrieve("retarget"); err == nil {
		t.Fatalf("Should not be able to retrieve an unknown strategy.")
	}
}

func Test_Target(t *testing.T) {
	fn, err := difficulty.Retrieve(difficulty.StrategyTarget)
	if err != nil {
		t.Fatalf("Should be able to retrieve the target strategy: %s", err)
	}

	chain := func(gaps ...int64) []database.Block {
		blocks := []database.Block{database.NewBlock(0, database.GenesisPrevHash, nil, 0, 0)}

		ts := int64(1700000000)
		for i, gap := range gaps {
			ts += gap
			blocks = append(blocks, database.NewBlock(uint64(i+1), blocks[i].Hash(), nil, ts, 0))
		}
		return blocks
	}

	tt := []struct {
		name    string
		blocks  []database.Block
		current uint
		exp     uint
	}{
		{"genesis", chain(), 4, 4},
		{"single", chain(1), 4, 4},
		{"fast", chain(1, 1, 1), 4, 5},
		{"ontarget", chain(10, 10, 10), 4, 4},
		{"slow", chain(30, 30, 30), 4, 3},
		{"floor", chain(30, 30, 30), 1, 1},
		{"window", chain(100, 100, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1), 4, 5},
	}

	for _, tst := range tt {
		t.Run(tst.name, func(t *testing.T) {
			if got := fn(tst.blocks, tst.current); got != tst.exp {
				t.Logf("got: %d", got)
				t.Logf("exp: %d", tst.exp)
				t.Fatalf("Should adjust the difficulty.")
			}
		})
	}
}
