package database

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/ardanlabs/powledger/foundation/blockchain/canonical"
	"golang.org/x/sync/errgroup"
)

// EventHandler defines a function that is called when events occur in the
// processing of mining a block.
type EventHandler func(v string, args ...any)

// Solution is the outcome of a successful nonce search.
type Solution struct {
	Block    Block
	Attempts uint64
}

// POWArgs describes the next block to be mined.
type POWArgs struct {
	PrevBlock  Block
	Trans      []Tx
	TimeStamp  int64
	Difficulty uint
	Workers    int
	EvHandler  EventHandler
}

// POW constructs the block following the previous block and performs the
// work to find a nonce that solves the puzzle.
func POW(ctx context.Context, args POWArgs) (Solution, error) {
	tmpl := NewBlock(args.PrevBlock.Index+1, args.PrevBlock.Hash(), args.Trans, args.TimeStamp, 0)
	return FindNonce(ctx, tmpl, args.Difficulty, args.Workers, args.EvHandler)
}

// Mine searches for a nonce sequentially starting from the current nonce and
// returns the mined copy of the block.
func (b Block) Mine(ctx context.Context, difficulty uint, ev EventHandler) (Block, error) {
	sol, err := FindNonce(ctx, b, difficulty, 1, ev)
	if err != nil {
		return Block{}, err
	}

	return sol.Block, nil
}

// FindNonce searches for a nonce giving the template a hash with difficulty
// leading zeros. The template is not modified, the mined block is returned.
// With more than one worker the nonce space is partitioned, worker i trying
// the template nonce plus i, i+workers, i+2*workers and so on. The first
// solution found wins and the other workers are cancelled.
func FindNonce(ctx context.Context, tmpl Block, difficulty uint, workers int, ev EventHandler) (Solution, error) {
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	if difficulty > MaxDifficulty {
		return Solution{}, ErrUnsolvable
	}

	if workers < 1 {
		workers = 1
	}

	h, err := newNonceHasher(tmpl)
	if err != nil {
		return Solution{}, err
	}

	ev("database: FindNonce: MINING: started: blk[%d]: difficulty[%d]: workers[%d]", tmpl.Index, difficulty, workers)
	defer ev("database: FindNonce: MINING: completed: blk[%d]", tmpl.Index)

	var attempts atomic.Uint64

	if workers == 1 {
		nonce, hash, err := h.search(ctx, difficulty, tmpl.Nonce, 1, &attempts, ev)
		if err != nil {
			ev("database: FindNonce: MINING: CANCELLED")
			return Solution{}, err
		}

		return solution(tmpl, nonce, hash, attempts.Load(), ev), nil
	}

	var (
		mu    sync.Mutex
		found bool
		nonce uint64
		hash  string
	)

	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			n, hh, err := h.search(gctx, difficulty, tmpl.Nonce+uint64(w), uint64(workers), &attempts, ev)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if !found {
				found, nonce, hash = true, n, hh
			}

			// Returning an error is what cancels the other workers.
			return errSolved
		})
	}

	err = g.Wait()
	if !found {
		ev("database: FindNonce: MINING: CANCELLED")
		if ctx.Err() != nil {
			return Solution{}, ctx.Err()
		}
		return Solution{}, err
	}

	return solution(tmpl, nonce, hash, attempts.Load(), ev), nil
}

// =============================================================================

// errSolved is returned by a worker that found a solution.
var errSolved = errors.New("solved")

// ctxCheckInterval is how many attempts are made between checks of the
// context for cancellation.
const ctxCheckInterval = 1 << 10

func solution(tmpl Block, nonce uint64, hash string, attempts uint64, ev EventHandler) Solution {
	b := tmpl
	b.Trans = append([]Tx(nil), tmpl.Trans...)
	b.Nonce = nonce
	b.hash = hash

	ev("database: FindNonce: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", b.PrevHash, hash, nonce)
	ev("database: FindNonce: MINING: attempts[%d]", attempts)

	return Solution{Block: b, Attempts: attempts}
}

// nonceHasher holds the canonical encoding of a block split around the nonce
// value. Keys are sorted, so the nonce always follows the index and the bytes
// before and after it never change while searching.
type nonceHasher struct {
	prefix []byte
	suffix []byte
}

func newNonceHasher(tmpl Block) (nonceHasher, error) {
	data := tmpl.Data()
	data.Nonce = 0

	enc, err := canonical.Marshal(data)
	if err != nil {
		return nonceHasher{}, err
	}

	marker := []byte(`, "nonce": 0, "previous_hash": `)
	idx := bytes.Index(enc, marker)
	if idx == -1 {
		return nonceHasher{}, fmt.Errorf("nonce not found in block encoding")
	}

	split := idx + len(`, "nonce": `)
	h := nonceHasher{
		prefix: append([]byte(nil), enc[:split]...),
		suffix: append([]byte(nil), enc[split+1:]...),
	}

	return h, nil
}

// search tries nonces start, start+step, start+2*step until the hash is
// solved or the context is cancelled.
func (h nonceHasher) search(ctx context.Context, difficulty uint, start uint64, step uint64, attempts *atomic.Uint64, ev EventHandler) (uint64, string, error) {
	buf := make([]byte, 0, len(h.prefix)+20+len(h.suffix))

	var local uint64
	for nonce := start; ; nonce += step {
		local++
		if local%ctxCheckInterval == 0 {
			if n := attempts.Add(ctxCheckInterval); n%(1<<20) == 0 {
				ev("database: FindNonce: MINING: attempts[%d]", n)
			}
			if ctx.Err() != nil {
				return 0, "", ctx.Err()
			}
		}

		buf = append(buf[:0], h.prefix...)
		buf = strconv.AppendUint(buf, nonce, 10)
		buf = append(buf, h.suffix...)

		sum := sha256.Sum256(buf)
		hash := hex.EncodeToString(sum[:])
		if IsHashSolved(difficulty, hash) {
			attempts.Add(local % ctxCheckInterval)
			return nonce, hash, nil
		}
	}
}
