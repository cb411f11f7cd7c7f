package worker

import (
	"context"
	"errors"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/state"
)

// miningOperations mines a block each time a start is signaled until the
// worker is shut down.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() {
				w.mineBlock()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// mineBlock mines the next batch of pending transactions. A cancel request
// stops the nonce search, and the request's done func must be called before
// another block is mined.
func (w *Worker) mineBlock() {
	pending := len(w.state.RetrieveMempool())
	if pending == 0 {
		w.evHandler("worker: mineBlock: nothing pending")
		return
	}

	// A cancel left over from a time nothing was mining doesn't apply here.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: mineBlock: dropped stale cancel")
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wait chan struct{}
	watching := make(chan struct{})
	go func() {
		defer close(watching)

		select {
		case wait = <-w.cancelMining:
			w.evHandler("worker: mineBlock: cancel requested")
			cancel()
		case <-ctx.Done():
		}
	}()

	difficulty := w.state.Difficulty()
	w.evHandler("worker: mineBlock: started: pending[%d] difficulty[%d]", pending, difficulty)

	start := time.Now()
	block, err := w.state.MineNewBlock(ctx)
	took := time.Since(start)

	cancel()
	<-watching

	switch {
	case err == nil:
		w.evHandler("worker: mineBlock: mined: blk[%d] hash[%s] nonce[%d] difficulty[%d] txs[%d] took[%v]", block.Index, block.Hash(), block.Nonce, difficulty, len(block.Trans), took)
	case errors.Is(err, state.ErrNoTransactions):
		w.evHandler("worker: mineBlock: pending transactions taken by another miner")
	case ctx.Err() != nil:
		w.evHandler("worker: mineBlock: cancelled: difficulty[%d] took[%v]", difficulty, took)
	default:
		w.evHandler("worker: mineBlock: ERROR: %s", err)
	}

	if wait != nil {
		<-wait
	}

	if n := len(w.state.RetrieveMempool()); n > 0 && !w.isShutdown() {
		w.evHandler("worker: mineBlock: still pending[%d]", n)
		w.SignalStartMining()
	}
}
