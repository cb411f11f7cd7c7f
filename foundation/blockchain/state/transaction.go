package state

import (
	"errors"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
)

// ErrCoinbaseSubmitted is returned when a client submits a transaction
// claiming to come from the coinbase. Only the chain itself issues value.
var ErrCoinbaseSubmitted = errors.New("coinbase transactions can't be submitted")

// SubmitTransaction accepts a signed transaction from a wallet for inclusion
// in a future block. It reports false when the transaction is already
// pending.
func (s *State) SubmitTransaction(tx database.Tx) (bool, error) {
	if err := tx.CheckFields(); err != nil {
		s.metrics.TxRejected("fields")
		return false, err
	}

	if tx.Sender.IsCoinbase() {
		s.metrics.TxRejected("coinbase")
		return false, ErrCoinbaseSubmitted
	}

	added, err := s.mempool.Add(tx)
	if err != nil {
		s.evHandler("state: SubmitTransaction: rejected tx[%s]: %s", tx, err)
		s.metrics.TxRejected(rejectReason(err))
		return false, err
	}

	if !added {
		s.evHandler("state: SubmitTransaction: duplicate tx[%s]", tx)
		return false, nil
	}

	s.metrics.SetMempoolSize(s.mempool.Count())
	s.evHandler("state: SubmitTransaction: accepted tx[%s]", tx)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return true, nil
}

// rejectReason names the cause of a rejection for the metrics label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, database.ErrUnsigned):
		return "unsigned"
	case errors.Is(err, mempool.ErrInvalidTransaction):
		return "signature"
	default:
		return "other"
	}
}
