package public

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/nameservice"
)

// submitTx is the signed transaction posted by a wallet.
type submitTx struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Amount    uint64 `json:"amount" validate:"gt=0"`
	TimeStamp int64  `json:"timestamp" validate:"gt=0"`
	Signature []byte `json:"signature"`
}

type balanceRequest struct {
	Account string `json:"account" validate:"required"`
}

type balance struct {
	Account string `json:"account"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

type genesisInfo struct {
	Block         block  `json:"block"`
	Difficulty    uint   `json:"difficulty"`
	TransPerBlock int    `json:"trans_per_block"`
	Strategy      string `json:"strategy"`
}

type tx struct {
	Hash       string `json:"hash"`
	Sender     string `json:"sender"`
	SenderName string `json:"sender_name"`
	Recipient  string `json:"recipient"`
	RecvName   string `json:"recipient_name"`
	Amount     uint64 `json:"amount"`
	TimeStamp  int64  `json:"timestamp"`
	Signature  []byte `json:"signature,omitempty"`
}

type block struct {
	Hash         string `json:"hash"`
	Index        uint64 `json:"index"`
	PrevHash     string `json:"previous_hash"`
	TimeStamp    int64  `json:"timestamp"`
	Nonce        uint64 `json:"nonce"`
	Transactions []tx   `json:"transactions"`
}

type chainStatus struct {
	Valid      bool        `json:"valid"`
	Length     int         `json:"length"`
	Violations []violation `json:"violations,omitempty"`
}

type violation struct {
	Index uint64 `json:"index"`
	Check string `json:"check"`
	Error string `json:"error"`
}

type mined struct {
	Block      block `json:"block"`
	Difficulty uint  `json:"difficulty"`
	Pending    int   `json:"pending"`
}

// =============================================================================

func toTx(ns *nameservice.NameService, t database.Tx) tx {
	return tx{
		Hash:       t.ContentHash(),
		Sender:     t.Sender.String(),
		SenderName: ns.Lookup(t.Sender),
		Recipient:  t.Recipient.String(),
		RecvName:   ns.Lookup(t.Recipient),
		Amount:     t.Amount,
		TimeStamp:  t.TimeStamp,
		Signature:  t.Signature,
	}
}

func toTxs(ns *nameservice.NameService, trans []database.Tx) []tx {
	txs := make([]tx, len(trans))
	for i, t := range trans {
		txs[i] = toTx(ns, t)
	}
	return txs
}

func toBlock(ns *nameservice.NameService, b database.Block) block {
	bfs := database.NewBlockFS(b)

	return block{
		Hash:         bfs.Hash,
		Index:        bfs.Index,
		PrevHash:     bfs.PrevHash,
		TimeStamp:    bfs.TimeStamp,
		Nonce:        bfs.Nonce,
		Transactions: toTxs(ns, bfs.Trans),
	}
}
