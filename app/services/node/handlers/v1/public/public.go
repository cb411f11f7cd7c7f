// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ardanlabs/powledger/business/sys/validate"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Acquire()
	defer h.Evts.Release(id)

	h.Log.Infow("events", "traceid", web.GetTraceID(ctx), "subscriber", id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis block and the mining rules.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()

	info := genesisInfo{
		Block:         toBlock(h.NS, h.State.GenesisBlock()),
		Difficulty:    h.State.Difficulty(),
		TransPerBlock: gen.TransPerBlock,
		Strategy:      gen.Strategy,
	}

	return web.Respond(ctx, w, info, http.StatusOK)
}

// SubmitTransaction adds a new wallet transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req submitTx
	if err := web.Decode(r, &req); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	signedTx, err := database.NewSignedTx(database.Account(req.Sender), database.Account(req.Recipient), req.Amount, req.TimeStamp, req.Signature)
	if err != nil {
		var ve *database.ValidationError
		if errors.As(err, &ve) {
			return validate.NewFieldsError(ve.Field, errors.New(ve.Reason))
		}
		return errs.BadRequest(err)
	}

	h.Log.Infow("submit tran", "traceid", web.GetTraceID(ctx), "tx", signedTx, "hash", signedTx.ContentHash())

	added, err := h.State.SubmitTransaction(signedTx)
	if err != nil {
		return errs.BadRequest(err)
	}

	resp := struct {
		Status string `json:"status"`
		Hash   string `json:"hash"`
	}{
		Status: "transaction added to mempool",
		Hash:   signedTx.ContentHash(),
	}

	if !added {
		resp.Status = "transaction already pending"
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toTxs(h.NS, h.State.RetrieveMempool()), http.StatusOK)
}

// MineBlock mines the next batch of transactions from the mempool. The
// request waits for the block to be mined.
func (h Handlers) MineBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blk, err := h.State.MineNewBlock(ctx)
	if err != nil {
		if errors.Is(err, state.ErrNoTransactions) {
			return errs.BadRequest(err)
		}
		return err
	}

	resp := mined{
		Block:      toBlock(h.NS, blk),
		Difficulty: h.State.Difficulty(),
		Pending:    len(h.State.RetrieveMempool()),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Blocks returns all the blocks of the chain.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlocks := h.State.Blocks()

	blocks := make([]block, len(dbBlocks))
	for i, blk := range dbBlocks {
		blocks[i] = toBlock(h.NS, blk)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// ValidateChain audits the chain and reports every violation found.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	status := chainStatus{
		Valid:  true,
		Length: h.State.Length(),
	}

	for _, err := range multierr.Errors(h.State.Audit()) {
		status.Valid = false

		var ce *state.ChainError
		if !errors.As(err, &ce) {
			return err
		}

		status.Violations = append(status.Violations, violation{
			Index: ce.Index,
			Check: ce.Check,
			Error: ce.Err.Error(),
		})
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// Balance replays the chain for the balance of the account.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req balanceRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	id := database.Account(req.Account)

	bal, err := h.State.BalanceOf(id)
	if err != nil {
		return err
	}

	resp := balance{
		Account: id.String(),
		Name:    h.NS.Lookup(id),
		Balance: bal,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
