package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardanlabs/powledger/app/services/node/handlers"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/metrics"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/clock"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type api struct {
	t      *testing.T
	public http.Handler
	debug  http.Handler
}

func (a api) call(mux http.Handler, method string, path string, body any) (int, []byte) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("Should be able to encode the request: %s", err)
		}
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(method, path, &buf))

	return w.Code, w.Body.Bytes()
}

func newAPI(t *testing.T) (api, *signature.Secp256k1Key) {
	key, err := signature.HexToSecp256k1Key("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")
	if err != nil {
		t.Fatalf("Should be able to parse the key: %s", err)
	}

	folder := t.TempDir()
	if err := signature.SaveKeyFile(filepath.Join(folder, "kennedy.ecdsa"), key); err != nil {
		t.Fatalf("Should be able to save the key: %s", err)
	}

	ns, err := nameservice.New(folder)
	if err != nil {
		t.Fatalf("Should be able to load the name service: %s", err)
	}

	gen := genesis.Default()
	gen.Difficulty = 1
	gen.Recipient = key.Identity()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	st, err := state.New(state.Config{
		Genesis: gen,
		Clock:   clock.FixedUnix(1700000000),
		Metrics: m,
	})
	if err != nil {
		t.Fatalf("Should be able to construct the state: %s", err)
	}

	log := zap.NewNop().Sugar()

	a := api{
		t: t,
		public: handlers.PublicMux(handlers.MuxConfig{
			Shutdown: make(chan os.Signal, 1),
			Log:      log,
			State:    st,
			NS:       ns,
			Evts:     events.New(),
			Metrics:  m,
		}),
		debug: handlers.DebugMux("test", log, st, reg),
	}

	return a, key
}

func Test_API(t *testing.T) {
	a, key := newAPI(t)

	tx, err := database.NewTx(database.Account(key.Identity()), database.Genesis, 10, 1700000001)
	if err != nil {
		t.Fatalf("Should be able to construct a transaction: %s", err)
	}
	tx, err = tx.Sign(key)
	if err != nil {
		t.Fatalf("Should be able to sign a transaction: %s", err)
	}

	t.Log("Given the need to operate the ledger through the api.")
	{
		t.Logf("\tTest 0:\tWhen submitting and mining a transaction.")
		{
			status, body := a.call(a.public, http.MethodPost, "/v1/tx/submit", tx)
			if status != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould accept the transaction, got %d: %s", failed, status, body)
			}
			t.Logf("\t%s\tTest 0:\tShould accept the transaction.", success)

			status, body = a.call(a.public, http.MethodGet, "/v1/tx/uncommitted/list", nil)
			var pending []struct {
				SenderName string `json:"sender_name"`
				Hash       string `json:"hash"`
			}
			if err := json.Unmarshal(body, &pending); err != nil || status != http.StatusOK || len(pending) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould list the pending transaction: %s", failed, body)
			}
			if pending[0].SenderName != "kennedy" || pending[0].Hash != tx.ContentHash() {
				t.Fatalf("\t%s\tTest 0:\tShould resolve the sender name: %+v", failed, pending[0])
			}
			t.Logf("\t%s\tTest 0:\tShould list the pending transaction.", success)

			status, body = a.call(a.public, http.MethodPost, "/v1/block/mine", nil)
			if status != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould mine a block, got %d: %s", failed, status, body)
			}
			t.Logf("\t%s\tTest 0:\tShould mine a block.", success)

			status, body = a.call(a.public, http.MethodGet, "/v1/blocks/list", nil)
			var blocks []struct {
				Hash     string `json:"hash"`
				Index    uint64 `json:"index"`
				PrevHash string `json:"previous_hash"`
				Trans    []struct {
					Amount uint64 `json:"amount"`
				} `json:"transactions"`
			}
			if err := json.Unmarshal(body, &blocks); err != nil || status != http.StatusOK || len(blocks) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould list two blocks: %s", failed, body)
			}
			if blocks[1].PrevHash != blocks[0].Hash || !strings.HasPrefix(blocks[1].Hash, "0") || len(blocks[1].Trans) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould link the mined block: %+v", failed, blocks)
			}
			t.Logf("\t%s\tTest 0:\tShould list two linked blocks.", success)

			status, body = a.call(a.public, http.MethodGet, "/v1/chain/validate", nil)
			var cs struct {
				Valid  bool `json:"valid"`
				Length int  `json:"length"`
			}
			if err := json.Unmarshal(body, &cs); err != nil || status != http.StatusOK || !cs.Valid || cs.Length != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould report a valid chain: %s", failed, body)
			}
			t.Logf("\t%s\tTest 0:\tShould report a valid chain.", success)

			status, body = a.call(a.public, http.MethodPost, "/v1/accounts/balance", map[string]string{"account": key.Identity()})
			var bal struct {
				Name    string `json:"name"`
				Balance int64  `json:"balance"`
			}
			if err := json.Unmarshal(body, &bal); err != nil || status != http.StatusOK || bal.Balance != 40 || bal.Name != "kennedy" {
				t.Fatalf("\t%s\tTest 0:\tShould report a balance of 40: %s", failed, body)
			}
			t.Logf("\t%s\tTest 0:\tShould report a balance of 40.", success)
		}

		t.Logf("\tTest 1:\tWhen sending bad requests.")
		{
			bad := []struct {
				name   string
				method string
				path   string
				body   any
			}{
				{"emptymempool", http.MethodPost, "/v1/block/mine", nil},
				{"noaccount", http.MethodPost, "/v1/accounts/balance", map[string]string{}},
				{"unknownfield", http.MethodPost, "/v1/accounts/balance", map[string]string{"acct": "x"}},
				{"zeroamount", http.MethodPost, "/v1/tx/submit", map[string]any{"sender": key.Identity(), "recipient": "GENESIS", "amount": 0, "timestamp": 1}},
				{"coinbase", http.MethodPost, "/v1/tx/submit", map[string]any{"sender": "COINBASE", "recipient": "GENESIS", "amount": 1000, "timestamp": 1}},
				{"unsigned", http.MethodPost, "/v1/tx/submit", map[string]any{"sender": key.Identity(), "recipient": "GENESIS", "amount": 5, "timestamp": 1}},
			}

			for _, b := range bad {
				status, body := a.call(a.public, b.method, b.path, b.body)
				if status != http.StatusBadRequest {
					t.Fatalf("\t%s\tTest 1:\tShould reject %s with a 400, got %d: %s", failed, b.name, status, body)
				}
				t.Logf("\t%s\tTest 1:\tShould reject %s with a 400.", success, b.name)
			}
		}

		t.Logf("\tTest 2:\tWhen calling the debug endpoints.")
		{
			if status, body := a.call(a.debug, http.MethodGet, "/debug/readiness", nil); status != http.StatusOK {
				t.Fatalf("\t%s\tTest 2:\tShould be ready, got %d: %s", failed, status, body)
			}
			t.Logf("\t%s\tTest 2:\tShould be ready.", success)

			status, body := a.call(a.debug, http.MethodGet, "/metrics", nil)
			if status != http.StatusOK || !bytes.Contains(body, []byte("powledger_chain_blocks_mined_total 1")) {
				t.Fatalf("\t%s\tTest 2:\tShould expose the metrics: %s", failed, body)
			}
			t.Logf("\t%s\tTest 2:\tShould expose the metrics.", success)
		}
	}
}
