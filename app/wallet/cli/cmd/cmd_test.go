package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

func Test_KeyFiles(t *testing.T) {
	folder := t.TempDir()

	path, err := generate(folder, "kennedy", signature.SchemeSecp256k1)
	if err != nil {
		t.Fatalf("Should be able to generate a key: %s", err)
	}
	if filepath.Base(path) != "kennedy.ecdsa" {
		t.Fatalf("Should name the file by scheme, got %s.", path)
	}

	if _, err := generate(folder, "kennedy", signature.SchemeSecp256k1); err == nil {
		t.Fatalf("Should not overwrite an existing key.")
	}

	if _, err := generate(folder, "kennedy", "dsa"); err == nil {
		t.Fatalf("Should reject an unknown scheme.")
	}

	found, err := privateKeyPath(folder, "kennedy")
	if err != nil || found != path {
		t.Fatalf("Should find the key without an extension: %s %v", found, err)
	}

	if _, err := privateKeyPath(folder, "pavel"); err == nil {
		t.Fatalf("Should fail for a missing account.")
	}
}

func Test_Send(t *testing.T) {
	signer, err := signature.HexToSecp256k1Key("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")
	if err != nil {
		t.Fatalf("Should be able to parse the key: %s", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/tx/submit":
			var tx database.Tx
			if err := json.NewDecoder(r.Body).Decode(&tx); err != nil || !tx.IsValid(signature.Default) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "invalid transaction"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"status": "transaction added to mempool"})

		case "/v1/accounts/balance":
			json.NewEncoder(w).Encode(map[string]any{"balance": 40})
		}
	}))
	defer srv.Close()

	status, err := send(srv.Client(), srv.URL, signer, database.GenesisName, 10)
	if err != nil || status != "transaction added to mempool" {
		t.Fatalf("Should submit a valid signed transaction: %q %v", status, err)
	}

	if _, err := send(srv.Client(), srv.URL, signer, database.GenesisName, 0); err == nil {
		t.Fatalf("Should not send a zero amount.")
	}

	bal, err := balance(srv.Client(), srv.URL, signer.Identity())
	if err != nil || bal != "40" {
		t.Fatalf("Should print the balance: %q %v", bal, err)
	}
}
