// Package nameservice reads the wallet accounts folder and creates a name
// service lookup for the identities found there.
package nameservice

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// NameService maintains a map of identities for name lookup.
type NameService struct {
	accounts map[database.Identity]string
}

// New constructs a name service with the key files from the root folder.
// Both RSA (.pem) and secp256k1 (.ecdsa) key files are read.
func New(root string) (*NameService, error) {
	ns := NameService{
		accounts: make(map[database.Identity]string),
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		ext := filepath.Ext(fileName)
		if d.IsDir() || (ext != signature.ExtRSA && ext != signature.ExtSecp256k1) {
			return nil
		}

		signer, err := signature.LoadKeyFile(fileName)
		if err != nil {
			return err
		}

		ns.accounts[database.Account(signer.Identity())] = strings.TrimSuffix(filepath.Base(fileName), ext)

		return nil
	}

	if err := filepath.WalkDir(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified identity. Identities without a
// name are returned in their short form.
func (ns *NameService) Lookup(id database.Identity) string {
	name, exists := ns.accounts[id]
	if !exists {
		return id.Short()
	}
	return name
}

// Copy returns a copy of the map of names and identities.
func (ns *NameService) Copy() map[database.Identity]string {
	cpy := make(map[database.Identity]string, len(ns.accounts))
	for id, name := range ns.accounts {
		cpy[id] = name
	}
	return cpy
}
