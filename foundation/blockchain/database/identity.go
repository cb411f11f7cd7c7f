package database

import (
	"encoding/json"
	"strings"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// Sentinel identities recorded on the chain.
const (
	CoinbaseName = "COINBASE"
	GenesisName  = "GENESIS"
)

// Identity is the party on either side of a transaction. It's either the
// coinbase, which issues new value, or an account named by its public key.
// Both forms serialize as a plain string.
type Identity struct {
	coinbase bool
	key      string
}

// Coinbase is the identity issuing new value. It never signs.
var Coinbase = Identity{coinbase: true}

// Genesis is the account receiving the issuance of the genesis block unless
// configured otherwise.
var Genesis = Account(GenesisName)

// Account constructs the identity for the specified public key. The coinbase
// name always produces the coinbase identity.
func Account(key string) Identity {
	if key == CoinbaseName {
		return Coinbase
	}

	return Identity{key: key}
}

// IsCoinbase reports whether this is the coinbase identity.
func (id Identity) IsCoinbase() bool {
	return id.coinbase
}

// IsZero reports whether the identity was never set.
func (id Identity) IsZero() bool {
	return !id.coinbase && strings.TrimSpace(id.key) == ""
}

// String returns the serialized form of the identity.
func (id Identity) String() string {
	if id.coinbase {
		return CoinbaseName
	}

	return id.key
}

// Short returns a compact form of the identity for logging.
func (id Identity) Short() string {
	s := id.String()
	if len(s) <= 20 {
		return s
	}

	return "id:" + signature.HashBytes([]byte(s))[:12]
}

// MarshalJSON implements the json.Marshaler interface.
func (id Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (id *Identity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	*id = Account(s)
	return nil
}
