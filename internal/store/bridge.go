package store

import "errors"

// ErrKeyNotFound is returned when the requested key has never been saved.
var ErrKeyNotFound = errors.New("key not found")

// Keys under which the full collections are persisted. Each value holds
// the complete collection re-serialized on every change.
const (
	ProductsKey = "products"
	SalesKey    = "sales"
)

// Bridge is the narrow interface to the durable key-value store. The core
// loads from it at startup and writes back after every state change.
type Bridge interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	// SaveAll writes every entry in a single atomic transaction, so a
	// sale commit can persist the ledger and the stock counts together.
	SaveAll(entries map[string][]byte) error
}
