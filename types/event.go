package types

import (
	"golang.org/x/crypto/blake2b"

	"github.com/vmihailenco/msgpack/v5"
)

// Event is one emitted event as the execution layer hands it over.
type Event struct {
	PackageID         ObjectID  `msgpack:"p"`
	TransactionModule string    `msgpack:"m"`
	Sender            Address   `msgpack:"s"`
	Type              StructTag `msgpack:"t"`
	Contents          []byte    `msgpack:"c"`
}

// ModuleID returns the module the event was emitted from.
func (e Event) ModuleID() ModuleID {
	return ModuleID{Package: e.PackageID, Name: e.TransactionModule}
}

// TransactionEvents is the ordered event set of one transaction.
type TransactionEvents struct {
	Data []Event `msgpack:"d"`
}

// Digest is the content digest of the whole event set.
func (ev *TransactionEvents) Digest() TransactionEventsDigest {
	raw, err := msgpack.Marshal(ev)
	if err != nil {
		// the event set is a plain value type, encoding cannot fail
		panic(err)
	}
	return TransactionEventsDigest(blake2b.Sum256(raw))
}
