package sui

import (
	"bytes"
	"encoding/binary"

	"github.com/Turknft/sui/types"
)

// Every logical table lives under its own one-byte key prefix inside the one
// pebble keyspace. Composite keys concatenate fixed-width components so that
// byte order equals tuple order: u64s are big-endian, identifier strings are
// NUL-terminated (identifiers never contain NUL).
const (
	tableTransactionOrder  byte = 'o' // seq -> digest
	tableTransactionSeq    byte = 'q' // digest -> seq
	tableFromAddr          byte = 'f' // (sender, seq) -> digest
	tableToAddr            byte = 't' // (recipient, seq) -> digest
	tableByInputObject     byte = 'i' // (object, seq) -> digest
	tableByMutatedObject   byte = 'm' // (object, seq) -> digest
	tableByMoveFunction    byte = 'c' // (package, module, function, seq) -> digest
	tableTimestamps        byte = 's' // digest -> millisecond timestamp
	tableOwnerIndex        byte = 'w' // (owner, object) -> object info
	tableDynamicFieldIndex byte = 'd' // (parent, field) -> field info
	tableEventOrder        byte = 'e' // (seq, evseq) -> event row
	tableEventByModule     byte = 'M' // (package, module, seq, evseq) -> event row
	tableEventByType       byte = 'E' // (type tag, seq, evseq) -> event row
	tableEventBySender     byte = 'S' // (sender, seq, evseq) -> event row
	tableEventByTime       byte = 'L' // (timestamp, seq, evseq) -> event row
)

func be64(v uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, v)
}

func appendBe64(key []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(key, v)
}

// appendIdent appends a NUL-terminated identifier component.
func appendIdent(key []byte, ident string) []byte {
	key = append(key, ident...)
	return append(key, 0)
}

func tableKey(table byte, parts ...[]byte) []byte {
	n := 1
	for _, p := range parts {
		n += len(p)
	}
	key := make([]byte, 1, n)
	key[0] = table
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

func orderKey(seq uint64) []byte {
	return appendBe64([]byte{tableTransactionOrder}, seq)
}

func seqKey(digest types.TransactionDigest) []byte {
	return tableKey(tableTransactionSeq, digest.Bytes())
}

func timestampKey(digest types.TransactionDigest) []byte {
	return tableKey(tableTimestamps, digest.Bytes())
}

// secondarySeqKey builds (secondary, seq) keys for the digest indexes.
func secondarySeqKey(table byte, secondary []byte, seq uint64) []byte {
	return appendBe64(tableKey(table, secondary), seq)
}

func moveFunctionKey(pkg types.ObjectID, module, function string, seq uint64) []byte {
	key := tableKey(tableByMoveFunction, pkg.Bytes())
	key = appendIdent(key, module)
	key = appendIdent(key, function)
	return appendBe64(key, seq)
}

// parseMoveFunctionKey splits the module, function and sequence components
// out of a move-function index key.
func parseMoveFunctionKey(key []byte) (module, function string, seq uint64, ok bool) {
	rest := key[1+types.ObjectIDLen:]
	i := bytes.IndexByte(rest, 0)
	if i < 0 {
		return "", "", 0, false
	}
	module = string(rest[:i])
	rest = rest[i+1:]
	i = bytes.IndexByte(rest, 0)
	if i < 0 || len(rest)-i-1 != 8 {
		return "", "", 0, false
	}
	function = string(rest[:i])
	seq = binary.BigEndian.Uint64(rest[i+1:])
	return module, function, seq, true
}

func ownerKey(owner types.Address, id types.ObjectID) []byte {
	return tableKey(tableOwnerIndex, owner.Bytes(), id.Bytes())
}

func ownerKeyObjectID(key []byte) types.ObjectID {
	id, _ := types.ObjectIDFromBytes(key[1+types.AddressLen:])
	return id
}

func dynamicFieldKey(parent, field types.ObjectID) []byte {
	return tableKey(tableDynamicFieldIndex, parent.Bytes(), field.Bytes())
}

// eventSuffix is the (seq, evseq) tail shared by all event index keys.
func eventSuffix(id EventID) []byte {
	return appendBe64(be64(id.TxSeq), id.EventSeq)
}

func eventModulePrefix(m types.ModuleID) []byte {
	return appendIdent(tableKey(tableEventByModule, m.Package.Bytes()), m.Name)
}

func eventTypePrefix(tag types.TypeTag) []byte {
	return appendIdent([]byte{tableEventByType}, string(tag))
}

// eventKeyID reads the (seq, evseq) tail of an event index key.
func eventKeyID(key []byte) EventID {
	n := len(key)
	return EventID{
		TxSeq:    binary.BigEndian.Uint64(key[n-16 : n-8]),
		EventSeq: binary.BigEndian.Uint64(key[n-8:]),
	}
}

// keySeq reads the trailing sequence number of a (secondary, seq) key.
func keySeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key[len(key)-8:])
}

// prefixUpperBound returns the smallest key greater than every key with the
// given prefix, for use as an exclusive iterator upper bound. Returns nil
// (unbounded) if the prefix is all 0xff.
func prefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// keySuccessor returns the immediate successor of one exact key: the
// smallest key strictly greater than it.
func keySuccessor(key []byte) []byte {
	return append(append([]byte{}, key...), 0)
}
