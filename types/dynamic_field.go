package types

import (
	"github.com/cespare/xxhash"
)

// DynamicFieldKind distinguishes plain fields from field objects.
type DynamicFieldKind byte

const (
	DynamicFieldPlain  DynamicFieldKind = 'F'
	DynamicFieldObject DynamicFieldKind = 'O'
)

// DynamicFieldName is the (type, value) pair a field is addressed by under
// its parent.
type DynamicFieldName struct {
	Type  TypeTag `msgpack:"t"`
	Value []byte  `msgpack:"v"`
}

// Hash is a cheap fingerprint of the name, compared before the full name
// during lookups.
func (n DynamicFieldName) Hash() uint64 {
	h := xxhash.New()
	_, _ = h.Write([]byte(n.Type))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(n.Value)
	return h.Sum64()
}

func (n DynamicFieldName) Equal(other DynamicFieldName) bool {
	return n.Type == other.Type && string(n.Value) == string(other.Value)
}

// DynamicFieldInfo is the dynamic-field-index row.
type DynamicFieldInfo struct {
	Name       DynamicFieldName `msgpack:"n"`
	NameHash   uint64           `msgpack:"h"`
	Kind       DynamicFieldKind `msgpack:"k"`
	ObjectType TypeTag          `msgpack:"t"`
	ObjectID   ObjectID         `msgpack:"i"`
	Version    uint64           `msgpack:"v"`
	Digest     ObjectDigest     `msgpack:"d"`
}

// NewDynamicFieldInfo fills in the name hash.
func NewDynamicFieldInfo(name DynamicFieldName, kind DynamicFieldKind, objectType TypeTag, id ObjectID, version uint64, digest ObjectDigest) DynamicFieldInfo {
	return DynamicFieldInfo{
		Name:       name,
		NameHash:   name.Hash(),
		Kind:       kind,
		ObjectType: objectType,
		ObjectID:   id,
		Version:    version,
		Digest:     digest,
	}
}
