package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	AddressLen = 32
	ObjectIDLen = 32
	DigestLen  = 32
)

var ErrBadAddress = errors.New("bad address")
var ErrBadObjectID = errors.New("bad object id")
var ErrBadDigest = errors.New("bad digest")

// Address is an account address, 32 bytes.
type Address [AddressLen]byte

func AddressFromHex(s string) (a Address, err error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) > 2*AddressLen {
		return a, ErrBadAddress
	}
	raw, err := hex.DecodeString(strings.Repeat("0", 2*AddressLen-len(s)) + s)
	if err != nil {
		return a, fmt.Errorf("%w: %s", ErrBadAddress, err)
	}
	copy(a[:], raw)
	return a, nil
}

func (a Address) Bytes() []byte  { return a[:] }
func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

// ObjectID identifies an object, 32 bytes.
type ObjectID [ObjectIDLen]byte

// ObjectIDZero sorts before every real object id, so it doubles as the
// "start from the beginning" pagination sentinel.
var ObjectIDZero ObjectID

func ObjectIDFromHex(s string) (ObjectID, error) {
	a, err := AddressFromHex(s)
	if err != nil {
		return ObjectID{}, fmt.Errorf("%w: %s", ErrBadObjectID, err)
	}
	return ObjectID(a), nil
}

func ObjectIDFromBytes(raw []byte) (id ObjectID, err error) {
	if len(raw) != ObjectIDLen {
		return id, ErrBadObjectID
	}
	copy(id[:], raw)
	return id, nil
}

func (id ObjectID) Bytes() []byte  { return id[:] }
func (id ObjectID) String() string { return "0x" + hex.EncodeToString(id[:]) }

// TransactionDigest is the content digest of a transaction.
type TransactionDigest [DigestLen]byte

func TransactionDigestFromBytes(raw []byte) (d TransactionDigest, err error) {
	if len(raw) != DigestLen {
		return d, ErrBadDigest
	}
	copy(d[:], raw)
	return d, nil
}

func (d TransactionDigest) Bytes() []byte  { return d[:] }
func (d TransactionDigest) String() string { return hex.EncodeToString(d[:]) }

// ObjectDigest is the content digest of one object version.
type ObjectDigest [DigestLen]byte

func (d ObjectDigest) Bytes() []byte  { return d[:] }
func (d ObjectDigest) String() string { return hex.EncodeToString(d[:]) }

// TransactionEventsDigest is the content digest of a transaction's event set.
type TransactionEventsDigest [DigestLen]byte

func (d TransactionEventsDigest) Bytes() []byte  { return d[:] }
func (d TransactionEventsDigest) String() string { return hex.EncodeToString(d[:]) }

// ObjectRef pins one object version.
type ObjectRef struct {
	ID      ObjectID     `msgpack:"i"`
	Version uint64       `msgpack:"v"`
	Digest  ObjectDigest `msgpack:"d"`
}
