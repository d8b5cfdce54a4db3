package types

import (
	"errors"
	"fmt"
)

var ErrPackageHasNoType = errors.New("cannot derive a type tag for a package object")

// ObjectType is either a published package or a struct instance.
type ObjectType struct {
	Package bool      `msgpack:"p"`
	Struct  StructTag `msgpack:"s"`
}

func PackageType() ObjectType             { return ObjectType{Package: true} }
func StructType(tag StructTag) ObjectType { return ObjectType{Struct: tag} }

const coinModule = "coin"
const coinName = "Coin"

// IsCoin reports whether the object is a coin of any type.
func (t ObjectType) IsCoin() bool {
	return !t.Package && t.Struct.Module == coinModule && t.Struct.Name == coinName
}

// IsCoinT reports whether the object is a coin of the given coin type.
func (t ObjectType) IsCoinT(coinType TypeTag) bool {
	return t.IsCoin() && len(t.Struct.TypeParams) > 0 && t.Struct.TypeParams[0] == coinType
}

// CoinType derives which fungible-asset kind this object's balance counts
// toward: the first type parameter when present, the native coin tag for
// non-generic coin structs. Package objects have no coin type.
func (t ObjectType) CoinType() (TypeTag, error) {
	if t.Package {
		return "", ErrPackageHasNoType
	}
	if len(t.Struct.TypeParams) > 0 {
		return t.Struct.TypeParams[0], nil
	}
	return GasCoinTypeTag, nil
}

func (t ObjectType) String() string {
	if t.Package {
		return "package"
	}
	return t.Struct.String()
}

// ObjectInfo is the owner-index row: everything the explorer needs to show
// an owned object without touching the primary object store.
type ObjectInfo struct {
	ObjectID            ObjectID          `msgpack:"i"`
	Version             uint64            `msgpack:"v"`
	Digest              ObjectDigest      `msgpack:"d"`
	Type                ObjectType        `msgpack:"t"`
	Owner               Owner             `msgpack:"o"`
	PreviousTransaction TransactionDigest `msgpack:"x"`
}

func (o ObjectInfo) Ref() ObjectRef {
	return ObjectRef{ID: o.ObjectID, Version: o.Version, Digest: o.Digest}
}

// TotalBalance is the aggregate the balance API computes and caches.
type TotalBalance struct {
	Balance  int64
	NumCoins int64
}

func (t TotalBalance) String() string {
	return fmt.Sprintf("balance=%d coins=%d", t.Balance, t.NumCoins)
}
