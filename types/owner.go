package types

// OwnerKind is the closed set of ownership forms an object can have.
type OwnerKind byte

const (
	OwnerAddress   OwnerKind = 'A' // owned by an account address
	OwnerObject    OwnerKind = 'O' // nested under a parent object
	OwnerShared    OwnerKind = 'S' // shared, no single owner
	OwnerImmutable OwnerKind = 'I' // frozen
)

// Owner describes who holds an object. The Address field is meaningful for
// the address and object kinds only.
type Owner struct {
	Kind    OwnerKind `msgpack:"k"`
	Address Address   `msgpack:"a"`
}

func AddressOwner(a Address) Owner { return Owner{Kind: OwnerAddress, Address: a} }
func ObjectOwner(parent ObjectID) Owner {
	return Owner{Kind: OwnerObject, Address: Address(parent)}
}
func SharedOwner() Owner    { return Owner{Kind: OwnerShared} }
func ImmutableOwner() Owner { return Owner{Kind: OwnerImmutable} }

// AddressOwner resolves the owner to an account address. Shared, immutable
// and object-owned objects do not resolve.
func (o Owner) AddressOwner() (Address, bool) {
	if o.Kind == OwnerAddress {
		return o.Address, true
	}
	return Address{}, false
}
