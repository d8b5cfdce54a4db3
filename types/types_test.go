package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressFromHex(t *testing.T) {
	// short forms are left-padded
	a, err := AddressFromHex("0x2")
	require.NoError(t, err)
	assert.Equal(t, byte(2), a[AddressLen-1])
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000002", a.String())

	_, err = AddressFromHex("0xzz")
	assert.ErrorIs(t, err, ErrBadAddress)
	_, err = AddressFromHex("0x" + a.String()[2:] + "00")
	assert.ErrorIs(t, err, ErrBadAddress)
}

func TestCoinTypeDerivation(t *testing.T) {
	pkg, _ := ObjectIDFromHex("0x2")
	coin := StructTag{Package: pkg, Module: "coin", Name: "Coin", TypeParams: []TypeTag{"0x5::usd::USD"}}

	ct, err := StructType(coin).CoinType()
	require.NoError(t, err)
	assert.Equal(t, TypeTag("0x5::usd::USD"), ct)

	// no type parameters falls back to the native coin
	bare := StructTag{Package: pkg, Module: "nft", Name: "Card"}
	ct, err = StructType(bare).CoinType()
	require.NoError(t, err)
	assert.Equal(t, GasCoinTypeTag, ct)

	_, err = PackageType().CoinType()
	assert.ErrorIs(t, err, ErrPackageHasNoType)
}

func TestIsCoin(t *testing.T) {
	pkg, _ := ObjectIDFromHex("0x2")
	coin := StructType(StructTag{Package: pkg, Module: "coin", Name: "Coin", TypeParams: []TypeTag{GasCoinTypeTag}})
	assert.True(t, coin.IsCoin())
	assert.True(t, coin.IsCoinT(GasCoinTypeTag))
	assert.False(t, coin.IsCoinT("0x5::usd::USD"))
	assert.False(t, PackageType().IsCoin())
}

func TestStructTagString(t *testing.T) {
	pkg, _ := ObjectIDFromHex("0x2")
	tag := StructTag{Package: pkg, Module: "coin", Name: "Coin", TypeParams: []TypeTag{"0x2::sui::SUI"}}
	want := pkg.String() + "::coin::Coin<0x2::sui::SUI>"
	assert.Equal(t, TypeTag(want), tag.TypeTag())
}

func TestDynamicFieldNameHash(t *testing.T) {
	a := DynamicFieldName{Type: "u64", Value: []byte{1, 2}}
	same := DynamicFieldName{Type: "u64", Value: []byte{1, 2}}
	other := DynamicFieldName{Type: "u64", Value: []byte{1, 3}}

	assert.Equal(t, a.Hash(), same.Hash())
	assert.True(t, a.Equal(same))
	assert.NotEqual(t, a.Hash(), other.Hash())

	// the separator keeps (type, value) splits distinct
	shifted := DynamicFieldName{Type: "u6", Value: []byte("4" + string([]byte{0, 1, 2}))}
	assert.False(t, a.Equal(shifted))
}

func TestEventsDigestIsContentAddressed(t *testing.T) {
	pkg, _ := ObjectIDFromHex("0x2")
	ev := Event{PackageID: pkg, TransactionModule: "amm", Type: StructTag{Package: pkg, Module: "amm", Name: "Swap"}}
	set1 := &TransactionEvents{Data: []Event{ev}}
	set2 := &TransactionEvents{Data: []Event{ev}}
	assert.Equal(t, set1.Digest(), set2.Digest())

	ev.Contents = []byte{1}
	set3 := &TransactionEvents{Data: []Event{ev}}
	assert.NotEqual(t, set1.Digest(), set3.Digest())
}
