package sui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Turknft/sui/types"
)

func TestOwnershipMove(t *testing.T) {
	store := testStore(t)
	alice, bob := testAddr(1), testAddr(2)
	obj := testObjectID(10)

	_, err := store.IndexTx(context.Background(), &TransactionIndexData{
		Sender: alice,
		Digest: testDigest(1),
		ObjectChanges: ObjectIndexChanges{
			NewOwners: []OwnerEntry{ownerEntry(alice, coinInfo(obj, alice, types.GasCoinTypeTag))},
		},
	})
	require.NoError(t, err)

	_, err = store.IndexTx(context.Background(), &TransactionIndexData{
		Sender: alice,
		Digest: testDigest(2),
		ObjectChanges: ObjectIndexChanges{
			DeletedOwners: []OwnerIndexKey{{Owner: alice, ObjectID: obj}},
			NewOwners:     []OwnerEntry{ownerEntry(bob, coinInfo(obj, bob, types.GasCoinTypeTag))},
		},
	})
	require.NoError(t, err)

	fromAlice, err := store.GetOwnerObjects(alice, types.ObjectIDZero, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, fromAlice)

	fromBob, err := store.GetOwnerObjects(bob, types.ObjectIDZero, 0, nil)
	require.NoError(t, err)
	require.Len(t, fromBob, 1)
	assert.Equal(t, obj, fromBob[0].ObjectID)
}

func TestGenesisInsertHasNoTransactionSideEffects(t *testing.T) {
	store := testStore(t)
	alice := testAddr(1)

	require.NoError(t, store.InsertGenesisObjects(ObjectIndexChanges{
		NewOwners: []OwnerEntry{
			ownerEntry(alice, coinInfo(testObjectID(1), alice, types.GasCoinTypeTag)),
		},
	}))

	owned, err := store.GetOwnerObjects(alice, types.ObjectIDZero, 0, nil)
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	// no sequence consumed, no transaction rows written
	digests, err := store.GetTransactions(nil, nil, 0, false)
	require.NoError(t, err)
	assert.Empty(t, digests)
	seq := indexSimpleTx(t, store, alice, testDigest(1))
	assert.Equal(t, uint64(0), seq)
}

func TestOwnerObjectsCursorAndLimit(t *testing.T) {
	store := testStore(t)
	alice := testAddr(1)
	changes := ObjectIndexChanges{}
	for i := byte(1); i <= 5; i++ {
		changes.NewOwners = append(changes.NewOwners,
			ownerEntry(alice, coinInfo(testObjectID(i), alice, types.GasCoinTypeTag)))
	}
	require.NoError(t, store.InsertGenesisObjects(changes))

	first, err := store.GetOwnerObjects(alice, types.ObjectIDZero, 2, nil)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, testObjectID(1), first[0].ObjectID)
	assert.Equal(t, testObjectID(2), first[1].ObjectID)

	// the cursor object is excluded from the next page
	rest, err := store.GetOwnerObjects(alice, first[1].ObjectID, 0, nil)
	require.NoError(t, err)
	require.Len(t, rest, 3)
	assert.Equal(t, testObjectID(3), rest[0].ObjectID)

	// another owner's objects stay invisible
	other, err := store.GetOwnerObjects(testAddr(2), types.ObjectIDZero, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestOwnerCoinIterator(t *testing.T) {
	store := testStore(t)
	alice := testAddr(1)
	usd := types.TypeTag("0x5::usd::USD")
	plain := types.ObjectInfo{
		ObjectID: testObjectID(3),
		Version:  1,
		Type: types.StructType(types.StructTag{
			Package: testObjectID(4), Module: "nft", Name: "Card",
		}),
		Owner: types.AddressOwner(alice),
	}
	require.NoError(t, store.InsertGenesisObjects(ObjectIndexChanges{
		NewOwners: []OwnerEntry{
			ownerEntry(alice, coinInfo(testObjectID(1), alice, types.GasCoinTypeTag)),
			ownerEntry(alice, coinInfo(testObjectID(2), alice, usd)),
			ownerEntry(alice, plain),
		},
	}))

	var all []types.ObjectRef
	for ref, err := range store.OwnerCoinIterator(alice, nil) {
		require.NoError(t, err)
		all = append(all, ref)
	}
	assert.Len(t, all, 2)

	var gas []types.ObjectRef
	coinType := types.GasCoinTypeTag
	for ref, err := range store.OwnerCoinIterator(alice, &coinType) {
		require.NoError(t, err)
		gas = append(gas, ref)
	}
	require.Len(t, gas, 1)
	assert.Equal(t, testObjectID(1), gas[0].ID)
}

func TestDynamicFields(t *testing.T) {
	store := testStore(t)
	parent := testObjectID(1)

	name := func(i byte) types.DynamicFieldName {
		return types.DynamicFieldName{Type: "u64", Value: []byte{i}}
	}
	field := func(i byte) DynamicFieldEntry {
		return DynamicFieldEntry{
			Key: DynamicFieldKey{Parent: parent, Field: testObjectID(i)},
			Info: types.NewDynamicFieldInfo(
				name(i), types.DynamicFieldPlain, "u64", testObjectID(i), 1, types.ObjectDigest{}),
		}
	}

	_, err := store.IndexTx(context.Background(), &TransactionIndexData{
		Sender: testAddr(1),
		Digest: testDigest(1),
		ObjectChanges: ObjectIndexChanges{
			NewDynamicFields: []DynamicFieldEntry{field(1), field(2), field(3)},
		},
	})
	require.NoError(t, err)

	var fields []types.DynamicFieldInfo
	for info, err := range store.DynamicFieldsIterator(parent, types.ObjectIDZero) {
		require.NoError(t, err)
		fields = append(fields, info)
	}
	require.Len(t, fields, 3)
	assert.Equal(t, testObjectID(1), fields[0].ObjectID)

	// exclusive cursor, same rule as the owner index
	fields = fields[:0]
	for info, err := range store.DynamicFieldsIterator(parent, testObjectID(1)) {
		require.NoError(t, err)
		fields = append(fields, info)
	}
	assert.Len(t, fields, 2)

	id, ok, err := store.GetDynamicFieldObjectID(parent, name(2))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, testObjectID(2), id)

	_, ok, err = store.GetDynamicFieldObjectID(parent, name(9))
	require.NoError(t, err)
	assert.False(t, ok)

	// deletion removes the row
	_, err = store.IndexTx(context.Background(), &TransactionIndexData{
		Sender: testAddr(1),
		Digest: testDigest(2),
		ObjectChanges: ObjectIndexChanges{
			DeletedDynamicFields: []DynamicFieldKey{{Parent: parent, Field: testObjectID(2)}},
		},
	})
	require.NoError(t, err)
	_, ok, err = store.GetDynamicFieldObjectID(parent, name(2))
	require.NoError(t, err)
	assert.False(t, ok)
}
