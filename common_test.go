package sui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Turknft/sui/types"
)

func testStore(t *testing.T) *IndexStore {
	t.Helper()
	store, err := Open(t.TempDir(), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testAddr(n byte) types.Address {
	var a types.Address
	a[types.AddressLen-1] = n
	return a
}

func testObjectID(n byte) types.ObjectID {
	var id types.ObjectID
	id[types.ObjectIDLen-1] = n
	return id
}

func testDigest(n byte) types.TransactionDigest {
	var d types.TransactionDigest
	d[0] = n
	return d
}

func coinStructTag(coinType types.TypeTag) types.StructTag {
	return types.StructTag{
		Package:    testObjectID(2),
		Module:     "coin",
		Name:       "Coin",
		TypeParams: []types.TypeTag{coinType},
	}
}

func coinInfo(id types.ObjectID, owner types.Address, coinType types.TypeTag) types.ObjectInfo {
	return types.ObjectInfo{
		ObjectID: id,
		Version:  1,
		Type:     types.StructType(coinStructTag(coinType)),
		Owner:    types.AddressOwner(owner),
	}
}

func ownerEntry(owner types.Address, info types.ObjectInfo) OwnerEntry {
	return OwnerEntry{
		Key:  OwnerIndexKey{Owner: owner, ObjectID: info.ObjectID},
		Info: info,
	}
}

// indexSimpleTx indexes a minimal transaction: one sender, one digest, no
// objects or events.
func indexSimpleTx(t *testing.T, store *IndexStore, sender types.Address, digest types.TransactionDigest) uint64 {
	t.Helper()
	seq, err := store.IndexTx(context.Background(), &TransactionIndexData{
		Sender:      sender,
		Digest:      digest,
		TimestampMs: 1000 + uint64(digest[0]),
	})
	require.NoError(t, err)
	return seq
}
