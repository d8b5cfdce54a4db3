package sui

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Turknft/sui/types"
)

// OwnerIndexKey addresses one owner-index row.
type OwnerIndexKey struct {
	Owner    types.Address
	ObjectID types.ObjectID
}

// DynamicFieldKey addresses one dynamic-field-index row.
type DynamicFieldKey struct {
	Parent types.ObjectID
	Field  types.ObjectID
}

type OwnerEntry struct {
	Key  OwnerIndexKey
	Info types.ObjectInfo
}

type DynamicFieldEntry struct {
	Key  DynamicFieldKey
	Info types.DynamicFieldInfo
}

// ObjectIndexChanges is the explicit ownership delta of one transaction, as
// computed by the execution layer from the transaction's effects.
type ObjectIndexChanges struct {
	DeletedOwners        []OwnerIndexKey
	DeletedDynamicFields []DynamicFieldKey
	NewOwners            []OwnerEntry
	NewDynamicFields     []DynamicFieldEntry
}

// MutatedObject pairs a created/mutated object reference with its
// post-transaction owner.
type MutatedObject struct {
	Ref   types.ObjectRef
	Owner types.Owner
}

// MoveCall names one invoked entry function.
type MoveCall struct {
	Package  types.ObjectID
	Module   string
	Function string
}

// TransactionIndexData is everything the commit pipeline hands over for one
// committed transaction.
type TransactionIndexData struct {
	Sender         types.Address
	ActiveInputs   []types.ObjectID
	MutatedObjects []MutatedObject
	MoveCalls      []MoveCall
	Events         *types.TransactionEvents
	ObjectChanges  ObjectIndexChanges
	Digest         types.TransactionDigest
	TimestampMs    uint64
}

// eventRow is the value shared by all five event views.
type eventRow struct {
	EventsDigest types.TransactionEventsDigest `msgpack:"e"`
	TxDigest     types.TransactionDigest       `msgpack:"x"`
	TimestampMs  uint64                        `msgpack:"t"`
}

// IndexTx indexes one committed transaction: it allocates a sequence number,
// stages every derived-table update into one batch, invalidates the balance
// cache entries of every owner whose object set changed, and commits the
// batch atomically. Either all of the call's index updates become visible or
// none do.
//
// Sequence allocation and batch commit are two separate steps, so concurrent
// callers may commit out of allocation order; callers must invoke IndexTx
// serially, in commit order.
func (s *IndexStore) IndexTx(ctx context.Context, data *TransactionIndexData) (uint64, error) {
	seq := s.seq.Next()
	digest := data.Digest

	batch := s.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(orderKey(seq), digest.Bytes(), nil); err != nil {
		return 0, fmt.Errorf("stage transaction order: %w", err)
	}
	if err := batch.Set(seqKey(digest), be64(seq), nil); err != nil {
		return 0, fmt.Errorf("stage transaction seq: %w", err)
	}
	if err := batch.Set(secondarySeqKey(tableFromAddr, data.Sender.Bytes(), seq), digest.Bytes(), nil); err != nil {
		return 0, fmt.Errorf("stage sender index: %w", err)
	}
	for _, id := range data.ActiveInputs {
		if err := batch.Set(secondarySeqKey(tableByInputObject, id.Bytes(), seq), digest.Bytes(), nil); err != nil {
			return 0, fmt.Errorf("stage input-object index: %w", err)
		}
	}
	for _, mut := range data.MutatedObjects {
		if err := batch.Set(secondarySeqKey(tableByMutatedObject, mut.Ref.ID.Bytes(), seq), digest.Bytes(), nil); err != nil {
			return 0, fmt.Errorf("stage mutated-object index: %w", err)
		}
		// only address owners show up in the recipient index
		if addr, ok := mut.Owner.AddressOwner(); ok {
			if err := batch.Set(secondarySeqKey(tableToAddr, addr.Bytes(), seq), digest.Bytes(), nil); err != nil {
				return 0, fmt.Errorf("stage recipient index: %w", err)
			}
		}
	}
	for _, call := range data.MoveCalls {
		if err := batch.Set(moveFunctionKey(call.Package, call.Module, call.Function, seq), digest.Bytes(), nil); err != nil {
			return 0, fmt.Errorf("stage move-call index: %w", err)
		}
	}
	if err := batch.Set(timestampKey(digest), be64(data.TimestampMs), nil); err != nil {
		return 0, fmt.Errorf("stage timestamp: %w", err)
	}

	// ownership deltas
	touched := make(map[types.Address]struct{})
	s.invalidateDeletedCoins(ctx, data.ObjectChanges.DeletedOwners)
	for _, key := range data.ObjectChanges.DeletedOwners {
		touched[key.Owner] = struct{}{}
		if err := batch.Delete(ownerKey(key.Owner, key.ObjectID), nil); err != nil {
			return 0, fmt.Errorf("stage owner delete: %w", err)
		}
	}
	for _, key := range data.ObjectChanges.DeletedDynamicFields {
		if err := batch.Delete(dynamicFieldKey(key.Parent, key.Field), nil); err != nil {
			return 0, fmt.Errorf("stage dynamic-field delete: %w", err)
		}
	}
	s.invalidateAddedCoins(ctx, data.ObjectChanges.NewOwners)
	for _, entry := range data.ObjectChanges.NewOwners {
		touched[entry.Key.Owner] = struct{}{}
		val, err := msgpack.Marshal(&entry.Info)
		if err != nil {
			return 0, fmt.Errorf("encode owner row: %w", err)
		}
		if err := batch.Set(ownerKey(entry.Key.Owner, entry.Key.ObjectID), val, nil); err != nil {
			return 0, fmt.Errorf("stage owner insert: %w", err)
		}
	}
	s.invalidateAllBalances(ctx, touched)
	for _, entry := range data.ObjectChanges.NewDynamicFields {
		val, err := msgpack.Marshal(&entry.Info)
		if err != nil {
			return 0, fmt.Errorf("encode dynamic-field row: %w", err)
		}
		if err := batch.Set(dynamicFieldKey(entry.Key.Parent, entry.Key.Field), val, nil); err != nil {
			return 0, fmt.Errorf("stage dynamic-field insert: %w", err)
		}
	}

	// events: one row per event into the canonical order and all four views
	if data.Events != nil && len(data.Events.Data) > 0 {
		row, err := msgpack.Marshal(&eventRow{
			EventsDigest: data.Events.Digest(),
			TxDigest:     digest,
			TimestampMs:  data.TimestampMs,
		})
		if err != nil {
			return 0, fmt.Errorf("encode event row: %w", err)
		}
		for i, ev := range data.Events.Data {
			suffix := eventSuffix(EventID{TxSeq: seq, EventSeq: uint64(i)})
			timeKey := appendBe64([]byte{tableEventByTime}, data.TimestampMs)
			keys := [][]byte{
				tableKey(tableEventOrder, suffix),
				append(eventModulePrefix(ev.ModuleID()), suffix...),
				append(eventTypePrefix(ev.Type.TypeTag()), suffix...),
				tableKey(tableEventBySender, ev.Sender.Bytes(), suffix),
				append(timeKey, suffix...),
			}
			for _, key := range keys {
				if err := batch.Set(key, row, nil); err != nil {
					return 0, fmt.Errorf("stage event index: %w", err)
				}
			}
		}
		IndexedEvents.Add(float64(len(data.Events.Data)))
	}

	start := time.Now()
	if err := s.db.Apply(batch, s.wo); err != nil {
		return 0, fmt.Errorf("commit index batch: %w", err)
	}
	BatchCommitDuration.Observe(float64(time.Since(start).Milliseconds()))
	IndexedTransactions.Inc()
	s.log.DebugCtx(ctx, "indexed transaction", "digest", digest.String(), "seq", seq)
	return seq, nil
}

// InsertGenesisObjects bulk-loads the initial owner and dynamic-field sets.
// No sequence number is allocated, no per-transaction indexes are written
// and no cache entries are touched.
func (s *IndexStore) InsertGenesisObjects(changes ObjectIndexChanges) error {
	batch := s.db.NewBatch()
	defer batch.Close()
	for _, entry := range changes.NewOwners {
		val, err := msgpack.Marshal(&entry.Info)
		if err != nil {
			return fmt.Errorf("encode owner row: %w", err)
		}
		if err := batch.Set(ownerKey(entry.Key.Owner, entry.Key.ObjectID), val, nil); err != nil {
			return fmt.Errorf("stage owner insert: %w", err)
		}
	}
	for _, entry := range changes.NewDynamicFields {
		val, err := msgpack.Marshal(&entry.Info)
		if err != nil {
			return fmt.Errorf("encode dynamic-field row: %w", err)
		}
		if err := batch.Set(dynamicFieldKey(entry.Key.Parent, entry.Key.Field), val, nil); err != nil {
			return fmt.Errorf("stage dynamic-field insert: %w", err)
		}
	}
	if err := s.db.Apply(batch, s.wo); err != nil {
		return fmt.Errorf("commit genesis batch: %w", err)
	}
	return nil
}
