package sui

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/cockroachdb/pebble"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Turknft/sui/types"
)

// ObjectFilter is an optional predicate applied to owner-index rows.
type ObjectFilter func(types.ObjectInfo) bool

// OwnerObjectsIterator walks the objects currently owned by owner, in object
// id order. A non-zero startingID is an exclusive cursor; the zero id starts
// from the beginning. Iteration stops at the first yielded non-nil error.
func (s *IndexStore) OwnerObjectsIterator(owner types.Address, startingID types.ObjectID, filter ObjectFilter) iter.Seq2[types.ObjectInfo, error] {
	return func(yield func(types.ObjectInfo, error) bool) {
		prefix := tableKey(tableOwnerIndex, owner.Bytes())
		it := s.db.NewIter(&pebble.IterOptions{
			LowerBound: prefix,
			UpperBound: prefixUpperBound(prefix),
		})
		defer it.Close()

		start := ownerKey(owner, startingID)
		for ok := it.SeekGE(start); ok; ok = it.Next() {
			// the cursor itself is excluded; the zero id sorts before
			// every real id so it never matches
			if startingID != types.ObjectIDZero && bytes.Equal(it.Key(), start) {
				continue
			}
			var info types.ObjectInfo
			if err := msgpack.Unmarshal(it.Value(), &info); err != nil {
				yield(types.ObjectInfo{}, fmt.Errorf("%w: owner row: %s", ErrBadIndexRow, err))
				return
			}
			if filter != nil && !filter(info) {
				continue
			}
			if !yield(info, nil) {
				return
			}
		}
		if err := it.Error(); err != nil {
			yield(types.ObjectInfo{}, fmt.Errorf("owner index scan: %w", err))
		}
	}
}

// GetOwnerObjects collects up to limit owned objects after the cursor.
// A zero limit means unlimited.
func (s *IndexStore) GetOwnerObjects(owner types.Address, cursor types.ObjectID, limit int, filter ObjectFilter) ([]types.ObjectInfo, error) {
	var infos []types.ObjectInfo
	for info, err := range s.OwnerObjectsIterator(owner, cursor, filter) {
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
		if limit > 0 && len(infos) >= limit {
			break
		}
	}
	return infos, nil
}

// OwnerCoinIterator walks the owner's coin objects, optionally restricted to
// one coin type, yielding object references.
func (s *IndexStore) OwnerCoinIterator(owner types.Address, coinType *types.TypeTag) iter.Seq2[types.ObjectRef, error] {
	return func(yield func(types.ObjectRef, error) bool) {
		filter := func(info types.ObjectInfo) bool {
			if coinType != nil {
				return info.Type.IsCoinT(*coinType)
			}
			return info.Type.IsCoin()
		}
		for info, err := range s.OwnerObjectsIterator(owner, types.ObjectIDZero, filter) {
			if err != nil {
				yield(types.ObjectRef{}, err)
				return
			}
			if !yield(info.Ref(), nil) {
				return
			}
		}
	}
}

// DynamicFieldsIterator walks the dynamic fields of one parent object, in
// field object id order, with the same exclusive-cursor rule as
// OwnerObjectsIterator.
func (s *IndexStore) DynamicFieldsIterator(parent types.ObjectID, startingID types.ObjectID) iter.Seq2[types.DynamicFieldInfo, error] {
	return func(yield func(types.DynamicFieldInfo, error) bool) {
		prefix := tableKey(tableDynamicFieldIndex, parent.Bytes())
		it := s.db.NewIter(&pebble.IterOptions{
			LowerBound: prefix,
			UpperBound: prefixUpperBound(prefix),
		})
		defer it.Close()

		start := dynamicFieldKey(parent, startingID)
		for ok := it.SeekGE(start); ok; ok = it.Next() {
			if startingID != types.ObjectIDZero && bytes.Equal(it.Key(), start) {
				continue
			}
			var info types.DynamicFieldInfo
			if err := msgpack.Unmarshal(it.Value(), &info); err != nil {
				yield(types.DynamicFieldInfo{}, fmt.Errorf("%w: dynamic-field row: %s", ErrBadIndexRow, err))
				return
			}
			if !yield(info, nil) {
				return
			}
		}
		if err := it.Error(); err != nil {
			yield(types.DynamicFieldInfo{}, fmt.Errorf("dynamic-field index scan: %w", err))
		}
	}
}

// GetDynamicFieldObjectID finds the field object addressed by name under the
// parent: a linear scan of the parent's fields, comparing the stored name
// hash before the full name.
func (s *IndexStore) GetDynamicFieldObjectID(parent types.ObjectID, name types.DynamicFieldName) (types.ObjectID, bool, error) {
	hash := name.Hash()
	for info, err := range s.DynamicFieldsIterator(parent, types.ObjectIDZero) {
		if err != nil {
			return types.ObjectID{}, false, err
		}
		if info.NameHash == hash && info.Name.Equal(name) {
			return info.ObjectID, true, nil
		}
	}
	return types.ObjectID{}, false, nil
}
