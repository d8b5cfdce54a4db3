package sui

import (
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/Turknft/sui/types"
)

// TransactionFilter is the closed set of per-index query shapes. The
// checkpoint variant is answered by the checkpoint store, not here.
type TransactionFilter interface {
	txFilter()
}

// MoveFunctionFilter selects transactions that invoked a function of the
// given package. Module and Function may be empty, in which case only the
// specified components constrain the match.
type MoveFunctionFilter struct {
	Package  types.ObjectID
	Module   string
	Function string
}

type InputObjectFilter struct{ ObjectID types.ObjectID }
type ChangedObjectFilter struct{ ObjectID types.ObjectID }
type FromAddressFilter struct{ Address types.Address }
type ToAddressFilter struct{ Address types.Address }
type CheckpointFilter struct{ SequenceNumber uint64 }

func (MoveFunctionFilter) txFilter()  {}
func (InputObjectFilter) txFilter()   {}
func (ChangedObjectFilter) txFilter() {}
func (FromAddressFilter) txFilter()   {}
func (ToAddressFilter) txFilter()     {}
func (CheckpointFilter) txFilter()    {}

// GetTransactions resolves the cursor digest to a sequence number and
// dispatches to the index matching the filter; a nil filter scans the
// unconditional transaction-order table. The cursor is exclusive. A zero
// limit means unlimited.
func (s *IndexStore) GetTransactions(filter TransactionFilter, cursor *types.TransactionDigest, limit int, reverse bool) ([]types.TransactionDigest, error) {
	var cursorSeq *uint64
	if cursor != nil {
		seq, ok, err := s.GetTransactionSeq(*cursor)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: cursor %s", ErrTransactionNotFound, cursor)
		}
		cursorSeq = &seq
	}
	switch f := filter.(type) {
	case nil:
		return s.scanDigestIndex(tableTransactionOrder, nil, cursorSeq, limit, reverse)
	case MoveFunctionFilter:
		return s.GetTransactionsByMoveFunction(f.Package, f.Module, f.Function, cursorSeq, limit, reverse)
	case InputObjectFilter:
		return s.GetTransactionsByInputObject(f.ObjectID, cursorSeq, limit, reverse)
	case ChangedObjectFilter:
		return s.GetTransactionsByMutatedObject(f.ObjectID, cursorSeq, limit, reverse)
	case FromAddressFilter:
		return s.GetTransactionsFromAddr(f.Address, cursorSeq, limit, reverse)
	case ToAddressFilter:
		return s.GetTransactionsToAddr(f.Address, cursorSeq, limit, reverse)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedFilter, filter)
	}
}

func (s *IndexStore) GetTransactionsByInputObject(id types.ObjectID, cursor *uint64, limit int, reverse bool) ([]types.TransactionDigest, error) {
	return s.scanDigestIndex(tableByInputObject, id.Bytes(), cursor, limit, reverse)
}

func (s *IndexStore) GetTransactionsByMutatedObject(id types.ObjectID, cursor *uint64, limit int, reverse bool) ([]types.TransactionDigest, error) {
	return s.scanDigestIndex(tableByMutatedObject, id.Bytes(), cursor, limit, reverse)
}

func (s *IndexStore) GetTransactionsFromAddr(addr types.Address, cursor *uint64, limit int, reverse bool) ([]types.TransactionDigest, error) {
	return s.scanDigestIndex(tableFromAddr, addr.Bytes(), cursor, limit, reverse)
}

func (s *IndexStore) GetTransactionsToAddr(addr types.Address, cursor *uint64, limit int, reverse bool) ([]types.TransactionDigest, error) {
	return s.scanDigestIndex(tableToAddr, addr.Bytes(), cursor, limit, reverse)
}

// GetTransactionsByMoveFunction scans the move-call index. With both module
// and function given the key is fully constrained and this is a plain
// secondary-key scan; with partial constraints the whole package (or
// package+module) range is scanned and entries whose unspecified components
// differ are skipped rather than terminating the scan.
func (s *IndexStore) GetTransactionsByMoveFunction(pkg types.ObjectID, module, function string, cursor *uint64, limit int, reverse bool) ([]types.TransactionDigest, error) {
	if module != "" && function != "" {
		secondary := appendIdent(appendIdent(pkg.Bytes(), module), function)
		return s.scanDigestIndex(tableByMoveFunction, secondary, cursor, limit, reverse)
	}

	prefix := tableKey(tableByMoveFunction, pkg.Bytes())
	if module != "" {
		prefix = appendIdent(prefix, module)
	}
	it := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	defer it.Close()

	var digests []types.TransactionDigest
	var scanErr error
	step := func() bool {
		m, f, seq, ok := parseMoveFunctionKey(it.Key())
		if !ok {
			scanErr = fmt.Errorf("%w: move-call key %x", ErrBadIndexRow, it.Key())
			return false
		}
		if module != "" && m != module {
			return true
		}
		if function != "" && f != function {
			return true
		}
		// the cursor transaction's entries are excluded wherever they sit
		// in the (module, function, seq) order
		if cursor != nil && seq == *cursor {
			return true
		}
		d, err := types.TransactionDigestFromBytes(it.Value())
		if err != nil {
			scanErr = fmt.Errorf("%w: move-call row value", ErrBadIndexRow)
			return false
		}
		digests = append(digests, d)
		return limit == 0 || len(digests) < limit
	}
	if reverse {
		for ok := it.Last(); ok; ok = it.Prev() {
			if !step() {
				break
			}
		}
	} else {
		for ok := it.First(); ok; ok = it.Next() {
			if !step() {
				break
			}
		}
	}
	if scanErr != nil {
		return nil, scanErr
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("move-call index scan: %w", err)
	}
	return digests, nil
}

// scanDigestIndex is the generic range scan shared by every
// secondary-key-to-digest index: seek into the (secondary, seq) range,
// honor the exclusive cursor, and collect digests in scan order. The cursor
// is folded into the iterator bounds: forward scans start past it, backward
// scans end just before it.
func (s *IndexStore) scanDigestIndex(table byte, secondary []byte, cursor *uint64, limit int, reverse bool) ([]types.TransactionDigest, error) {
	prefix := tableKey(table, secondary)
	lower := prefix
	upper := prefixUpperBound(prefix)
	if cursor != nil {
		if reverse {
			upper = appendBe64(prefix, *cursor)
		} else {
			lower = appendBe64(prefix, *cursor+1)
		}
	}
	it := s.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: upper,
	})
	defer it.Close()

	var digests []types.TransactionDigest
	var scanErr error
	collect := func() bool {
		d, err := types.TransactionDigestFromBytes(it.Value())
		if err != nil {
			scanErr = fmt.Errorf("%w: digest row value", ErrBadIndexRow)
			return false
		}
		digests = append(digests, d)
		return limit == 0 || len(digests) < limit
	}
	if reverse {
		for ok := it.Last(); ok; ok = it.Prev() {
			if !collect() {
				break
			}
		}
	} else {
		for ok := it.First(); ok; ok = it.Next() {
			if !collect() {
				break
			}
		}
	}
	if scanErr != nil {
		return nil, scanErr
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("index scan: %w", err)
	}
	return digests, nil
}
