package sui

import (
	"fmt"
	"math"

	"github.com/cockroachdb/pebble"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Turknft/sui/types"
)

// EventID is the position of one event in the canonical event order: the
// transaction's sequence number plus the event's index within it.
type EventID struct {
	TxSeq    uint64
	EventSeq uint64
}

// EventIDMax is the descending-scan start position covering everything.
var EventIDMax = EventID{TxSeq: math.MaxUint64, EventSeq: math.MaxUint64}

// EventEntry is what every event query returns per event.
type EventEntry struct {
	EventsDigest types.TransactionEventsDigest
	TxDigest     types.TransactionDigest
	EventSeq     uint64
	TimestampMs  uint64
}

// AllEvents scans the canonical event order starting at the given position,
// inclusive. A zero limit means unlimited.
func (s *IndexStore) AllEvents(cursor EventID, limit int, descending bool) ([]EventEntry, error) {
	return s.scanEventIndex(tableEventOrder, nil, cursor, limit, descending)
}

// EventsByTransaction returns the events of one transaction. The caller's
// cursor is reconciled against the transaction's resolved sequence so the
// scan cannot leave the transaction's range.
func (s *IndexStore) EventsByTransaction(digest types.TransactionDigest, cursor EventID, limit int, descending bool) ([]EventEntry, error) {
	seq, ok, err := s.GetTransactionSeq(digest)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, digest)
	}
	prefix := appendBe64([]byte{tableEventOrder}, seq)
	var lower, upper []byte
	if descending {
		// a cursor before the transaction yields nothing; one past it
		// covers the whole transaction
		if cursor.TxSeq < seq {
			return nil, nil
		}
		ev := uint64(math.MaxUint64)
		if cursor.TxSeq == seq {
			ev = cursor.EventSeq
		}
		lower = prefix
		upper = keySuccessor(appendBe64(prefix, ev))
	} else {
		if cursor.TxSeq > seq {
			return nil, nil
		}
		ev := uint64(0)
		if cursor.TxSeq == seq {
			ev = cursor.EventSeq
		}
		lower = appendBe64(prefix, ev)
		upper = prefixUpperBound(prefix)
	}
	return s.collectEvents(lower, upper, limit, descending)
}

// EventsByModuleID scans the per-module event view.
func (s *IndexStore) EventsByModuleID(module types.ModuleID, cursor EventID, limit int, descending bool) ([]EventEntry, error) {
	return s.scanEventIndex(tableEventByModule, eventModulePrefix(module)[1:], cursor, limit, descending)
}

// EventsByMoveEventStructName scans the per-event-type view.
func (s *IndexStore) EventsByMoveEventStructName(name types.StructTag, cursor EventID, limit int, descending bool) ([]EventEntry, error) {
	return s.scanEventIndex(tableEventByType, eventTypePrefix(name.TypeTag())[1:], cursor, limit, descending)
}

// EventsBySender scans the per-sender event view.
func (s *IndexStore) EventsBySender(sender types.Address, cursor EventID, limit int, descending bool) ([]EventEntry, error) {
	return s.scanEventIndex(tableEventBySender, sender.Bytes(), cursor, limit, descending)
}

// EventRange scans the time-keyed view: ascending from startTime while the
// timestamp stays at or below endTime, descending from endTime while it
// stays at or above startTime. The cursor positions the scan within the
// first timestamp visited.
func (s *IndexStore) EventRange(startTime, endTime uint64, cursor EventID, limit int, descending bool) ([]EventEntry, error) {
	var lower, upper []byte
	if descending {
		lower = appendBe64([]byte{tableEventByTime}, startTime)
		start := appendBe64([]byte{tableEventByTime}, endTime)
		upper = keySuccessor(append(start, eventSuffix(cursor)...))
	} else {
		lower = append(appendBe64([]byte{tableEventByTime}, startTime), eventSuffix(cursor)...)
		upper = prefixUpperBound(appendBe64([]byte{tableEventByTime}, endTime))
	}
	return s.collectEvents(lower, upper, limit, descending)
}

// scanEventIndex is the range scan shared by the event views: keys are
// (secondary, txseq, evseq) and the cursor is an inclusive start position.
func (s *IndexStore) scanEventIndex(table byte, secondary []byte, cursor EventID, limit int, descending bool) ([]EventEntry, error) {
	prefix := tableKey(table, secondary)
	start := append(append([]byte{}, prefix...), eventSuffix(cursor)...)
	var lower, upper []byte
	if descending {
		lower = prefix
		upper = keySuccessor(start)
	} else {
		lower = start
		upper = prefixUpperBound(prefix)
	}
	return s.collectEvents(lower, upper, limit, descending)
}

func (s *IndexStore) collectEvents(lower, upper []byte, limit int, descending bool) ([]EventEntry, error) {
	it := s.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: upper,
	})
	defer it.Close()

	var entries []EventEntry
	var scanErr error
	collect := func() bool {
		var row eventRow
		if err := msgpack.Unmarshal(it.Value(), &row); err != nil {
			scanErr = fmt.Errorf("%w: event row: %s", ErrBadIndexRow, err)
			return false
		}
		entries = append(entries, EventEntry{
			EventsDigest: row.EventsDigest,
			TxDigest:     row.TxDigest,
			EventSeq:     eventKeyID(it.Key()).EventSeq,
			TimestampMs:  row.TimestampMs,
		})
		return limit == 0 || len(entries) < limit
	}
	if descending {
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
		return nil, fmt.Errorf("event index scan: %w", err)
	}
	return entries, nil
}
