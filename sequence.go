package sui

import (
	"sync/atomic"
)

// SequenceAllocator hands out the process-wide transaction sequence numbers.
// A single instance is created per store and recovered from the last
// persisted transaction-order entry; values are strictly increasing and
// never reused.
type SequenceAllocator struct {
	next atomic.Uint64
}

func newSequenceAllocator(start uint64) *SequenceAllocator {
	s := &SequenceAllocator{}
	s.next.Store(start)
	return s
}

// Next allocates a fresh sequence number.
func (s *SequenceAllocator) Next() uint64 {
	return s.next.Add(1) - 1
}

// Bound reports the allocator's current value: the sequence the next Next
// call would return, assuming no concurrent allocation.
func (s *SequenceAllocator) Bound() uint64 {
	return s.next.Load()
}
