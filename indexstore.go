// Package sui implements the secondary-index store that sits beside a node's
// primary ledger and object store. It maintains ordered derived views over
// committed transactions (by sender, recipient, touched object, invoked
// function), five redundant event indexes, and the currently-live
// owner/dynamic-field set, all inside one pebble keyspace. The main consumer
// is the explorer/RPC layer.
package sui

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Turknft/sui/types"
	"github.com/Turknft/sui/utils"
)

// Limits enforced by the RPC layer above; exported here so both sides agree.
const (
	MaxTxRangeSize        = 4096
	MaxGetOwnedObjectSize = 256
)

type Options struct {
	pebble.Options

	Logger             utils.Logger
	PebbleWriteOptions *pebble.WriteOptions

	// Metrics, when set, gets a DBCollector for the opened database.
	Metrics prometheus.Registerer

	// balance cache capacities, entries
	PerCoinTypeCacheSize int
	AllBalancesCacheSize int
}

func (o *Options) SetDefaults() {
	if o.Logger == nil {
		o.Logger = utils.NewDefaultLogger(slog.LevelError)
	}
	if o.PebbleWriteOptions == nil {
		o.PebbleWriteOptions = &pebble.WriteOptions{Sync: true}
	}
	if o.PerCoinTypeCacheSize == 0 {
		o.PerCoinTypeCacheSize = 1_000_000
	}
	if o.AllBalancesCacheSize == 0 {
		o.AllBalancesCacheSize = 100_000
	}
	if o.Options.Logger == nil {
		o.Options.Logger = utils.PebbleLogger(o.Logger)
	}
}

// IndexStore owns the index tables, the sequence allocator and the balance
// caches. Methods are safe for concurrent readers; IndexTx calls must be
// serialized by the caller in commit order (see IndexTx).
type IndexStore struct {
	db     *pebble.DB
	log    utils.Logger
	wo     *pebble.WriteOptions
	seq    *SequenceAllocator
	caches *BalanceCaches
}

// Open opens (or creates) the index database under dirname and recovers the
// sequence allocator from the last persisted transaction-order entry.
func Open(dirname string, opts Options) (*IndexStore, error) {
	opts.SetDefaults()
	db, err := pebble.Open(dirname, &opts.Options)
	if err != nil {
		return nil, fmt.Errorf("open index db: %w", err)
	}
	store := &IndexStore{
		db:     db,
		log:    opts.Logger,
		wo:     opts.PebbleWriteOptions,
		caches: NewBalanceCaches(opts.PerCoinTypeCacheSize, opts.AllBalancesCacheSize),
	}
	next := uint64(0)
	if last, ok := store.lastIndexedSeq(); ok {
		next = last + 1
	}
	store.seq = newSequenceAllocator(next)
	if opts.Metrics != nil {
		if err := registerMetrics(opts.Metrics, NewDBCollector(db)); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	store.log.Debug("index store open", "dir", dirname, "next_seq", next)
	return store, nil
}

func (s *IndexStore) Close() error {
	if s.db == nil {
		return ErrClosed
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Caches exposes the balance caches to the balance-query API, which is the
// only component that populates them.
func (s *IndexStore) Caches() *BalanceCaches {
	return s.caches
}

// NextSequenceNumber reports an optimistic bound on the next sequence to be
// assigned; under concurrent indexing it may be off by one.
func (s *IndexStore) NextSequenceNumber() uint64 {
	return s.seq.Bound() + 1
}

// IsEmpty reports whether the owner index holds no objects at all.
func (s *IndexStore) IsEmpty() bool {
	it := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{tableOwnerIndex},
		UpperBound: prefixUpperBound([]byte{tableOwnerIndex}),
	})
	defer it.Close()
	return !it.First()
}

// GetTransactionSeq resolves a transaction digest to its sequence number.
func (s *IndexStore) GetTransactionSeq(digest types.TransactionDigest) (uint64, bool, error) {
	raw, closer, err := s.db.Get(seqKey(digest))
	if err == pebble.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("transaction seq lookup: %w", err)
	}
	defer closer.Close()
	if len(raw) != 8 {
		return 0, false, fmt.Errorf("%w: transaction seq for %s", ErrBadIndexRow, digest)
	}
	return binary.BigEndian.Uint64(raw), true, nil
}

// GetTimestampMs returns the locally observed timestamp of an indexed
// transaction, in milliseconds.
func (s *IndexStore) GetTimestampMs(digest types.TransactionDigest) (uint64, bool, error) {
	raw, closer, err := s.db.Get(timestampKey(digest))
	if err == pebble.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("timestamp lookup: %w", err)
	}
	defer closer.Close()
	if len(raw) != 8 {
		return 0, false, fmt.Errorf("%w: timestamp for %s", ErrBadIndexRow, digest)
	}
	return binary.BigEndian.Uint64(raw), true, nil
}

// lastIndexedSeq finds the highest sequence in the transaction-order table.
func (s *IndexStore) lastIndexedSeq() (uint64, bool) {
	it := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{tableTransactionOrder},
		UpperBound: prefixUpperBound([]byte{tableTransactionOrder}),
	})
	defer it.Close()
	if !it.Last() {
		return 0, false
	}
	return keySeq(it.Key()), true
}
