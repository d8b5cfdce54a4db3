package sui

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Turknft/sui/types"
)

// BalanceKey addresses one per-coin-type aggregate.
type BalanceKey struct {
	Owner    types.Address
	CoinType types.TypeTag
}

// A cached result is either an aggregate or a remembered failure, so the
// balance API's errors are negatively cached too.
type balanceResult struct {
	balance types.TotalBalance
	err     error
}

type allBalancesResult struct {
	balances map[types.TypeTag]types.TotalBalance
	err      error
}

// BalanceCaches holds the two bounded balance caches. This store only
// invalidates entries; population is the balance-query API's job.
type BalanceCaches struct {
	perCoinType *lru.Cache[BalanceKey, balanceResult]
	allBalances *lru.Cache[types.Address, allBalancesResult]
}

func NewBalanceCaches(perCoinTypeSize, allBalancesSize int) *BalanceCaches {
	perCoinType, _ := lru.New[BalanceKey, balanceResult](perCoinTypeSize)
	allBalances, _ := lru.New[types.Address, allBalancesResult](allBalancesSize)
	return &BalanceCaches{perCoinType: perCoinType, allBalances: allBalances}
}

// GetBalance returns the cached aggregate for (owner, coinType). The error
// is the cached failure, if that is what was stored.
func (c *BalanceCaches) GetBalance(owner types.Address, coinType types.TypeTag) (types.TotalBalance, bool, error) {
	res, ok := c.perCoinType.Get(BalanceKey{Owner: owner, CoinType: coinType})
	if !ok {
		return types.TotalBalance{}, false, nil
	}
	return res.balance, true, res.err
}

func (c *BalanceCaches) SetBalance(owner types.Address, coinType types.TypeTag, balance types.TotalBalance) {
	c.perCoinType.Add(BalanceKey{Owner: owner, CoinType: coinType}, balanceResult{balance: balance})
}

func (c *BalanceCaches) SetBalanceErr(owner types.Address, coinType types.TypeTag, err error) {
	c.perCoinType.Add(BalanceKey{Owner: owner, CoinType: coinType}, balanceResult{err: err})
}

// GetAllBalances returns the cached per-type aggregates of one owner.
func (c *BalanceCaches) GetAllBalances(owner types.Address) (map[types.TypeTag]types.TotalBalance, bool, error) {
	res, ok := c.allBalances.Get(owner)
	if !ok {
		return nil, false, nil
	}
	return res.balances, true, res.err
}

func (c *BalanceCaches) SetAllBalances(owner types.Address, balances map[types.TypeTag]types.TotalBalance) {
	c.allBalances.Add(owner, allBalancesResult{balances: balances})
}

func (c *BalanceCaches) SetAllBalancesErr(owner types.Address, err error) {
	c.allBalances.Add(owner, allBalancesResult{err: err})
}

func (c *BalanceCaches) InvalidateBalance(owner types.Address, coinType types.TypeTag) {
	c.perCoinType.Remove(BalanceKey{Owner: owner, CoinType: coinType})
	BalanceCacheInvalidations.WithLabelValues("per_coin_type").Inc()
}

func (c *BalanceCaches) InvalidateAllBalances(owner types.Address) {
	c.allBalances.Remove(owner)
	BalanceCacheInvalidations.WithLabelValues("all_balances").Inc()
}

// invalidateDeletedCoins drops the per-coin-type entries of owners losing an
// object. The object's type is read from its still-present owner-index row.
func (s *IndexStore) invalidateDeletedCoins(ctx context.Context, deleted []OwnerIndexKey) {
	for _, key := range deleted {
		info, ok := s.ownerInfo(key.Owner, key.ObjectID)
		if !ok {
			continue
		}
		coinType, err := info.Type.CoinType()
		if err != nil {
			// a package object carries no balance
			s.log.DebugCtx(ctx, "skipping cache invalidation", "object", key.ObjectID.String(), "reason", err)
			continue
		}
		s.caches.InvalidateBalance(key.Owner, coinType)
	}
}

// invalidateAddedCoins drops the per-coin-type entries of owners gaining an
// object, using the incoming row's type.
func (s *IndexStore) invalidateAddedCoins(ctx context.Context, added []OwnerEntry) {
	for _, entry := range added {
		coinType, err := entry.Info.Type.CoinType()
		if err != nil {
			s.log.DebugCtx(ctx, "skipping cache invalidation", "object", entry.Key.ObjectID.String(), "reason", err)
			continue
		}
		s.caches.InvalidateBalance(entry.Key.Owner, coinType)
	}
}

// invalidateAllBalances drops the all-types entry of every touched address.
func (s *IndexStore) invalidateAllBalances(ctx context.Context, touched map[types.Address]struct{}) {
	for addr := range touched {
		s.caches.InvalidateAllBalances(addr)
	}
}

// ownerInfo reads one owner-index row.
func (s *IndexStore) ownerInfo(owner types.Address, id types.ObjectID) (types.ObjectInfo, bool) {
	raw, closer, err := s.db.Get(ownerKey(owner, id))
	if err != nil {
		return types.ObjectInfo{}, false
	}
	defer closer.Close()
	var info types.ObjectInfo
	if err := msgpack.Unmarshal(raw, &info); err != nil {
		return types.ObjectInfo{}, false
	}
	return info, true
}
