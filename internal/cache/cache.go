// Package cache is the in-process read model of members, items and
// transactions, plus the monthly index from (member, year, month, item) to
// the transactions that represent that period.
//
// A ReadCache never reads from storage. Callers fall through to the store
// on a miss and put what they fetched; writers refresh or evict the entries
// they changed.
package cache

import (
	"fmt"
	"slices"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/logger"
	"mitramandal-backend/internal/metrics"
)

// Partition names, also used as metric labels.
const (
	PartitionMembers      = "members"
	PartitionItems        = "items"
	PartitionItemCodes    = "item_codes"
	PartitionTransactions = "transactions"
	PartitionMonthly      = "monthly"
)

type ReadCache struct {
	members      *gocache.Cache
	items        *gocache.Cache
	itemCodes    *gocache.Cache
	transactions *gocache.Cache
	monthly      *gocache.Cache

	// bucketMu guards read-modify-write of monthly buckets.
	bucketMu sync.Mutex
}

// New builds an empty cache. A ttl of zero or less keeps entries until they
// are evicted or the cache is cleared.
func New(ttl time.Duration) *ReadCache {
	expiration, cleanup := gocache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		expiration, cleanup = ttl, ttl
	}
	newPartition := func() *gocache.Cache { return gocache.New(expiration, cleanup) }
	return &ReadCache{
		members:      newPartition(),
		items:        newPartition(),
		itemCodes:    newPartition(),
		transactions: newPartition(),
		monthly:      newPartition(),
	}
}

// MonthlyKey is the composite bucket key for a member's period on an item.
func MonthlyKey(memberID string, year int, month time.Month, itemID string) string {
	return fmt.Sprintf("%s_%d_%d_%s", memberID, year, int(month), itemID)
}

func (c *ReadCache) Member(id string) (domain.Member, bool) {
	v, ok := c.members.Get(id)
	metrics.RecordCacheLookup(PartitionMembers, ok)
	if !ok {
		return domain.Member{}, false
	}
	return v.(domain.Member).Clone(), true
}

func (c *ReadCache) PutMember(m domain.Member) {
	c.members.SetDefault(m.ID, m.Clone())
}

func (c *ReadCache) DeleteMember(id string) {
	c.members.Delete(id)
}

func (c *ReadCache) Item(id string) (domain.Item, bool) {
	v, ok := c.items.Get(id)
	metrics.RecordCacheLookup(PartitionItems, ok)
	if !ok {
		return domain.Item{}, false
	}
	return v.(domain.Item).Clone(), true
}

// ItemByCode resolves an item through its external code.
func (c *ReadCache) ItemByCode(code string) (domain.Item, bool) {
	id, ok := c.itemCodes.Get(code)
	metrics.RecordCacheLookup(PartitionItemCodes, ok)
	if !ok {
		return domain.Item{}, false
	}
	return c.Item(id.(string))
}

// PutItem stores the item and its code index entry.
func (c *ReadCache) PutItem(it domain.Item) {
	c.items.SetDefault(it.ID, it.Clone())
	if it.Code != "" {
		c.itemCodes.SetDefault(it.Code, it.ID)
	}
}

func (c *ReadCache) DeleteItem(id string) {
	if v, ok := c.items.Get(id); ok {
		c.itemCodes.Delete(v.(domain.Item).Code)
	}
	c.items.Delete(id)
}

func (c *ReadCache) Transaction(id string) (domain.Transaction, bool) {
	v, ok := c.transactions.Get(id)
	metrics.RecordCacheLookup(PartitionTransactions, ok)
	if !ok {
		return domain.Transaction{}, false
	}
	return v.(domain.Transaction).Clone(), true
}

func (c *ReadCache) PutTransaction(t domain.Transaction) {
	c.transactions.SetDefault(t.ID, t.Clone())
}

// DeleteTransaction evicts the transaction and drops its id from every
// monthly bucket.
func (c *ReadCache) DeleteTransaction(id string) {
	c.transactions.Delete(id)

	c.bucketMu.Lock()
	defer c.bucketMu.Unlock()
	for key, item := range c.monthly.Items() {
		ids := item.Object.([]string)
		if i := slices.Index(ids, id); i >= 0 {
			c.monthly.SetDefault(key, slices.Delete(slices.Clone(ids), i, i+1))
		}
	}
}

// IndexMonthly caches each group's representative transaction and files its
// id under every member liable for it. Indexing the same groups again is a
// no-op.
func (c *ReadCache) IndexMonthly(groups []domain.MonthlyGroup) {
	c.bucketMu.Lock()
	defer c.bucketMu.Unlock()

	for _, g := range groups {
		txn := g.Transaction
		c.PutTransaction(txn)
		for _, memberID := range txn.MemberIDs {
			key := MonthlyKey(memberID, g.Year, g.Month, g.ItemID)
			var ids []string
			if v, ok := c.monthly.Get(key); ok {
				ids = v.([]string)
			}
			if slices.Contains(ids, txn.ID) {
				continue
			}
			c.monthly.SetDefault(key, append(slices.Clone(ids), txn.ID))
		}
	}
	logger.CacheEvent("index_monthly", PartitionMonthly, "groups", len(groups))
}

// MonthlyTransactionIDs returns the ids filed under one bucket.
func (c *ReadCache) MonthlyTransactionIDs(memberID string, year int, month time.Month, itemID string) []string {
	v, ok := c.monthly.Get(MonthlyKey(memberID, year, month, itemID))
	metrics.RecordCacheLookup(PartitionMonthly, ok)
	if !ok {
		return nil
	}
	return slices.Clone(v.([]string))
}

// Clear empties every partition.
func (c *ReadCache) Clear() {
	c.bucketMu.Lock()
	defer c.bucketMu.Unlock()
	for _, p := range c.partitions() {
		p.cache.Flush()
	}
	logger.CacheEvent("clear", "all")
}

type partition struct {
	name  string
	cache *gocache.Cache
}

func (c *ReadCache) partitions() []partition {
	return []partition{
		{PartitionMembers, c.members},
		{PartitionItems, c.items},
		{PartitionItemCodes, c.itemCodes},
		{PartitionTransactions, c.transactions},
		{PartitionMonthly, c.monthly},
	}
}

// ReportSize publishes the entry count of every partition.
func (c *ReadCache) ReportSize() {
	for _, p := range c.partitions() {
		metrics.CacheEntries.WithLabelValues(p.name).Set(float64(p.cache.ItemCount()))
	}
}
