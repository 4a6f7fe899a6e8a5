package pricecache

import (
    "sync"
    "time"

    "github.com/shopspring/decimal"

    "wealthdata/internal/asset"
)

// DefaultTTL is the freshness window for a resolved price.
const DefaultTTL = 5 * time.Minute

// Key identifies one cached price. Requests that differ only in fields
// outside this triple share an entry.
type Key struct {
    Category asset.Category
    Ticker   string // uppercase-trimmed
    Exchange string // uppercase-trimmed, empty when absent
}

// Entry is the last resolved price for a key.
type Entry struct {
    Price     decimal.Decimal
    QuoteDate string // provider-reported as-of date, empty for real-time sources
    AsOf      time.Time
}

// Cache is a process-lifetime price store with lazy TTL expiry. Entries are
// never evicted; an expired entry just stops being served until the next
// Put overwrites it. The key space is bounded by portfolio size, so there
// is no capacity cap.
type Cache struct {
    TTL time.Duration

    mu    sync.RWMutex
    items map[Key]Entry

    // now is swappable for TTL tests.
    now func() time.Time
}

func New(ttl time.Duration) *Cache {
    if ttl <= 0 { ttl = DefaultTTL }
    return &Cache{TTL: ttl, items: make(map[Key]Entry), now: time.Now}
}

// Get returns the entry for key if present and still fresh. Reads never
// mutate state.
func (c *Cache) Get(key Key) (Entry, bool) {
    c.mu.RLock()
    defer c.mu.RUnlock()
    e, ok := c.items[key]
    if !ok {
        return Entry{}, false
    }
    if c.now().Sub(e.AsOf) >= c.TTL {
        return Entry{}, false
    }
    return e, true
}

// Put stores a price for key, unconditionally overwriting any prior entry.
// Last write wins; concurrent refreshes of the same key are harmless
// because price data is idempotent.
func (c *Cache) Put(key Key, price decimal.Decimal, quoteDate string) {
    c.mu.Lock()
    defer c.mu.Unlock()
    c.items[key] = Entry{Price: price, QuoteDate: quoteDate, AsOf: c.now()}
}

// Len returns the number of stored entries, fresh or stale.
func (c *Cache) Len() int {
    c.mu.RLock()
    defer c.mu.RUnlock()
    return len(c.items)
}
