package pricecache

import (
    "testing"
    "time"

    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/require"

    "wealthdata/internal/asset"
)

func TestGet_MissingKey(t *testing.T) {
    c := New(DefaultTTL)
    _, ok := c.Get(Key{Category: asset.Equity, Ticker: "RELIANCE"})
    require.False(t, ok)
}

func TestPut_Get_RoundTrip(t *testing.T) {
    c := New(DefaultTTL)
    key := Key{Category: asset.MutualFunds, Ticker: "118825"}

    c.Put(key, decimal.RequireFromString("174.2981"), "30-08-2026")

    e, ok := c.Get(key)
    require.True(t, ok)
    require.True(t, e.Price.Equal(decimal.RequireFromString("174.2981")))
    require.Equal(t, "30-08-2026", e.QuoteDate)
}

func TestGet_TTLBoundary(t *testing.T) {
    base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
    now := base
    c := New(DefaultTTL)
    c.now = func() time.Time { return now }

    key := Key{Category: asset.Crypto, Ticker: "BITCOIN"}
    c.Put(key, decimal.NewFromInt(5_000_000), "")

    // Just inside the window: served verbatim.
    now = base.Add(DefaultTTL - time.Second)
    _, ok := c.Get(key)
    require.True(t, ok)

    // At and past the window: treated as absent, but not evicted.
    now = base.Add(DefaultTTL)
    _, ok = c.Get(key)
    require.False(t, ok)
    require.Equal(t, 1, c.Len())
}

func TestPut_LastWriteWins(t *testing.T) {
    c := New(DefaultTTL)
    key := Key{Category: asset.Equity, Ticker: "TCS", Exchange: "NSE"}

    c.Put(key, decimal.NewFromInt(4100), "")
    c.Put(key, decimal.NewFromInt(4150), "")

    e, ok := c.Get(key)
    require.True(t, ok)
    require.True(t, e.Price.Equal(decimal.NewFromInt(4150)))
}

func TestKey_DistinctTriples(t *testing.T) {
    c := New(DefaultTTL)

    c.Put(Key{Category: asset.Equity, Ticker: "TCS", Exchange: "NSE"}, decimal.NewFromInt(4100), "")
    c.Put(Key{Category: asset.Equity, Ticker: "TCS", Exchange: "BSE"}, decimal.NewFromInt(4099), "")

    e, ok := c.Get(Key{Category: asset.Equity, Ticker: "TCS", Exchange: "NSE"})
    require.True(t, ok)
    require.True(t, e.Price.Equal(decimal.NewFromInt(4100)))
    require.Equal(t, 2, c.Len())
}
