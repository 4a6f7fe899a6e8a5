package resolver

import (
    "context"
    "sync"
    "testing"
    "time"

    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/require"

    "wealthdata/internal/asset"
    "wealthdata/internal/pricecache"
    "wealthdata/internal/provider"
    "wealthdata/internal/quote"
    "wealthdata/internal/scheme"
)

// fakeQuoter returns a canned result and counts calls.
type fakeQuoter struct {
    name string
    res  quote.Result

    mu    sync.Mutex
    calls int
}

func (f *fakeQuoter) Name() string { return f.name }

func (f *fakeQuoter) Quote(_ context.Context, _ provider.Request) quote.Result {
    f.mu.Lock()
    f.calls++
    f.mu.Unlock()
    return f.res
}

func (f *fakeQuoter) callCount() int {
    f.mu.Lock()
    defer f.mu.Unlock()
    return f.calls
}

func okQuoter(name, price string) *fakeQuoter {
    return &fakeQuoter{name: name, res: quote.OK(decimal.RequireFromString(price))}
}

func testDirectory() *scheme.Directory {
    return scheme.NewDirectory(func(ctx context.Context) ([]scheme.Record, error) {
        return []scheme.Record{
            {Code: "100027", Name: "Grindlays Super Saver Income Fund-GSSIF-Half Yearly Dividend"},
            {Code: "118825", Name: "SBI Small Cap Fund Regular Growth"},
        }, nil
    })
}

func TestResolve_EmptyTicker(t *testing.T) {
    eq := okQuoter("eq", "100")
    r := New(Config{Equities: eq})

    _, ok := r.Resolve(t.Context(), "   ", asset.Equity, "")
    require.False(t, ok)
    require.Equal(t, 0, eq.callCount())
}

func TestResolve_NonMarketCategories(t *testing.T) {
    eq := okQuoter("eq", "100")
    cr := okQuoter("cr", "100")
    mf := okQuoter("mf", "100")
    r := New(Config{Equities: eq, Crypto: cr, Funds: mf, Schemes: testDirectory()})

    for _, cat := range []asset.Category{asset.Cash, asset.RealEstate, asset.Vehicles, asset.Other} {
        _, ok := r.Resolve(t.Context(), "ANYTHING", cat, "")
        require.Falsef(t, ok, "category %s must not resolve", cat)
    }
    require.Equal(t, 0, eq.callCount()+cr.callCount()+mf.callCount())
}

func TestResolve_SecondCallServedFromCache(t *testing.T) {
    eq := okQuoter("eq", "2857.35")
    r := New(Config{Equities: eq})

    first, ok := r.Resolve(t.Context(), "RELIANCE", asset.Equity, "NSE")
    require.True(t, ok)
    second, ok := r.Resolve(t.Context(), "reliance ", asset.Equity, " nse")
    require.True(t, ok)

    require.Equal(t, 1, eq.callCount())
    require.True(t, first.Price.Equal(second.Price))
}

func TestResolve_ExpiredEntryRefetches(t *testing.T) {
    eq := okQuoter("eq", "2857.35")
    r := New(Config{Equities: eq, Cache: pricecache.New(time.Nanosecond)})

    _, ok := r.Resolve(t.Context(), "RELIANCE", asset.Equity, "")
    require.True(t, ok)
    time.Sleep(time.Millisecond)
    _, ok = r.Resolve(t.Context(), "RELIANCE", asset.Equity, "")
    require.True(t, ok)
    require.Equal(t, 2, eq.callCount())
}

func TestResolve_MutualFundNameDiscovery(t *testing.T) {
    mf := &fakeQuoter{name: "mf"}
    mf.res = quote.OK(decimal.RequireFromString("174.2981"))
    mf.res.QuoteDate = "30-08-2026"
    mf.res.CanonicalID = "118825"
    r := New(Config{Funds: mf, Schemes: testDirectory()})

    resolved, ok := r.Resolve(t.Context(), "SBI Small Cap", asset.MutualFunds, "")
    require.True(t, ok)
    require.Equal(t, "118825", resolved.ResolvedTicker)
    require.Equal(t, "30-08-2026", resolved.QuoteDate)
    require.Equal(t, 1, mf.callCount())
}

func TestResolve_MutualFundNameUnmatched(t *testing.T) {
    mf := okQuoter("mf", "174.2981")
    r := New(Config{Funds: mf, Schemes: testDirectory()})

    _, ok := r.Resolve(t.Context(), "Nonexistent Fund XYZ", asset.MutualFunds, "")
    require.False(t, ok)
    require.Equal(t, 0, mf.callCount(), "adapter must not be called when the name is unresolved")
}

func TestResolve_MutualFundNumericCodeSkipsDirectory(t *testing.T) {
    mf := okQuoter("mf", "174.2981")
    loaderCalls := 0
    dir := scheme.NewDirectory(func(ctx context.Context) ([]scheme.Record, error) {
        loaderCalls++
        return nil, nil
    })
    r := New(Config{Funds: mf, Schemes: dir})

    resolved, ok := r.Resolve(t.Context(), "118825", asset.MutualFunds, "")
    require.True(t, ok)
    require.Equal(t, "118825", resolved.ResolvedTicker)
    require.Equal(t, 0, loaderCalls, "numeric codes must not trigger a catalog load")
}

func TestResolve_CacheHitShortCircuitsDiscovery(t *testing.T) {
    mf := &fakeQuoter{name: "mf"}
    mf.res = quote.OK(decimal.RequireFromString("174.2981"))
    mf.res.CanonicalID = "118825"
    r := New(Config{Funds: mf, Schemes: testDirectory()})

    _, ok := r.Resolve(t.Context(), "SBI Small Cap", asset.MutualFunds, "")
    require.True(t, ok)

    // The second resolution of the same free-text name is a cache hit and
    // must not touch the directory or the adapter again.
    resolved, ok := r.Resolve(t.Context(), "SBI Small Cap", asset.MutualFunds, "")
    require.True(t, ok)
    require.Equal(t, 1, mf.callCount())
    require.Empty(t, resolved.ResolvedTicker, "cache hits do not re-discover the canonical ticker")
}

func TestResolve_NonPositivePriceDiscarded(t *testing.T) {
    for _, price := range []string{"0", "-5"} {
        eq := okQuoter("eq", price)
        r := New(Config{Equities: eq})

        _, ok := r.Resolve(t.Context(), "RELIANCE", asset.Equity, "")
        require.Falsef(t, ok, "price %s must be treated as absent", price)

        // Nothing was cached: a retry reaches the provider again.
        _, _ = r.Resolve(t.Context(), "RELIANCE", asset.Equity, "")
        require.Equal(t, 2, eq.callCount())
    }
}

func TestResolve_ProviderFailuresCollapseToMiss(t *testing.T) {
    results := []quote.Result{
        quote.NotFound(),
        quote.HTTPError(502),
        quote.Timeout(context.DeadlineExceeded),
        quote.Malformed(nil),
        quote.NoCredential(),
    }
    for _, res := range results {
        eq := &fakeQuoter{name: "eq", res: res}
        r := New(Config{Equities: eq})
        _, ok := r.Resolve(t.Context(), "RELIANCE", asset.Equity, "")
        require.Falsef(t, ok, "status %s must resolve to no price", res.Status)
    }
}

func TestResolveAll_BatchIndependence(t *testing.T) {
    eq := okQuoter("eq", "2857.35")
    cr := okQuoter("cr", "5000000")
    mf := &fakeQuoter{name: "mf", res: quote.Timeout(context.DeadlineExceeded)}
    r := New(Config{Equities: eq, Crypto: cr, Funds: mf})

    outcomes := r.ResolveAll(t.Context(), []Item{
        {Ticker: "RELIANCE", Category: asset.Equity, Exchange: "NSE"},
        {Ticker: "118825", Category: asset.MutualFunds},
        {Ticker: "bitcoin", Category: asset.Crypto},
    }, 0)

    require.Len(t, outcomes, 3)
    // Byte-sorted by the ticker as submitted: 118825, RELIANCE, bitcoin.
    require.Equal(t, "118825", outcomes[0].Ticker)
    require.False(t, outcomes[0].Found)
    require.Equal(t, "RELIANCE", outcomes[1].Ticker)
    require.True(t, outcomes[1].Found)
    require.Equal(t, "bitcoin", outcomes[2].Ticker)
    require.True(t, outcomes[2].Found)
}
