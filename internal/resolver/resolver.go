package resolver

import (
    "context"
    "log"
    "strings"
    "time"

    "wealthdata/internal/asset"
    "wealthdata/internal/pricecache"
    "wealthdata/internal/provider"
    "wealthdata/internal/quote"
    "wealthdata/internal/scheme"
)

// DefaultCallTimeout bounds a single provider call so an unresponsive
// upstream cannot stall a batch refresh.
const DefaultCallTimeout = 10 * time.Second

// SchemeFinder resolves a free-text mutual-fund name to a catalog record.
type SchemeFinder interface {
    Find(ctx context.Context, query string) (scheme.Record, bool)
}

// Config wires the resolver's collaborators. Every field is optional: a
// missing quoter simply makes its category unresolvable.
type Config struct {
    Cache       *pricecache.Cache
    Schemes     SchemeFinder
    Funds       provider.Quoter // mutual-fund NAV by scheme code
    Crypto      provider.Quoter // crypto spot price
    Equities    provider.Quoter // equity quotes (default country hint applied)
    FixedIncome provider.Quoter // listed fixed income (no country hint)
    CallTimeout time.Duration
}

// Resolver turns (ticker, category, exchange hint) into a current unit
// price. It consults the cache first, dispatches to the category's provider
// on a miss, and writes successful resolutions back through the cache. It
// never returns an error: every failure mode collapses to "no price", and
// the cause is only logged.
type Resolver struct {
    cache       *pricecache.Cache
    schemes     SchemeFinder
    funds       provider.Quoter
    crypto      provider.Quoter
    equities    provider.Quoter
    fixedIncome provider.Quoter
    callTimeout time.Duration
}

func New(cfg Config) *Resolver {
    if cfg.Cache == nil {
        cfg.Cache = pricecache.New(pricecache.DefaultTTL)
    }
    if cfg.CallTimeout <= 0 {
        cfg.CallTimeout = DefaultCallTimeout
    }
    return &Resolver{
        cache:       cfg.Cache,
        schemes:     cfg.Schemes,
        funds:       cfg.Funds,
        crypto:      cfg.Crypto,
        equities:    cfg.Equities,
        fixedIncome: cfg.FixedIncome,
        callTimeout: cfg.CallTimeout,
    }
}

// Resolve returns the current unit price for an asset, or false when no
// price is available. The exchange hint may be empty.
func (r *Resolver) Resolve(ctx context.Context, ticker string, category asset.Category, exchange string) (quote.ResolvedPrice, bool) {
    if strings.TrimSpace(ticker) == "" {
        return quote.ResolvedPrice{}, false
    }

    cleanTicker := strings.ToUpper(strings.TrimSpace(ticker))
    cleanExchange := strings.ToUpper(strings.TrimSpace(exchange))
    key := pricecache.Key{Category: category, Ticker: cleanTicker, Exchange: cleanExchange}

    // A fresh hit short-circuits everything, including scheme discovery.
    if e, ok := r.cache.Get(key); ok {
        return quote.ResolvedPrice{Price: e.Price, QuoteDate: e.QuoteDate}, true
    }

    var q provider.Quoter
    req := provider.Request{ID: cleanTicker, Exchange: cleanExchange}
    resolvedTicker := ""

    switch category {
    case asset.MutualFunds:
        // Non-numeric tickers are free-text fund names; resolve them to a
        // scheme code first. The original (untrimmed) ticker is what the
        // user typed, so that is what gets matched.
        if !isNumeric(cleanTicker) {
            if r.schemes == nil {
                return quote.ResolvedPrice{}, false
            }
            rec, ok := r.schemes.Find(ctx, ticker)
            if !ok {
                log.Printf("resolver: no scheme matches %q", ticker)
                return quote.ResolvedPrice{}, false
            }
            req.ID = rec.Code
        }
        resolvedTicker = req.ID
        q = r.funds
    case asset.Crypto:
        q = r.crypto
    case asset.Equity:
        q = r.equities
    case asset.FixedIncome:
        q = r.fixedIncome
    default:
        // Not a market-linked category.
        return quote.ResolvedPrice{}, false
    }
    if q == nil {
        return quote.ResolvedPrice{}, false
    }

    callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
    defer cancel()
    res := q.Quote(callCtx, req)

    if res.Status != quote.StatusOK {
        log.Printf("resolver: %s %s/%s: %s (status=%d err=%v)",
            q.Name(), category, cleanTicker, res.Status, res.HTTPStatus, res.Err)
        return quote.ResolvedPrice{}, false
    }
    // A zero or negative price is absence of data, never a valid quote.
    if !res.Price.IsPositive() {
        log.Printf("resolver: %s %s/%s: discarding non-positive price %s",
            q.Name(), category, cleanTicker, res.Price)
        return quote.ResolvedPrice{}, false
    }

    // Write-through under the original lookup key, not the canonical id.
    r.cache.Put(key, res.Price, res.QuoteDate)

    if res.CanonicalID != "" {
        resolvedTicker = res.CanonicalID
    }
    return quote.ResolvedPrice{
        Price:          res.Price,
        QuoteDate:      res.QuoteDate,
        ResolvedTicker: resolvedTicker,
    }, true
}

func isNumeric(s string) bool {
    if s == "" {
        return false
    }
    for _, c := range s {
        if c < '0' || c > '9' {
            return false
        }
    }
    return true
}
