package resolver

import (
    "context"
    "sort"

    "golang.org/x/sync/errgroup"

    "wealthdata/internal/asset"
    "wealthdata/internal/quote"
)

// DefaultBatchConcurrency caps parallel provider calls in a batch refresh.
const DefaultBatchConcurrency = 8

// Item is one asset in a batch refresh request.
type Item struct {
    Ticker   string         `json:"ticker"`
    Category asset.Category `json:"category"`
    Exchange string         `json:"exchange,omitempty"`
}

// Outcome is the per-asset result of a batch refresh. Found is false when
// the asset's price could not be resolved; the rest of the batch is
// unaffected.
type Outcome struct {
    Item
    Found    bool                `json:"found"`
    Resolved quote.ResolvedPrice `json:"resolved,omitempty"`
}

// ResolveAll resolves each item independently and concurrently. One slow or
// failing provider call never affects the other items, and identical keys
// are not deduplicated in flight; both may fetch, last write wins in the
// cache. Output is sorted by ticker (then category, then exchange) for a
// deterministic response.
func (r *Resolver) ResolveAll(ctx context.Context, items []Item, concurrency int) []Outcome {
    if concurrency <= 0 {
        concurrency = DefaultBatchConcurrency
    }

    outcomes := make([]Outcome, len(items))
    g, gctx := errgroup.WithContext(ctx)
    g.SetLimit(concurrency)
    for i, it := range items {
        i, it := i, it
        g.Go(func() error {
            resolved, ok := r.Resolve(gctx, it.Ticker, it.Category, it.Exchange)
            outcomes[i] = Outcome{Item: it, Found: ok, Resolved: resolved}
            return nil
        })
    }
    // Goroutines never return errors; failures are per-item outcomes.
    _ = g.Wait()

    sort.Slice(outcomes, func(i, j int) bool {
        if outcomes[i].Ticker != outcomes[j].Ticker {
            return outcomes[i].Ticker < outcomes[j].Ticker
        }
        if outcomes[i].Category != outcomes[j].Category {
            return outcomes[i].Category < outcomes[j].Category
        }
        return outcomes[i].Exchange < outcomes[j].Exchange
    })
    return outcomes
}
