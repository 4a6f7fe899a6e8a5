package ratelimit

import (
    "context"
    "sync"
    "time"

    "wealthdata/internal/provider"
    "wealthdata/internal/quote"
)

// MinInterval wraps a quoter and enforces a minimum time between calls.
// Concurrent calls wait until the interval has elapsed since the last call,
// or report a timeout if the context expires while waiting.
type MinInterval struct {
    Q        provider.Quoter
    Interval time.Duration
    mu       sync.Mutex
    last     time.Time
}

func (m *MinInterval) Name() string { return m.Q.Name() }

func (m *MinInterval) Quote(ctx context.Context, req provider.Request) quote.Result {
    if m.Interval > 0 {
        // simple gate: ensure at least Interval since last
        m.mu.Lock()
        wait := time.Until(m.last.Add(m.Interval))
        m.mu.Unlock()
        if wait > 0 {
            t := time.NewTimer(wait)
            defer t.Stop()
            select {
            case <-ctx.Done():
                return quote.Timeout(ctx.Err())
            case <-t.C:
            }
        }
    }
    res := m.Q.Quote(ctx, req)
    if m.Interval > 0 {
        m.mu.Lock()
        m.last = time.Now()
        m.mu.Unlock()
    }
    return res
}
