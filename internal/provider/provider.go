package provider

import (
    "context"

    "wealthdata/internal/quote"
)

// Request is a normalized single-asset quote request.
type Request struct {
    // ID is the normalized asset identifier: an equity ticker, a mutual-fund
    // scheme code, or a crypto coin id.
    ID string
    // Exchange is an optional exchange hint, already uppercase-trimmed.
    Exchange string
}

// Quoter fetches a unit price for one asset from an external source.
// Failures are reported in the Result tag, never as a Go error, so a
// misbehaving provider can only ever degrade to "no price".
type Quoter interface {
    Name() string
    Quote(ctx context.Context, req Request) quote.Result
}
