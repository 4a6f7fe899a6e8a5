package mfadapter

import (
    "context"
    "errors"
    "fmt"
    "net/http"

    "github.com/shopspring/decimal"

    "wealthdata/internal/provider"
    "wealthdata/internal/provider/mfapi"
    "wealthdata/internal/quote"
    "wealthdata/internal/scheme"
)

type Config struct {
    Name string // display name, default: MFAPI
}

// Adapter quotes mutual-fund NAVs by scheme code. The request ID must
// already be a scheme code; free-text name resolution happens upstream in
// the resolver via the scheme directory.
type Adapter struct {
    cfg    Config
    client *mfapi.MFAPIClient
}

func New(cfg Config, client *mfapi.MFAPIClient) *Adapter {
    if cfg.Name == "" { cfg.Name = "MFAPI" }
    return &Adapter{cfg: cfg, client: client}
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) Quote(ctx context.Context, req provider.Request) quote.Result {
    history, err := a.client.GetNAVHistory(ctx, req.ID)
    if err != nil {
        var statusErr *mfapi.StatusError
        if errors.As(err, &statusErr) {
            if statusErr.Code == http.StatusNotFound {
                return quote.NotFound()
            }
            return quote.HTTPError(statusErr.Code)
        }
        if errors.Is(err, mfapi.ErrMalformed) {
            return quote.Malformed(err)
        }
        return quote.FromTransportError(err)
    }

    if len(history.Data) == 0 {
        return quote.NotFound()
    }

    // Series is most-recent-first; the head entry is the current NAV.
    head := history.Data[0]
    nav, err := decimal.NewFromString(head.NAV)
    if err != nil {
        return quote.Malformed(fmt.Errorf("parsing nav %q: %w", head.NAV, err))
    }

    res := quote.OK(nav)
    res.QuoteDate = head.Date
    res.CanonicalID = req.ID
    return res
}

// DirectoryLoader adapts the catalog endpoint into a scheme.Loader.
func DirectoryLoader(client *mfapi.MFAPIClient) scheme.Loader {
    return func(ctx context.Context) ([]scheme.Record, error) {
        schemes, err := client.ListSchemes(ctx)
        if err != nil {
            return nil, err
        }
        records := make([]scheme.Record, 0, len(schemes))
        for _, s := range schemes {
            records = append(records, scheme.Record{Code: s.Code, Name: s.Name})
        }
        return records, nil
    }
}
