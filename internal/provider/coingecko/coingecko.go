package coingecko

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "net/url"
    "strings"

    "github.com/shopspring/decimal"

    "wealthdata/internal/httpx"
    "wealthdata/internal/provider"
    "wealthdata/internal/quote"
)

// Config controls the CoinGecko provider behavior.
type Config struct {
    Name     string
    URL      string            // spot price endpoint
    Currency string            // target currency code, lower-cased on the wire
    Headers  map[string]string // optional extra headers (e.g. demo API key)
}

// Provider fetches crypto spot prices from the CoinGecko simple-price
// endpoint. Quotes are real-time, so no quote date is reported.
type Provider struct {
    cfg    Config
    client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Provider {
    if cfg.Name == "" { cfg.Name = "CoinGecko" }
    if cfg.URL == "" { cfg.URL = "https://api.coingecko.com/api/v3/simple/price" }
    if cfg.Currency == "" { cfg.Currency = "inr" }
    return &Provider{cfg: cfg, client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Quote(ctx context.Context, req provider.Request) quote.Result {
    id := strings.ToLower(strings.TrimSpace(req.ID))
    currency := strings.ToLower(p.cfg.Currency)

    u, err := url.Parse(p.cfg.URL)
    if err != nil {
        return quote.Malformed(fmt.Errorf("bad endpoint: %w", err))
    }
    q := u.Query()
    q.Set("ids", id)
    q.Set("vs_currencies", currency)
    u.RawQuery = q.Encode()

    httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
    if err != nil {
        return quote.Malformed(err)
    }
    for k, v := range p.cfg.Headers { httpReq.Header.Set(k, v) }
    httpReq.Header.Set("Accept", "application/json")

    resp, err := p.client.Do(ctx, httpReq)
    if err != nil {
        return quote.FromTransportError(err)
    }
    defer resp.Body.Close()
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        return quote.HTTPError(resp.StatusCode)
    }

    // Payload: { "<coin id>": { "<currency>": 123.45 } }
    var body map[string]map[string]json.Number
    dec := json.NewDecoder(resp.Body)
    dec.UseNumber()
    if err := dec.Decode(&body); err != nil {
        return quote.Malformed(fmt.Errorf("decode: %w", err))
    }

    raw, ok := body[id][currency]
    if !ok {
        return quote.NotFound()
    }
    price, err := decimal.NewFromString(raw.String())
    if err != nil {
        return quote.Malformed(fmt.Errorf("parsing price %q: %w", raw.String(), err))
    }
    return quote.OK(price)
}
