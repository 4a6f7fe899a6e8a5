package twelvedata

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

// Config controls the Twelve Data provider behavior.
type Config struct {
    Name    string
    URL     string // price endpoint
    APIKey  string // required; without it the provider fails fast offline
    Country string // default country hint when no exchange is supplied
}

// Provider fetches real-time quotes for equities and listed fixed income
// from the Twelve Data price endpoint. A missing API key degrades every
// call to a credential failure without touching the network.
type Provider struct {
    cfg    Config
    client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Provider {
    if cfg.Name == "" { cfg.Name = "TwelveData" }
    if cfg.URL == "" { cfg.URL = "https://api.twelvedata.com/price" }
    return &Provider{cfg: cfg, client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Quote(ctx context.Context, req provider.Request) quote.Result {
    if strings.TrimSpace(p.cfg.APIKey) == "" {
        return quote.NoCredential()
    }

    u, err := url.Parse(p.cfg.URL)
    if err != nil {
        return quote.Malformed(fmt.Errorf("bad endpoint: %w", err))
    }
    q := u.Query()
    q.Set("symbol", req.ID)
    q.Set("apikey", p.cfg.APIKey)
    if req.Exchange != "" {
        q.Set("exchange", req.Exchange)
    } else if p.cfg.Country != "" {
        q.Set("country", p.cfg.Country)
    }
    u.RawQuery = q.Encode()

    httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
    if err != nil {
        return quote.Malformed(err)
    }
    httpReq.Header.Set("Accept", "application/json")

    resp, err := p.client.Do(ctx, httpReq)
    if err != nil {
        return quote.FromTransportError(err)
    }
    defer resp.Body.Close()
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        return quote.HTTPError(resp.StatusCode)
    }

    // Success: {"price":"2857.35"}. Errors arrive as 200s with an error
    // payload: {"code":404,"message":"...","status":"error"}.
    var body struct {
        Price   string `json:"price"`
        Code    int    `json:"code"`
        Message string `json:"message"`
        Status  string `json:"status"`
    }
    if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
        return quote.Malformed(fmt.Errorf("decode: %w", err))
    }

    if body.Status == "error" || body.Price == "" {
        if body.Code == http.StatusNotFound {
            return quote.NotFound()
        }
        if body.Code != 0 {
            return quote.HTTPError(body.Code)
        }
        return quote.Malformed(fmt.Errorf("response lacks a price field"))
    }

    price, err := decimal.NewFromString(body.Price)
    if err != nil {
        return quote.Malformed(fmt.Errorf("parsing price %q: %w", body.Price, err))
    }
    return quote.OK(price)
}
