package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "log"
    "os"
    "strings"
    "time"

    "wealthdata/internal/asset"
    "wealthdata/internal/config"
    "wealthdata/internal/httpx"
    "wealthdata/internal/pricecache"
    "wealthdata/internal/provider/coingecko"
    "wealthdata/internal/provider/mfadapter"
    "wealthdata/internal/provider/mfapi"
    "wealthdata/internal/provider/twelvedata"
    "wealthdata/internal/resolver"
    "wealthdata/internal/scheme"
)

// fetch resolves prices for a list of assets from the command line and
// prints the outcomes as JSON. Asset syntax: ticker:category[:exchange],
// e.g. "bitcoin:crypto,RELIANCE:equity:NSE,sbi small cap:mf".
func main() {
    var assetsCSV string
    var timeout int
    var concurrency int
    var configPath string

    flag.StringVar(&assetsCSV, "assets", getenv("ASSETS", ""), "comma-separated ticker:category[:exchange] entries")
    flag.IntVar(&timeout, "timeout", getenvInt("REQUEST_TIMEOUT_SEC", 15), "request timeout seconds")
    flag.IntVar(&concurrency, "concurrency", getenvInt("BATCH_CONCURRENCY", 4), "parallel provider calls")
    flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
    flag.Parse()

    cfg, err := config.Load(configPath)
    if err != nil { log.Fatalf("config: %v", err) }
    if timeout != 0 { cfg.Server.RequestTimeoutSec = timeout }

    items := parseAssets(assetsCSV)
    if len(items) == 0 {
        log.Fatal("no assets provided; use -assets 'bitcoin:crypto,RELIANCE:equity:NSE'")
    }

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

    rcfg := resolver.Config{
        Cache:       pricecache.New(time.Duration(cfg.Resolver.CacheTTLSec) * time.Second),
        CallTimeout: time.Duration(cfg.Resolver.CallTimeoutSec) * time.Second,
    }
    if cfg.MFAPI.Enabled {
        mfClient, err := mfapi.NewMFAPIClient(
            mfapi.WithBaseURL(cfg.MFAPI.Endpoint),
            mfapi.WithHTTPClient(httpClient.HTTP),
        )
        if err != nil { log.Fatalf("mfapi client: %v", err) }
        rcfg.Schemes = scheme.NewDirectory(mfadapter.DirectoryLoader(mfClient))
        rcfg.Funds = mfadapter.New(mfadapter.Config{Name: "MFAPI"}, mfClient)
    }
    if cfg.CoinGecko.Enabled {
        headers := map[string]string{}
        if cfg.CoinGecko.APIKey != "" { headers["x-cg-demo-api-key"] = cfg.CoinGecko.APIKey }
        rcfg.Crypto = coingecko.New(coingecko.Config{
            Name:     "CoinGecko",
            URL:      cfg.CoinGecko.Endpoint,
            Currency: cfg.CoinGecko.Currency,
            Headers:  headers,
        }, httpClient)
    }
    if cfg.TwelveData.Enabled {
        rcfg.Equities = twelvedata.New(twelvedata.Config{
            Name:    "TwelveData",
            URL:     cfg.TwelveData.Endpoint,
            APIKey:  cfg.TwelveData.APIKey,
            Country: cfg.TwelveData.Country,
        }, httpClient)
        rcfg.FixedIncome = twelvedata.New(twelvedata.Config{
            Name:   "TwelveData",
            URL:    cfg.TwelveData.Endpoint,
            APIKey: cfg.TwelveData.APIKey,
        }, httpClient)
    }
    res := resolver.New(rcfg)

    ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
    defer cancel()

    outcomes := res.ResolveAll(ctx, items, concurrency)

    found := 0
    for _, o := range outcomes {
        if o.Found { found++ }
    }
    log.Printf("resolved %d/%d assets", found, len(outcomes))

    out := struct{ Prices []resolver.Outcome `json:"prices"` }{Prices: outcomes}
    b, _ := json.MarshalIndent(out, "", "  ")
    fmt.Println(string(b))
}

func parseAssets(csv string) []resolver.Item {
    items := make([]resolver.Item, 0)
    for _, entry := range strings.Split(csv, ",") {
        entry = strings.TrimSpace(entry)
        if entry == "" { continue }
        parts := strings.SplitN(entry, ":", 3)
        if len(parts) < 2 {
            log.Printf("skipping %q: want ticker:category[:exchange]", entry)
            continue
        }
        category, ok := asset.ParseCategory(parts[1])
        if !ok {
            log.Printf("skipping %q: unknown category %q", entry, parts[1])
            continue
        }
        it := resolver.Item{Ticker: strings.TrimSpace(parts[0]), Category: category}
        if len(parts) == 3 { it.Exchange = strings.TrimSpace(parts[2]) }
        items = append(items, it)
    }
    return items
}

func getenv(key, def string) string { if v := os.Getenv(key); v != "" { return v }; return def }
func getenvInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        var x int
        _, _ = fmt.Sscanf(v, "%d", &x)
        if x != 0 { return x }
    }
    return def
}
