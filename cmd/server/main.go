package main

import (
    "compress/gzip"
    "context"
    "io"
    "log"
    "net/http"
    "os"
    "os/signal"
    "strings"
    "sync"
    "syscall"
    "time"

    "google.golang.org/genai"

    "wealthdata/internal/advisor"
    "wealthdata/internal/config"
    "wealthdata/internal/httpx"
    "wealthdata/internal/pricecache"
    "wealthdata/internal/provider"
    "wealthdata/internal/provider/coingecko"
    "wealthdata/internal/provider/mfadapter"
    "wealthdata/internal/provider/mfapi"
    "wealthdata/internal/provider/ratelimit"
    "wealthdata/internal/provider/twelvedata"
    "wealthdata/internal/resolver"
    "wealthdata/internal/scheme"
)

func main() {
    // Config
    cfgPath := os.Getenv("CONFIG_FILE")
    cfg, err := config.Load(cfgPath)
    if err != nil { log.Fatalf("config: %v", err) }
    port := cfg.Server.Port

    if cfg.TwelveData.Enabled && cfg.TwelveData.APIKey == "" {
        log.Println("warning: twelvedata.enabled=true but TWELVE_DATA_API_KEY not set; equity and fixed-income quotes will be unavailable")
    }

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

    res, err := buildResolver(cfg, httpClient)
    if err != nil { log.Fatalf("resolver: %v", err) }

    // Nil interface means the advisor endpoints answer 503.
    var adv insightService
    if cfg.Advisor.Enabled {
        if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
            log.Println("warning: advisor.enabled=true but GEMINI_API_KEY not set; insights disabled")
        } else {
            client, err := genai.NewClient(context.Background(), nil)
            if err != nil {
                log.Printf("advisor client error: %v", err)
            } else {
                adv = advisor.New(client, cfg.Advisor.Model)
            }
        }
    }

    mux := http.NewServeMux()
    mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte("ok"))
    })
    mux.HandleFunc("/api/price", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodGet {
            http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
            return
        }
        handleGetPrice(w, r, res)
    })
    mux.HandleFunc("/api/prices", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodPost {
            http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
            return
        }
        handleBatchPrices(w, r, res, cfg.Resolver.BatchConcurrency)
    })
    mux.HandleFunc("/api/insights", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodPost {
            http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
            return
        }
        handleInsights(w, r, adv)
    })
    mux.HandleFunc("/api/identify", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodPost {
            http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
            return
        }
        handleIdentify(w, r, adv)
    })

    srv := &http.Server{
        Addr:              ":" + port,
        Handler:           withJSONHeaders(withGzip(recoverPanic(limitBody(mux)))),
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        WriteTimeout:      30 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    go func() {
        log.Printf("server listening on :%s", port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("server: %v", err)
        }
    }()

    // graceful shutdown
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
}

func buildResolver(cfg config.Config, httpClient *httpx.Client) (*resolver.Resolver, error) {
    rcfg := resolver.Config{
        Cache:       pricecache.New(time.Duration(cfg.Resolver.CacheTTLSec) * time.Second),
        CallTimeout: time.Duration(cfg.Resolver.CallTimeoutSec) * time.Second,
    }

    if cfg.MFAPI.Enabled {
        mfClient, err := mfapi.NewMFAPIClient(
            mfapi.WithBaseURL(cfg.MFAPI.Endpoint),
            mfapi.WithHTTPClient(httpClient.HTTP),
        )
        if err != nil { return nil, err }
        rcfg.Schemes = scheme.NewDirectory(mfadapter.DirectoryLoader(mfClient))
        rcfg.Funds = mfadapter.New(mfadapter.Config{Name: "MFAPI"}, mfClient)
    }

    if cfg.CoinGecko.Enabled {
        headers := map[string]string{}
        if cfg.CoinGecko.APIKey != "" {
            headers["x-cg-demo-api-key"] = cfg.CoinGecko.APIKey
        }
        cg := coingecko.New(coingecko.Config{
            Name:     "CoinGecko",
            URL:      cfg.CoinGecko.Endpoint,
            Currency: cfg.CoinGecko.Currency,
            Headers:  headers,
        }, httpClient)
        rcfg.Crypto = limitQuoter(cg, cfg.CoinGecko.MaxRequestsPerMinute, cfg.CoinGecko.Burst, cfg.CoinGecko.MinRequestIntervalSec)
    }

    if cfg.TwelveData.Enabled {
        // Two views over the same endpoint: the country fallback applies to
        // equities only, never to fixed income.
        equities := twelvedata.New(twelvedata.Config{
            Name:    "TwelveData",
            URL:     cfg.TwelveData.Endpoint,
            APIKey:  cfg.TwelveData.APIKey,
            Country: cfg.TwelveData.Country,
        }, httpClient)
        bonds := twelvedata.New(twelvedata.Config{
            Name:   "TwelveData",
            URL:    cfg.TwelveData.Endpoint,
            APIKey: cfg.TwelveData.APIKey,
        }, httpClient)
        rcfg.Equities = limitQuoter(equities, cfg.TwelveData.MaxRequestsPerMinute, cfg.TwelveData.Burst, cfg.TwelveData.MinRequestIntervalSec)
        rcfg.FixedIncome = limitQuoter(bonds, cfg.TwelveData.MaxRequestsPerMinute, cfg.TwelveData.Burst, cfg.TwelveData.MinRequestIntervalSec)
    }

    return resolver.New(rcfg), nil
}

// limitQuoter wraps q with a rate limiter. Prefer a token bucket with burst
// when an RPM is set, otherwise fall back to a minimum interval.
func limitQuoter(q provider.Quoter, maxRPM, burst, minIntervalSec int) provider.Quoter {
    if maxRPM > 0 {
        rate := float64(maxRPM) / 60.0
        if burst <= 0 { burst = 1 }
        return &ratelimit.TokenBucketQuoter{Q: q, TB: ratelimit.NewTokenBucket(rate, burst)}
    }
    if minIntervalSec > 0 {
        return &ratelimit.MinInterval{Q: q, Interval: time.Duration(minIntervalSec) * time.Second}
    }
    return q
}

func withJSONHeaders(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/json; charset=utf-8")
        // Basic CORS for browser usage; adjust as needed.
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
        w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
        if r.Method == http.MethodOptions {
            w.WriteHeader(http.StatusNoContent)
            return
        }
        next.ServeHTTP(w, r)
    })
}

// withGzip compresses response when client supports gzip.
func withGzip(next http.Handler) http.Handler {
    var gzPool = sync.Pool{New: func() any {
        // Prefer best speed to reduce CPU usage since payloads are JSON
        w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
        return w
    }}
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
            next.ServeHTTP(w, r)
            return
        }
        gz := gzPool.Get().(*gzip.Writer)
        gz.Reset(w)
        defer func() {
            _ = gz.Close()
            gz.Reset(io.Discard)
            gzPool.Put(gz)
        }()
        w.Header().Set("Content-Encoding", "gzip")
        w.Header().Add("Vary", "Accept-Encoding")
        gw := gzipResponseWriter{ResponseWriter: w, Writer: gz}
        next.ServeHTTP(gw, r)
    })
}

type gzipResponseWriter struct {
    http.ResponseWriter
    Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
    return g.Writer.Write(b)
}

// limitBody caps request body size to avoid memory abuse.
func limitBody(next http.Handler) http.Handler {
    const maxBody = 1 << 20 // 1MB
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Method == http.MethodPost && r.Body != nil {
            r.Body = http.MaxBytesReader(w, r.Body, maxBody)
        }
        next.ServeHTTP(w, r)
    })
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                http.Error(w, "internal server error", http.StatusInternalServerError)
            }
        }()
        next.ServeHTTP(w, r)
    })
}
