package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "strings"
)

type Server struct {
    Port              string `json:"port"`
    RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type Resolver struct {
    CacheTTLSec      int `json:"cache_ttl_sec"`
    CallTimeoutSec   int `json:"call_timeout_sec"`
    BatchConcurrency int `json:"batch_concurrency"`
}

type MFAPI struct {
    Enabled  bool   `json:"enabled"`
    Endpoint string `json:"endpoint"`
}

type CoinGecko struct {
    Enabled               bool   `json:"enabled"`
    Endpoint              string `json:"endpoint"`
    Currency              string `json:"currency"`
    APIKey                string `json:"api_key"`
    MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
    MinRequestIntervalSec int    `json:"min_request_interval_sec"`
    Burst                 int    `json:"burst"`
}

type TwelveData struct {
    Enabled               bool   `json:"enabled"`
    Endpoint              string `json:"endpoint"`
    APIKey                string `json:"api_key"`
    Country               string `json:"country"`
    MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
    MinRequestIntervalSec int    `json:"min_request_interval_sec"`
    Burst                 int    `json:"burst"`
}

type Advisor struct {
    Enabled bool   `json:"enabled"`
    Model   string `json:"model"`
}

type Config struct {
    Server     Server     `json:"server"`
    Resolver   Resolver   `json:"resolver"`
    MFAPI      MFAPI      `json:"mfapi"`
    CoinGecko  CoinGecko  `json:"coingecko"`
    TwelveData TwelveData `json:"twelvedata"`
    Advisor    Advisor    `json:"advisor"`
}

func Default() Config {
    return Config{
        Server: Server{Port: "8080", RequestTimeoutSec: 10},
        Resolver: Resolver{
            CacheTTLSec:      300,
            CallTimeoutSec:   10,
            BatchConcurrency: 8,
        },
        MFAPI: MFAPI{
            Enabled:  true,
            Endpoint: "https://api.mfapi.in",
        },
        CoinGecko: CoinGecko{
            Enabled:              true,
            Endpoint:             "https://api.coingecko.com/api/v3/simple/price",
            Currency:             "inr",
            MaxRequestsPerMinute: 10,
            Burst:                2,
        },
        TwelveData: TwelveData{
            Enabled:              true,
            Endpoint:             "https://api.twelvedata.com/price",
            Country:              "India",
            MaxRequestsPerMinute: 8,
            Burst:                2,
        },
        Advisor: Advisor{
            Enabled: true,
            Model:   "gemini-2.5-flash",
        },
    }
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields for secrecy.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    return cfg, nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Server.RequestTimeoutSec = x }
    }

    if v := os.Getenv("PRICE_CACHE_TTL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Resolver.CacheTTLSec = x }
    }
    if v := os.Getenv("PRICE_CALL_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Resolver.CallTimeoutSec = x }
    }
    if v := os.Getenv("BATCH_CONCURRENCY"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Resolver.BatchConcurrency = x }
    }

    if v := os.Getenv("MFAPI_ENDPOINT"); v != "" { cfg.MFAPI.Endpoint = v }

    if v := os.Getenv("COINGECKO_ENDPOINT"); v != "" { cfg.CoinGecko.Endpoint = v }
    if v := os.Getenv("COINGECKO_CURRENCY"); v != "" { cfg.CoinGecko.Currency = v }
    if v := os.Getenv("COINGECKO_API_KEY"); v != "" { cfg.CoinGecko.APIKey = v }
    if v := os.Getenv("COINGECKO_MAX_RPM"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.CoinGecko.MaxRequestsPerMinute = x }
    }
    if v := os.Getenv("COINGECKO_MIN_INTERVAL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.CoinGecko.MinRequestIntervalSec = x }
    }
    if v := os.Getenv("COINGECKO_BURST"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.CoinGecko.Burst = x }
    }

    if v := os.Getenv("TWELVE_DATA_API_KEY"); v != "" { cfg.TwelveData.APIKey = v }
    if v := os.Getenv("TWELVE_DATA_ENDPOINT"); v != "" { cfg.TwelveData.Endpoint = v }
    if v := os.Getenv("TWELVE_DATA_COUNTRY"); v != "" { cfg.TwelveData.Country = v }
    if v := os.Getenv("TWELVE_DATA_MAX_RPM"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.TwelveData.MaxRequestsPerMinute = x }
    }
    if v := os.Getenv("TWELVE_DATA_MIN_INTERVAL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.TwelveData.MinRequestIntervalSec = x }
    }
    if v := os.Getenv("TWELVE_DATA_BURST"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.TwelveData.Burst = x }
    }

    if v := os.Getenv("ADVISOR_ENABLED"); v != "" {
        switch strings.ToLower(v) {
        case "1","true","yes","y": cfg.Advisor.Enabled = true
        case "0","false","no","n": cfg.Advisor.Enabled = false
        }
    }
    if v := os.Getenv("ADVISOR_MODEL"); v != "" { cfg.Advisor.Model = v }
}
