package main

import (
    "bufio"
    "context"
    "encoding/json"
    "flag"
    "log"
    "os"
    "sort"
    "strings"
    "time"

    "wealthdata/internal/config"
    "wealthdata/internal/httpx"
    "wealthdata/internal/provider/mfapi"
)

// schemedump downloads the full mutual-fund scheme catalog and writes it to
// a JSON file, optionally filtered by a substring. Useful for inspecting
// what the fuzzy name matcher will see.
func main() {
    var (
        outPath    string
        cfgPath    string
        filter     string
        timeoutSec int
    )
    flag.StringVar(&outPath, "out", "schemes.json", "output JSON file path")
    flag.StringVar(&cfgPath, "config", "", "path to config.json (optional)")
    flag.StringVar(&filter, "filter", "", "keep only schemes whose name contains this substring (case-insensitive)")
    flag.IntVar(&timeoutSec, "timeout", 60, "HTTP timeout seconds; the catalog is tens of thousands of records")
    flag.Parse()

    cfg, err := config.Load(cfgPath)
    if err != nil {
        log.Fatalf("config: %v", err)
    }

    httpClient := httpx.New(time.Duration(timeoutSec) * time.Second)
    client, err := mfapi.NewMFAPIClient(
        mfapi.WithBaseURL(cfg.MFAPI.Endpoint),
        mfapi.WithHTTPClient(httpClient.HTTP),
    )
    if err != nil {
        log.Fatalf("mfapi client: %v", err)
    }

    ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
    defer cancel()

    schemes, err := client.ListSchemes(ctx)
    if err != nil {
        log.Fatalf("list schemes: %v", err)
    }
    log.Printf("catalog: %d schemes", len(schemes))

    if filter != "" {
        needle := strings.ToLower(filter)
        kept := schemes[:0]
        for _, s := range schemes {
            if strings.Contains(strings.ToLower(s.Name), needle) {
                kept = append(kept, s)
            }
        }
        schemes = kept
        log.Printf("filter %q: %d schemes", filter, len(schemes))
    }

    sort.Slice(schemes, func(i, j int) bool { return schemes[i].Code < schemes[j].Code })

    outFile, err := os.Create(outPath)
    if err != nil {
        log.Fatalf("create out: %v", err)
    }
    defer outFile.Close()
    bw := bufio.NewWriterSize(outFile, 1<<20)

    enc := json.NewEncoder(bw)
    enc.SetIndent("", "  ")
    if err := enc.Encode(schemes); err != nil {
        log.Fatalf("encode: %v", err)
    }
    if err := bw.Flush(); err != nil {
        log.Fatalf("flush: %v", err)
    }
    log.Printf("done: wrote %s", outPath)
}
