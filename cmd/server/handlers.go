package main

import (
    "context"
    "encoding/json"
    "net/http"
    "time"

    "wealthdata/internal/advisor"
    "wealthdata/internal/asset"
    "wealthdata/internal/quote"
    "wealthdata/internal/resolver"
)

type priceResponse struct {
    Found    bool                 `json:"found"`
    Resolved *quote.ResolvedPrice `json:"resolved,omitempty"`
}

func handleGetPrice(w http.ResponseWriter, r *http.Request, res *resolver.Resolver) {
    q := r.URL.Query()
    ticker := q.Get("ticker")
    if ticker == "" {
        http.Error(w, "missing ticker query param", http.StatusBadRequest)
        return
    }
    category, ok := asset.ParseCategory(q.Get("category"))
    if !ok {
        http.Error(w, "unknown category", http.StatusBadRequest)
        return
    }

    resolved, found := res.Resolve(r.Context(), ticker, category, q.Get("exchange"))
    resp := priceResponse{Found: found}
    if found {
        resp.Resolved = &resolved
    }
    writeJSON(w, resp)
}

type batchRequest struct {
    Assets []resolver.Item `json:"assets"`
}

type batchResponse struct {
    Prices []resolver.Outcome `json:"prices"`
}

func handleBatchPrices(w http.ResponseWriter, r *http.Request, res *resolver.Resolver, concurrency int) {
    var b batchRequest
    dec := json.NewDecoder(r.Body)
    dec.DisallowUnknownFields()
    if err := dec.Decode(&b); err != nil {
        http.Error(w, "invalid JSON body", http.StatusBadRequest)
        return
    }
    if len(b.Assets) == 0 {
        http.Error(w, "assets cannot be empty", http.StatusBadRequest)
        return
    }
    if len(b.Assets) > 500 {
        http.Error(w, "too many assets (max 500)", http.StatusBadRequest)
        return
    }

    ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
    defer cancel()
    writeJSON(w, batchResponse{Prices: res.ResolveAll(ctx, b.Assets, concurrency)})
}

// insightService is the slice of the advisor the handlers need; nil means
// the advisor is not configured.
type insightService interface {
    Insights(ctx context.Context, profile asset.Profile, focus advisor.Focus) ([]advisor.Insight, error)
    Identify(ctx context.Context, query, hint string) (advisor.Identification, error)
}

type insightsRequest struct {
    Profile asset.Profile `json:"profile"`
    Focus   advisor.Focus `json:"focus,omitempty"`
}

type insightsResponse struct {
    Insights []advisor.Insight `json:"insights"`
}

func handleInsights(w http.ResponseWriter, r *http.Request, svc insightService) {
    if svc == nil {
        http.Error(w, "advisor not configured", http.StatusServiceUnavailable)
        return
    }
    var b insightsRequest
    if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
        http.Error(w, "invalid JSON body", http.StatusBadRequest)
        return
    }

    ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
    defer cancel()
    insights, err := svc.Insights(ctx, b.Profile, b.Focus)
    if err != nil {
        // Advisory text is best-effort; degrade to an empty list.
        insights = nil
    }
    if insights == nil {
        insights = []advisor.Insight{}
    }
    writeJSON(w, insightsResponse{Insights: insights})
}

type identifyRequest struct {
    Query string `json:"query"`
    Hint  string `json:"hint,omitempty"`
}

func handleIdentify(w http.ResponseWriter, r *http.Request, svc insightService) {
    if svc == nil {
        http.Error(w, "advisor not configured", http.StatusServiceUnavailable)
        return
    }
    var b identifyRequest
    if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
        http.Error(w, "invalid JSON body", http.StatusBadRequest)
        return
    }
    if b.Query == "" {
        http.Error(w, "query cannot be empty", http.StatusBadRequest)
        return
    }

    ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
    defer cancel()
    id, err := svc.Identify(ctx, b.Query, b.Hint)
    if err != nil {
        // Fall back to echoing the query as an unclassified asset, the same
        // contract the resolver offers: absence over failure.
        id = advisor.Identification{Name: b.Query, Category: string(asset.Other)}
    }
    writeJSON(w, id)
}

func writeJSON(w http.ResponseWriter, v any) {
    w.WriteHeader(http.StatusOK)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    enc.Encode(v)
}
