package scheme

import (
    "context"
    "log"
    "strings"
    "sync"
)

// Record is one catalog entry: an opaque scheme code and its display name.
type Record struct {
    Code string `json:"scheme_code"`
    Name string `json:"scheme_name"`
}

// State reports the directory's load lifecycle.
type State int

const (
    NotLoaded State = iota
    Loaded
    LoadFailed
)

func (s State) String() string {
    switch s {
    case NotLoaded:
        return "not_loaded"
    case Loaded:
        return "loaded"
    case LoadFailed:
        return "load_failed"
    }
    return "unknown"
}

// Loader fetches the full scheme catalog from the upstream source.
type Loader func(ctx context.Context) ([]Record, error)

// Directory is the process-lifetime mutual-fund name index. The catalog is
// fetched at most once: the first lookup triggers the load, and a failed
// load is memoized as an empty catalog until the process restarts. All
// lookups after a failed load report "not found".
type Directory struct {
    loader Loader

    once    sync.Once
    mu      sync.RWMutex
    state   State
    records []Record // catalog source order, preserved for first-match ties
}

func NewDirectory(loader Loader) *Directory {
    return &Directory{loader: loader}
}

// State returns the current load state.
func (d *Directory) State() State {
    d.mu.RLock()
    defer d.mu.RUnlock()
    return d.state
}

// Size returns the number of catalog records currently held.
func (d *Directory) Size() int {
    d.mu.RLock()
    defer d.mu.RUnlock()
    return len(d.records)
}

func (d *Directory) load(ctx context.Context) {
    d.once.Do(func() {
        records, err := d.loader(ctx)
        d.mu.Lock()
        defer d.mu.Unlock()
        if err != nil {
            log.Printf("scheme directory: catalog load failed, name lookups disabled until restart: %v", err)
            d.state = LoadFailed
            return
        }
        d.records = records
        d.state = Loaded
        log.Printf("scheme directory: loaded %d schemes", len(records))
    })
}

// Find matches a free-text fund name against the catalog.
//
// The query is split into lower-cased whitespace terms, terms of length <= 2
// are dropped as noise, and the first record (in catalog order) whose
// lower-cased name contains every remaining term as a substring wins. If no
// record matches, the whole lower-cased query is tried as one contiguous
// substring. This is a first-match heuristic, not a ranked search; callers
// depend on the catalog-order tie-break.
func (d *Directory) Find(ctx context.Context, query string) (Record, bool) {
    d.load(ctx)

    d.mu.RLock()
    defer d.mu.RUnlock()
    if len(d.records) == 0 {
        return Record{}, false
    }

    lower := strings.ToLower(query)
    terms := make([]string, 0, 4)
    for _, t := range strings.Fields(lower) {
        if len(t) > 2 {
            terms = append(terms, t)
        }
    }

    for _, r := range d.records {
        name := strings.ToLower(r.Name)
        all := true
        for _, t := range terms {
            if !strings.Contains(name, t) {
                all = false
                break
            }
        }
        if all {
            return r, true
        }
    }

    // Fallback: whole query as one substring.
    for _, r := range d.records {
        if strings.Contains(strings.ToLower(r.Name), lower) {
            return r, true
        }
    }
    return Record{}, false
}
