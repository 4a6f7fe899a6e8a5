package mfapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// NAVEntry is one published NAV observation. NAV values arrive as strings
// and are passed through verbatim; parsing is the adapter's job.
type NAVEntry struct {
	Date string `json:"date"`
	NAV  string `json:"nav"`
}

// NAVHistory is the NAV-by-scheme payload: metadata plus the series,
// most-recent-first.
type NAVHistory struct {
	Meta struct {
		FundHouse  string `json:"fund_house"`
		SchemeType string `json:"scheme_type"`
		SchemeCode any    `json:"scheme_code"`
		SchemeName string `json:"scheme_name"`
	} `json:"meta"`
	Data []NAVEntry `json:"data"`
}

// GetNAVHistory retrieves the NAV series for one scheme code.
func (c *MFAPIClient) GetNAVHistory(ctx context.Context, schemeCode string, opts ...MFAPIClientOption) (NAVHistory, error) {
	var history NAVHistory

	var override = &MFAPIClient{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
	}
	for _, opt := range opts {
		opt(override)
	}

	addr := fmt.Sprintf("%s/mf/%s", override.baseURL, url.PathEscape(schemeCode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, http.NoBody)
	if err != nil {
		return history, fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return history, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return history, &StatusError{Code: res.StatusCode}
	}

	if err := json.NewDecoder(res.Body).Decode(&history); err != nil {
		return history, fmt.Errorf("decoding NAV history: %w: %w", ErrMalformed, err)
	}
	return history, nil
}
