package mfapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Scheme is one catalog entry. The catalog serves scheme codes as JSON
// numbers but downstream code treats them as opaque strings, so the code is
// normalized here.
type Scheme struct {
	Code string
	Name string
}

// ListSchemes retrieves the full scheme catalog, in the API's own order.
func (c *MFAPIClient) ListSchemes(ctx context.Context, opts ...MFAPIClientOption) ([]Scheme, error) {
	var override = &MFAPIClient{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
	}
	for _, opt := range opts {
		opt(override)
	}

	url := fmt.Sprintf("%s/mf", override.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: res.StatusCode}
	}

	// schemeCode arrives as a JSON number; decode loosely and normalize.
	var raw []struct {
		SchemeCode json.Number `json:"schemeCode"`
		SchemeName string      `json:"schemeName"`
	}
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding scheme catalog: %w: %w", ErrMalformed, err)
	}

	schemes := make([]Scheme, 0, len(raw))
	for _, r := range raw {
		schemes = append(schemes, Scheme{Code: r.SchemeCode.String(), Name: r.SchemeName})
	}
	return schemes, nil
}
