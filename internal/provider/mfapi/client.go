package mfapi

import (
	"errors"
	"fmt"
	"net/http"
)

// baseURL is the default base URL for the public mutual-fund API.
const baseURL = "https://api.mfapi.in"

// ErrMalformed wraps response-body decode failures so callers can tell a
// shape problem apart from a transport problem.
var ErrMalformed = errors.New("malformed response")

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=mfapi_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// MFAPIClient is a client for the mutual-fund catalog and NAV API.
type MFAPIClient struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
}

// MFAPIClientOption is a configuration option for the mutual-fund API client.
type MFAPIClientOption func(*MFAPIClient)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) MFAPIClientOption {
	return func(c *MFAPIClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) MFAPIClientOption {
	return func(c *MFAPIClient) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) MFAPIClientOption {
	return func(c *MFAPIClient) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewMFAPIClient creates a new mutual-fund API client. The API is public and
// needs no credential.
func NewMFAPIClient(options ...MFAPIClientOption) (*MFAPIClient, error) {
	var mfAPIClient = &MFAPIClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	for _, option := range options {
		option(mfAPIClient)
	}
	return mfAPIClient, nil
}

// StatusError reports a non-success HTTP status from the API.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("unexpected status code: %d", e.Code) }
