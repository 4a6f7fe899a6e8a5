package mfadapter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"wealthdata/internal/provider"
	"wealthdata/internal/provider/mfapi"
	"wealthdata/internal/quote"
)

func newAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := mfapi.NewMFAPIClient(
		mfapi.WithBaseURL(srv.URL),
		mfapi.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return New(Config{}, client)
}

func TestQuote(t *testing.T) {
	t.Parallel()

	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/mf/118825", r.URL.Path)
		w.Write([]byte(`{
			"meta": {"scheme_name": "SBI Small Cap Fund - Direct Plan - Growth"},
			"data": [
				{"date": "30-08-2026", "nav": "174.2981"},
				{"date": "29-08-2026", "nav": "173.9900"}
			]
		}`))
	})

	res := a.Quote(t.Context(), provider.Request{ID: "118825"})
	require.Equal(t, quote.StatusOK, res.Status)
	require.True(t, res.Price.Equal(decimal.RequireFromString("174.2981")))
	require.Equal(t, "30-08-2026", res.QuoteDate)
	require.Equal(t, "118825", res.CanonicalID)
}

func TestQuote_UnknownSchemeIsNotFound(t *testing.T) {
	t.Parallel()

	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	res := a.Quote(t.Context(), provider.Request{ID: "999999"})
	require.Equal(t, quote.StatusNotFound, res.Status)
}

func TestQuote_UpstreamFailureIsHTTPError(t *testing.T) {
	t.Parallel()

	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	res := a.Quote(t.Context(), provider.Request{ID: "118825"})
	require.Equal(t, quote.StatusHTTPError, res.Status)
	require.Equal(t, http.StatusBadGateway, res.HTTPStatus)
}

func TestQuote_EmptyHistoryIsNotFound(t *testing.T) {
	t.Parallel()

	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta": {}, "data": []}`))
	})

	res := a.Quote(t.Context(), provider.Request{ID: "118825"})
	require.Equal(t, quote.StatusNotFound, res.Status)
}

func TestQuote_UnparsableNAVIsMalformed(t *testing.T) {
	t.Parallel()

	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta": {}, "data": [{"date": "30-08-2026", "nav": "N.A."}]}`))
	})

	res := a.Quote(t.Context(), provider.Request{ID: "118825"})
	require.Equal(t, quote.StatusMalformed, res.Status)
	require.Error(t, res.Err)
}

func TestQuote_MalformedBody(t *testing.T) {
	t.Parallel()

	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	})

	res := a.Quote(t.Context(), provider.Request{ID: "118825"})
	require.Equal(t, quote.StatusMalformed, res.Status)
}

func TestDirectoryLoader(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/mf", r.URL.Path)
		w.Write([]byte(`[
			{"schemeCode": 100027, "schemeName": "Grindlays Super Saver Income Fund"},
			{"schemeCode": 118825, "schemeName": "SBI Small Cap Fund - Direct Plan - Growth"}
		]`))
	}))
	t.Cleanup(srv.Close)
	client, err := mfapi.NewMFAPIClient(
		mfapi.WithBaseURL(srv.URL),
		mfapi.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	records, err := DirectoryLoader(client)(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "100027", records[0].Code)
	require.Equal(t, "SBI Small Cap Fund - Direct Plan - Growth", records[1].Name)
}
