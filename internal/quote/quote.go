package quote

import (
    "context"
    "errors"
    "net"

    "github.com/shopspring/decimal"
)

// Status tags the outcome of a single provider call. Causes are kept
// distinct up to the resolver's outer edge, where everything except OK
// collapses to "no price available".
type Status int

const (
    StatusOK Status = iota
    StatusNotFound
    StatusMalformed
    StatusHTTPError
    StatusTimeout
    StatusNetworkError
    StatusNoCredential
)

func (s Status) String() string {
    switch s {
    case StatusOK:
        return "ok"
    case StatusNotFound:
        return "not_found"
    case StatusMalformed:
        return "malformed"
    case StatusHTTPError:
        return "http_error"
    case StatusTimeout:
        return "timeout"
    case StatusNetworkError:
        return "network_error"
    case StatusNoCredential:
        return "no_credential"
    }
    return "unknown"
}

// Result is the tagged outcome of one provider call.
type Result struct {
    Status      Status
    Price       decimal.Decimal
    QuoteDate   string // provider-reported as-of date, verbatim; empty for real-time sources
    CanonicalID string // provider-verified identifier, when discovered
    HTTPStatus  int    // set for StatusHTTPError
    Err         error  // underlying cause, for logging only
}

func OK(price decimal.Decimal) Result { return Result{Status: StatusOK, Price: price} }

func NotFound() Result { return Result{Status: StatusNotFound} }

func Malformed(err error) Result { return Result{Status: StatusMalformed, Err: err} }

func HTTPError(status int) Result { return Result{Status: StatusHTTPError, HTTPStatus: status} }

func Timeout(err error) Result { return Result{Status: StatusTimeout, Err: err} }

func NetworkError(err error) Result { return Result{Status: StatusNetworkError, Err: err} }

func NoCredential() Result { return Result{Status: StatusNoCredential} }

// FromTransportError classifies a transport-level error from an outbound
// call into Timeout or NetworkError.
func FromTransportError(err error) Result {
    if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
        return Timeout(err)
    }
    var ne net.Error
    if errors.As(err, &ne) && ne.Timeout() {
        return Timeout(err)
    }
    return NetworkError(err)
}

// ResolvedPrice is the external-facing resolution result.
type ResolvedPrice struct {
    Price          decimal.Decimal `json:"price"`
    QuoteDate      string          `json:"quote_date,omitempty"`
    ResolvedTicker string          `json:"resolved_ticker,omitempty"`
}
