package entity

import (
	"errors"
	"fmt"
)

// ErrorCode classifies request failures.
type ErrorCode string

const (
	CodeMalformedAddress    ErrorCode = "MALFORMED_ADDRESS"
	CodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	CodeMissingField        ErrorCode = "MISSING_FIELD"
)

var (
	ErrMalformedAddress    = errors.New("malformed wallet address")
	ErrUpstreamUnavailable = errors.New("portfolio upstream unavailable")
)

// FetchError is returned by the portfolio fetcher for any failure of the
// upstream call: transport, timeout, status or decoding.
type FetchError struct {
	Code       ErrorCode
	Wallet     string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: fetch portfolio for %s: status %d: %v", e.Code, e.Wallet, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s: fetch portfolio for %s: %v", e.Code, e.Wallet, e.Cause)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrUpstreamUnavailable, e.Cause}
}
