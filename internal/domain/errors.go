package domain

import "errors"

var (
	// ErrDatabaseNotFound means the named transaction store does not exist in
	// the upstream source.
	ErrDatabaseNotFound = errors.New("transactions database not found")

	// ErrUpstreamUnavailable wraps failures talking to the upstream source
	// (network, auth, rate limits, timeouts).
	ErrUpstreamUnavailable = errors.New("upstream source unavailable")

	// ErrInvalidParameter marks a request parameter that cannot be used.
	ErrInvalidParameter = errors.New("invalid request parameter")

	// ErrMalformedRecord marks a canonical record whose date or amount cannot
	// be parsed.
	ErrMalformedRecord = errors.New("malformed transaction record")
)
