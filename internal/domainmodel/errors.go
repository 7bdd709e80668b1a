// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package domainmodel

import "errors"

// Sentinel errors for the domainsentry error taxonomy (spec §7). Checker
// and component errors wrap one of these with %w so callers can classify
// failures with errors.Is regardless of which layer produced them.
var (
	// ErrRateTimeout is returned when a rate-limiter deadline elapses
	// before enough tokens became available.
	ErrRateTimeout = errors.New("domainsentry: rate limit wait exceeded deadline")

	// ErrNetwork covers DNS/TCP/HTTP transport failures.
	ErrNetwork = errors.New("domainsentry: network error")

	// ErrProtocol covers well-formed transport with a malformed or
	// unparseable payload.
	ErrProtocol = errors.New("domainsentry: protocol error")

	// ErrRemoteFailure covers upstream 5xx/429 responses.
	ErrRemoteFailure = errors.New("domainsentry: remote failure")

	// ErrAuth covers callback 401/403 responses.
	ErrAuth = errors.New("domainsentry: authentication rejected")

	// ErrPersistence covers a failed state snapshot write.
	ErrPersistence = errors.New("domainsentry: persistence error")

	// ErrFatal covers invariant violations or unrecoverable configuration.
	ErrFatal = errors.New("domainsentry: fatal error")

	// ErrInvalidDomain is returned when a domain name fails validation.
	ErrInvalidDomain = errors.New("domainsentry: invalid domain name")
)
