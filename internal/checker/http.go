// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package checker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
	"github.com/H0llyW00dzZ/domainsentry/internal/ratelimit"
)

// RateClassHTTP names the shared rate-limit bucket for HTTP probes.
const RateClassHTTP = "http"

// HTTPChecker is the other cheap, Layer-1 checker: it issues a HEAD
// request to http://<domain>/ and, if that exchange fails, to
// https://<domain>/ (the www host is not probed), and treats any completed
// HTTP exchange — any status code at all — as evidence the name
// resolves and something serves on it. HTTP never reports UNREGISTERED
// on its own; a refused connection or DNS failure at this layer is
// merely inconclusive, since an absent webserver says nothing about
// registration.
type HTTPChecker struct {
	client  *http.Client
	limiter *ratelimit.Limiter
}

// NewHTTPChecker builds an HTTPChecker gated by limiter's "http" class.
func NewHTTPChecker(limiter *ratelimit.Limiter, timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPChecker{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		limiter: limiter,
	}
}

func (c *HTTPChecker) Kind() domainmodel.CheckerKind { return domainmodel.KindHTTP }

func (c *HTTPChecker) Check(ctx context.Context, domain string, deadline time.Time) domainmodel.CheckResult {
	start := time.Now()

	if err := acquire(ctx, c.limiter, RateClassHTTP, deadline); err != nil {
		return result(c.Kind(), start, domainmodel.OutcomeInconclusive, map[string]string{"error": err.Error()})
	}

	reqCtx := ctx
	if !deadline.IsZero() {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	status, ok := c.probe(reqCtx, "http://"+domain+"/")
	if ok {
		return result(c.Kind(), start, domainmodel.OutcomeRegistered, map[string]string{"status": fmt.Sprint(status), "host": domain})
	}

	status, ok = c.probe(reqCtx, "https://"+domain+"/")
	if ok {
		return result(c.Kind(), start, domainmodel.OutcomeRegistered, map[string]string{"status": fmt.Sprint(status), "host": domain})
	}

	return result(c.Kind(), start, domainmodel.OutcomeInconclusive, nil)
}

func (c *HTTPChecker) probe(ctx context.Context, url string) (int, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()
	return resp.StatusCode, true
}
