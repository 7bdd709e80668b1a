// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package checker

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/openrdap/rdap"
	"github.com/openrdap/rdap/bootstrap"

	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
	"github.com/H0llyW00dzZ/domainsentry/internal/ratelimit"
)

// RateClassRDAP names the shared rate-limit bucket for RDAP lookups.
const RateClassRDAP = "rdap"

// RDAPChecker is the Layer-2 checker. It bootstraps the registry
// operating a TLD's domain zone via IANA's RDAP bootstrap registry and
// queries that registry's RDAP service directly, which is both cheaper
// and more structured than WHOIS but not every TLD publishes one.
type RDAPChecker struct {
	client  *rdap.Client
	limiter *ratelimit.Limiter
}

// NewRDAPChecker builds an RDAPChecker gated by limiter's "rdap" class.
func NewRDAPChecker(limiter *ratelimit.Limiter, timeout time.Duration) *RDAPChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RDAPChecker{
		client: &rdap.Client{
			HTTP:      &http.Client{Timeout: timeout},
			Bootstrap: &bootstrap.Client{},
		},
		limiter: limiter,
	}
}

func (c *RDAPChecker) Kind() domainmodel.CheckerKind { return domainmodel.KindRDAP }

func (c *RDAPChecker) Check(ctx context.Context, domain string, deadline time.Time) domainmodel.CheckResult {
	start := time.Now()

	if err := acquire(ctx, c.limiter, RateClassRDAP, deadline); err != nil {
		return result(c.Kind(), start, domainmodel.OutcomeInconclusive, map[string]string{"error": err.Error()})
	}

	reqCtx := ctx
	if !deadline.IsZero() {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	req := (&rdap.Request{Type: rdap.DomainRequest, Query: domain}).WithContext(reqCtx)
	resp, err := c.client.Do(req)
	if err != nil {
		var ce *rdap.ClientError
		if errors.As(err, &ce) {
			switch ce.Type {
			case rdap.BootstrapNoMatch:
				return result(c.Kind(), start, domainmodel.OutcomeInconclusive, map[string]string{"reason": "no_rdap_bootstrap"})
			case rdap.ObjectDoesNotExist:
				return result(c.Kind(), start, domainmodel.OutcomeUnregistered, nil)
			}
		}
		if delay, limited := rdapRetryDelay(resp); limited || delay > 0 {
			return result(c.Kind(), start, domainmodel.OutcomeInconclusive, map[string]string{"reason": "rate_limited"})
		}
		return result(c.Kind(), start, domainmodel.OutcomeInconclusive, map[string]string{"error": err.Error()})
	}

	if resp == nil || resp.Object == nil {
		return result(c.Kind(), start, domainmodel.OutcomeUnregistered, nil)
	}

	dom, ok := resp.Object.(*rdap.Domain)
	if !ok || dom == nil {
		return result(c.Kind(), start, domainmodel.OutcomeInconclusive, nil)
	}

	details := map[string]string{"handle": dom.Handle}
	if registrar := registrarName(dom.Entities); registrar != "" {
		details["registrar"] = registrar
	}
	return result(c.Kind(), start, domainmodel.OutcomeRegistered, details)
}

func registrarName(entities []rdap.Entity) string {
	for _, e := range entities {
		for _, role := range e.Roles {
			if role == "registrar" {
				if e.VCard != nil {
					if fn := e.VCard.Name(); fn != "" {
						return fn
					}
				}
				return e.Handle
			}
		}
	}
	return ""
}

// rdapRetryDelay reports whether an RDAP response carried a 429/503,
// which domainsentry treats as transient rather than as a confirmed
// absence of the domain.
func rdapRetryDelay(resp *rdap.Response) (time.Duration, bool) {
	if resp == nil {
		return 0, false
	}
	limited := false
	for _, hr := range resp.HTTP {
		if hr == nil || hr.Response == nil {
			continue
		}
		switch hr.Response.StatusCode {
		case http.StatusTooManyRequests:
			limited = true
		case http.StatusServiceUnavailable:
			limited = true
		}
	}
	if limited {
		return time.Duration(0), true
	}
	return 0, false
}
