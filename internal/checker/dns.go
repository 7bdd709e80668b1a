// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package checker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
	"github.com/H0llyW00dzZ/domainsentry/internal/ratelimit"
)

// RateClassDNS names the shared rate-limit bucket for DNS lookups.
const RateClassDNS = "dns"

// DNSChecker is the cheapest checker: resolves NS and A/AAAA for a
// domain. NS records present implies registration (only a registered
// domain can be delegated); NXDOMAIN on both NS and A implies the name
// is not in the zone at all.
type DNSChecker struct {
	// Server is the nameserver queried, host:port. Defaults to
	// 8.8.8.8:53 when empty.
	Server    string
	client    *dns.Client
	limiter   *ratelimit.Limiter
	edns0Size uint16
}

// NewDNSChecker builds a DNSChecker gated by limiter's "dns" class.
func NewDNSChecker(limiter *ratelimit.Limiter, server string, timeout time.Duration) *DNSChecker {
	if server == "" {
		server = "8.8.8.8:53"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DNSChecker{
		Server:    server,
		client:    &dns.Client{Timeout: timeout, Net: "udp"},
		limiter:   limiter,
		edns0Size: 1232,
	}
}

func (c *DNSChecker) Kind() domainmodel.CheckerKind { return domainmodel.KindDNS }

func (c *DNSChecker) Check(ctx context.Context, domain string, deadline time.Time) domainmodel.CheckResult {
	start := time.Now()

	if err := acquire(ctx, c.limiter, RateClassDNS, deadline); err != nil {
		return result(c.Kind(), start, domainmodel.OutcomeInconclusive, map[string]string{"error": err.Error()})
	}

	queryCtx := ctx
	if !deadline.IsZero() {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	nsMsg, nsErr := c.query(queryCtx, domain, dns.TypeNS)
	if nsMsg != nil && len(nsMsg.Answer) > 0 {
		ns := make([]string, 0, len(nsMsg.Answer))
		for _, rr := range nsMsg.Answer {
			ns = append(ns, rr.String())
		}
		return result(c.Kind(), start, domainmodel.OutcomeRegistered, map[string]string{"nameservers": fmt.Sprint(len(ns))})
	}

	aMsg, aErr := c.query(queryCtx, domain, dns.TypeA)

	nsNXDomain := nsMsg != nil && nsMsg.Rcode == dns.RcodeNameError
	aNXDomain := aMsg != nil && aMsg.Rcode == dns.RcodeNameError

	if nsNXDomain && aNXDomain {
		return result(c.Kind(), start, domainmodel.OutcomeUnregistered, nil)
	}

	if aMsg != nil && len(aMsg.Answer) > 0 {
		return result(c.Kind(), start, domainmodel.OutcomeRegistered, map[string]string{"a_records": fmt.Sprint(len(aMsg.Answer))})
	}

	aaaaMsg, _ := c.query(queryCtx, domain, dns.TypeAAAA)
	if aaaaMsg != nil && len(aaaaMsg.Answer) > 0 {
		return result(c.Kind(), start, domainmodel.OutcomeRegistered, map[string]string{"aaaa_records": fmt.Sprint(len(aaaaMsg.Answer))})
	}

	if isTimeoutOrServfail(nsErr, nsMsg) || isTimeoutOrServfail(aErr, aMsg) {
		return result(c.Kind(), start, domainmodel.OutcomeInconclusive, nil)
	}

	if nsErr != nil || aErr != nil {
		errMsg := ""
		if nsErr != nil {
			errMsg = nsErr.Error()
		} else {
			errMsg = aErr.Error()
		}
		return result(c.Kind(), start, domainmodel.OutcomeError, map[string]string{"error": errMsg})
	}

	return result(c.Kind(), start, domainmodel.OutcomeInconclusive, nil)
}

func (c *DNSChecker) query(ctx context.Context, domain string, qtype uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), qtype)
	msg.RecursionDesired = true
	msg.SetEdns0(c.edns0Size, false)

	server := c.Server
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}

	resp, _, err := c.client.ExchangeContext(ctx, msg, server)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w: dns timeout: %w", domainmodel.ErrNetwork, err)
		}
		return nil, fmt.Errorf("%w: %v", domainmodel.ErrNetwork, err)
	}
	return resp, nil
}

func isTimeoutOrServfail(err error, msg *dns.Msg) bool {
	if err != nil {
		var netErr net.Error
		return errors.As(err, &netErr) && netErr.Timeout()
	}
	return msg != nil && msg.Rcode == dns.RcodeServerFailure
}
