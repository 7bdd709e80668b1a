// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package domainmodel defines the core value types shared by every
// domainsentry component: the monitored Domain record, a single
// checker's CheckResult, and the pipeline's fused Verdict.
package domainmodel

import "time"

// VerdictStatus is the pipeline's classification of a domain's
// availability at one point in time.
type VerdictStatus string

const (
	StatusUnknown            VerdictStatus = "UNKNOWN"
	StatusLikelyTaken        VerdictStatus = "LIKELY_TAKEN"
	StatusLikelyAvailable    VerdictStatus = "LIKELY_AVAILABLE"
	StatusConfirmedAvailable VerdictStatus = "CONFIRMED_AVAILABLE"
)

// IsAvailableVariant reports whether status represents an "available"
// classification worth reporting over the availability callback channel.
func (s VerdictStatus) IsAvailableVariant() bool {
	return s == StatusLikelyAvailable || s == StatusConfirmedAvailable
}

// CheckerKind identifies which oracle produced a CheckResult.
type CheckerKind string

const (
	KindDNS   CheckerKind = "dns"
	KindHTTP  CheckerKind = "http"
	KindRDAP  CheckerKind = "rdap"
	KindWHOIS CheckerKind = "whois"
)

// Outcome is a single checker's raw classification of a probe.
type Outcome string

const (
	OutcomeRegistered   Outcome = "REGISTERED"
	OutcomeUnregistered Outcome = "UNREGISTERED"
	OutcomeInconclusive Outcome = "INCONCLUSIVE"
	OutcomeError        Outcome = "ERROR"
)

// CheckResult is one checker's output for one domain at one moment.
type CheckResult struct {
	CheckerKind CheckerKind       `json:"checker_kind"`
	Outcome     Outcome           `json:"outcome"`
	Details     map[string]string `json:"details,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	DurationMs  int64             `json:"duration_ms"`
}

// Verdict is the pipeline's fusion of one or more CheckResults into a
// single confidence-scored classification.
type Verdict struct {
	Status       VerdictStatus `json:"status"`
	Confidence   float64       `json:"confidence"`
	Contributing []CheckResult `json:"contributing"`
}

// HasWHOISUnregistered reports whether v's contributing evidence
// includes a WHOIS check that resolved UNREGISTERED. CONFIRMED_AVAILABLE
// verdicts must never be emitted without this being true.
func (v Verdict) HasWHOISUnregistered() bool {
	for _, c := range v.Contributing {
		if c.CheckerKind == KindWHOIS && c.Outcome == OutcomeUnregistered {
			return true
		}
	}
	return false
}

// Domain is a single monitored domain name and its scheduling/verdict state.
type Domain struct {
	Name                string        `json:"name"`
	Priority            bool          `json:"priority"`
	LastCheckedAt       time.Time     `json:"last_checked_at,omitempty"`
	NextCheckAt         time.Time     `json:"next_check_at"`
	ConsecutiveFailures int           `json:"consecutive_failures"`
	LastVerdict         VerdictStatus `json:"last_verdict"`
	LastConfidence      float64       `json:"last_confidence"`
	LastReportedStatus  VerdictStatus `json:"last_reported_status"`
}
