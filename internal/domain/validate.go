// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package domain validates and normalizes the domain names the rest of
// domainsentry operates on, converting Unicode/IDN input to its ASCII
// (Punycode) form ahead of any DNS, HTTP, RDAP, or WHOIS probe.
package domain

import (
	"strings"

	"golang.org/x/net/idna"
)

// profile is the IDNA2008 lookup profile used to validate and convert
// names to their ASCII form, matching the strict mode a resolver would
// apply rather than the more permissive "display" profile.
var profile = idna.New(
	idna.ValidateLabels(true),
	idna.VerifyDNSLength(true),
	idna.StrictDomainName(true),
)

// Normalize lowercases name, trims surrounding whitespace, strips a
// trailing root dot, and converts it to ASCII/Punycode via IDNA. This is
// the canonical form used as the registry key and the string handed to
// every checker. It returns "" if name cannot be converted.
func Normalize(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".")
	ascii, err := profile.ToASCII(name)
	if err != nil {
		return ""
	}
	return strings.ToLower(ascii)
}

// IsValid reports whether name (already normalized) is a syntactically
// valid domain name: at least two labels, each 1-63 characters, and an
// alphabetic TLD of at least two characters (or a Punycode "xn--" TLD).
func IsValid(name string) bool {
	if name == "" || len(name) > 255 {
		return false
	}

	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return false
	}

	for i, label := range labels {
		if !isValidLabel(label) {
			return false
		}
		if i == len(labels)-1 && !isValidTLD(label) {
			return false
		}
	}

	return true
}

func isValidLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for _, c := range label {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}
	return true
}

func isValidTLD(label string) bool {
	if len(label) < 2 {
		return false
	}
	if len(label) > 4 && strings.EqualFold(label[:4], "xn--") {
		return true
	}
	for _, c := range label {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return false
		}
	}
	return true
}

// TLD returns the last label of a normalized domain name, or "" if name
// has no dot.
func TLD(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return name[i+1:]
}
