// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package logging constructs the single structured logger that
// cmd/domainsentryd builds once and hands by explicit injection to the
// components that log (the monitor and the ops API), rather than
// reaching for a global.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-profile zap logger (JSON encoding, ISO8601
// timestamps) unless dev is true, in which case it builds a
// human-readable console logger instead.
func New(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// WithFields is a small convenience for the common case of a logger
// scoped to one domain across several log lines within one check.
func WithFields(l *zap.Logger, domain string) *zap.Logger {
	return l.With(zap.String("domain", domain))
}
