// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/H0llyW00dzZ/domainsentry/internal/monitor"
	"github.com/H0llyW00dzZ/domainsentry/internal/opsapi"
)

func newOpsServer(mon *monitor.Monitor, log *zap.Logger, addr string) *http.Server {
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           opsapi.New(mon, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
