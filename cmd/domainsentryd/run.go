// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/H0llyW00dzZ/domainsentry/internal/config"
	"github.com/H0llyW00dzZ/domainsentry/internal/logging"
	"github.com/H0llyW00dzZ/domainsentry/internal/monitor"
)

// shutdownGrace bounds how long Monitor.Shutdown waits for in-flight
// checks to settle after a shutdown signal before writing the final
// snapshot, and how long the ops server gets to shut down.
const shutdownGrace = 30 * time.Second

func newRunCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the monitor loop and the operational HTTP surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(flags)
		},
	}
}

func runDaemon(flags *cliFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logging.New(flags.devLog)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mon := monitor.New(cfg, log)
	if err := mon.Start(ctx); err != nil {
		return fmt.Errorf("starting monitor: %w", err)
	}

	opsSrv := newOpsServer(mon, log, cfg.OpsAddr)
	go func() {
		if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("ops API server exited unexpectedly", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, draining in-flight checks")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	_ = opsSrv.Shutdown(shutdownCtx)

	mon.Shutdown(shutdownGrace)
	log.Info("domainsentryd stopped cleanly")
	return nil
}
