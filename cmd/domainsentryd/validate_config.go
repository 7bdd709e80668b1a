// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/domainsentry/internal/config"
)

func newValidateConfigCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "Load configuration and report any errors without starting the monitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config OK: workers=%d state_dir=%s rate_classes=%d ops_addr=%s\n",
				cfg.Workers, cfg.StateDir, len(cfg.RateClasses), cfg.OpsAddr)
			return nil
		},
	}
}
