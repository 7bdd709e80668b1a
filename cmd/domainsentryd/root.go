// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"github.com/spf13/cobra"
)

// cliFlags holds the persistent flags shared by every subcommand.
type cliFlags struct {
	configPath string
	devLog     bool
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:   "domainsentryd",
		Short: "domainsentryd continuously checks domain availability and reports transitions",
		Long: "domainsentryd ingests a dynamic domain list, runs a layered DNS/HTTP/RDAP/WHOIS\n" +
			"availability pipeline against it on a priority-aware schedule, and posts\n" +
			"availability transitions to a callback API.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to a YAML configuration file (optional; env vars still apply on top)")
	root.PersistentFlags().BoolVar(&flags.devLog, "dev-log", false, "use a human-readable console logger instead of JSON")

	root.AddCommand(newRunCmd(flags))
	root.AddCommand(newValidateConfigCmd(flags))
	root.AddCommand(newVersionCmd())

	return root
}
