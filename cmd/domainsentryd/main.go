// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Command domainsentryd is the domainsentry process entrypoint: it
// loads configuration, starts the monitor and its ops HTTP surface,
// and blocks until an interrupt or terminate signal triggers a
// graceful shutdown.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
