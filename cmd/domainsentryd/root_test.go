// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRootCmd_RegistersSubcommands(t *testing.T) {
	root := newRootCmd()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["run"])
	assert.True(t, names["validate-config"])
	assert.True(t, names["version"])
}

func TestValidateConfigCmd_RunsWithoutError(t *testing.T) {
	flags := &cliFlags{}
	cmd := newValidateConfigCmd(flags)
	cmd.SetArgs(nil)
	err := cmd.RunE(cmd, nil)
	assert.NoError(t, err)
}
