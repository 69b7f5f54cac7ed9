// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package experiments

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
At runtime, there is a singleton instance of experiments flags.
This test suite verifies the behavior of such an instance.
To avoid test pollution, a fresh instance is created in each test.
*/

func TestExperimentsAreDisabledByDefault(t *testing.T) {
	ResetForTesting()
	os.Setenv(Env, "")
	assert.False(t, isNoopEnabled())
	assert.False(t, IsReportsHTTPEnabled())
}

func TestExperimentsCanBeEnabled(t *testing.T) {
	ResetForTesting()
	os.Setenv(Env, "noop,reports-http")
	assert.True(t, isNoopEnabled())
	assert.True(t, IsReportsHTTPEnabled())
	assert.Equal(t, []string{"reports-http"}, GetEnabled())
}
