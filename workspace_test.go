// workspace_test.go: scoped workspace lifecycle tests.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkspace_CreatesDirectory(t *testing.T) {
	ws, err := NewWorkspace()
	require.NoError(t, err)
	defer ws.Close()

	info, err := os.Stat(ws.Path())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWorkspace_CloseRemovesDirectory(t *testing.T) {
	ws, err := NewWorkspace()
	require.NoError(t, err)

	require.NoError(t, ws.Close())

	_, err = os.Stat(ws.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestWorkspace_CloseIsIdempotent(t *testing.T) {
	ws, err := NewWorkspace()
	require.NoError(t, err)

	require.NoError(t, ws.Close())
	require.NoError(t, ws.Close())
}

func TestNewWorkspace_UniquePaths(t *testing.T) {
	a, err := NewWorkspace()
	require.NoError(t, err)
	defer a.Close()

	b, err := NewWorkspace()
	require.NoError(t, err)
	defer b.Close()

	assert.NotEqual(t, a.Path(), b.Path())
}
