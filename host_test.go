// host_test.go: host descriptor tests.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHost_TripletRoundTripsThroughABIParser(t *testing.T) {
	h := DetectHost()

	assert.NotEmpty(t, h.OS())
	assert.NotEmpty(t, h.Arch())
	assert.Equal(t, h.Arch()+"-"+h.OS(), h.Triplet())

	roundTripped, err := ParseABISignature(h.ABISignature().String())
	require.NoError(t, err)
	assert.Equal(t, h.ABISignature(), roundTripped)
}

func TestDetectHost_SelfCompatible(t *testing.T) {
	h := DetectHost()
	assert.True(t, h.ABISignature().IsCompatible(h.ABISignature()))
}
