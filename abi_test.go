// abi_test.go: ABI signature parsing and compatibility tests.
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

func TestParseABISignature(t *testing.T) {
	sig, err := ParseABISignature("gcc-libstdc++-3.4.0-cxx11_abi")
	require.NoError(t, err)
	assert.Equal(t, "gcc", sig.Compiler)
	assert.Equal(t, "libstdc++", sig.Stdlib)
	assert.Equal(t, []int{3, 4, 0}, sig.Version)
	assert.Equal(t, "cxx11_abi", sig.ABITag)
	assert.Equal(t, "gcc-libstdc++-3.4.0-cxx11_abi", sig.String())
}

func TestParseABISignature_WrongFieldCount(t *testing.T) {
	_, err := ParseABISignature("gcc-libstdc++-3.4.0")
	require.Error(t, err)
}

func TestParseABISignature_NonIntegerVersion(t *testing.T) {
	_, err := ParseABISignature("gcc-libstdc++-3.x-cxx11_abi")
	require.Error(t, err)
}

func TestABISignature_IsCompatible(t *testing.T) {
	base := func(version []int) ABISignature {
		return ABISignature{Compiler: "gcc", Stdlib: "libstdc++", ABITag: "cxx11_abi", Version: version}
	}

	tests := []struct {
		name     string
		host     ABISignature
		required ABISignature
		want     bool
	}{
		{"equal versions", base([]int{3, 4}), base([]int{3, 4}), true},
		{"host longer, equal prefix", base([]int{3, 4, 0}), base([]int{3, 4}), true},
		{"host earlier patch", base([]int{3, 3, 9}), base([]int{3, 4}), false},
		{"host newer major", base([]int{4, 0}), base([]int{3, 9}), true},
		{"different compiler", ABISignature{Compiler: "clang", Stdlib: "libstdc++", ABITag: "cxx11_abi", Version: []int{3, 4}}, base([]int{3, 4}), false},
		{"different abi tag", ABISignature{Compiler: "gcc", Stdlib: "libstdc++", ABITag: "other_abi", Version: []int{3, 4}}, base([]int{3, 4}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.host.IsCompatible(tt.required))
		})
	}
}
