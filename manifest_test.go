// manifest_test.go: bundle manifest parsing tests.
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

const validManifest = `
bundleName: analytics
bundleVersion: "1.2.0"
bundleAuthor: acme
bundleComment: test bundle
bundledOn: "2026-01-01T00:00:00Z"
bundlePlugins:
  zeta:
    binaries:
      - platform: {triplet: x86_64-linux, abi_signature: gcc-libstdc++-3.4-cxx11_abi, arch: x86_64}
        path: bin/zeta.so
  alpha:
    sdist: {path: src/alpha.tar.gz}
    binaries:
      - platform: {triplet: x86_64-linux, abi_signature: gcc-libstdc++-3.4-cxx11_abi, arch: x86_64}
        path: bin/alpha.so
`

func TestParseManifest_Valid(t *testing.T) {
	m, err := ParseManifest([]byte(validManifest))
	require.NoError(t, err)

	assert.Equal(t, "analytics", m.BundleName)
	assert.Equal(t, "1.2.0", m.BundleVersion)
	assert.Equal(t, "acme", m.BundleAuthor)
	assert.Nil(t, m.Signature)

	require.Len(t, m.Plugins, 2)
	assert.Equal(t, "zeta", m.Plugins[0].Name, "manifest order must be preserved, not lexical order")
	assert.Equal(t, "alpha", m.Plugins[1].Name)
	assert.Equal(t, "src/alpha.tar.gz", m.Plugins[1].Entry.SourceDist.Path)
}

func TestParseManifest_MissingBundlePlugins(t *testing.T) {
	_, err := ParseManifest([]byte(`
bundleName: analytics
bundleVersion: "1.0.0"
`))
	require.Error(t, err)
}

func TestParseManifest_MissingBundleName(t *testing.T) {
	_, err := ParseManifest([]byte(`
bundleVersion: "1.0.0"
bundlePlugins:
  a:
    binaries:
      - platform: {triplet: x86_64-linux, abi_signature: gcc-libstdc++-3.4-cxx11_abi, arch: x86_64}
        path: bin/a.so
`))
	require.Error(t, err)
}

func TestParseManifest_SignatureMissingFingerprint(t *testing.T) {
	_, err := ParseManifest([]byte(`
bundleName: analytics
bundleVersion: "1.0.0"
bundleSignature:
  signature: "deadbeef"
bundlePlugins:
  a:
    binaries:
      - platform: {triplet: x86_64-linux, abi_signature: gcc-libstdc++-3.4-cxx11_abi, arch: x86_64}
        path: bin/a.so
`))
	require.Error(t, err)
}

func TestParseManifest_BinaryMissingPath(t *testing.T) {
	_, err := ParseManifest([]byte(`
bundleName: analytics
bundleVersion: "1.0.0"
bundlePlugins:
  a:
    binaries:
      - platform: {triplet: x86_64-linux, abi_signature: gcc-libstdc++-3.4-cxx11_abi, arch: x86_64}
`))
	require.Error(t, err)
}

func TestParseManifest_InvalidYAML(t *testing.T) {
	_, err := ParseManifest([]byte("not: valid: yaml: : :"))
	require.Error(t, err)
}
