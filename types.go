// types.go: shared data types for the plugin host runtime
//
// This file contains the data model shared by the registry and the bundle
// loader: plugin metadata, manifest-derived records, and the load policy
// enumeration. Component-specific types (ABISignature, Manifest, Bundle)
// live alongside the code that owns them.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"time"

	"github.com/agilira/go-timecache"
)

// PluginInfo describes a loaded plugin's self-declared identity.
//
// Every plugin implements the root interface, which exposes Name and
// Version. PluginInfo is a value snapshot of that identity plus the
// on-disk path the plugin was loaded from, returned by registry
// introspection calls.
type PluginInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Path    string `json:"path"`
}

// LoadPolicy governs how the bundle loader reacts to a bundle containing
// plugins for which no ABI-compatible binary exists for the running host.
type LoadPolicy int

const (
	// AllCompatible requires every plugin named in the manifest for the
	// host triplet to have at least one ABI-compatible binary.
	AllCompatible LoadPolicy = iota
	// AnyCompatible requires at least one plugin to have an ABI-compatible
	// binary; the rest are silently skipped.
	AnyCompatible
)

// String renders the policy for logging and error messages.
func (p LoadPolicy) String() string {
	switch p {
	case AllCompatible:
		return "ALL_COMPATIBLE"
	case AnyCompatible:
		return "ANY_COMPATIBLE"
	default:
		return "unknown"
	}
}

// Platform identifies the triplet, ABI signature, and architecture a binary
// targets. It decodes from the manifest's nested `platform: {...}` object.
type Platform struct {
	Triplet      string `yaml:"triplet" json:"triplet"`
	ABISignature string `yaml:"abi_signature" json:"abi_signature"`
	Arch         string `yaml:"arch" json:"arch"`
}

// PlatformBinary is one `(plugin, platform)` entry from a bundle manifest:
// the platform it targets, and the path to its binary relative to the
// unpacked bundle workspace. Platform is embedded so callers keep writing
// bin.Triplet/bin.ABISignature/bin.Arch even though the manifest nests them
// under a "platform" key.
type PlatformBinary struct {
	Platform `yaml:"platform" json:"platform"`
	Path     string `yaml:"path" json:"path"`
}

// BundlePluginEntry is a manifest's description of one plugin: an optional
// source-distribution reference and the list of per-platform binaries
// available for it.
type BundlePluginEntry struct {
	SourceDist *SourceDistRef   `yaml:"sdist,omitempty" json:"sdist,omitempty"`
	Binaries   []PlatformBinary `yaml:"binaries" json:"binaries"`
}

// SourceDistRef points at a plugin's source-distribution archive, included
// in the canonical signed form alongside its binaries.
type SourceDistRef struct {
	Path string `yaml:"path" json:"path"`
}

// digestedFile is one line of the canonical signed form: a manifest-
// referenced file's path relative to the bundle workspace, paired with its
// SHA-256 digest.
type digestedFile struct {
	RelPath string
	SHA256  string
}

// timestampNow returns the current time from go-timecache's cached clock.
// Workspace uses it to stamp its creation time.
func timestampNow() time.Time {
	return timecache.CachedTime()
}
