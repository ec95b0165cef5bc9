// manifest.go: bundle manifest parsing.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ManifestSignature is the optional detached-signature section of a bundle
// manifest.
type ManifestSignature struct {
	Signature      string `yaml:"signature"`
	KeyFingerprint string `yaml:"keyFingerprint"`
}

// ManifestPluginRecord pairs a plugin name with its manifest entry. Plugins
// are kept in the order they appear in the manifest's bundlePlugins
// mapping, because registration order and tie-breaking within
// ABI-compatible variant selection both depend on manifest order, and a Go
// map does not preserve it.
type ManifestPluginRecord struct {
	Name  string
	Entry BundlePluginEntry
}

// Manifest is the parsed form of a bundle's manifest.yaml.
type Manifest struct {
	BundleName    string
	BundleVersion string
	BundleAuthor  string
	BundleComment string
	BundledOn     string
	Signature     *ManifestSignature
	Plugins       []ManifestPluginRecord
}

// rawManifest mirrors manifest.yaml's top-level shape; BundlePlugins is
// decoded as a raw Node so plugin order can be preserved manually.
type rawManifest struct {
	BundleName      string             `yaml:"bundleName"`
	BundleVersion   string             `yaml:"bundleVersion"`
	BundleAuthor    string             `yaml:"bundleAuthor"`
	BundleComment   string             `yaml:"bundleComment"`
	BundledOn       string             `yaml:"bundledOn"`
	BundleSignature *ManifestSignature `yaml:"bundleSignature"`
	BundlePlugins   yaml.Node          `yaml:"bundlePlugins"`
}

// ParseManifest parses and validates a bundle manifest. bundleName,
// bundleVersion, a non-empty bundlePlugins mapping, every binary's platform
// fields and path, an sdist's path, and both fields of a present
// bundleSignature are checked for presence; any absence is reported as
// ManifestMalformed. bundleAuthor, bundleComment and bundledOn are not
// checked: when absent they are left empty.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, NewManifestMalformedError("invalid yaml: " + err.Error())
	}

	if raw.BundleName == "" {
		return nil, NewManifestMalformedError("bundleName missing")
	}
	if raw.BundleVersion == "" {
		return nil, NewManifestMalformedError("bundleVersion missing")
	}

	if raw.BundleSignature != nil {
		if raw.BundleSignature.Signature == "" {
			return nil, NewManifestMalformedError("bundleSignature.signature missing")
		}
		if raw.BundleSignature.KeyFingerprint == "" {
			return nil, NewManifestMalformedError("bundleSignature.keyFingerprint missing")
		}
	}

	plugins, err := decodeBundlePlugins(raw.BundlePlugins)
	if err != nil {
		return nil, err
	}
	if len(plugins) == 0 {
		return nil, NewManifestMalformedError("bundlePlugins missing or empty")
	}

	return &Manifest{
		BundleName:    raw.BundleName,
		BundleVersion: raw.BundleVersion,
		BundleAuthor:  raw.BundleAuthor,
		BundleComment: raw.BundleComment,
		BundledOn:     raw.BundledOn,
		Signature:     raw.BundleSignature,
		Plugins:       plugins,
	}, nil
}

// decodeBundlePlugins walks a mapping node's Content slice, which yaml.v3
// stores as flat alternating key/value pairs in document order, preserving
// that order into the returned slice.
func decodeBundlePlugins(node yaml.Node) ([]ManifestPluginRecord, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, NewManifestMalformedError("bundlePlugins must be a mapping")
	}

	records := make([]ManifestPluginRecord, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]

		var name string
		if err := keyNode.Decode(&name); err != nil {
			return nil, NewManifestMalformedError("bundlePlugins key is not a string")
		}

		var entry BundlePluginEntry
		if err := valNode.Decode(&entry); err != nil {
			return nil, NewManifestMalformedError(fmt.Sprintf("bundlePlugins[%s] malformed: %v", name, err))
		}
		if len(entry.Binaries) == 0 {
			return nil, NewManifestMalformedError("bundlePlugins[" + name + "] has no binaries")
		}
		for _, b := range entry.Binaries {
			if b.Triplet == "" || b.ABISignature == "" || b.Arch == "" || b.Path == "" {
				return nil, NewManifestMalformedError("bundlePlugins[" + name + "] binary entry missing platform or path field")
			}
		}
		if entry.SourceDist != nil && entry.SourceDist.Path == "" {
			return nil, NewManifestMalformedError("bundlePlugins[" + name + "] sdist missing path")
		}

		records = append(records, ManifestPluginRecord{Name: name, Entry: entry})
	}
	return records, nil
}
