// bundle.go: the bundle loader — orchestrates workspace, extraction,
// manifest parsing, signature verification, variant selection, and
// registry dispatch for a signed multi-platform plugin bundle.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Bundle is a loaded, unpacked plugin bundle. It owns the scoped workspace
// it was extracted into and the set of plugin names it registered; Close
// unloads those plugins from the registry before releasing the workspace,
// resolving the ordering hazard the design notes flag: a plugin's library
// file must stay on disk while the OS loader holds it mapped, so the
// workspace must not be released before its plugins are unloaded.
type Bundle struct {
	path      string
	workspace *Workspace
	registry  *Registry
	manifest  *Manifest
	host      HostDescriptor

	signed  bool
	trusted bool

	loadedPlugins []string
}

// Open loads a bundle archive: verifies it exists, extracts it into a
// scoped workspace, parses and verifies its manifest, selects ABI-compatible
// variants for the running host under policy, and loads each selected
// binary into registry.
func Open(path string, policy LoadPolicy, registry *Registry, keyring *Keyring) (*Bundle, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, NewBundleNotFoundError(path)
	}

	ws, err := NewWorkspace()
	if err != nil {
		return nil, err
	}
	// ws is adopted by the returned Bundle on success; on any failure path
	// below we own it and must release it ourselves.
	ok := false
	defer func() {
		if !ok {
			ws.Close()
		}
	}()

	if err := ExtractZip(path, ws.Path()); err != nil {
		return nil, err
	}

	host := DetectHost()

	manifestPath := filepath.Join(ws.Path(), "manifest.yaml")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, NewManifestMissingError()
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		path:      path,
		workspace: ws,
		registry:  registry,
		manifest:  manifest,
		host:      host,
	}

	signed, trusted, err := verifyBundle(manifest, ws, keyring)
	if err != nil {
		return nil, err
	}
	b.signed = signed
	b.trusted = trusted

	selected, err := selectVariants(manifest, host, policy)
	if err != nil {
		return nil, err
	}

	for _, s := range selected {
		binPath := filepath.Join(ws.Path(), s.Path)
		if err := registry.Load(binPath); err != nil {
			return nil, err
		}
		b.loadedPlugins = append(b.loadedPlugins, s.pluginName)
	}

	ok = true
	return b, nil
}

type selectedVariant struct {
	pluginName string
	PlatformBinary
}

// selectVariants applies §4.4.2: for each (plugin, binary) pair, discard
// triplet mismatches, parse and ABI-check the rest, then apply the load
// policy over the set of plugins with at least one accepted binary.
func selectVariants(m *Manifest, host HostDescriptor, policy LoadPolicy) ([]selectedVariant, error) {
	var selected []selectedVariant
	total := make(map[string]bool)
	compatible := make(map[string]bool)

	for _, rec := range m.Plugins {
		var chosen *PlatformBinary
		for i := range rec.Entry.Binaries {
			bin := rec.Entry.Binaries[i]
			if bin.Triplet != host.Triplet() {
				continue
			}
			total[rec.Name] = true

			required, err := ParseABISignature(bin.ABISignature)
			if err != nil {
				return nil, err
			}
			if !host.ABISignature().IsCompatible(required) {
				continue
			}
			if chosen == nil {
				chosen = &bin
			}
		}
		if chosen != nil {
			compatible[rec.Name] = true
			selected = append(selected, selectedVariant{pluginName: rec.Name, PlatformBinary: *chosen})
		}
	}

	switch policy {
	case AllCompatible:
		var missing []string
		for name := range total {
			if !compatible[name] {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return nil, NewAbiIncompatibleError(missing)
		}
	case AnyCompatible:
		if len(compatible) == 0 {
			return nil, NewAbiIncompatibleError(nil)
		}
	}

	return selected, nil
}

// verifyBundle implements §4.4.1. With no signature section the bundle is
// unsigned and the loader proceeds with signed=false, trusted=false; that
// policy decision (whether to refuse unsigned bundles) belongs to the host,
// not the core.
func verifyBundle(m *Manifest, ws *Workspace, keyring *Keyring) (signed, trusted bool, err error) {
	if m.Signature == nil {
		return false, false, nil
	}

	canonical, err := canonicalSignedForm(m, ws)
	if err != nil {
		return false, false, err
	}

	key, found, err := keyring.FindByFingerprint(m.Signature.KeyFingerprint)
	if err != nil {
		return false, false, err
	}
	if !found {
		return false, false, NewUntrustedBundleError("no keyring key matches fingerprint " + m.Signature.KeyFingerprint)
	}

	sigBytes, err := hex.DecodeString(m.Signature.Signature)
	if err != nil {
		return false, false, NewCryptoError("decoding signature hex", err)
	}

	ok, err := Verify(key, []byte(canonical), sigBytes)
	if err != nil {
		return false, false, err
	}
	if !ok {
		return false, false, NewUntrustedBundleError("signature did not verify against fingerprint " + m.Signature.KeyFingerprint)
	}

	return true, true, nil
}

// canonicalSignedForm computes the exact byte sequence §3 defines: a
// "<relpath>:sha256:<hex>" line per manifest-referenced file, sorted by
// relative path ascending, joined by a single '\n' with no trailing
// newline.
func canonicalSignedForm(m *Manifest, ws *Workspace) (string, error) {
	var files []digestedFile

	for _, rec := range m.Plugins {
		if rec.Entry.SourceDist != nil {
			files = append(files, digestedFile{RelPath: rec.Entry.SourceDist.Path})
		}
		for _, bin := range rec.Entry.Binaries {
			files = append(files, digestedFile{RelPath: bin.Path})
		}
	}

	for i := range files {
		sum, err := SHA256File(filepath.Join(ws.Path(), files[i].RelPath))
		if err != nil {
			return "", err
		}
		files[i].SHA256 = sum
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })

	lines := make([]string, len(files))
	for i, f := range files {
		lines[i] = f.RelPath + ":sha256:" + f.SHA256
	}
	return strings.Join(lines, "\n"), nil
}

// Has reports whether plugin name was registered by this bundle.
func (b *Bundle) Has(name string) bool {
	for _, n := range b.loadedPlugins {
		if n == name {
			return true
		}
	}
	return false
}

// PluginNames returns the names of every plugin this bundle registered.
func (b *Bundle) PluginNames() []string {
	out := make([]string, len(b.loadedPlugins))
	copy(out, b.loadedPlugins)
	return out
}

// Author returns the bundle's declared author.
func (b *Bundle) Author() string { return b.manifest.BundleAuthor }

// Version returns the bundle's declared version.
func (b *Bundle) Version() string { return b.manifest.BundleVersion }

// Comment returns the bundle's declared comment.
func (b *Bundle) Comment() string { return b.manifest.BundleComment }

// BundledAt returns the bundle's declared build timestamp, as authored in
// the manifest (the manifest does not constrain its format beyond being a
// string, so parsing is left to callers that know the packaging tool's
// convention).
func (b *Bundle) BundledAt() string { return b.manifest.BundledOn }

// Signed reports whether the bundle carried a well-formed signature
// section.
func (b *Bundle) Signed() bool { return b.signed }

// Trusted reports whether the bundle's signature verified against a host
// keyring key matching the declared fingerprint.
func (b *Bundle) Trusted() bool { return b.trusted }

// Close unloads every plugin this bundle registered, then releases its
// scoped workspace. Safe to call once; calling it while host code still
// holds a reference obtained via Get leaves that reference pointing at an
// unloaded plugin whose instance has been destroyed (its shared object
// stays mapped; see Registry).
func (b *Bundle) Close() error {
	for i := len(b.loadedPlugins) - 1; i >= 0; i-- {
		_ = b.registry.Unload(b.loadedPlugins[i])
	}
	b.loadedPlugins = nil
	return b.workspace.Close()
}
