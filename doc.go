// Package pluginhost provides a runtime extension mechanism for Go host
// programs: it locates, validates, loads, and manages Go plugin shared
// objects ("plugins") built against host-declared interfaces, and
// distributes collections of them as signed, multi-platform archives
// ("bundles").
//
// The package has two tightly coupled cores. The Registry owns dynamic
// library handles and plugin instances, enforces unique plugin names, and
// mediates type-checked retrieval against host-declared interfaces:
//
//	reg := pluginhost.Default()
//	if err := reg.Load("./validplugin.so"); err != nil {
//	    log.Fatal(err)
//	}
//	p, err := pluginhost.Get[IValid](reg, "ValidPlugin")
//
// Bundle orchestrates loading a signed archive of plugins for multiple
// platforms: it unpacks the archive into a scoped workspace, parses its
// manifest, selects ABI-compatible binaries for the running host,
// verifies a detached signature against a host keyring, and dispatches
// each selected binary to a Registry:
//
//	keyring := pluginhost.NewKeyring("/etc/myhost/trusted-keys", nil)
//	b, err := pluginhost.Open("analytics-bundle.zip", pluginhost.AllCompatible, reg, keyring)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
// The package does not sandbox plugin execution, does not resolve version
// dependencies between plugins, does not hot-reload, does not perform
// remote fetching, and does not implement its own cryptography or archive
// format beyond what the standard library provides.
//
// Copyright (c) 2025 AGILira - A. Giordano
// SPDX-License-Identifier: MPL-2.0
package pluginhost
