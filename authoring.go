// authoring.go: the plugin authoring contract shared by host and plugin.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

// RootPlugin is the minimal contract every plugin implements: a
// self-declared name and version. The registry retrieves the loaded
// instance as a RootPlugin and narrows it to the host's declared
// interface with Get.
type RootPlugin interface {
	Name() string
	Version() string
}

// PluginBase implements RootPlugin and is meant to be embedded by concrete
// plugin types, mirroring the authoring macro's job of stamping a literal
// name and version onto every plugin without repeating the boilerplate.
//
//	type MyPlugin struct {
//	    pluginhost.PluginBase
//	}
//
//	func NewMyPlugin() pluginhost.RootPlugin {
//	    return &MyPlugin{PluginBase: pluginhost.PluginBase{PName: "MyPlugin", PVersion: "1.0.0"}}
//	}
type PluginBase struct {
	PName    string
	PVersion string
}

// Name returns the plugin's self-declared name.
func (b PluginBase) Name() string { return b.PName }

// Version returns the plugin's self-declared version.
func (b PluginBase) Version() string { return b.PVersion }

// Functor is the canonical shape for data-transformation plugins: a single
// Apply operation over a host-defined value type T.
type Functor[T any] interface {
	RootPlugin
	Apply(input T) T
}

// CreateFunc is the signature every plugin's "CreatePlugin" export must
// have. Go's plugin package resolves exported symbols by name and static
// type; a shared library built with `go build -buildmode=plugin` loaded by
// Registry.Load must export a package-level symbol named CreatePlugin with
// exactly this type, and one named DestroyPlugin with DestroyFunc's type.
// This is the idiomatic Go analogue of the two C-linkage exports
// `create_plugin`/`destroy_plugin`: Go's plugin ABI is the exported symbol
// table of a plugin shared object, resolved by plugin.Open/Lookup rather
// than by dlopen/dlsym, but the contract — one factory, one destroyer,
// looked up by a well-known name — is the same.
type CreateFunc func() RootPlugin

// DestroyFunc is the signature every plugin's "DestroyPlugin" export must
// have.
type DestroyFunc func(RootPlugin)

// plugin authoring export symbol names, looked up via plugin.Lookup.
const (
	createSymbolName  = "CreatePlugin"
	destroySymbolName = "DestroyPlugin"
)
