// registry.go: the plugin registry — loads Go plugin shared objects,
// enforces unique names, and mediates type-checked retrieval.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"os"
	"plugin"
	"reflect"
	"sync"
)

// pluginHandle is one loaded plugin: its identity, the library handle Go's
// plugin package gave us, the instance itself, and the destroyer that must
// run before the handle is considered released.
//
// Go's plugin package has no unload primitive — once opened, a shared
// object stays mapped into the process for its lifetime; this is the
// documented reason hashicorp/go-plugin and this package's own teacher
// library run plugins as subprocesses instead of dlopen'd objects. Registry
// keeps the contract's shape (instance destroyed, then library
// "released") but the library-release step is necessarily a bookkeeping
// no-op: the handle is dropped from the registry and the destroyer runs,
// but the .so itself remains mapped until process exit. See DESIGN.md.
type pluginHandle struct {
	name     string
	path     string
	lib      *plugin.Plugin
	instance RootPlugin
	destroy  DestroyFunc
}

// Registry owns dynamic-library handles and plugin instances. load/unload
// are expected to run on a single control thread per §5 of the design;
// Registry still serializes them with a mutex so misuse fails safe rather
// than racing, but callers should not rely on concurrent Load/Unload for
// throughput.
type Registry struct {
	mu      sync.RWMutex
	handles map[string]*pluginHandle
	order   []string
	logger  Logger
}

// NewRegistry creates an empty registry. Most hosts want the process-wide
// singleton returned by Default instead, so that a plugin loaded via a
// bundle can be retrieved by name from unrelated host code.
func NewRegistry(logger Logger) *Registry {
	if logger == nil {
		logger = DefaultLogger()
	}
	return &Registry{
		handles: make(map[string]*pluginHandle),
		logger:  logger,
	}
}

var defaultRegistry = NewRegistry(nil)

// Default returns the process-wide registry singleton.
func Default() *Registry {
	return defaultRegistry
}

// Load opens the Go plugin shared object at path, resolves its
// CreatePlugin/DestroyPlugin symbols, constructs an instance, and
// registers it under the name the instance reports.
func (r *Registry) Load(path string) error {
	if _, err := os.Stat(path); err != nil {
		return NewLibraryNotFoundError(path)
	}

	lib, err := plugin.Open(path)
	if err != nil {
		return NewLibraryOpenFailedError(path, err)
	}

	createSym, err := lib.Lookup(createSymbolName)
	if err != nil {
		return NewMissingFactorySymbolError(path, createSymbolName)
	}
	create, ok := createSym.(func() RootPlugin)
	if !ok {
		return NewMissingFactorySymbolError(path, createSymbolName)
	}

	destroySym, err := lib.Lookup(destroySymbolName)
	if err != nil {
		return NewMissingFactorySymbolError(path, destroySymbolName)
	}
	destroy, ok := destroySym.(func(RootPlugin))
	if !ok {
		return NewMissingFactorySymbolError(path, destroySymbolName)
	}

	instance := create()
	if instance == nil {
		return NewFactoryReturnedNilError(path)
	}

	name := instance.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handles[name]; exists {
		// Instance already constructed; destroy it using the library's own
		// destroyer before surfacing the collision, per the load contract.
		destroy(instance)
		return NewNameCollisionError(name)
	}

	r.handles[name] = &pluginHandle{
		name:     name,
		path:     path,
		lib:      lib,
		instance: instance,
		destroy:  destroy,
	}
	r.order = append(r.order, name)
	r.logger.Info("plugin loaded", "name", name, "version", instance.Version(), "path", path)
	return nil
}

// Unload destroys the named plugin's instance and removes it from the
// registry. A no-op, reported as success, if the name is not present.
func (r *Registry) Unload(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unloadLocked(name)
}

func (r *Registry) unloadLocked(name string) error {
	h, exists := r.handles[name]
	if !exists {
		return nil
	}

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("plugin destructor panicked", "name", name, "panic", rec)
			}
		}()
		h.destroy(h.instance)
	}()

	delete(r.handles, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logger.Info("plugin unloaded", "name", name)
	return nil
}

// Has reports whether a plugin is currently registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handles[name]
	return ok
}

// Names returns the names of all currently registered plugins, in load
// order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Info returns identity metadata for a registered plugin.
func (r *Registry) Info(name string) (PluginInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[name]
	if !ok {
		return PluginInfo{}, NewNotLoadedError(name)
	}
	return PluginInfo{Name: h.instance.Name(), Version: h.instance.Version(), Path: h.path}, nil
}

// Get retrieves the named plugin narrowed to T via a runtime type
// assertion, the Go analogue of the type-checked downcast against the
// plugin's compile-time-known interface.
func Get[T any](r *Registry, name string) (T, error) {
	var zero T

	r.mu.RLock()
	h, ok := r.handles[name]
	r.mu.RUnlock()

	if !ok {
		return zero, NewNotLoadedError(name)
	}

	t, ok := h.instance.(T)
	if !ok {
		return zero, NewTypeMismatchError(name, reflect.TypeOf(&zero).Elem().String())
	}
	return t, nil
}

// Shutdown unloads every remaining handle, instance destructor before
// release, in reverse load order, and logs (rather than returns) any
// destructor failure, since this is expected to run during process
// teardown where there is no caller left to handle an error.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make([]string, len(r.order))
	copy(snapshot, r.order)

	for i := len(snapshot) - 1; i >= 0; i-- {
		name := snapshot[i]
		if err := r.unloadLocked(name); err != nil {
			r.logger.Error("error unloading plugin during shutdown", "name", name, "error", err)
		}
	}
}
