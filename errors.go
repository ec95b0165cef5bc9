// errors.go: structured error definitions for the plugin host runtime
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"github.com/agilira/go-errors"
)

// Error codes for the plugin host runtime, grouped by the component that
// raises them.
const (
	// Registry load path (2000-2099)
	ErrCodeLibraryNotFound      = "REGISTRY_2001"
	ErrCodeLibraryOpenFailed    = "REGISTRY_2002"
	ErrCodeMissingFactorySymbol = "REGISTRY_2003"
	ErrCodeFactoryReturnedNil   = "REGISTRY_2004"
	ErrCodeNameCollision        = "REGISTRY_2005"

	// Registry retrieval path (2100-2199)
	ErrCodeNotLoaded    = "REGISTRY_2101"
	ErrCodeTypeMismatch = "REGISTRY_2102"

	// Bundle parse path (2200-2299)
	ErrCodeBundleNotFound    = "BUNDLE_2201"
	ErrCodeArchiveCorrupt    = "BUNDLE_2202"
	ErrCodeManifestMissing   = "BUNDLE_2203"
	ErrCodeManifestMalformed = "BUNDLE_2204"

	// Verification path (2300-2399)
	ErrCodeUntrustedBundle = "VERIFY_2301"
	ErrCodeCryptoError     = "VERIFY_2302"
	ErrCodeBadKeyFormat    = "VERIFY_2303"

	// Variant selection path (2400-2499)
	ErrCodeAbiIncompatible = "SELECT_2401"

	// Workspace errors (2500-2599)
	ErrCodeWorkspaceCreateFailed = "WORKSPACE_2501"
)

// Registry load path constructors

func NewLibraryNotFoundError(path string) *errors.Error {
	return errors.New(ErrCodeLibraryNotFound, "library not found: "+path).
		WithUserMessage("The plugin library path does not exist").
		WithContext("path", path).
		WithSeverity("error")
}

func NewLibraryOpenFailedError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeLibraryOpenFailed, "failed to open library: "+path).
		WithUserMessage("The operating system loader rejected the plugin library").
		WithContext("path", path).
		WithSeverity("error")
}

func NewMissingFactorySymbolError(path, symbol string) *errors.Error {
	return errors.New(ErrCodeMissingFactorySymbol, "missing factory symbol "+symbol+" in "+path).
		WithUserMessage("The plugin library does not export the required factory symbol").
		WithContext("path", path).
		WithContext("symbol", symbol).
		WithSeverity("error")
}

func NewFactoryReturnedNilError(path string) *errors.Error {
	return errors.New(ErrCodeFactoryReturnedNil, "factory returned nil: "+path).
		WithUserMessage("The plugin's factory function did not produce an instance").
		WithContext("path", path).
		WithSeverity("error")
}

func NewNameCollisionError(name string) *errors.Error {
	return errors.New(ErrCodeNameCollision, "name already registered: "+name).
		WithUserMessage("A plugin with this name is already loaded").
		WithContext("name", name).
		WithSeverity("error")
}

// Registry retrieval path constructors

func NewNotLoadedError(name string) *errors.Error {
	return errors.New(ErrCodeNotLoaded, "plugin not loaded: "+name).
		WithUserMessage("No plugin is registered under this name").
		WithContext("name", name).
		WithSeverity("warning")
}

func NewTypeMismatchError(name, wantType string) *errors.Error {
	return errors.New(ErrCodeTypeMismatch, "plugin "+name+" does not implement "+wantType).
		WithUserMessage("The registered plugin does not implement the requested interface").
		WithContext("name", name).
		WithContext("want_type", wantType).
		WithSeverity("error")
}

// Bundle parse path constructors

func NewBundleNotFoundError(path string) *errors.Error {
	return errors.New(ErrCodeBundleNotFound, "bundle not found: "+path).
		WithUserMessage("The bundle archive path does not exist").
		WithContext("path", path).
		WithSeverity("error")
}

func NewArchiveCorruptError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeArchiveCorrupt, "archive corrupt: "+path).
		WithUserMessage("The bundle archive could not be extracted").
		WithContext("path", path).
		WithSeverity("error")
}

func NewManifestMissingError() *errors.Error {
	return errors.New(ErrCodeManifestMissing, "manifest.yaml missing from bundle").
		WithUserMessage("The bundle does not contain a manifest.yaml file").
		WithSeverity("error")
}

func NewManifestMalformedError(reason string) *errors.Error {
	return errors.New(ErrCodeManifestMalformed, "manifest malformed: "+reason).
		WithUserMessage("The bundle manifest is missing a required field or is malformed").
		WithContext("reason", reason).
		WithSeverity("error")
}

// Verification path constructors

func NewUntrustedBundleError(reason string) *errors.Error {
	return errors.New(ErrCodeUntrustedBundle, "untrusted bundle: "+reason).
		WithUserMessage("The bundle signature could not be verified against the host keyring").
		WithContext("reason", reason).
		WithSeverity("error")
}

func NewCryptoError(message string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeCryptoError, "crypto error: "+message).
		WithUserMessage("A cryptographic operation failed").
		WithSeverity("error")
}

func NewBadKeyFormatError(source string) *errors.Error {
	return errors.New(ErrCodeBadKeyFormat, "bad key format: "+source).
		WithUserMessage("The public key is neither valid PEM nor DER").
		WithContext("source", source).
		WithSeverity("error")
}

// Variant selection path constructors

func NewAbiIncompatibleError(missing []string) *errors.Error {
	err := errors.New(ErrCodeAbiIncompatible, "no abi-compatible binary for one or more plugins").
		WithUserMessage("One or more bundled plugins have no ABI-compatible binary for this host").
		WithSeverity("error")
	if len(missing) > 0 {
		err = err.WithContext("missing_plugins", missing)
	}
	return err
}

// Workspace constructors

func NewWorkspaceCreateFailedError(cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeWorkspaceCreateFailed, "failed to create scoped workspace").
		WithUserMessage("Could not allocate a temporary workspace directory").
		WithSeverity("error")
}
