// abi.go: ABI signature parsing and host/plugin compatibility checking.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"strconv"
	"strings"
)

// ABISignature is the parsed form of an ABI signature string:
// "<compiler>-<stdlib>-<dotted-integer-version>-<abi-tag>".
type ABISignature struct {
	Compiler string
	Stdlib   string
	Version  []int
	ABITag   string
}

// ParseABISignature parses a raw ABI signature string. The grammar requires
// exactly three top-level '-' separators, giving four fields; the version
// field is further split on '.' into non-negative integers.
func ParseABISignature(raw string) (ABISignature, error) {
	parts := strings.Split(raw, "-")
	if len(parts) != 4 {
		return ABISignature{}, NewManifestMalformedError("abi signature must have exactly four '-'-separated fields: " + raw)
	}

	versionParts := strings.Split(parts[2], ".")
	version := make([]int, 0, len(versionParts))
	for _, vp := range versionParts {
		n, err := strconv.Atoi(vp)
		if err != nil || n < 0 {
			return ABISignature{}, NewManifestMalformedError("abi signature version component is not a non-negative integer: " + raw)
		}
		version = append(version, n)
	}

	return ABISignature{
		Compiler: parts[0],
		Stdlib:   parts[1],
		Version:  version,
		ABITag:   parts[3],
	}, nil
}

// String reassembles the dotted signature string.
func (s ABISignature) String() string {
	vparts := make([]string, len(s.Version))
	for i, v := range s.Version {
		vparts[i] = strconv.Itoa(v)
	}
	return s.Compiler + "-" + s.Stdlib + "-" + strings.Join(vparts, ".") + "-" + s.ABITag
}

// IsCompatible reports whether a host ABI signature satisfies a plugin's
// required ABI signature: compiler, stdlib and abi-tag must match exactly,
// and the host's version must be lexicographically >= the required version,
// compared component-wise, where a longer version with an equal shared
// prefix counts as greater-or-equal.
func (host ABISignature) IsCompatible(required ABISignature) bool {
	if host.Compiler != required.Compiler || host.Stdlib != required.Stdlib || host.ABITag != required.ABITag {
		return false
	}

	n := len(host.Version)
	if len(required.Version) < n {
		n = len(required.Version)
	}
	for i := 0; i < n; i++ {
		if host.Version[i] != required.Version[i] {
			return host.Version[i] > required.Version[i]
		}
	}
	return len(host.Version) >= len(required.Version)
}
