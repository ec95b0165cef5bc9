// crypto.go: key loading, fingerprinting, hashing and signature
// verification for bundle trust.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"io"
	"os"
)

// LoadPublicKey parses a public key from either PEM or DER encoding,
// detected by its leading bytes: PEM starts (after leading ASCII
// whitespace) with "-----BEGIN ", DER starts with the ASN.1 SEQUENCE tag
// byte 0x30.
func LoadPublicKey(raw []byte) (any, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	switch {
	case bytes.HasPrefix(trimmed, []byte("-----BEGIN ")):
		block, _ := pem.Decode(trimmed)
		if block == nil {
			return nil, NewBadKeyFormatError("pem")
		}
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, NewCryptoError("parsing PEM public key", err)
		}
		return key, nil
	case len(trimmed) > 0 && trimmed[0] == 0x30:
		key, err := x509.ParsePKIXPublicKey(trimmed)
		if err != nil {
			return nil, NewCryptoError("parsing DER public key", err)
		}
		return key, nil
	default:
		return nil, NewBadKeyFormatError("unrecognized")
	}
}

// LoadPublicKeyFile reads and parses a public key from a file path.
func LoadPublicKeyFile(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, NewCryptoError("reading key file "+path, err)
	}
	return LoadPublicKey(raw)
}

// Fingerprint encodes key as a DER SubjectPublicKeyInfo, hashes it with
// SHA-256, and returns "sha256:<hex>".
func Fingerprint(key any) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return "", NewCryptoError("encoding public key as DER", err)
	}
	sum := sha256.Sum256(der)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

// SHA256File streams a file's contents through SHA-256 and returns the
// lowercase hex digest.
func SHA256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", NewCryptoError("opening file "+path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", NewCryptoError("hashing file "+path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SHA256Bytes returns the lowercase hex SHA-256 digest of buf.
func SHA256Bytes(buf []byte) string {
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// Verify checks signature over message under key, dispatching on the key's
// concrete type for the appropriate digest algorithm and padding scheme.
// It returns (false, nil) for a signature that does not match, including a
// malformed one, and a non-nil error only for internal faults (an
// unsupported key type, or an RSA verification error other than a
// mismatch).
func Verify(key any, message, signature []byte) (bool, error) {
	digest := sha256.Sum256(message)

	switch k := key.(type) {
	case *rsa.PublicKey:
		err := rsa.VerifyPKCS1v15(k, crypto.SHA256, digest[:], signature)
		if err == nil {
			return true, nil
		}
		if err == rsa.ErrVerification {
			return false, nil
		}
		return false, NewCryptoError("rsa signature verification", err)
	case *ecdsa.PublicKey:
		return ecdsa.VerifyASN1(k, digest[:], signature), nil
	case ed25519.PublicKey:
		return ed25519.Verify(k, message, signature), nil
	default:
		return false, NewCryptoError("unsupported public key type for verification", nil)
	}
}
