// crypto_test.go: hashing, key loading, fingerprinting and signature
// verification tests.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256Bytes(t *testing.T) {
	got := SHA256Bytes([]byte("hello"))
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", got)
}

func TestSHA256File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	got, err := SHA256File(path)
	require.NoError(t, err)
	assert.Equal(t, SHA256Bytes([]byte("hello")), got)
}

func genEd25519PEM(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey, []byte) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return pub, priv, pemBytes
}

func TestLoadPublicKey_PEM(t *testing.T) {
	pub, _, pemBytes := genEd25519PEM(t)

	key, err := LoadPublicKey(pemBytes)
	require.NoError(t, err)
	assert.Equal(t, pub, key)
}

func TestLoadPublicKey_DER(t *testing.T) {
	pub, _, _ := genEd25519PEM(t)
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)

	key, err := LoadPublicKey(der)
	require.NoError(t, err)
	assert.Equal(t, pub, key)
}

func TestLoadPublicKey_BadFormat(t *testing.T) {
	_, err := LoadPublicKey([]byte("not a key"))
	require.Error(t, err)
}

func TestFingerprint_Stable(t *testing.T) {
	pub, _, _ := genEd25519PEM(t)

	fp1, err := Fingerprint(pub)
	require.NoError(t, err)
	fp2, err := Fingerprint(pub)
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2)
	assert.Contains(t, fp1, "sha256:")
}

func TestVerify_Ed25519_RoundTrip(t *testing.T) {
	pub, priv, _ := genEd25519PEM(t)

	message := []byte("canonical-form-bytes")
	sig := ed25519.Sign(priv, message)

	ok, err := Verify(pub, message, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify(pub, []byte("tampered"), sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_UnsupportedKeyType(t *testing.T) {
	_, err := Verify("not a key", []byte("x"), []byte("y"))
	require.Error(t, err)
}
