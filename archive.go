// archive.go: ZIP bundle extraction with path-traversal protection.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractBufferSize is the minimum streaming buffer size the bundle
// format's spec requires extractors to use.
const extractBufferSize = 16 * 1024

// ExtractZip extracts every entry of the ZIP archive at archivePath into
// destDir, preserving relative paths and creating directories as needed.
// Entries whose relative path would escape destDir are rejected.
func ExtractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return NewArchiveCorruptError(archivePath, err)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return NewArchiveCorruptError(archivePath, err)
	}

	for _, entry := range r.File {
		if err := extractEntry(archivePath, destDir, entry); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(archivePath, destDir string, entry *zip.File) error {
	target, err := safeJoin(destDir, entry.Name)
	if err != nil {
		return NewArchiveCorruptError(archivePath, err)
	}

	if entry.FileInfo().IsDir() {
		return wrapIfErr(archivePath, os.MkdirAll(target, 0o755))
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return NewArchiveCorruptError(archivePath, err)
	}

	rc, err := entry.Open()
	if err != nil {
		return NewArchiveCorruptError(archivePath, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, entry.Mode())
	if err != nil {
		return NewArchiveCorruptError(archivePath, err)
	}
	defer out.Close()

	buf := make([]byte, extractBufferSize)
	if _, err := io.CopyBuffer(out, rc, buf); err != nil {
		return NewArchiveCorruptError(archivePath, err)
	}
	return nil
}

// safeJoin joins dir and rel, rejecting entries that would escape dir via
// ".." components or an absolute path.
func safeJoin(dir, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", errPathTraversal(rel)
	}
	cleanRel := filepath.Clean(rel)
	if cleanRel == ".." || strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", errPathTraversal(rel)
	}
	return filepath.Join(dir, cleanRel), nil
}

func errPathTraversal(rel string) error {
	return &pathTraversalError{rel: rel}
}

type pathTraversalError struct{ rel string }

func (e *pathTraversalError) Error() string {
	return "archive entry escapes extraction directory: " + e.rel
}

func wrapIfErr(archivePath string, err error) error {
	if err == nil {
		return nil
	}
	return NewArchiveCorruptError(archivePath, err)
}
