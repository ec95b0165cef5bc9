// workspace.go: scoped scratch directories for bundle extraction.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"os"
	"sync"
	"time"
)

// Workspace is a unique scratch directory, valid from creation until
// Close, exclusively owned by whoever holds it. Go has no destructor to
// guarantee cleanup on stack unwinding, so callers must `defer ws.Close()`
// immediately after a successful NewWorkspace. Bundle releases the
// workspace it extracts into itself: Open closes it on any failure, and
// Bundle.Close closes it otherwise.
//
// Workspace is not copyable in spirit: copying the struct by value and
// calling Close on both copies would double-remove (harmlessly, since
// RemoveAll on a missing path is a no-op, but the second Close is still a
// logic error). Callers should pass *Workspace.
type Workspace struct {
	path      string
	createdAt time.Time
	closeOnce sync.Once
}

// NewWorkspace creates a new randomly named directory under the system
// temporary directory.
func NewWorkspace() (*Workspace, error) {
	path, err := os.MkdirTemp("", "pluginhost-")
	if err != nil {
		return nil, NewWorkspaceCreateFailedError(err)
	}
	return &Workspace{path: path, createdAt: timestampNow()}, nil
}

// Path returns the workspace's absolute filesystem path.
func (w *Workspace) Path() string {
	return w.path
}

// CreatedAt returns when the workspace directory was created.
func (w *Workspace) CreatedAt() time.Time {
	return w.createdAt
}

// Close removes the workspace directory and everything under it. Safe to
// call more than once; only the first call has effect. A released
// Workspace's Path() remains readable but refers to a directory that no
// longer exists.
func (w *Workspace) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = os.RemoveAll(w.path)
	})
	return err
}
