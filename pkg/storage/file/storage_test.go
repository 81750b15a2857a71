// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-cryptoservices.
//
// go-cryptoservices is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package file

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeremyhahn/go-cryptoservices/pkg/storage"
)

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFileStorage_RoundTrip(t *testing.T) {
	s := newTestStorage(t)

	data := []byte("encrypted payload")
	if err := s.Store(data, "blob1"); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	got, err := s.Retrieve("blob1")
	if err != nil {
		t.Fatalf("Retrieve() failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Retrieve() = %q, want %q", got, data)
	}
}

func TestFileStorage_RetrieveMissing(t *testing.T) {
	s := newTestStorage(t)

	if _, err := s.Retrieve("missing"); !errors.Is(err, storage.ErrDataNotFound) {
		t.Errorf("Retrieve() error = %v, want ErrDataNotFound", err)
	}
}

func TestFileStorage_DeleteMissing(t *testing.T) {
	s := newTestStorage(t)

	if err := s.Delete("missing"); !errors.Is(err, storage.ErrDataNotFound) {
		t.Errorf("Delete() error = %v, want ErrDataNotFound", err)
	}
}

func TestFileStorage_PathSeparatorIdentifiers(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	// Identifiers containing separators or traversal sequences must stay
	// inside the root directory.
	ids := []string{"keys/master", "../escape", "..", "a/../../b"}
	for _, id := range ids {
		if err := s.Store([]byte("x"), id); err != nil {
			t.Fatalf("Store(%q) failed: %v", id, err)
		}
		got, err := s.Retrieve(id)
		if err != nil {
			t.Fatalf("Retrieve(%q) failed: %v", id, err)
		}
		if string(got) != "x" {
			t.Errorf("Retrieve(%q) = %q, want %q", id, got, "x")
		}
	}

	// Nothing was written outside the root.
	parent := filepath.Dir(root)
	if _, err := os.Stat(filepath.Join(parent, "escape")); !os.IsNotExist(err) {
		t.Errorf("identifier escaped the storage root")
	}
}

func TestFileStorage_List(t *testing.T) {
	s := newTestStorage(t)

	ids := []string{"alpha", "beta", "keys/gamma"}
	for _, id := range ids {
		if err := s.Store([]byte("v"), id); err != nil {
			t.Fatalf("Store(%q) failed: %v", id, err)
		}
	}

	got, err := s.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(got) != len(ids) {
		t.Fatalf("List() returned %d identifiers, want %d: %v", len(got), len(ids), got)
	}
	// Sorted order with original identifiers restored.
	want := []string{"alpha", "beta", "keys/gamma"}
	for i, id := range want {
		if got[i] != id {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], id)
		}
	}
}

func TestFileStorage_Permissions(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.Store([]byte("secret"), "key1"); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(root, "key1"))
	if err != nil {
		t.Fatalf("Stat() failed: %v", err)
	}
	if perms := info.Mode().Perm(); perms != 0600 {
		t.Errorf("blob permissions = %o, want 0600", perms)
	}
}

func TestFileStorage_Closed(t *testing.T) {
	s := newTestStorage(t)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if err := s.Store([]byte("x"), "blob"); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Store() after close error = %v, want ErrClosed", err)
	}
	if _, err := s.Retrieve("blob"); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Retrieve() after close error = %v, want ErrClosed", err)
	}
}
