package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()

	store, err := NewFileStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create FileStore: %v", err)
	}

	key := "userProfile/12345"

	t.Run("Get-NotFound", func(t *testing.T) {
		if _, err := store.Get(ctx, key); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Put", func(t *testing.T) {
		if err := store.Put(ctx, key, []byte(`{"name":"Alex"}`)); err != nil {
			t.Fatalf("Failed to put value: %v", err)
		}

		filePath := filepath.Join(tempDir, "userProfile_12345.json")
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			t.Errorf("Expected file '%s' to be created, but it wasn't", filePath)
		}
	})

	t.Run("Get", func(t *testing.T) {
		data, err := store.Get(ctx, key)
		if err != nil {
			t.Fatalf("Failed to get value: %v", err)
		}
		if string(data) != `{"name":"Alex"}` {
			t.Errorf("Unexpected value %s", data)
		}
	})

	t.Run("Put-Replaces", func(t *testing.T) {
		if err := store.Put(ctx, key, []byte(`{"name":"Sam"}`)); err != nil {
			t.Fatalf("Failed to put value: %v", err)
		}
		data, _ := store.Get(ctx, key)
		if string(data) != `{"name":"Sam"}` {
			t.Errorf("Expected replaced value, got %s", data)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, key); err != nil {
			t.Fatalf("Failed to delete: %v", err)
		}
		if _, err := store.Get(ctx, key); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := store.Delete(ctx, key); err != nil {
			t.Errorf("Deleting a missing key should succeed, got %v", err)
		}
	})
}

func TestSanitizeKey(t *testing.T) {
	if got := sanitizeKey("../../etc/passwd"); filepath.Base(got) != got {
		t.Errorf("Sanitized key %q still contains a path separator", got)
	}
}
