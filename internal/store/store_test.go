package store

import (
	"errors"
	"os"
	"testing"
)

func TestStore(t *testing.T) {
	// Use temp dir for test
	os.Setenv("XDG_DATA_HOME", t.TempDir())

	store, err := Open()
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Nothing persisted yet
	_, err = store.Load()
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}

	// Save and load
	if err := store.Save("hf_abc", true); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	sess, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if sess.Token != "hf_abc" {
		t.Errorf("expected token 'hf_abc', got %s", sess.Token)
	}
	if !sess.Verified {
		t.Error("expected verified session")
	}

	// Upsert overwrites the single row
	if err := store.Save("hf_def", false); err != nil {
		t.Fatalf("Save() overwrite failed: %v", err)
	}
	sess, err = store.Load()
	if err != nil {
		t.Fatalf("Load() after overwrite failed: %v", err)
	}
	if sess.Token != "hf_def" || sess.Verified {
		t.Errorf("expected unverified hf_def, got %+v", sess)
	}

	// Clear removes the row
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	_, err = store.Load()
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after Clear, got %v", err)
	}
}
