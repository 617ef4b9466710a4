package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStoreRoundtrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/payments/")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	ctx := context.Background()
	ref, err := store.Save(ctx, strings.NewReader("proof-bytes"), "receipt.jpg")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !strings.HasSuffix(ref, ".jpg") {
		t.Errorf("ref %q should keep the original extension", ref)
	}
	if ref == "receipt.jpg" {
		t.Error("ref must not be the caller-supplied filename")
	}

	data, err := os.ReadFile(filepath.Join(dir, ref))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "proof-bytes" {
		t.Errorf("stored content = %q, want %q", data, "proof-bytes")
	}

	if got := store.URL(ref); got != "/uploads/payments/"+ref {
		t.Errorf("URL = %q", got)
	}

	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ref)); !os.IsNotExist(err) {
		t.Error("file should be gone after Delete")
	}

	// Deleting again must be a no-op, not an error
	if err := store.Delete(ctx, ref); err != nil {
		t.Errorf("Delete of missing ref: %v", err)
	}
}

func TestGenerateRefUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ref := GenerateRef("proof.pdf")
		if seen[ref] {
			t.Fatalf("duplicate ref generated: %s", ref)
		}
		seen[ref] = true
	}
}
