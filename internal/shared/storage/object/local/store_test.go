package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir())
	payload := `[{"courtno":"COURT NO. 03"}]`

	written, err := store.Save(context.Background(), "causelists/2026-08-31.json", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if written != int64(len(payload)) {
		t.Fatalf("written = %d, want %d", written, len(payload))
	}

	rc, err := store.Open(context.Background(), "causelists/2026-08-31.json")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != payload {
		t.Fatalf("round trip mismatch: %q", data)
	}
}

func TestSaveOverwrites(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir())
	key := "causelists/2026-08-31.json"

	if _, err := store.Save(context.Background(), key, "application/json", strings.NewReader("first")); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if _, err := store.Save(context.Background(), key, "application/json", strings.NewReader("second")); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	rc, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "second" {
		t.Fatalf("expected overwrite, got %q", data)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir())
	for _, key := range []string{"../escape.json", "/etc/passwd", "."} {
		if _, err := store.Save(context.Background(), key, "", strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
		if _, err := store.Open(context.Background(), key); err == nil {
			t.Fatalf("expected open error for key %q", key)
		}
	}
}

func TestOpenMissingKey(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "missing.json"); err == nil {
		t.Fatalf("expected error for missing object")
	}
}
