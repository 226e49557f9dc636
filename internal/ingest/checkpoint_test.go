package ingest

import (
	"path/filepath"
	"testing"
)

func TestCheckpointRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewCheckpointStore(path, true)

	if _, ok, err := store.Load(1); err != nil || ok {
		t.Fatalf("expected no checkpoint before first save: ok=%v err=%v", ok, err)
	}

	if err := store.Save(1, 19_000_000); err != nil {
		t.Fatalf("save: %v", err)
	}

	cp, ok, err := store.Load(1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected checkpoint after save")
	}
	if cp.ChainID != 1 || cp.LastProcessedBlock != 19_000_000 {
		t.Fatalf("checkpoint mismatch: %+v", cp)
	}
}

func TestCheckpointChainMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewCheckpointStore(path, true)

	if err := store.Save(1, 19_000_000); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A file written for a different chain must not feed the resume logic.
	if _, ok, err := store.Load(56); err != nil || ok {
		t.Fatalf("expected fresh start for different chain: ok=%v err=%v", ok, err)
	}
}

func TestCheckpointDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewCheckpointStore(path, false)

	if err := store.Save(1, 100); err != nil {
		t.Fatalf("disabled save should be a no-op: %v", err)
	}
	if _, ok, err := store.Load(1); err != nil || ok {
		t.Fatalf("disabled load should report nothing: ok=%v err=%v", ok, err)
	}
}
