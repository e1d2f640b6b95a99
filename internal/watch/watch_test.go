package watch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsSheets(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	sheet := filepath.Join(dir, "hero.json")
	os.WriteFile(sheet, []byte("{}"), 0644)

	select {
	case got := <-w.Events:
		if got != sheet {
			t.Errorf("Expected %s, got %s", sheet, got)
		}
	case err := <-w.Errors:
		t.Fatalf("Watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("No event for sheet change")
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}

	if _, ok := <-w.Events; ok {
		t.Error("Events should be closed")
	}
}

func TestNewMissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestWatcherWaitsForLastWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	sheet := filepath.Join(dir, "hero.json")
	first, second := []byte(`{"frames": [`), []byte(`], "meta": {}}`)

	f, err := os.Create(sheet)
	if err != nil {
		t.Fatal(err)
	}
	f.Write(first)
	time.Sleep(30 * time.Millisecond)
	f.Write(second)
	f.Close()
	lastWrite := time.Now()

	select {
	case got := <-w.Events:
		if got != sheet {
			t.Fatalf("Expected %s, got %s", sheet, got)
		}
		if time.Since(lastWrite) < Debounce/2 {
			t.Errorf("Event arrived %v after the last write", time.Since(lastWrite))
		}
		data, err := os.ReadFile(got)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(data, append(first, second...)) {
			t.Errorf("Reported a partial file: %q", data)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("No event for sheet change")
	}

	select {
	case got := <-w.Events:
		t.Errorf("Unexpected second event for %s", got)
	case <-time.After(3 * Debounce):
	}
}

func TestSettled(t *testing.T) {
	now := time.Now()
	pending := map[string]time.Time{
		"b.json": now.Add(-2 * Debounce),
		"a.json": now.Add(-Debounce),
		"c.json": now.Add(-Debounce / 4),
	}

	ready, wait := settled(pending, now)
	if len(ready) != 2 || ready[0] != "a.json" || ready[1] != "b.json" {
		t.Errorf("Expected [a.json b.json], got %v", ready)
	}
	if wait != Debounce*3/4 {
		t.Errorf("Expected wait %v, got %v", Debounce*3/4, wait)
	}

	if ready, wait := settled(map[string]time.Time{}, now); len(ready) != 0 || wait != 0 {
		t.Errorf("Expected nothing for empty set, got %v %v", ready, wait)
	}
}
