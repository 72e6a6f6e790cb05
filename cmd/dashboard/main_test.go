package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	base := t.TempDir()

	nested := filepath.Join(base, "charts", "2024", "dash.png")
	if err := ensureDir(nested); err != nil {
		t.Fatalf("ensureDir returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(nested)); err != nil {
		t.Errorf("Expected directory to exist: %v", err)
	}

	// A bare filename needs no directory.
	if err := ensureDir("dash.png"); err != nil {
		t.Errorf("ensureDir for bare filename returned error: %v", err)
	}
}

func TestToCountryCodes(t *testing.T) {
	codes := toCountryCodes([]string{"DK", "FI", "IS"})
	if len(codes) != 3 {
		t.Fatalf("Expected 3 codes, got %d", len(codes))
	}
	if string(codes[2]) != "IS" {
		t.Errorf("Unexpected code: %v", codes[2])
	}
}
