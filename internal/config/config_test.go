package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	p := Default()
	if p.REPL.Prompt != ">>> " {
		t.Errorf("expected default prompt %q, got %q", ">>> ", p.REPL.Prompt)
	}
	if p.REPL.HistoryMax != 1000 {
		t.Errorf("expected default history max 1000, got %d", p.REPL.HistoryMax)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ailang.yaml")
	if err := os.WriteFile(path, []byte("name: demo\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Name != "demo" {
		t.Errorf("expected name %q, got %q", "demo", p.Name)
	}
	if p.REPL.Prompt != ">>> " {
		t.Errorf("expected default prompt to be filled in, got %q", p.REPL.Prompt)
	}
}

func TestLoadHonorsExplicitRepl(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ailang.yaml")
	content := "name: demo\nrepl:\n  prompt: \"ail> \"\n  history_max: 50\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.REPL.Prompt != "ail> " {
		t.Errorf("expected prompt %q, got %q", "ail> ", p.REPL.Prompt)
	}
	if p.REPL.HistoryMax != 50 {
		t.Errorf("expected history max 50, got %d", p.REPL.HistoryMax)
	}
}

func TestDiscoverFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	p, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if p.REPL.Prompt != ">>> " {
		t.Errorf("expected fallback to Default(), got prompt %q", p.REPL.Prompt)
	}
}

func TestDiscoverFindsManifestInParent(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "ailang.yaml"), []byte("name: parent\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	p, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if p.Name != "parent" {
		t.Errorf("expected to find manifest in ancestor, got name %q", p.Name)
	}
}
