// Package config loads a project's ailang.yaml manifest: the handful of
// settings that shape how cmd/ailang runs a file or starts a REPL, as
// opposed to anything the type checker or evaluator need to know about.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// REPL holds the interactive-session settings.
type REPL struct {
	Prompt     string `yaml:"prompt"`
	HistoryMax int    `yaml:"history_max"`
}

// Project is the parsed contents of an ailang.yaml manifest.
type Project struct {
	Name string `yaml:"name"`
	REPL REPL   `yaml:"repl"`
}

// Default returns the settings used when no manifest is present.
func Default() *Project {
	return &Project{
		REPL: REPL{Prompt: ">>> ", HistoryMax: 1000},
	}
}

// Load reads and parses an ailang.yaml manifest, filling in Default()'s
// values for anything the file leaves unset.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if p.REPL.Prompt == "" {
		p.REPL.Prompt = ">>> "
	}
	if p.REPL.HistoryMax == 0 {
		p.REPL.HistoryMax = 1000
	}
	return p, nil
}

// Discover walks upward from dir looking for ailang.yaml, the way a
// project root is located for module resolution. Returns Default() with
// no error if no manifest is found by the time it reaches the filesystem
// root.
func Discover(dir string) (*Project, error) {
	for {
		candidate := filepath.Join(dir, "ailang.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}
