// Package config loads jsklve.toml default-options files. Grounded on
// manifest/manifest.go's Load(dir) shape: read, unmarshal, fill defaults,
// return.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/klve/jstrace/pkg/klve"
)

// File is the on-disk shape of jsklve.toml.
type File struct {
	Meta    klve.Meta    `toml:"meta"`
	Options klve.Options `toml:"options"`

	// Dir is the directory the file was loaded from (set at load time).
	Dir string `toml:"-"`
}

// Load parses jsklve.toml from dir, filling any unset option fields with
// klve.DefaultOptions() the same way manifest.Load fills Source.Dirs.
func Load(dir string) (*File, error) {
	path := filepath.Join(dir, "jsklve.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	f := File{Options: klve.DefaultOptions()}
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	f.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	return &f, nil
}

// FindAndLoad walks up from startDir looking for jsklve.toml, the same
// upward search manifest.FindAndLoad performs for maggie.toml. Returns nil,
// nil if none is found anywhere up to the filesystem root.
func FindAndLoad(startDir string) (*File, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "jsklve.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Config builds a klve.Config from a loaded File, or the library defaults
// if f is nil (no jsklve.toml found).
func (f *File) Config() klve.Config {
	if f == nil {
		return klve.Config{Options: klve.DefaultOptions()}
	}
	return klve.Config{Meta: f.Meta, Options: f.Options}
}
