// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package optfile applies option values from TOML and YAML files.
//
// Top-level keys are option names and may carry a namespace (quote such keys
// in TOML). A scalar sets the option once, an array sets it once per
// element in order, and a table adds entries to a map option:
//
//	verbose = true
//	tag = ["a", "b"]
//	"alias:retries" = 3
//
//	[label]
//	team = "infra"
//
// Values go through the same option.Setter as command-line arguments, so
// update rules see file values and later arguments as one session.
package optfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeetrun/optbind/pkg/option"
)

// Load reads the file at path and applies it to s. The format is chosen by
// extension: .toml, or .yaml/.yml.
func Load(s *option.Setter, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read options file: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = ApplyTOML(s, data)
	case ".yaml", ".yml":
		err = ApplyYAML(s, data)
	default:
		return fmt.Errorf("options file %s: unsupported format %q (want .toml, .yaml or .yml)", path, ext)
	}
	if err != nil {
		return fmt.Errorf("options file %s: %w", path, err)
	}
	return nil
}

// entry is one top-level key of an options file, flattened to text.
type entry struct {
	name   string
	values []string    // scalar or array elements
	pairs  [][2]string // table entries
	table  bool
}

func apply(s *option.Setter, entries []entry) error {
	for _, e := range entries {
		isMap, err := s.IsMapOption(e.name)
		if err != nil {
			return err
		}
		if e.table != isMap {
			if isMap {
				return fmt.Errorf("key %q: map option needs a table of key/value pairs", e.name)
			}
			return fmt.Errorf("key %q: a table can only set a map option", e.name)
		}
		for _, kv := range e.pairs {
			if err := s.SetOptionMapValue(e.name, kv[0], kv[1]); err != nil {
				return err
			}
		}
		for _, v := range e.values {
			if err := s.SetOptionValue(e.name, v); err != nil {
				return err
			}
		}
	}
	return nil
}
