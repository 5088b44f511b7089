// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package option

import (
	"os"
	"path/filepath"
)

// File is an option type holding a file-system path. Coercion never touches
// the filesystem; existence checks are up to the option's consumer.
type File string

func (f File) String() string {
	return string(f)
}

// Abs returns the path made absolute against the current directory.
func (f File) Abs() (File, error) {
	p, err := filepath.Abs(string(f))
	if err != nil {
		return "", err
	}
	return File(p), nil
}

// Exists reports whether the path names an existing file or directory.
func (f File) Exists() bool {
	if f == "" {
		return false
	}
	_, err := os.Stat(string(f))
	return err == nil
}
