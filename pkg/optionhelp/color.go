// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optionhelp

import (
	"os"

	"golang.org/x/term"
)

// ForTerminal returns Settings for writing to f: colors when f is a terminal
// that supports them, and descriptions wrapped to its width.
func ForTerminal(f *os.File) Settings {
	fd := int(f.Fd())
	var s Settings
	if !term.IsTerminal(fd) {
		return s
	}
	s.Color = colorAllowed()
	if cols, _, err := term.GetSize(fd); err == nil {
		s.Width = cols
	}
	return s
}

func colorAllowed() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	t := os.Getenv("TERM")
	return t != "" && t != "dumb"
}
