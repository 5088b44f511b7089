// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package optionhelp renders help text for the options of an option.Index.
package optionhelp

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/yeetrun/optbind/pkg/option"
)

const flagColumn = 28

// Settings controls Render.
type Settings struct {
	// ImportantOnly restricts output to options with Importance Always, and
	// IfUnset options that are still unset.
	ImportantOnly bool
	// Unset reports whether an option is still unset. If nil,
	// (*option.Option).IsEmpty is used. Pass (*option.Setter).IsUnset to
	// account for values written during parsing.
	Unset func(*option.Option) bool
	// Color enables ANSI colors.
	Color bool
	// Width wraps descriptions to this many columns if positive.
	Width int
}

// Visible reports whether o is listed under the settings.
func (s Settings) Visible(o *option.Option) bool {
	if !s.ImportantOnly {
		return true
	}
	switch o.Importance {
	case option.Always:
		return true
	case option.IfUnset:
		if s.Unset != nil {
			return s.Unset(o)
		}
		return o.IsEmpty()
	}
	return false
}

type group struct {
	title string
	opts  []*option.Option
}

// Render writes help for the visible options of idx, grouped by source.
func Render(w io.Writer, idx *option.Index, s Settings) error {
	header := color.New(color.Bold)
	flagc := color.New(color.FgCyan)
	if s.Color {
		header.EnableColor()
		flagc.EnableColor()
	} else {
		header.DisableColor()
		flagc.DisableColor()
	}

	var groups []*group
	var last any
	for _, o := range idx.Options() {
		if !s.Visible(o) {
			continue
		}
		if len(groups) == 0 || o.Source() != last {
			groups = append(groups, &group{title: groupTitle(o)})
			last = o.Source()
		}
		g := groups[len(groups)-1]
		g.opts = append(g.opts, o)
	}

	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(header.Sprint(g.title))
		b.WriteString("\n")
		for _, o := range g.opts {
			flagStr := fmt.Sprintf("%-*s", flagColumn, "    "+flagString(o))
			desc := Describe(o)
			if desc == "" {
				b.WriteString(strings.TrimRight(flagc.Sprint(flagStr), " "))
				b.WriteString("\n")
				continue
			}
			lines := wrap(desc, s.Width-flagColumn-1)
			if len(flagStr) > flagColumn {
				b.WriteString(flagc.Sprint(flagStr))
				b.WriteString("\n")
				flagStr = strings.Repeat(" ", flagColumn)
			} else {
				flagStr = flagc.Sprint(flagStr)
			}
			for j, line := range lines {
				if j == 0 {
					b.WriteString(flagStr)
				} else {
					b.WriteString(strings.Repeat(" ", flagColumn))
				}
				b.WriteString(" ")
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// String is Render into a string.
func String(idx *option.Index, s Settings) string {
	var b strings.Builder
	Render(&b, idx, s)
	return b.String()
}

func groupTitle(o *option.Option) string {
	if o.Global() && o.Alias() == "" {
		return "OPTIONS:"
	}
	ns := o.Namespace()
	if i := strings.LastIndex(ns, "/"); i >= 0 {
		ns = ns[i+1:]
	}
	return fmt.Sprintf("'%s' OPTIONS:", ns)
}

func flagString(o *option.Option) string {
	name := o.Name
	if !o.Global() {
		name = o.QualifiedName()
	}
	if o.IsBool() {
		name = "[no-]" + name
	}
	if o.IsMap() {
		name += " KEY=VALUE"
	}
	if o.Short != 0 && o.Global() {
		return fmt.Sprintf("-%c, --%s", o.Short, name)
	}
	return "--" + name
}

// Describe returns the description column for o: its help text, the
// current value as default, whether it is mandatory and, for enums, the
// valid values.
func Describe(o *option.Option) string {
	desc := o.Help
	if v := o.FormatValue(); v != "" {
		desc += fmt.Sprintf(" (default: %s)", v)
	}
	if o.Mandatory {
		desc += " (mandatory)"
	}
	if names := o.EnumNames(); len(names) > 0 {
		desc += fmt.Sprintf(" Valid values: [%s]", strings.Join(names, ", "))
	}
	return strings.TrimSpace(desc)
}

// wrap splits text into lines of at most width columns, breaking at spaces.
// A non-positive width disables wrapping.
func wrap(text string, width int) []string {
	if width <= 0 || len(text) <= width {
		return []string{text}
	}
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteString(" ")
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
