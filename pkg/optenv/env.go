// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package optenv reads option values from environment variables and writes
// them back out as environment files.
//
// The variable for an option is the prefix, an underscore and the option
// name upper-cased with '-' and '.' turned into '_'. Options of a source
// with an alias use ALIAS__NAME. Lists and sets take comma-separated
// values; maps take comma-separated key=value pairs. A backslash escapes
// the next character, as in "a\,b" for the single element "a,b".
//
//	OPTBIND_VERBOSE=true
//	OPTBIND_TAG=a,b
//	OPTBIND_LOGS__RETRIES=3
package optenv

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yeetrun/optbind/pkg/option"
)

// VarName returns the environment variable for name, which may be
// "alias:name".
func VarName(prefix, name string) string {
	ns, bare, ok := strings.Cut(name, option.NamespaceSeparator)
	if ok {
		name = mangle(ns) + "__" + mangle(bare)
	} else {
		name = mangle(name)
	}
	if prefix == "" {
		return name
	}
	return strings.ToUpper(prefix) + "_" + name
}

func mangle(s string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(s))
}

// names returns the names an option is addressed by in the environment.
func names(o *option.Option) []string {
	var out []string
	if o.Global() {
		out = append(out, o.Name)
	}
	if a := o.Alias(); a != "" {
		out = append(out, a+option.NamespaceSeparator+o.Name)
	}
	return out
}

// Apply sets options from environ, a list of "KEY=value" entries as
// returned by os.Environ, in order. Variables that match no option are
// ignored.
func Apply(s *option.Setter, prefix string, environ []string) error {
	vars := make(map[string]*option.Option)
	for _, o := range s.Index().Options() {
		for _, n := range names(o) {
			vars[VarName(prefix, n)] = o
		}
	}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		o, ok := vars[key]
		if !ok {
			continue
		}
		name := names(o)[0]
		if err := set(s, o, name, value); err != nil {
			return fmt.Errorf("environment variable %s: %w", key, err)
		}
	}
	return nil
}

func set(s *option.Setter, o *option.Option, name, value string) error {
	switch {
	case o.IsMap():
		for _, part := range splitList(value) {
			if part == "" {
				continue
			}
			k, v, ok := splitEntry(part)
			if !ok {
				return fmt.Errorf("map entry %q is missing '='", unescape(part))
			}
			if err := s.SetOptionMapValue(name, k, v); err != nil {
				return err
			}
		}
	case o.IsCollection():
		for _, part := range splitList(value) {
			if err := s.SetOptionValue(name, unescape(part)); err != nil {
				return err
			}
		}
	default:
		return s.SetOptionValue(name, value)
	}
	return nil
}

var (
	elemEscaper = strings.NewReplacer(`\`, `\\`, `,`, `\,`)
	keyEscaper  = strings.NewReplacer(`\`, `\\`, `,`, `\,`, `=`, `\=`)
)

// splitList splits s on commas not preceded by a backslash. Every comma
// separates an element, so "a,,b" has an empty second element. Escapes are
// left in place.
func splitList(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case ',':
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

// splitEntry splits an escaped "key=value" on the first unescaped '='.
func splitEntry(s string) (key, value string, ok bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '=':
			return unescape(s[:i]), unescape(s[i+1:]), true
		}
	}
	return "", "", false
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Write writes an environment file with the current non-empty values of the
// options in idx that have an environment name. List elements and map
// entries are joined with ',' and escaped so that Apply reads the file
// back to the same values.
func Write(name string, idx *option.Index, prefix string) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create env file: %w", err)
	}
	defer f.Close()
	if err := marshalEnv(f, idx, prefix); err != nil {
		return fmt.Errorf("failed to write env file %s: %w", name, err)
	}
	return f.Close()
}

// envValue renders o as the value of its environment variable.
func envValue(o *option.Option) string {
	var parts []string
	switch {
	case o.IsMap():
		for _, kv := range o.MapEntries() {
			parts = append(parts, keyEscaper.Replace(kv[0])+"="+elemEscaper.Replace(kv[1]))
		}
	case o.IsCollection():
		for _, v := range o.TextValues() {
			parts = append(parts, elemEscaper.Replace(v))
		}
	default:
		return o.FormatValue()
	}
	return strings.Join(parts, ",")
}

func marshalEnv(w io.Writer, idx *option.Index, prefix string) error {
	for _, o := range idx.Options() {
		n := names(o)
		if len(n) == 0 || o.IsEmpty() {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", VarName(prefix, n[0]), envValue(o)); err != nil {
			return err
		}
	}
	return nil
}
