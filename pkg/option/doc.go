// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package option binds text values to typed struct fields declared as
// options with struct tags.
//
// # Declaring options
//
// An option source is a pointer to a struct. Fields tagged `option` are
// options:
//
//	type Config struct {
//	    Verbose bool              `option:"verbose" short:"v" help:"Log more"`
//	    Retries int               `option:"retries" update:"greatest"`
//	    Tags    []string          `option:"tag" help:"Repeatable"`
//	    Labels  map[string]string `option:"label"`
//	    Output  option.File       `option:"output" mandatory:"true" importance:"always"`
//	}
//
// Supported tags:
//   - option: the option name (required). It must not contain ":".
//   - short: a single-character alias.
//   - help: the description shown in help text.
//   - mandatory: "true" if the option must be non-empty after parsing.
//   - importance: "always", "if_unset" or "never" (default) for important-only help.
//   - update: "last" (default), "first", "greatest", "least" or "immutable".
//
// Untagged embedded structs are scanned as if their fields were declared
// on the outer struct.
//
// # Types
//
// Scalar options may be strings, bools, sized and unsized integers, floats,
// time.Duration (Go syntax or bare milliseconds), File, url.URL, uuid.UUID,
// semver versions, Enum implementations and any type whose pointer
// implements encoding.TextUnmarshaler, as well as pointers to these. Lists
// ([]T), sets (map[T]struct{}, including set.Set[T]) and maps (map[K]V) of
// scalars are collections: every write adds to them.
//
// # Namespaces
//
// Options of a global source are reachable by bare name. Every source is
// also reachable with a namespace prefix, "<type name>:<name>" or
// "<alias>:<name>", where the type name is the fully-qualified Go type name.
// A source is global unless it implements Class or is registered with
// Namespaced. Short aliases only resolve for global sources.
//
// Several global sources may declare the same name if the field types are
// identical; writing the name writes all of them.
//
// # Sessions
//
// A Setter is one binding session. The first write of a scalar option is
// always accepted; later writes are resolved by the option's UpdateRule.
// ValidateMandatory reports every unset mandatory option at once.
package option
