// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package option

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// NamespaceSeparator splits a namespace from an option name, as in
// "my-alias:my-option".
const NamespaceSeparator = ":"

// Struct tags read from option fields.
const (
	tagOption     = "option"
	tagShort      = "short"
	tagHelp       = "help"
	tagMandatory  = "mandatory"
	tagImportance = "importance"
	tagUpdate     = "update"
)

// Class is implemented by option sources that declare their namespace.
// Sources that do not implement Class are global.
type Class interface {
	OptionClass() ClassInfo
}

// ClassInfo describes how a source's options are addressed.
type ClassInfo struct {
	// Alias is a short namespace usable in place of the source's
	// fully-qualified type name.
	Alias string
	// Global makes the source's options reachable by their bare names.
	Global bool
}

// Source is an option source together with its namespace settings. Value
// must be a non-nil pointer to a struct; it is held by reference.
type Source struct {
	Value  any
	Alias  string
	Global bool
}

// Global returns a source whose options are reachable by bare name.
func Global(v any) Source {
	return Source{Value: v, Global: true}
}

// Namespaced returns a source whose options must be prefixed with either its
// fully-qualified type name or alias.
func Namespaced(v any, alias string) Source {
	return Source{Value: v, Alias: alias}
}

// sourceOf normalizes the values accepted by BuildIndex.
func sourceOf(v any) Source {
	switch s := v.(type) {
	case Source:
		return s
	case *Source:
		return *s
	case Class:
		info := s.OptionClass()
		return Source{Value: v, Alias: info.Alias, Global: info.Global}
	}
	return Global(v)
}

// TypeName returns the fully-qualified name of a source's struct type, such
// as "github.com/yeetrun/optbind/pkg/option.Config". It is the namespace
// every non-global source can be addressed by.
func TypeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return ""
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// Declaration is the metadata of one option field.
type Declaration struct {
	Name       string
	Short      rune // 0 if none
	Help       string
	Mandatory  bool
	Importance Importance
	Update     UpdateRule
	Type       reflect.Type
	Field      string // Go field path, e.g. "Config.Retries"
}

// parseDeclaration reads the option tags of a struct field.
func parseDeclaration(f reflect.StructField, path string) (Declaration, error) {
	d := Declaration{
		Name:  f.Tag.Get(tagOption),
		Help:  f.Tag.Get(tagHelp),
		Type:  f.Type,
		Field: path,
	}
	if err := validateName(d.Name); err != nil {
		return d, err
	}
	if s := f.Tag.Get(tagShort); s != "" {
		r, size := utf8.DecodeRuneInString(s)
		if size != len(s) || r == '-' || r == utf8.RuneError {
			return d, fmt.Errorf("option %q: short name %q must be a single character", d.Name, s)
		}
		d.Short = r
	}
	if s := f.Tag.Get(tagMandatory); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return d, fmt.Errorf("option %q: invalid mandatory tag %q", d.Name, s)
		}
		d.Mandatory = b
	}
	var err error
	if d.Importance, err = ParseImportance(f.Tag.Get(tagImportance)); err != nil {
		return d, fmt.Errorf("option %q: %w", d.Name, err)
	}
	if d.Update, err = ParseUpdateRule(f.Tag.Get(tagUpdate)); err != nil {
		return d, fmt.Errorf("option %q: %w", d.Name, err)
	}
	return d, nil
}

func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("option name must not be empty")
	case strings.Contains(name, NamespaceSeparator):
		return fmt.Errorf("option name %q must not contain the namespace separator %q", name, NamespaceSeparator)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("option name %q must not start with '-'", name)
	case strings.ContainsAny(name, " \t\n="):
		return fmt.Errorf("option name %q must not contain whitespace or '='", name)
	}
	return nil
}

// field is an option field found while scanning a source.
type field struct {
	decl  Declaration
	value reflect.Value
}

// scanFields collects the option fields of the struct v, descending into
// untagged embedded structs.
func scanFields(v reflect.Value, prefix string) ([]field, error) {
	var out []field
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		path := sf.Name
		if prefix != "" {
			path = prefix + "." + sf.Name
		}
		if _, ok := sf.Tag.Lookup(tagOption); !ok {
			if !sf.Anonymous {
				continue
			}
			fv := v.Field(i)
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if fv.Kind() != reflect.Struct {
				continue
			}
			inner, err := scanFields(fv, path)
			if err != nil {
				return nil, err
			}
			out = append(out, inner...)
			continue
		}
		d, err := parseDeclaration(sf, path)
		if err != nil {
			return nil, err
		}
		fv := v.Field(i)
		if !sf.IsExported() || !fv.CanSet() {
			return nil, fmt.Errorf("option %q: field %s is not exported and can never be set", d.Name, path)
		}
		out = append(out, field{decl: d, value: fv})
	}
	return out, nil
}
