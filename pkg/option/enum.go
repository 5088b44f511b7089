// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package option

import (
	"fmt"
	"reflect"
	"strings"
)

// Enum is implemented by option types whose values form a closed set of
// named constants. EnumConstants must return the constants in declaration
// order and must work on the type's zero value.
//
//	type Level int
//
//	const (
//	    Debug Level = iota
//	    Info
//	)
//
//	func (Level) EnumConstants() []option.EnumConstant {
//	    return []option.EnumConstant{{"DEBUG", Debug}, {"INFO", Info}}
//	}
type Enum interface {
	EnumConstants() []EnumConstant
}

// EnumConstant pairs a constant's name with its value. Value must have the
// dynamic type of the Enum implementation.
type EnumConstant struct {
	Name  string
	Value any
}

var enumType = reflect.TypeOf((*Enum)(nil)).Elem()

// enumTable is the lookup table built for one Enum type.
type enumTable struct {
	typ    reflect.Type
	names  []string
	values []reflect.Value
}

func isEnumType(t reflect.Type) bool {
	return t.Kind() != reflect.Interface && t.Kind() != reflect.Pointer && t.Implements(enumType)
}

func newEnumTable(t reflect.Type) (*enumTable, error) {
	consts := reflect.Zero(t).Interface().(Enum).EnumConstants()
	if len(consts) == 0 {
		return nil, fmt.Errorf("enum type %s declares no constants", t)
	}
	tbl := &enumTable{typ: t}
	seen := make(map[string]bool, len(consts))
	for _, c := range consts {
		if seen[c.Name] {
			return nil, fmt.Errorf("enum type %s declares constant %q twice", t, c.Name)
		}
		seen[c.Name] = true
		v := reflect.ValueOf(c.Value)
		if !v.IsValid() || v.Type() != t {
			return nil, fmt.Errorf("enum constant %q of %s has type %T", c.Name, t, c.Value)
		}
		tbl.names = append(tbl.names, c.Name)
		tbl.values = append(tbl.values, v)
	}
	return tbl, nil
}

// lookup finds a constant by exact name, then by upper-cased name.
func (e *enumTable) lookup(s string) (reflect.Value, bool) {
	for i, name := range e.names {
		if name == s {
			return e.values[i], true
		}
	}
	upper := strings.ToUpper(s)
	for i, name := range e.names {
		if name == upper {
			return e.values[i], true
		}
	}
	return reflect.Value{}, false
}

// nameOf returns the constant name for v, or "" if v is not a declared constant.
func (e *enumTable) nameOf(v reflect.Value) string {
	for i, c := range e.values {
		if c.Equal(v) {
			return e.names[i]
		}
	}
	return ""
}

// validValues renders the constant names as used in help and errors:
// "[V1, V2, V3]".
func (e *enumTable) validValues() string {
	return "[" + strings.Join(e.names, ", ") + "]"
}

// EnumNames returns the constant names of t in declaration order, or nil if
// t (after unwrapping pointers and collections) is not an Enum.
func EnumNames(t reflect.Type) []string {
	t = elemType(t)
	if !isEnumType(t) {
		return nil
	}
	tbl, err := newEnumTable(t)
	if err != nil {
		return nil
	}
	return append([]string(nil), tbl.names...)
}
