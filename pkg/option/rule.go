// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package option

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
)

// UpdateRule decides what happens when a scalar option is written more than
// once in a session.
type UpdateRule int

const (
	// Last always adopts the new value. It is the default.
	Last UpdateRule = iota
	// First keeps the value from the first write.
	First
	// Greatest keeps whichever value compares greater.
	Greatest
	// Least keeps whichever value compares lesser.
	Least
	// Immutable rejects any write after the first.
	Immutable
)

var updateRuleNames = []string{
	Last:      "last",
	First:     "first",
	Greatest:  "greatest",
	Least:     "least",
	Immutable: "immutable",
}

func (r UpdateRule) String() string {
	if r < 0 || int(r) >= len(updateRuleNames) {
		return fmt.Sprintf("UpdateRule(%d)", int(r))
	}
	return updateRuleNames[r]
}

// ParseUpdateRule parses the name used in the `update` struct tag. The empty
// string yields Last.
func ParseUpdateRule(s string) (UpdateRule, error) {
	if s == "" {
		return Last, nil
	}
	for i, name := range updateRuleNames {
		if strings.EqualFold(name, s) {
			return UpdateRule(i), nil
		}
	}
	return 0, fmt.Errorf("unknown update rule %q (want one of %s)", s, strings.Join(updateRuleNames, ", "))
}

// Update returns the value the option should hold after a write of next.
// A nil current means the option has not been written yet this session, in
// which case next is always adopted.
func (r UpdateRule) Update(name string, current, next any) (any, error) {
	if current == nil {
		return next, nil
	}
	switch r {
	case Last:
		return next, nil
	case First:
		return current, nil
	case Greatest, Least:
		c, err := compareValues(current, next)
		if err != nil {
			return nil, &Error{Option: name, Msg: fmt.Sprintf("option %q: %s", name, err.Error())}
		}
		if (r == Greatest && c < 0) || (r == Least && c > 0) {
			return next, nil
		}
		return current, nil
	case Immutable:
		return nil, errorf(name, "option %q is immutable and has already been set", name)
	}
	return nil, errorf(name, "option %q has unknown update rule %v", name, r)
}

// Importance controls whether an option is listed in important-only help.
type Importance int

const (
	// Never hides the option from important-only help. It is the default.
	Never Importance = iota
	// IfUnset shows the option only while it still holds an empty value.
	IfUnset
	// Always shows the option.
	Always
)

var importanceNames = []string{
	Never:   "never",
	IfUnset: "if_unset",
	Always:  "always",
}

func (i Importance) String() string {
	if i < 0 || int(i) >= len(importanceNames) {
		return fmt.Sprintf("Importance(%d)", int(i))
	}
	return importanceNames[i]
}

// ParseImportance parses the name used in the `importance` struct tag.
func ParseImportance(s string) (Importance, error) {
	if s == "" {
		return Never, nil
	}
	for i, name := range importanceNames {
		if strings.EqualFold(name, s) || strings.EqualFold(strings.ReplaceAll(name, "_", "-"), s) {
			return Importance(i), nil
		}
	}
	return 0, fmt.Errorf("unknown importance %q (want one of %s)", s, strings.Join(importanceNames, ", "))
}

var intType = reflect.TypeOf(0)

// compareMethod returns the receiver's Compare(T) int method if t has one.
func compareMethod(t reflect.Type) (reflect.Method, bool) {
	if t.Kind() == reflect.Interface {
		return reflect.Method{}, false
	}
	m, ok := t.MethodByName("Compare")
	if !ok {
		return reflect.Method{}, false
	}
	// Method types from reflect.Type include the receiver as the first input.
	mt := m.Type
	if mt.NumIn() != 2 || mt.In(1) != t || mt.NumOut() != 1 || mt.Out(0) != intType {
		return reflect.Method{}, false
	}
	return m, true
}

// orderable reports whether values of t can be ordered by compareValues.
func orderable(t reflect.Type) bool {
	for {
		if _, ok := compareMethod(t); ok {
			return true
		}
		if t.Kind() != reflect.Pointer {
			break
		}
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// compareValues orders two values of the same concrete type.
func compareValues(a, b any) (int, error) {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return 0, fmt.Errorf("cannot compare %T with %T", a, b)
	}
	if va.Type() != vb.Type() {
		return 0, fmt.Errorf("cannot compare values of incompatible types %s and %s", va.Type(), vb.Type())
	}
	for {
		if m, ok := compareMethod(va.Type()); ok {
			if va.Kind() == reflect.Pointer && (va.IsNil() || vb.IsNil()) {
				return compareNil(va.IsNil(), vb.IsNil()), nil
			}
			out := m.Func.Call([]reflect.Value{va, vb})
			return int(out[0].Int()), nil
		}
		if va.Kind() != reflect.Pointer {
			break
		}
		if va.IsNil() || vb.IsNil() {
			return compareNil(va.IsNil(), vb.IsNil()), nil
		}
		va, vb = va.Elem(), vb.Elem()
	}
	switch va.Kind() {
	case reflect.Bool:
		x, y := va.Bool(), vb.Bool()
		switch {
		case x == y:
			return 0, nil
		case !x:
			return -1, nil
		}
		return 1, nil
	case reflect.String:
		return strings.Compare(va.String(), vb.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(va.Int(), vb.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmp.Compare(va.Uint(), vb.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(va.Float(), vb.Float()), nil
	}
	return 0, fmt.Errorf("values of type %s have no natural ordering", va.Type())
}

// compareNil orders nil before any non-nil value.
func compareNil(aNil, bNil bool) int {
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return -1
	}
	return 1
}
