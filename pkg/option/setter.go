// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package option

import (
	"fmt"
	"reflect"
	"strings"

	"tailscale.com/util/set"
)

// Logf is a printf-style logging function, such as log.Printf.
type Logf func(format string, args ...any)

// Setter writes text values into the fields of an Index's sources. A Setter
// is one binding session: it remembers which options have been written so
// update rules can tell a first write from a later one. It is not safe for
// concurrent use.
type Setter struct {
	// Logf, if non-nil, receives debug messages about update-rule decisions.
	Logf Logf

	idx     *Index
	written set.Set[*Option]
}

// NewSetter builds an Index over the sources and returns a Setter for it.
// See BuildIndex for the accepted source forms.
func NewSetter(sources ...any) (*Setter, error) {
	idx, err := BuildIndex(sources...)
	if err != nil {
		return nil, err
	}
	return NewSetterForIndex(idx), nil
}

// NewSetterForIndex starts a new binding session over idx.
func NewSetterForIndex(idx *Index) *Setter {
	return &Setter{idx: idx, written: set.Set[*Option]{}}
}

// Index returns the Index the Setter writes through.
func (s *Setter) Index() *Index {
	return s.idx
}

func (s *Setter) logf(format string, args ...any) {
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}

// SetOptionValue writes value to every field bound to name. Scalar options
// are replaced subject to their update rule; list and set options gain one
// element. Map options must use SetOptionMapValue.
func (s *Setter) SetOptionValue(name, value string) error {
	opts, err := s.idx.Resolve(name)
	if err != nil {
		return err
	}
	for _, o := range opts {
		if err := s.setValue(name, o, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Setter) setValue(name string, o *Option, value string) error {
	if o.IsMap() {
		return errorf(name, "option %q is a map option and needs both a key and a value", name)
	}
	v, err := o.coercer.elem.parse(value)
	if err != nil {
		return valueErrorf(name, value, err, "couldn't set option %q (field %s) to %q", name, o.Field, value)
	}
	switch o.coercer.container {
	case sliceField:
		o.value.Set(reflect.Append(o.value, v))
	case setField:
		if o.value.IsNil() {
			o.value.Set(reflect.MakeMap(o.value.Type()))
		}
		o.value.SetMapIndex(v, reflect.Zero(emptyStructType))
	default:
		var cur any
		if s.written.Contains(o) {
			cur = o.value.Interface()
		}
		next, err := o.Update.Update(name, cur, v.Interface())
		if err != nil {
			return err
		}
		o.value.Set(reflect.ValueOf(next))
		if cur != nil {
			s.logf("option %q set again to %q; update rule %v resolved it to %s", name, value, o.Update, formatValue(o.value, o.coercer.elem.enum))
		}
	}
	s.written.Add(o)
	return nil
}

// SetOptionMapValue puts key and value into every map field bound to name.
// A repeated key replaces the earlier value.
func (s *Setter) SetOptionMapValue(name, key, value string) error {
	opts, err := s.idx.Resolve(name)
	if err != nil {
		return err
	}
	for _, o := range opts {
		if !o.IsMap() {
			return errorf(name, "option %q is not a map option", name)
		}
		k, v, err := o.coercer.entry(key, value)
		if err != nil {
			return valueErrorf(name, key+"="+value, err, "couldn't set map option %q (field %s)", name, o.Field)
		}
		if o.value.IsNil() {
			o.value.Set(reflect.MakeMap(o.value.Type()))
		}
		o.value.SetMapIndex(k, v)
		s.written.Add(o)
	}
	return nil
}

// IsBooleanOption reports whether name is a bool or *bool option. Unknown
// names are an error.
func (s *Setter) IsBooleanOption(name string) (bool, error) {
	opts, err := s.idx.Resolve(name)
	if err != nil {
		return false, err
	}
	return opts[0].IsBool(), nil
}

// IsMapOption reports whether name is a map option. Unknown names are an
// error.
func (s *Setter) IsMapOption(name string) (bool, error) {
	opts, err := s.idx.Resolve(name)
	if err != nil {
		return false, err
	}
	return opts[0].IsMap(), nil
}

// WasSet reports whether any field bound to name was written this session.
func (s *Setter) WasSet(name string) bool {
	opts, err := s.idx.Resolve(name)
	if err != nil {
		return false
	}
	for _, o := range opts {
		if s.written.Contains(o) {
			return true
		}
	}
	return false
}

// IsUnset reports whether o still holds its empty value. Scalars written
// this session count as set even if the written value is the zero value.
func (s *Setter) IsUnset(o *Option) bool {
	if !o.IsEmpty() {
		return false
	}
	if o.coercer.container != scalarField {
		return true
	}
	return !s.written.Contains(o)
}

// ValidateMandatory checks every mandatory option and reports all of those
// still unset in a single error.
func (s *Setter) ValidateMandatory() error {
	var missing []string
	for _, o := range s.idx.options {
		if o.Mandatory && s.IsUnset(o) {
			missing = append(missing, qualifiedName(o))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &Error{
		Option: strings.Join(missing, ","),
		Msg:    fmt.Sprintf("found missing mandatory options: %s", strings.Join(missing, ", ")),
	}
}

// qualifiedName is the shortest name that resolves to o.
func qualifiedName(o *Option) string {
	if o.src.global {
		return o.Name
	}
	return o.Namespace() + NamespaceSeparator + o.Name
}

// QualifiedName returns the shortest name that resolves to o.
func (o *Option) QualifiedName() string {
	return qualifiedName(o)
}
