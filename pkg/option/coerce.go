// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package option

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

var (
	boolType            = reflect.TypeOf(false)
	durationType        = reflect.TypeOf(time.Duration(0))
	fileType            = reflect.TypeOf(File(""))
	urlType             = reflect.TypeOf(url.URL{})
	urlPtrType          = reflect.TypeOf((*url.URL)(nil))
	uuidType            = reflect.TypeOf(uuid.UUID{})
	semverType          = reflect.TypeOf(semver.Version{})
	semverPtrType       = reflect.TypeOf((*semver.Version)(nil))
	emptyStructType     = reflect.TypeOf(struct{}{})
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// container describes how an option field stores values.
type container int

const (
	scalarField container = iota // assigned, subject to the update rule
	sliceField                   // []T, appended
	setField                     // map[T]struct{} such as set.Set[T], added
	mapField                     // map[K]V, put
)

func (c container) String() string {
	switch c {
	case sliceField:
		return "list"
	case setField:
		return "set"
	case mapField:
		return "map"
	}
	return "scalar"
}

// scalarCoercer converts text to one scalar type.
type scalarCoercer struct {
	typ   reflect.Type
	enum  *enumTable // non-nil for Enum types (or pointers to them)
	parse func(string) (reflect.Value, error)
}

// fieldCoercer converts text for a whole option field.
type fieldCoercer struct {
	typ       reflect.Type
	container container
	elem      *scalarCoercer // the scalar, the element, or the map value
	key       *scalarCoercer // map key
}

func (c *fieldCoercer) isBool() bool {
	return c.container == scalarField && elemType(c.typ) == boolType
}

// elemType strips pointers and containers down to the scalar type that text
// is converted to.
func elemType(t reflect.Type) reflect.Type {
	t = derefScalar(t)
	if isNativeScalar(t) {
		return t
	}
	switch t.Kind() {
	case reflect.Slice:
		t = t.Elem()
	case reflect.Map:
		if t.Elem() == emptyStructType {
			t = t.Key()
		} else {
			t = t.Elem()
		}
	}
	return derefScalar(t)
}

func derefScalar(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer && t != urlPtrType && t != semverPtrType {
		t = t.Elem()
	}
	return t
}

// isNativeScalar reports whether t is converted as a single value even though
// its kind may be a slice, array or struct.
func isNativeScalar(t reflect.Type) bool {
	switch t {
	case durationType, fileType, urlType, urlPtrType, uuidType, semverType, semverPtrType:
		return true
	}
	if isEnumType(t) {
		return true
	}
	return t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// newFieldCoercer resolves the coercion strategy for an option field type.
func newFieldCoercer(t reflect.Type) (*fieldCoercer, error) {
	if t.Kind() == reflect.Pointer || isNativeScalar(t) {
		sc, err := newScalarCoercer(t)
		if err != nil {
			return nil, err
		}
		return &fieldCoercer{typ: t, container: scalarField, elem: sc}, nil
	}
	switch t.Kind() {
	case reflect.Slice:
		sc, err := newScalarCoercer(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("list element: %w", err)
		}
		return &fieldCoercer{typ: t, container: sliceField, elem: sc}, nil
	case reflect.Map:
		kc, err := newScalarCoercer(t.Key())
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		if t.Elem() == emptyStructType {
			return &fieldCoercer{typ: t, container: setField, elem: kc}, nil
		}
		vc, err := newScalarCoercer(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		return &fieldCoercer{typ: t, container: mapField, key: kc, elem: vc}, nil
	}
	sc, err := newScalarCoercer(t)
	if err != nil {
		return nil, err
	}
	return &fieldCoercer{typ: t, container: scalarField, elem: sc}, nil
}

func newScalarCoercer(t reflect.Type) (*scalarCoercer, error) {
	sc := &scalarCoercer{typ: t}
	switch t {
	case durationType:
		sc.parse = parseDuration
		return sc, nil
	case fileType:
		sc.parse = func(s string) (reflect.Value, error) {
			return reflect.ValueOf(File(s)), nil
		}
		return sc, nil
	case urlPtrType, urlType:
		sc.parse = func(s string) (reflect.Value, error) {
			u, err := url.Parse(s)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("invalid URL %q: %w", s, err)
			}
			if t == urlType {
				return reflect.ValueOf(*u), nil
			}
			return reflect.ValueOf(u), nil
		}
		return sc, nil
	case uuidType:
		sc.parse = func(s string) (reflect.Value, error) {
			id, err := uuid.Parse(s)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("invalid UUID %q: %w", s, err)
			}
			return reflect.ValueOf(id), nil
		}
		return sc, nil
	case semverPtrType, semverType:
		sc.parse = func(s string) (reflect.Value, error) {
			v, err := semver.NewVersion(s)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("invalid version %q: %w", s, err)
			}
			if t == semverType {
				return reflect.ValueOf(*v), nil
			}
			return reflect.ValueOf(v), nil
		}
		return sc, nil
	}

	if t.Kind() == reflect.Pointer {
		inner, err := newScalarCoercer(t.Elem())
		if err != nil {
			return nil, err
		}
		if inner.typ.Kind() == reflect.Pointer {
			return nil, fmt.Errorf("unsupported option type %s", t)
		}
		sc.enum = inner.enum
		sc.parse = func(s string) (reflect.Value, error) {
			v, err := inner.parse(s)
			if err != nil {
				return reflect.Value{}, err
			}
			p := reflect.New(inner.typ)
			p.Elem().Set(v)
			return p, nil
		}
		return sc, nil
	}

	if isEnumType(t) {
		tbl, err := newEnumTable(t)
		if err != nil {
			return nil, err
		}
		sc.enum = tbl
		sc.parse = func(s string) (reflect.Value, error) {
			v, ok := tbl.lookup(s)
			if !ok {
				return reflect.Value{}, fmt.Errorf("invalid value %q; valid values: %s", s, tbl.validValues())
			}
			return v, nil
		}
		return sc, nil
	}

	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		sc.parse = func(s string) (reflect.Value, error) {
			p := reflect.New(t)
			if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
				return reflect.Value{}, fmt.Errorf("invalid %s value %q: %w", t, s, err)
			}
			return p.Elem(), nil
		}
		return sc, nil
	}

	switch t.Kind() {
	case reflect.String:
		sc.parse = func(s string) (reflect.Value, error) {
			v := reflect.New(t).Elem()
			v.SetString(s)
			return v, nil
		}
	case reflect.Bool:
		sc.parse = func(s string) (reflect.Value, error) {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("invalid bool value %q", s)
			}
			v := reflect.New(t).Elem()
			v.SetBool(b)
			return v, nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sc.parse = func(s string) (reflect.Value, error) {
			i, err := strconv.ParseInt(s, 10, t.Bits())
			if err != nil {
				return reflect.Value{}, numError(t, s, err)
			}
			v := reflect.New(t).Elem()
			v.SetInt(i)
			return v, nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		sc.parse = func(s string) (reflect.Value, error) {
			u, err := strconv.ParseUint(s, 10, t.Bits())
			if err != nil {
				return reflect.Value{}, numError(t, s, err)
			}
			v := reflect.New(t).Elem()
			v.SetUint(u)
			return v, nil
		}
	case reflect.Float32, reflect.Float64:
		sc.parse = func(s string) (reflect.Value, error) {
			f, err := strconv.ParseFloat(s, t.Bits())
			if err != nil {
				return reflect.Value{}, numError(t, s, err)
			}
			v := reflect.New(t).Elem()
			v.SetFloat(f)
			return v, nil
		}
	default:
		return nil, fmt.Errorf("unsupported option type %s", t)
	}
	return sc, nil
}

func numError(t reflect.Type, s string, err error) error {
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return fmt.Errorf("value %q is out of range for %s", s, t)
	}
	return fmt.Errorf("invalid %s value %q", t, s)
}

// parseDuration accepts Go duration syntax ("1m30s") or a bare integer
// number of milliseconds.
func parseDuration(s string) (reflect.Value, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return reflect.ValueOf(time.Duration(ms) * time.Millisecond), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("invalid duration %q", s)
	}
	return reflect.ValueOf(d), nil
}

// Coerce converts raw to a value of type t. For list and set types the result
// is a single element; map types must use CoerceMapEntry.
func Coerce(raw string, t reflect.Type) (reflect.Value, error) {
	fc, err := newFieldCoercer(t)
	if err != nil {
		return reflect.Value{}, err
	}
	if fc.container == mapField {
		return reflect.Value{}, fmt.Errorf("%s is a map type; use CoerceMapEntry", t)
	}
	return fc.elem.parse(raw)
}

// CoerceMapEntry converts a key and value for the map type t.
func CoerceMapEntry(rawKey, rawValue string, t reflect.Type) (key, value reflect.Value, err error) {
	fc, err := newFieldCoercer(t)
	if err != nil {
		return reflect.Value{}, reflect.Value{}, err
	}
	if fc.container != mapField {
		return reflect.Value{}, reflect.Value{}, fmt.Errorf("%s is not a map type", t)
	}
	return fc.entry(rawKey, rawValue)
}

func (c *fieldCoercer) entry(rawKey, rawValue string) (key, value reflect.Value, err error) {
	key, err = c.key.parse(rawKey)
	if err != nil {
		return reflect.Value{}, reflect.Value{}, fmt.Errorf("map key: %w", err)
	}
	value, err = c.elem.parse(rawValue)
	if err != nil {
		return reflect.Value{}, reflect.Value{}, fmt.Errorf("map value for key %q: %w", rawKey, err)
	}
	return key, value, nil
}

// SplitMapEntry splits "key=value" on the first '=' not preceded by a
// backslash. Escaped separators in the key are unescaped.
func SplitMapEntry(s string) (key, value string, ok bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '=':
			return strings.ReplaceAll(s[:i], `\=`, "="), s[i+1:], true
		}
	}
	return s, "", false
}
