// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package option

import (
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"strings"

	"github.com/tidwall/btree"
	"tailscale.com/util/mak"
)

// Option is an option declaration bound to a field of one source instance.
type Option struct {
	Declaration

	src     *boundSource
	value   reflect.Value
	coercer *fieldCoercer
}

// Namespace returns the namespace the option is listed under: the source's
// alias if it has one, else its type name. It is empty for global sources
// without either.
func (o *Option) Namespace() string {
	if o.src.alias != "" {
		return o.src.alias
	}
	return o.src.typeName
}

// Global reports whether the option is reachable by its bare name.
func (o *Option) Global() bool {
	return o.src.global
}

// Source returns the source instance the option writes to.
func (o *Option) Source() any {
	return o.src.value
}

// Value returns the field's current value.
func (o *Option) Value() any {
	return o.value.Interface()
}

// IsBool reports whether the option is a bool or *bool option.
func (o *Option) IsBool() bool {
	return o.coercer.isBool()
}

// IsMap reports whether the option is a map option taking key/value pairs.
func (o *Option) IsMap() bool {
	return o.coercer.container == mapField
}

// IsCollection reports whether every write appends to the option.
func (o *Option) IsCollection() bool {
	return o.coercer.container == sliceField || o.coercer.container == setField
}

// EnumNames returns the valid constant names of an enum option, in
// declaration order, or nil.
func (o *Option) EnumNames() []string {
	if o.coercer.elem.enum == nil {
		return nil
	}
	return append([]string(nil), o.coercer.elem.enum.names...)
}

// IsEmpty reports whether the option still holds its type's empty value:
// nil, a zero-length collection or map, an empty string, or the zero value.
func (o *Option) IsEmpty() bool {
	return isEmptyValue(o.value)
}

// FormatValue renders the current value as text, using constant names for
// enums. It returns "" for empty values.
func (o *Option) FormatValue() string {
	if o.IsEmpty() {
		return ""
	}
	return formatValue(o.value, o.coercer.elem.enum)
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	}
	return v.IsZero()
}

func formatValue(v reflect.Value, enum *enumTable) string {
	if v.Type() == urlType {
		u := v.Interface().(url.URL)
		return u.String()
	}
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return ""
		}
		if v.Type() != urlPtrType && v.Type() != semverPtrType {
			return formatValue(v.Elem(), enum)
		}
	case reflect.Slice:
		if !isNativeScalar(v.Type()) {
			parts := make([]string, v.Len())
			for i := range parts {
				parts[i] = formatValue(v.Index(i), enum)
			}
			return "[" + strings.Join(parts, ", ") + "]"
		}
	case reflect.Map:
		if !isNativeScalar(v.Type()) {
			keys := v.MapKeys()
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				if v.Type().Elem() == emptyStructType {
					parts = append(parts, formatValue(k, enum))
					continue
				}
				parts = append(parts, formatValue(k, nil)+"="+formatValue(v.MapIndex(k), enum))
			}
			slices.Sort(parts)
			return "{" + strings.Join(parts, ", ") + "}"
		}
	}
	if enum != nil && v.Type() == enum.typ {
		if name := enum.nameOf(v); name != "" {
			return name
		}
	}
	return fmt.Sprint(v.Interface())
}

type boundSource struct {
	value    any
	typeName string
	alias    string
	global   bool
}

// Index maps option names, optionally namespaced, to the fields they bind.
// It is immutable once built.
type Index struct {
	sources []*boundSource
	options []*Option

	byName  *btree.Map[string, []*Option]
	byShort map[string][]*Option
	// scoped maps bare names that only exist on non-global sources to
	// their qualified forms, for error messages.
	scoped map[string][]string
	// declared maps each bare name to its first declaration, across all
	// sources and namespaces.
	declared map[string]*Option
}

// BuildIndex scans the sources and builds an Index. Each source is a
// pointer to a struct, a Source, or a pointer to a struct implementing
// Class. Any declaration problem fails the whole build.
func BuildIndex(sources ...any) (*Index, error) {
	idx := &Index{byName: btree.NewMap[string, []*Option](0)}
	aliases := make(map[string]bool)
	for i, v := range sources {
		s := sourceOf(v)
		rv := reflect.ValueOf(s.Value)
		if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return nil, errorf("", "option source %d: want a non-nil pointer to a struct, got %T", i, s.Value)
		}
		bs := &boundSource{
			value:    s.Value,
			typeName: TypeName(s.Value),
			alias:    s.Alias,
			global:   s.Global,
		}
		if !bs.global && bs.typeName == "" && bs.alias == "" {
			return nil, errorf("", "option source %d: namespaced source of unnamed type %T needs an alias", i, s.Value)
		}
		if bs.alias != "" {
			if strings.Contains(bs.alias, NamespaceSeparator) {
				return nil, errorf("", "option source alias %q must not contain %q", bs.alias, NamespaceSeparator)
			}
			if aliases[bs.alias] {
				return nil, errorf("", "option source alias %q is used by more than one source", bs.alias)
			}
			aliases[bs.alias] = true
		}
		fields, err := scanFields(rv.Elem(), "")
		if err != nil {
			return nil, &Error{Msg: fmt.Sprintf("option source %s", describeSource(bs)), Err: err}
		}
		idx.sources = append(idx.sources, bs)
		seen := make(map[string]bool, len(fields))
		for _, f := range fields {
			if seen[f.decl.Name] {
				return nil, errorf(f.decl.Name, "option %q is declared more than once in %s", f.decl.Name, describeSource(bs))
			}
			seen[f.decl.Name] = true
			o, err := newOption(bs, f)
			if err != nil {
				return nil, err
			}
			if err := idx.add(o); err != nil {
				return nil, err
			}
		}
	}
	for name := range idx.scoped {
		if _, ok := idx.byName.Get(name); ok {
			delete(idx.scoped, name)
		}
	}
	return idx, nil
}

func describeSource(bs *boundSource) string {
	if bs.typeName != "" {
		return bs.typeName
	}
	return fmt.Sprintf("%T", bs.value)
}

func newOption(bs *boundSource, f field) (*Option, error) {
	c, err := newFieldCoercer(f.decl.Type)
	if err != nil {
		return nil, &Error{Option: f.decl.Name, Msg: fmt.Sprintf("option %q has unsupported type %s", f.decl.Name, f.decl.Type), Err: err}
	}
	if c.container == scalarField && (f.decl.Update == Greatest || f.decl.Update == Least) && !orderable(f.decl.Type) {
		return nil, errorf(f.decl.Name, "option %q uses update rule %v but values of type %s have no natural ordering", f.decl.Name, f.decl.Update, f.decl.Type)
	}
	return &Option{Declaration: f.decl, src: bs, value: f.value, coercer: c}, nil
}

func (idx *Index) add(o *Option) error {
	if first, ok := idx.declared[o.Name]; ok {
		if first.Type != o.Type {
			return errorf(o.Name, "option %q is declared with incompatible types %s (%s in %s) and %s (%s in %s)",
				o.Name, first.Type, first.Field, describeSource(first.src), o.Type, o.Field, describeSource(o.src))
		}
	} else {
		mak.Set(&idx.declared, o.Name, o)
	}
	idx.options = append(idx.options, o)
	var keys []string
	if o.src.global {
		keys = append(keys, o.Name)
	} else {
		for _, ns := range []string{o.src.alias, o.src.typeName} {
			if ns != "" {
				mak.Set(&idx.scoped, o.Name, append(idx.scoped[o.Name], ns+NamespaceSeparator+o.Name))
			}
		}
	}
	for _, ns := range []string{o.src.typeName, o.src.alias} {
		if ns != "" {
			keys = append(keys, ns+NamespaceSeparator+o.Name)
		}
	}
	for _, k := range keys {
		prev, _ := idx.byName.Get(k)
		for _, p := range prev {
			if p.src == o.src {
				return errorf(o.Name, "option %q is declared more than once in %s", o.Name, describeSource(o.src))
			}
		}
		idx.byName.Set(k, append(prev, o))
	}
	if o.Short != 0 && o.src.global {
		k := string(o.Short)
		for _, p := range idx.byShort[k] {
			if p.Name != o.Name {
				return errorf(o.Name, "short name -%s is used by both %q and %q", k, p.Name, o.Name)
			}
		}
		mak.Set(&idx.byShort, k, append(idx.byShort[k], o))
	}
	return nil
}

// Resolve finds the fields bound to name. A name containing the namespace
// separator must match a source's type name or alias exactly; a bare name
// only matches options of global sources.
func (idx *Index) Resolve(name string) ([]*Option, error) {
	if opts, ok := idx.byName.Get(name); ok {
		return opts, nil
	}
	if !strings.Contains(name, NamespaceSeparator) {
		if qualified := idx.scoped[name]; len(qualified) > 0 {
			return nil, errorf(name, "option %q is not in the global namespace; use %s", name, strings.Join(qualified, " or "))
		}
	}
	return nil, errorf(name, "unknown option %q", name)
}

// ResolveShort finds the fields bound to a short alias.
func (idx *Index) ResolveShort(r rune) ([]*Option, error) {
	if opts, ok := idx.byShort[string(r)]; ok {
		return opts, nil
	}
	return nil, errorf(string(r), "unknown option -%c", r)
}

// Options returns every option in source and declaration order.
func (idx *Index) Options() []*Option {
	return append([]*Option(nil), idx.options...)
}

// Names returns every resolvable name, qualified names included, sorted.
func (idx *Index) Names() []string {
	names := make([]string, 0, idx.byName.Len())
	idx.byName.Scan(func(k string, _ []*Option) bool {
		names = append(names, k)
		return true
	})
	return names
}

// Sources returns the registered source instances in registration order.
func (idx *Index) Sources() []any {
	out := make([]any, len(idx.sources))
	for i, s := range idx.sources {
		out[i] = s.value
	}
	return out
}

// Lookup is like Resolve but reports a missing name with ok instead of an
// error.
func (idx *Index) Lookup(name string) (opts []*Option, ok bool) {
	return idx.byName.Get(name)
}

// Qualified returns the namespaced forms of a bare name that is declared only
// by non-global sources, or nil.
func (idx *Index) Qualified(name string) []string {
	return append([]string(nil), idx.scoped[name]...)
}

// Alias returns the namespace alias of the option's source, or "".
func (o *Option) Alias() string {
	return o.src.alias
}

// TextValues renders the current value as the text values that would
// recreate it: one for a scalar, one per element for lists and sets, and
// "key=value" per entry for maps. Sets are sorted and maps are sorted by
// key. Empty values yield nil.
func (o *Option) TextValues() []string {
	if o.IsEmpty() {
		return nil
	}
	v, enum := o.value, o.coercer.elem.enum
	var out []string
	switch o.coercer.container {
	case sliceField:
		for i := 0; i < v.Len(); i++ {
			out = append(out, formatValue(v.Index(i), enum))
		}
		return out
	case setField:
		for _, k := range v.MapKeys() {
			out = append(out, formatValue(k, enum))
		}
	case mapField:
		for _, kv := range o.MapEntries() {
			out = append(out, strings.ReplaceAll(kv[0], "=", `\=`)+"="+kv[1])
		}
		return out
	default:
		return []string{formatValue(v, enum)}
	}
	slices.Sort(out)
	return out
}

// MapEntries returns the key and value text of every entry of a map option,
// sorted by key. It returns nil for other options.
func (o *Option) MapEntries() [][2]string {
	if o.coercer.container != mapField || o.value.Len() == 0 {
		return nil
	}
	var out [][2]string
	iter := o.value.MapRange()
	for iter.Next() {
		out = append(out, [2]string{
			formatValue(iter.Key(), nil),
			formatValue(iter.Value(), o.coercer.elem.enum),
		})
	}
	slices.SortFunc(out, func(a, b [2]string) int {
		return strings.Compare(a[0], b[0])
	})
	return out
}
