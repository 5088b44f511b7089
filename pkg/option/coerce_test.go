// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package option

import (
	"net/netip"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

func TestCoerceScalars(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		typ  reflect.Type
		want any
	}{
		{"bool true", "true", reflect.TypeOf(false), true},
		{"bool false", "false", reflect.TypeOf(false), false},
		{"int8", "-12", reflect.TypeOf(int8(0)), int8(-12)},
		{"int16", "300", reflect.TypeOf(int16(0)), int16(300)},
		{"int", "42", reflect.TypeOf(0), 42},
		{"int64", "9000000000", reflect.TypeOf(int64(0)), int64(9000000000)},
		{"uint8", "255", reflect.TypeOf(uint8(0)), uint8(255)},
		{"float32", "1.5", reflect.TypeOf(float32(0)), float32(1.5)},
		{"float64", "-2.25", reflect.TypeOf(0.0), -2.25},
		{"string", "hello", reflect.TypeOf(""), "hello"},
		{"file", "/tmp/x.log", reflect.TypeOf(File("")), File("/tmp/x.log")},
		{"duration", "1m30s", reflect.TypeOf(time.Duration(0)), 90 * time.Second},
		{"duration millis", "250", reflect.TypeOf(time.Duration(0)), 250 * time.Millisecond},
		{"enum exact", "VAL2", reflect.TypeOf(val1), val2},
		{"enum upper", "val3", reflect.TypeOf(val1), val3},
		{"list element", "7", reflect.TypeOf([]int(nil)), 7},
		{"set element", "a", reflect.TypeOf(map[string]struct{}(nil)), "a"},
		{"text unmarshaler", "10.0.0.1", reflect.TypeOf(netip.Addr{}), netip.MustParseAddr("10.0.0.1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.raw, tt.typ)
			if err != nil {
				t.Fatalf("Coerce(%q, %s) error: %v", tt.raw, tt.typ, err)
			}
			if !reflect.DeepEqual(got.Interface(), tt.want) {
				t.Fatalf("Coerce(%q, %s) = %#v, want %#v", tt.raw, tt.typ, got.Interface(), tt.want)
			}
		})
	}
}

func TestCoercePointers(t *testing.T) {
	v, err := Coerce("true", reflect.TypeOf((*bool)(nil)))
	if err != nil {
		t.Fatalf("Coerce(*bool) error: %v", err)
	}
	if b := v.Interface().(*bool); b == nil || !*b {
		t.Fatalf("Coerce(*bool) = %v, want pointer to true", v.Interface())
	}

	v, err = Coerce("https://example.com/x", reflect.TypeOf((*uuid.UUID)(nil)).Elem())
	if err == nil {
		t.Fatalf("Coerce(uuid) of a URL succeeded with %v", v.Interface())
	}

	id := uuid.New()
	v, err = Coerce(id.String(), reflect.TypeOf(uuid.UUID{}))
	if err != nil {
		t.Fatalf("Coerce(uuid) error: %v", err)
	}
	if v.Interface() != id {
		t.Fatalf("Coerce(uuid) = %v, want %v", v.Interface(), id)
	}

	v, err = Coerce("1.2.3", reflect.TypeOf((*semver.Version)(nil)))
	if err != nil {
		t.Fatalf("Coerce(*semver.Version) error: %v", err)
	}
	if got := v.Interface().(*semver.Version).String(); got != "1.2.3" {
		t.Fatalf("Coerce(*semver.Version) = %s, want 1.2.3", got)
	}
}

func TestCoerceErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		typ     reflect.Type
		wantErr string
	}{
		{"bool word", "yes please", reflect.TypeOf(false), `invalid bool value "yes please"`},
		{"int text", "abc", reflect.TypeOf(0), `invalid int value "abc"`},
		{"int8 range", "300", reflect.TypeOf(int8(0)), `value "300" is out of range for int8`},
		{"uint negative", "-1", reflect.TypeOf(uint(0)), `invalid uint value "-1"`},
		{"float text", "1.2.3", reflect.TypeOf(0.0), `invalid float64 value "1.2.3"`},
		{"duration", "soon", reflect.TypeOf(time.Duration(0)), `invalid duration "soon"`},
		{"enum", "VAL9", reflect.TypeOf(val1), `invalid value "VAL9"; valid values: [VAL1, VAL2, VAL3]`},
		{"unsupported", "x", reflect.TypeOf(struct{ A int }{}), "unsupported option type"},
		{"unsupported elem", "x", reflect.TypeOf([]chan int(nil)), "list element: unsupported option type chan int"},
		{"map", "x", reflect.TypeOf(map[string]int(nil)), "use CoerceMapEntry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Coerce(tt.raw, tt.typ)
			if err == nil {
				t.Fatalf("Coerce(%q, %s) succeeded, want error", tt.raw, tt.typ)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Coerce(%q, %s) error = %q, want it to contain %q", tt.raw, tt.typ, err, tt.wantErr)
			}
		})
	}
}

func TestCoerceEnumCase(t *testing.T) {
	typ := reflect.TypeOf(val1)
	a, err := Coerce("VAL1", typ)
	if err != nil {
		t.Fatalf("Coerce(VAL1) error: %v", err)
	}
	b, err := Coerce("Val1", typ)
	if err != nil {
		t.Fatalf("Coerce(Val1) error: %v", err)
	}
	if a.Interface() != b.Interface() {
		t.Fatalf("VAL1 = %v, Val1 = %v, want equal", a.Interface(), b.Interface())
	}

	// Exact match wins before the upper-cased fallback.
	mt := reflect.TypeOf(mixedCase(0))
	if v, err := Coerce("Alpha", mt); err != nil || v.Interface() != mixedCase(0) {
		t.Fatalf("Coerce(Alpha) = %v, %v; want Alpha", v, err)
	}
	if v, err := Coerce("beta", mt); err != nil || v.Interface() != mixedCase(1) {
		t.Fatalf("Coerce(beta) = %v, %v; want BETA", v, err)
	}
	if _, err := Coerce("alpha", mt); err == nil {
		t.Fatalf("Coerce(alpha) succeeded; only exact and upper-cased names match")
	}
}

func TestCoerceMapEntry(t *testing.T) {
	typ := reflect.TypeOf(map[string]int(nil))
	k, v, err := CoerceMapEntry("retries", "3", typ)
	if err != nil {
		t.Fatalf("CoerceMapEntry error: %v", err)
	}
	if k.Interface() != "retries" || v.Interface() != 3 {
		t.Fatalf("CoerceMapEntry = %v, %v; want retries, 3", k.Interface(), v.Interface())
	}

	_, _, err = CoerceMapEntry("retries", "many", typ)
	if err == nil || !strings.Contains(err.Error(), `map value for key "retries"`) || !strings.Contains(err.Error(), `"many"`) {
		t.Fatalf("bad value error = %v", err)
	}

	_, _, err = CoerceMapEntry("x", "1", reflect.TypeOf(map[int]int(nil)))
	if err == nil || !strings.Contains(err.Error(), "map key:") || !strings.Contains(err.Error(), `"x"`) {
		t.Fatalf("bad key error = %v", err)
	}

	if _, _, err := CoerceMapEntry("a", "b", reflect.TypeOf([]string(nil))); err == nil {
		t.Fatalf("CoerceMapEntry on a list type succeeded")
	}
}

func TestSplitMapEntry(t *testing.T) {
	tests := []struct {
		in         string
		key, value string
		ok         bool
	}{
		{"a=b", "a", "b", true},
		{"a=b=c", "a", "b=c", true},
		{`a\=b=c`, "a=b", "c", true},
		{"a=", "a", "", true},
		{"noequals", "noequals", "", false},
	}
	for _, tt := range tests {
		k, v, ok := SplitMapEntry(tt.in)
		if k != tt.key || v != tt.value || ok != tt.ok {
			t.Errorf("SplitMapEntry(%q) = %q, %q, %v; want %q, %q, %v", tt.in, k, v, ok, tt.key, tt.value, tt.ok)
		}
	}
}

func TestEnumNames(t *testing.T) {
	want := []string{"VAL1", "VAL2", "VAL3"}
	for _, typ := range []reflect.Type{
		reflect.TypeOf(val1),
		reflect.TypeOf((*testEnum)(nil)),
		reflect.TypeOf([]testEnum(nil)),
	} {
		if got := EnumNames(typ); !reflect.DeepEqual(got, want) {
			t.Errorf("EnumNames(%s) = %v, want %v", typ, got, want)
		}
	}
	if got := EnumNames(reflect.TypeOf("")); got != nil {
		t.Errorf("EnumNames(string) = %v, want nil", got)
	}
}
