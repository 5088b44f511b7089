// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package option

import (
	"fmt"
	"reflect"
)

// Copy copies the value of every option of src into the option of dst with
// the same name and type. Lists and maps are copied, not shared. Options
// present on only one side are left alone.
//
// A common pattern is to parse into a fresh instance and Copy into the live
// one only when parsing succeeds.
func Copy(dst, src any) error {
	di, err := BuildIndex(Global(dst))
	if err != nil {
		return fmt.Errorf("copy destination: %w", err)
	}
	si, err := BuildIndex(Global(src))
	if err != nil {
		return fmt.Errorf("copy source: %w", err)
	}
	for _, d := range di.options {
		from, ok := si.byName.Get(d.Name)
		if !ok || from[0].Type != d.Type {
			continue
		}
		d.value.Set(cloneValue(from[0].value))
	}
	return nil
}

func cloneValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() || isNativeScalar(v.Type()) {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(out, v)
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		return out
	}
	return v
}
