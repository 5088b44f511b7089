// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optfile

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/optbind/pkg/option"
)

// ApplyTOML applies a TOML document to s, in document order.
func ApplyTOML(s *option.Setter, data []byte) error {
	var doc map[string]any
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	var entries []entry
	for _, key := range md.Keys() {
		if len(key) != 1 {
			continue
		}
		name := key[0]
		e, err := tomlEntry(name, doc[name])
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	return apply(s, entries)
}

func tomlEntry(name string, v any) (entry, error) {
	e := entry{name: name}
	switch v := v.(type) {
	case map[string]any:
		e.table = true
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			s, err := tomlScalar(v[k])
			if err != nil {
				return e, fmt.Errorf("key %q.%q: %w", name, k, err)
			}
			e.pairs = append(e.pairs, [2]string{k, s})
		}
	case []any:
		for i, elem := range v {
			s, err := tomlScalar(elem)
			if err != nil {
				return e, fmt.Errorf("key %q[%d]: %w", name, i, err)
			}
			e.values = append(e.values, s)
		}
	default:
		s, err := tomlScalar(v)
		if err != nil {
			return e, fmt.Errorf("key %q: %w", name, err)
		}
		e.values = []string{s}
	}
	return e, nil
}

func tomlScalar(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	}
	return "", fmt.Errorf("unsupported value of type %T", v)
}
