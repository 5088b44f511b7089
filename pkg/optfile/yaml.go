// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optfile

import (
	"fmt"

	"github.com/yeetrun/optbind/pkg/option"
	"gopkg.in/yaml.v3"
)

// ApplyYAML applies a YAML document, a mapping at the top level, to s in
// document order. Null values are skipped.
func ApplyYAML(s *option.Setter, data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil
	}
	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: top level must be a mapping of option names", root.Line)
	}
	var entries []entry
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		val := resolveAlias(root.Content[i+1])
		if isNull(val) {
			continue
		}
		e, err := yamlEntry(name, val)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	return apply(s, entries)
}

func yamlEntry(name string, n *yaml.Node) (entry, error) {
	e := entry{name: name}
	switch n.Kind {
	case yaml.ScalarNode:
		e.values = []string{n.Value}
	case yaml.SequenceNode:
		for _, c := range n.Content {
			c = resolveAlias(c)
			if c.Kind != yaml.ScalarNode {
				return e, fmt.Errorf("line %d: key %q: list elements must be scalars", c.Line, name)
			}
			e.values = append(e.values, c.Value)
		}
	case yaml.MappingNode:
		e.table = true
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := resolveAlias(n.Content[i]), resolveAlias(n.Content[i+1])
			if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
				return e, fmt.Errorf("line %d: key %q: map entries must be scalars", k.Line, name)
			}
			e.pairs = append(e.pairs, [2]string{k.Value, v.Value})
		}
	default:
		return e, fmt.Errorf("line %d: key %q: unsupported value", n.Line, name)
	}
	return e, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}
