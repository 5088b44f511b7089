// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argsopt

import (
	"fmt"
	"strings"

	"github.com/yeetrun/optbind/pkg/option"
)

// Parser binds command-line arguments through an option.Setter.
type Parser struct {
	setter       *option.Setter
	interspersed bool
}

// Opt configures a Parser.
type Opt func(*Parser)

// Interspersed makes the parser collect non-option arguments and keep
// parsing, instead of stopping at the first one.
func Interspersed() Opt {
	return func(p *Parser) {
		p.interspersed = true
	}
}

// New returns a Parser writing through s.
func New(s *option.Setter, opts ...Opt) *Parser {
	p := &Parser{setter: s}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse binds args into the sources and returns the positional arguments.
// Sources are accepted in any form option.BuildIndex accepts. Mandatory
// options are not checked; see option.Setter.ValidateMandatory.
func Parse(args []string, sources ...any) ([]string, error) {
	s, err := option.NewSetter(sources...)
	if err != nil {
		return nil, err
	}
	return New(s).Parse(args)
}

// Setter returns the Setter the parser writes through.
func (p *Parser) Setter() *option.Setter {
	return p.setter
}

// Parse processes args in a single pass and returns the positional
// arguments in order. Everything after "--" is positional, even if it looks
// like an option. Unless the parser is interspersed, the first non-option
// argument also ends option processing.
//
// Tokens processed before an error have already taken effect.
func (p *Parser) Parse(args []string) ([]string, error) {
	leftovers := []string{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return append(leftovers, args[i+1:]...), nil
		case strings.HasPrefix(arg, "--"):
			n, err := p.handleLong(args, i)
			if err != nil {
				return nil, err
			}
			i += n
		case strings.HasPrefix(arg, "-") && arg != "-":
			n, err := p.handleShort(args, i)
			if err != nil {
				return nil, err
			}
			i += n
		default:
			if !p.interspersed {
				return append(leftovers, args[i:]...), nil
			}
			leftovers = append(leftovers, arg)
		}
	}
	return leftovers, nil
}

// handleLong processes a "--name", "--name=value", "--name value" or
// "--no-name" token and returns how many following tokens it consumed.
func (p *Parser) handleLong(args []string, i int) (int, error) {
	name := strings.TrimPrefix(args[i], "--")
	value, hasValue := "", false
	if k, v, ok := strings.Cut(name, "="); ok {
		name, value, hasValue = k, v, true
	}
	idx := p.setter.Index()
	opts, ok := idx.Lookup(name)
	if !ok {
		if !hasValue {
			if negated, ok := negatedName(name); ok {
				if nopts, ok := idx.Lookup(negated); ok && nopts[0].IsBool() {
					return 0, p.setter.SetOptionValue(negated, "false")
				}
			}
		}
		return 0, p.unknown(name)
	}
	o := opts[0]
	switch {
	case o.IsBool():
		if !hasValue {
			value = "true"
		}
		return 0, p.setter.SetOptionValue(name, value)
	case o.IsMap():
		return p.handleMap("--"+name, name, args, i+1, value, hasValue)
	}
	if hasValue {
		return 0, p.setter.SetOptionValue(name, value)
	}
	if i+1 >= len(args) {
		return 0, missingValue("--"+name, name)
	}
	return 1, p.setter.SetOptionValue(name, args[i+1])
}

// negatedName maps "no-name" and "ns:no-name" to "name" and "ns:name".
func negatedName(name string) (string, bool) {
	ns, bare := "", name
	if j := strings.LastIndex(name, option.NamespaceSeparator); j >= 0 {
		ns, bare = name[:j+1], name[j+1:]
	}
	rest, ok := strings.CutPrefix(bare, "no-")
	if !ok || rest == "" {
		return "", false
	}
	return ns + rest, true
}

// handleShort processes "-x", "-xyz", "-xo value" and "-xovalue": booleans
// are toggled on and the first valued option takes the remainder of the
// token or, if there is none, the next token. A boolean followed by '='
// takes the rest of the token as its value, as in "-x=false".
func (p *Parser) handleShort(args []string, i int) (int, error) {
	letters := []rune(args[i][1:])
	idx := p.setter.Index()
	for j, r := range letters {
		opts, err := idx.ResolveShort(r)
		if err != nil {
			if len(letters) > 1 {
				return 0, &option.Error{Option: string(r), Msg: fmt.Sprintf("unknown option -%c in %q", r, args[i])}
			}
			return 0, &option.Error{Option: string(r), Msg: fmt.Sprintf("unknown option -%c", r)}
		}
		o := opts[0]
		if o.IsBool() {
			if j+1 < len(letters) && letters[j+1] == '=' {
				return 0, p.setter.SetOptionValue(o.Name, string(letters[j+2:]))
			}
			if err := p.setter.SetOptionValue(o.Name, "true"); err != nil {
				return 0, err
			}
			continue
		}
		flag := "-" + string(r)
		rest := string(letters[j+1:])
		rest = strings.TrimPrefix(rest, "=")
		hasRest := j+1 < len(letters)
		if o.IsMap() {
			return p.handleMap(flag, o.Name, args, i+1, rest, hasRest)
		}
		if hasRest {
			return 0, p.setter.SetOptionValue(o.Name, rest)
		}
		if i+1 >= len(args) {
			return 0, missingValue(flag, o.Name)
		}
		return 1, p.setter.SetOptionValue(o.Name, args[i+1])
	}
	return 0, nil
}

// handleMap reads a map entry given as "key=value" in one token or as
// "key value" in two. first is the inline text after the flag, if any, and
// next indexes the first unconsumed token.
func (p *Parser) handleMap(flag, name string, args []string, next int, first string, hasFirst bool) (int, error) {
	consumed := 0
	if !hasFirst {
		if next >= len(args) {
			return 0, &option.Error{Option: name, Msg: fmt.Sprintf("map option %s is missing its key; expected a key and a value", flag)}
		}
		first = args[next]
		consumed++
	}
	key, value, ok := option.SplitMapEntry(first)
	if !ok {
		if next+consumed >= len(args) {
			return 0, &option.Error{Option: name, Value: key, Msg: fmt.Sprintf("map option %s is missing the value for key %q; expected a value", flag, key)}
		}
		value = args[next+consumed]
		consumed++
	}
	return consumed, p.setter.SetOptionMapValue(name, key, value)
}

func (p *Parser) unknown(name string) error {
	if q := p.setter.Index().Qualified(name); len(q) > 0 {
		return &option.Error{Option: name, Msg: fmt.Sprintf("option --%s is not in the global namespace; use --%s", name, strings.Join(q, " or --"))}
	}
	return &option.Error{Option: name, Msg: fmt.Sprintf("unknown option --%s", name)}
}

func missingValue(flag, name string) error {
	return &option.Error{Option: name, Msg: fmt.Sprintf("option %s expected a value but none was given", flag)}
}
