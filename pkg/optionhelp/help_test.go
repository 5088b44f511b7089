// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optionhelp

import (
	"strings"
	"testing"

	"github.com/yeetrun/optbind/pkg/option"
)

type shape int

const (
	circle shape = iota
	square
	triangle
)

func (shape) EnumConstants() []option.EnumConstant {
	return []option.EnumConstant{{Name: "CIRCLE", Value: circle}, {Name: "SQUARE", Value: square}, {Name: "TRIANGLE", Value: triangle}}
}

type helpSource struct {
	Shape  shape             `option:"shape" short:"s" help:"Shape to draw" importance:"always"`
	Name   string            `option:"name" help:"Name of the drawing" importance:"if_unset"`
	Debug  bool              `option:"debug" help:"Print debug output"`
	Size   int               `option:"size" help:"Size in pixels" mandatory:"true"`
	Labels map[string]string `option:"label" help:"Extra labels"`
	Silent *bool             `option:"silent"`
}

type serverSource struct {
	Port int `option:"port" help:"Port to listen on" importance:"always"`
}

func TestDescribeEnum(t *testing.T) {
	idx, err := option.BuildIndex(&helpSource{Shape: square})
	if err != nil {
		t.Fatal(err)
	}
	got := Describe(idx.Options()[0])
	want := "Shape to draw (default: SQUARE) Valid values: [CIRCLE, SQUARE, TRIANGLE]"
	if got != want {
		t.Fatalf("Describe(shape) = %q, want %q", got, want)
	}
	if !strings.HasSuffix(got, " Valid values: [CIRCLE, SQUARE, TRIANGLE]") {
		t.Fatalf("Describe(shape) = %q, missing valid values suffix", got)
	}
}

func TestDescribe(t *testing.T) {
	idx, err := option.BuildIndex(&helpSource{Name: "art"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"shape":  "Shape to draw Valid values: [CIRCLE, SQUARE, TRIANGLE]",
		"name":   "Name of the drawing (default: art)",
		"debug":  "Print debug output",
		"size":   "Size in pixels (mandatory)",
		"label":  "Extra labels",
		"silent": "",
	}
	for _, o := range idx.Options() {
		if got := Describe(o); got != want[o.Name] {
			t.Errorf("Describe(%s) = %q, want %q", o.Name, got, want[o.Name])
		}
	}
}

func TestRender(t *testing.T) {
	idx, err := option.BuildIndex(&helpSource{}, option.Namespaced(&serverSource{}, "server"))
	if err != nil {
		t.Fatal(err)
	}
	got := String(idx, Settings{})
	want := `OPTIONS:
    -s, --shape              Shape to draw Valid values: [CIRCLE, SQUARE, TRIANGLE]
    --name                   Name of the drawing
    --[no-]debug             Print debug output
    --size                   Size in pixels (mandatory)
    --label KEY=VALUE        Extra labels
    --[no-]silent

'server' OPTIONS:
    --server:port            Port to listen on
`
	if got != want {
		t.Fatalf("Render mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderWrap(t *testing.T) {
	type long struct {
		A string `option:"a" help:"one two three four five six seven eight"`
	}
	idx, err := option.BuildIndex(&long{})
	if err != nil {
		t.Fatal(err)
	}
	got := String(idx, Settings{Width: 50})
	want := "OPTIONS:\n" +
		"    --a                      one two three four\n" +
		"                             five six seven eight\n"
	if got != want {
		t.Fatalf("wrapped help:\n%q\nwant:\n%q", got, want)
	}
}

func TestImportanceFilter(t *testing.T) {
	tests := []struct {
		name string
		src  *helpSource
		want []string
	}{
		{"unset", &helpSource{}, []string{"--shape", "--name"}},
		{"if_unset option set", &helpSource{Name: "x"}, []string{"--shape"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := option.BuildIndex(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			out := String(idx, Settings{ImportantOnly: true})
			for _, flag := range []string{"--shape", "--name", "--[no-]debug", "--size", "--label", "--[no-]silent"} {
				shown := strings.Contains(out, flag+" ")
				wanted := false
				for _, w := range tt.want {
					wanted = wanted || w == flag
				}
				if shown != wanted {
					t.Errorf("flag %s shown = %v, want %v in:\n%s", flag, shown, wanted, out)
				}
			}
		})
	}
}

func TestImportanceFilterSession(t *testing.T) {
	src := &helpSource{}
	s, err := option.NewSetter(src)
	if err != nil {
		t.Fatal(err)
	}
	settings := Settings{ImportantOnly: true, Unset: s.IsUnset}
	if out := String(s.Index(), settings); !strings.Contains(out, "--name") {
		t.Fatalf("unset if_unset option hidden:\n%s", out)
	}
	// Writing an empty string still counts as set within the session.
	if err := s.SetOptionValue("name", ""); err != nil {
		t.Fatal(err)
	}
	if out := String(s.Index(), settings); strings.Contains(out, "--name") {
		t.Fatalf("set if_unset option shown:\n%s", out)
	}
	if out := String(s.Index(), Settings{}); !strings.Contains(out, "--name") {
		t.Fatalf("unfiltered help hides --name:\n%s", out)
	}
}

func TestRenderColor(t *testing.T) {
	idx, err := option.BuildIndex(&serverSource{})
	if err != nil {
		t.Fatal(err)
	}
	plain := String(idx, Settings{})
	colored := String(idx, Settings{Color: true})
	if strings.Contains(plain, "\x1b[") {
		t.Fatalf("plain help has escape codes: %q", plain)
	}
	if !strings.Contains(colored, "\x1b[") {
		t.Fatalf("colored help has no escape codes: %q", colored)
	}
}
