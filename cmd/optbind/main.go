// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command optbind binds the configuration of a log analysis run from an
// options file, the environment and command-line arguments, in that order,
// and prints the result.
//
//	optbind [--options-file FILE] [--format table|json] [--help [--important]] [OPTIONS] [--] [ARGS]
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shayne/yargs"
	"github.com/yeetrun/optbind/pkg/argsopt"
	"github.com/yeetrun/optbind/pkg/optenv"
	"github.com/yeetrun/optbind/pkg/optfile"
	"github.com/yeetrun/optbind/pkg/option"
	"github.com/yeetrun/optbind/pkg/optionhelp"
)

const envPrefix = "OPTBIND"

// metaFlags are handled by optbind itself, never by the option sources.
type metaFlags struct {
	OptionsFile string `flag:"options-file" help:"TOML or YAML file with option values"`
	Format      string `flag:"format" help:"Output format (table|json), default from OPTBIND_FORMAT"`
	WriteEnv    string `flag:"write-env" help:"Also write the bound values to this env file"`
	Help        bool   `flag:"help" short:"h" help:"Show option help"`
	Important   bool   `flag:"important" help:"With --help, only list important options"`
	Debug       bool   `flag:"debug" help:"Log update-rule decisions"`
}

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Environ(), os.Stdout); err != nil {
		log.Fatalf("optbind: %v", err)
	}
}

func run(args, environ []string, stdout io.Writer) error {
	meta, err := yargs.ParseKnownFlags[metaFlags](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return err
	}
	flags := meta.Flags

	analysis, upload := defaultAnalysisConfig(), defaultUploadConfig()
	s, err := option.NewSetter(analysis, upload)
	if err != nil {
		return err
	}
	if flags.Debug {
		s.Logf = log.Printf
	}

	if flags.OptionsFile != "" {
		if err := optfile.Load(s, flags.OptionsFile); err != nil {
			return err
		}
	}
	if err := optenv.Apply(s, envPrefix, environ); err != nil {
		return err
	}
	positional, err := argsopt.New(s, argsopt.Interspersed()).Parse(meta.RemainingArgs)
	if err != nil {
		return err
	}

	if flags.Help {
		settings := optionhelp.Settings{}
		if f, ok := stdout.(*os.File); ok {
			settings = optionhelp.ForTerminal(f)
		}
		settings.ImportantOnly = flags.Important
		settings.Unset = s.IsUnset
		fmt.Fprintln(stdout, "Usage: optbind [--options-file FILE] [--format table|json] [OPTIONS] [--] [ARGS]")
		fmt.Fprintln(stdout)
		return optionhelp.Render(stdout, s.Index(), settings)
	}

	if err := s.ValidateMandatory(); err != nil {
		return err
	}
	if flags.WriteEnv != "" {
		if err := optenv.Write(flags.WriteEnv, s.Index(), envPrefix); err != nil {
			return err
		}
	}

	format := flags.Format
	if format == "" {
		format = lookupEnv(environ, envPrefix+"_FORMAT")
	}
	switch format {
	case "", "table":
		return printTable(stdout, s, positional)
	case "json":
		return printJSON(stdout, s, positional)
	}
	return fmt.Errorf("unknown format %q (want table or json)", format)
}

func lookupEnv(environ []string, key string) string {
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v
		}
	}
	return ""
}

type boundValue struct {
	Name   string `json:"name"`
	Value  any    `json:"value"`
	Source string `json:"source"`
	Set    bool   `json:"set"`
}

type report struct {
	Options []boundValue `json:"options"`
	Args    []string     `json:"args"`
}

func newReport(s *option.Setter, positional []string) report {
	r := report{Args: positional}
	for _, o := range s.Index().Options() {
		name := o.QualifiedName()
		src := "default"
		if s.WasSet(name) {
			src = "bound"
		}
		var v any = o.FormatValue()
		if o.IsCollection() || o.IsMap() {
			v = o.TextValues()
		}
		r.Options = append(r.Options, boundValue{
			Name:   name,
			Value:  v,
			Source: src,
			Set:    !s.IsUnset(o),
		})
	}
	return r
}

func printJSON(w io.Writer, s *option.Setter, positional []string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newReport(s, positional))
}

func printTable(w io.Writer, s *option.Setter, positional []string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OPTION\tVALUE\tSOURCE")
	for _, o := range s.Index().Options() {
		name := o.QualifiedName()
		src := "default"
		if s.WasSet(name) {
			src = "bound"
		}
		v := o.FormatValue()
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, v, src)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(positional) > 0 {
		fmt.Fprintf(w, "\nargs: %s\n", strings.Join(positional, " "))
	}
	return nil
}
