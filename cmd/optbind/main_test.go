// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runOutput(t *testing.T, args, environ []string) string {
	t.Helper()
	var out bytes.Buffer
	if err := run(args, environ, &out); err != nil {
		t.Fatalf("run(%q) error: %v", args, err)
	}
	return out.String()
}

func TestRunTable(t *testing.T) {
	out := runOutput(t, []string{"-i", "app.log", "--severity", "warn", "--upload:retries", "5", "--", "extra"}, nil)
	for _, want := range []string{
		"OPTION",
		"input",
		"[app.log]",
		"WARN",
		"upload:retries",
		"args: extra",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunJSON(t *testing.T) {
	dir := t.TempDir()
	opts := filepath.Join(dir, "opts.toml")
	if err := os.WriteFile(opts, []byte("input = [\"a.log\"]\nmax-errors = 50\n\"upload:retries\" = 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	environ := []string{"OPTBIND_FORMAT=json", "OPTBIND_MAX_ERRORS=10", "OPTBIND_UPLOAD__RETRIES=1"}
	out := runOutput(t, []string{"--options-file", opts, "--input", "b.log", "--max-errors", "20"}, environ)

	var r report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	got := map[string]boundValue{}
	for _, v := range r.Options {
		got[v.Name] = v
	}
	if v := got["max-errors"]; v.Value != "10" || v.Source != "bound" {
		t.Errorf("max-errors = %+v, want least of 50, 10 and 20", v)
	}
	if v := got["upload:retries"]; v.Value != "2" {
		t.Errorf("upload:retries = %+v, want greatest of 2 and 1", v)
	}
	inputs, _ := got["input"].Value.([]any)
	if len(inputs) != 2 || inputs[0] != "a.log" || inputs[1] != "b.log" {
		t.Errorf("input = %#v, want [a.log b.log]", got["input"].Value)
	}
	if v := got["follow"]; v.Source != "default" || v.Set {
		t.Errorf("follow = %+v, want unset default", v)
	}
}

func TestRunMandatory(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"--follow"}, nil, &out)
	if err == nil || !strings.Contains(err.Error(), "found missing mandatory options: input") {
		t.Fatalf("run error = %v", err)
	}
}

func TestRunHelp(t *testing.T) {
	out := runOutput(t, []string{"--help"}, nil)
	for _, want := range []string{
		"-i, --input",
		"--[no-]follow",
		"Valid values: [DEBUG, INFO, WARN, ERROR]",
		"'upload' OPTIONS:",
		"--upload:retries",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q:\n%s", want, out)
		}
	}

	important := runOutput(t, []string{"--help", "--important"}, nil)
	if !strings.Contains(important, "--input") || strings.Contains(important, "--[no-]follow") {
		t.Errorf("important help:\n%s", important)
	}
}

func TestRunWriteEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "optbind.env")
	runOutput(t, []string{"-i", "a.log", "-x", "noisy", "--write-env", path}, nil)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"OPTBIND_INPUT=a.log\n", "OPTBIND_EXCLUDE=noisy\n", "OPTBIND_SEVERITY=INFO\n", "OPTBIND_UPLOAD__RETRIES=3\n"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("env file missing %q:\n%s", want, data)
		}
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr string
	}{
		{[]string{"-i", "a", "--format", "xml"}, `unknown format "xml"`},
		{[]string{"--bogus"}, "unknown option --bogus"},
		{[]string{"--retries", "3"}, "not in the global namespace"},
		{[]string{"--report-id", "not-a-uuid"}, `couldn't set option "report-id"`},
		{[]string{"--options-file", "opts.ini"}, "failed to read options file"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		err := run(tt.args, nil, &out)
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("run(%q) error = %v, want %q", tt.args, err, tt.wantErr)
		}
	}
}
