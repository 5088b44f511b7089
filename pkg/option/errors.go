// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package option

import "fmt"

// Error is the single error kind returned by the option packages. It covers
// declaration problems found while building an Index, per-value coercion and
// update-rule failures, and mandatory-option validation.
type Error struct {
	Option string // The option involved, if a single one is (e.g., "my-option")
	Value  string // The offending text, if any
	Msg    string // Human readable message
	Err    error  // Underlying cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errorf(name string, format string, args ...any) *Error {
	return &Error{Option: name, Msg: fmt.Sprintf(format, args...)}
}

func valueErrorf(name, value string, err error, format string, args ...any) *Error {
	return &Error{Option: name, Value: value, Msg: fmt.Sprintf(format, args...), Err: err}
}
