// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argsopt parses command-line arguments into option sources.
//
// # Syntax
//
//   - --name value, --name=value: set a valued option.
//   - --name, --no-name: set a boolean option to true or false. A boolean
//     never consumes the next argument, but --name=false is accepted.
//   - -x value, -xvalue: the same by short alias.
//   - -abc: clustered short aliases. Booleans are toggled on; the first
//     valued alias takes the rest of the token, or the next argument.
//   - -x=false, -ab=false: a boolean short alias followed by '=' takes
//     the rest of the token as its value.
//   - --map key=value, --map key value: add an entry to a map option.
//   - ns:name: any long name may carry a namespace, as in --alias:name.
//   - --: everything after it is positional.
//
// A value following a valued long option is always consumed, even when it
// begins with "-".
//
//	type Flags struct {
//	    Verbose bool   `option:"verbose" short:"v"`
//	    Output  string `option:"output" short:"o"`
//	}
//
//	var f Flags
//	rest, err := argsopt.Parse(os.Args[1:], &f)
package argsopt
