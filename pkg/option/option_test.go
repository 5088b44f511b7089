// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package option

// Types shared by the tests of this package.

type testEnum int

const (
	val1 testEnum = iota
	val2
	val3
)

func (testEnum) EnumConstants() []EnumConstant {
	return []EnumConstant{{"VAL1", val1}, {"VAL2", val2}, {"VAL3", val3}}
}

type mixedCase int

func (mixedCase) EnumConstants() []EnumConstant {
	return []EnumConstant{{"Alpha", mixedCase(0)}, {"BETA", mixedCase(1)}}
}
