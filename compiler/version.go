// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// Version is the render-program surface's version (spec §6.2): the shape
// of the hoist table, asset prelude, and render expression tree that
// cmd/tmplc embeds into generated Go source. It advances only when that
// shape changes in a way a previously generated file could not tolerate.
const Version = "v1.0.0"

// MustCompile is Compile for callers (generated code, cmd/tmplc) that
// already know src is supposed to be valid — either because cmd/tmplc
// validated it ahead of time, or because it's being compiled fresh at
// program startup and a bad template is a programming error, not
// something to recover from at runtime.
func MustCompile(src string) *Template {
	tpl, err := Compile(src)
	if err != nil {
		panic(fmt.Sprintf("compiler: MustCompile: %v", err))
	}
	return tpl
}

// CompatibleVersion reports whether a render-program generated against
// genVersion can be loaded by this build of the compiler/renderer: the
// major version must match exactly (a major bump means the operator set
// in §6.2 changed shape). cmd/tmplc writes Version into the "Code
// generated by tmplc" header comment of every file it emits; nothing in
// this module calls CompatibleVersion on that header.
func CompatibleVersion(genVersion string) bool {
	if !semver.IsValid(genVersion) || !semver.IsValid(Version) {
		return false
	}
	return semver.Major(genVersion) == semver.Major(Version)
}
