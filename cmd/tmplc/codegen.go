// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/flowkit/flowui/compiler"
)

// genFile holds one compiled template's generated Go source, keyed by the
// path it should be written to.
type genFile struct {
	OutPath string
	Source  []byte
}

// compileAndGenerate runs the full ahead-of-time pipeline spec §9 describes
// for exactly one .thtml source file: parse/transform/hoist it via
// compiler.Compile (surfacing every diagnostic as a build-time error
// instead of a first-render-time one), then emit a Go source file that
// embeds the validated template text behind a package-level
// compiler.MustCompile call, so a program importing the generated package
// pays the parse/transform/hoist cost once per process, at package init,
// instead of at a component's first render.
func compileAndGenerate(srcPath, pkgName, outDir string) (*genFile, error) {
	raw, err := readFile(srcPath)
	if err != nil {
		return nil, err
	}
	if _, err := compiler.Compile(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", srcPath, err)
	}

	name := exportedName(srcPath)
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by tmplc %s from %s. DO NOT EDIT.\n\n", compiler.Version, filepath.Base(srcPath))
	fmt.Fprintf(&b, "package %s\n\n", pkgName)
	b.WriteString("import \"github.com/flowkit/flowui/compiler\"\n\n")
	fmt.Fprintf(&b, "const %sSource = %s\n\n", name, strconv.Quote(raw))
	fmt.Fprintf(&b, "var %sTemplate = compiler.MustCompile(%sSource)\n", name, name)

	formatted, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("%s: generated source did not format (internal codegen bug): %w", srcPath, err)
	}
	if err := validateGoSource(srcPath, formatted); err != nil {
		return nil, err
	}

	outName := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath)) + "_gen.go"
	return &genFile{OutPath: filepath.Join(outDir, outName), Source: formatted}, nil
}

// validateGoSource re-parses generated source with go/parser, the same
// AST-based check build/build-ast.go runs over a user's app.go before
// shipping it: a codegen bug that emits syntactically invalid Go is
// reported here, against the generator, rather than surfacing later as a
// cryptic error from whatever builds the generated package.
func validateGoSource(srcPath string, src []byte) error {
	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, srcPath+"_gen.go", src, parser.AllErrors); err != nil {
		return fmt.Errorf("%s: generated Go source is invalid: %w", srcPath, err)
	}
	return nil
}

// exportedName turns a template file's base name into an exported Go
// identifier prefix ("counter-button.thtml" -> "CounterButton"), the
// naming scheme the generated consts/vars share.
func exportedName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	upperNext := true
	for _, r := range base {
		if r == '-' || r == '_' || r == '.' || unicode.IsSpace(r) {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		} else {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "Template"
	}
	return name
}
