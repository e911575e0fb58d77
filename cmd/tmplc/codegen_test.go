// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCompileAndGenerateEmitsValidGoSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "hello-world.thtml")
	if err := os.WriteFile(src, []byte(`<div>count: {{ count }}</div>`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	out := t.TempDir()

	gen, err := compileAndGenerate(src, "templates", out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(gen.OutPath, "hello-world_gen.go") {
		t.Fatalf("unexpected output path: %s", gen.OutPath)
	}
	if !strings.Contains(string(gen.Source), "HelloWorldTemplate = compiler.MustCompile(HelloWorldSource)") {
		t.Fatalf("generated source missing expected template var, got:\n%s", gen.Source)
	}
	if !strings.Contains(string(gen.Source), "package templates") {
		t.Fatalf("generated source missing package clause, got:\n%s", gen.Source)
	}
}

func TestCompileAndGenerateRejectsBrokenTemplate(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.thtml")
	if err := os.WriteFile(src, []byte(`<div><span></div>`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := compileAndGenerate(src, "templates", t.TempDir()); err == nil {
		t.Fatalf("expected a compile error for mismatched tags")
	}
}

func TestExportedName(t *testing.T) {
	cases := map[string]string{
		"counter.thtml":        "Counter",
		"counter-button.thtml": "CounterButton",
		"counter_button.thtml": "CounterButton",
	}
	for in, want := range cases {
		if got := exportedName(in); got != want {
			t.Fatalf("exportedName(%q) = %q, want %q", in, got, want)
		}
	}
}
