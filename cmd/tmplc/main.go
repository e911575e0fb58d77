// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Command tmplc is the ahead-of-time template compiler CLI (spec §9's
// "compile-time vs runtime split"): it runs the compiler package's
// parse/transform/hoist pipeline over .thtml source files, reporting every
// diagnostic at build time, and emits Go source that embeds the validated
// template text. The generated file imports the compiler package and
// compiles the embedded text again with compiler.MustCompile at package
// init, so the compiler still ships in the program's runtime dependencies.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowkit/flowui/compiler"
)

var (
	outDir  string
	pkgName string
)

var rootCmd = &cobra.Command{
	Use:   "tmplc",
	Short: "tmplc - ahead-of-time template compiler",
	Long:  `tmplc compiles .thtml template files into Go source implementing the render-program surface.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the render-program surface version tmplc generates against",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(compiler.Version)
	},
}

var buildCmd = &cobra.Command{
	Use:   "build [template files...]",
	Short: "Compile .thtml template files into generated Go source",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", outDir, err)
		}
		for _, src := range args {
			gen, err := compileAndGenerate(src, pkgName, outDir)
			if err != nil {
				return err
			}
			if err := writeFile(gen.OutPath, gen.Source); err != nil {
				return err
			}
			fmt.Printf("tmplc: %s -> %s\n", src, gen.OutPath)
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&outDir, "out", "o", "generated", "output directory for generated Go source")
	buildCmd.Flags().StringVar(&pkgName, "package", "templates", "package name for generated Go source")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(buildCmd)
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
