// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package compiler implements the template compiler's parse -> transform ->
// generate pipeline (spec §4.1): an HTML-with-directives source string is
// tokenized (github.com/wavetermdev/htmltoken, the same tokenizer the
// teacher's vdom.Bind uses), parsed into an AST, passed through a fixed
// sequence of directive transforms, analyzed for static hoisting, and
// finally turned into a Template whose Render method produces a
// *vdom.VDomElem tree carrying the patch flags and block structure the
// renderer needs for its fast paths.
package compiler

import "github.com/flowkit/flowui/vdom"

// NodeKind discriminates the AST node variants produced by the parser and
// consumed by the transform/codegen stages.
type NodeKind int

const (
	NodeElement NodeKind = iota
	NodeText
	NodeInterp // {{ expr }} style text interpolation
	NodeComment
	NodeIf    // synthesized by the v-if/v-else-if/v-else transform
	NodeFor   // synthesized by the v-for transform
	NodeSlot  // <slot name="...">
	NodeRoot  // document fragment root
)

// Node is one element of the parsed template tree. Not every field is
// meaningful for every Kind; see the transform functions in transform.go
// for which fields each synthesized kind populates.
type Node struct {
	Kind NodeKind

	// NodeElement / NodeSlot
	Tag        string
	Attrs      []Attr
	Directives []Directive
	Children   []*Node

	// NodeText
	Text string

	// NodeInterp
	Expr string

	// NodeIf: Branches holds the if/else-if/else chain in source order;
	// the last branch may have an empty Cond (the else arm).
	Branches []IfBranch

	// NodeFor
	ForItem  string // loop variable name, e.g. "item" in "item in #param:items"
	ForIndex string // optional index variable name, e.g. "i" in "item, i in ..."
	ForKey   string // v-bind:key expression, required for list diffing (§4.4.5)
	ForIter  string // the iterable expression
	ForBody  *Node

	// Slot projection
	SlotName string

	// Pre marks a v-pre subtree: text inside it is kept verbatim (mustache
	// syntax is not interpolated) and directive attributes inside it are
	// dropped rather than interpreted, used for showing raw mustache syntax
	// in documentation-style templates.
	Pre bool
	// Once marks a v-once subtree: it is evaluated against live data on
	// its first render only, then cached for the lifetime of the
	// RenderContext that rendered it (spec §8's v-once boundary test).
	Once bool

	// set by the static-hoisting pass (hoist.go): true when this subtree
	// has no dynamic directive, expression, or interpolation anywhere in
	// it, making it safe to build once and reuse across renders.
	static bool

	// set by the transform pass: the bitmask of what varies about this
	// node across renders, used by codegen to compute the node's
	// vdom.PatchFlag.
	dynamic dynamicBits
}

type IfBranch struct {
	Cond string // empty for the trailing else
	Body *Node
}

type Attr struct {
	Name  string
	Value string
	IsExpr bool // true if Value should be resolved as a "#param:"-style binding rather than a literal string
}

// DirectiveKind enumerates the directive attributes dispatched by
// transform.go's directive table (spec §4.1.1).
type DirectiveKind int

const (
	DirIf DirectiveKind = iota
	DirElseIf
	DirElse
	DirFor
	DirOn
	DirBind
	DirModel
	DirShow
	DirOnce
	DirPre
	DirHtml
)

type Directive struct {
	Kind DirectiveKind
	Arg  string // e.g. "click" in v-on:click, "class" in v-bind:class
	Expr string // the raw attribute value
}

type dynamicBits uint32

const (
	dynText dynamicBits = 1 << iota
	dynClass
	dynStyle
	dynProps
	dynNeedKey
)

// Template is the compiled form of a single parsed source string: a tree of
// Node plus the list of discovered top-level static subtrees. Render can be
// called repeatedly and cheaply once a Template exists — that repeatability
// is the "compile once, render many" contract the AOT split (spec §9) and
// cmd/tmplc both rest on.
type Template struct {
	root         *Node
	hoisted      []*Node
	hoistedBuilt map[*Node]*vdom.VDomElem
	errs         []Diagnostic
}

// Errors returns the diagnostics collected while compiling the template
// (spec §6.4's diagnostic codes). A non-empty Errors does not necessarily
// mean Render will panic — recoverable diagnostics leave a best-effort AST
// in place — but callers should treat it as a compile failure.
func (t *Template) Errors() []Diagnostic {
	return t.errs
}
