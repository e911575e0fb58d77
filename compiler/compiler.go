// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package compiler

import "github.com/flowkit/flowui/vdom"

// Compile runs the full parse -> transform -> hoist pipeline over src and
// returns the resulting Template. Compile is meant to run once per
// template source (ahead of time, ideally — see cmd/tmplc and spec §9's
// compile-time/runtime split); the returned Template's Render method is
// cheap enough to call on every re-render of every component instance
// using it.
func Compile(src string) (*Template, error) {
	root, diags := parse(src)
	root = transform(root, &diags)

	tpl := &Template{root: root, errs: diags, hoistedBuilt: make(map[*Node]*vdom.VDomElem)}
	hoist(root, &tpl.hoisted)

	dummyCtx := NewRenderContext()
	for _, n := range tpl.hoisted {
		if n.Kind != NodeElement {
			continue
		}
		e := buildElement(tpl, dummyCtx, n, map[string]any{})
		e.PatchFlag = vdom.PatchHoisted
		tpl.hoistedBuilt[n] = e
	}

	if hasBlocking(diags) {
		return tpl, Diagnostic{Code: diags[0].Code, Message: "template has compile errors", Path: diags[0].Path}
	}
	return tpl, nil
}

func hasBlocking(diags []Diagnostic) bool {
	for _, d := range diags {
		switch d.Code {
		case ErrUnclosedTag, ErrMismatchedTag, ErrDoctypeUnsupported, ErrForBadSyntax:
			return true
		}
	}
	return false
}
