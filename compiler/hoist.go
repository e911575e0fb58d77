// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package compiler

// hoist walks the transformed tree marking every subtree that has no
// dynamic attribute, directive, or interpolation anywhere in it as static
// (spec §4.1.4 "static hoisting"). Per the Open Question decision recorded
// in DESIGN.md, hoisting is all-or-nothing per subtree: a node with even
// one dynamic descendant is not hoisted, even though part of it could be.
// Static nodes are collected into tpl.hoisted so codegen can build them
// exactly once and reuse the same *vdom.VDomElem pointer on every render.
func hoist(root *Node, hoisted *[]*Node) {
	markStatic(root, hoisted)
}

func markStatic(n *Node, hoisted *[]*Node) bool {
	if n == nil {
		return true
	}
	switch n.Kind {
	case NodeText, NodeComment:
		n.static = true
	case NodeInterp, NodeIf, NodeFor, NodeSlot:
		n.static = false
	case NodeRoot, NodeElement:
		static := !n.Once
		for _, a := range n.Attrs {
			if a.IsExpr {
				static = false
			}
		}
		if len(n.Directives) > 0 {
			static = false
		}
		for _, c := range n.Children {
			if !markStatic(c, hoisted) {
				static = false
			}
		}
		n.static = static
	}
	if n.static && n.Kind != NodeRoot {
		*hoisted = append(*hoisted, n)
	}
	return n.static
}
