// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package compiler

import "strings"

// transform runs the fixed-order directive transform pass over the raw
// parse tree (spec §4.1.2): v-for wraps an element in a NodeFor, runs of
// v-if/v-else-if/v-else siblings collapse into a single NodeIf, v-pre
// subtrees are left untouched, v-once is taken off its element and recorded
// as Node.Once, and every other directive (v-on, v-bind, v-model, v-show,
// v-html) stays attached to its element for codegen to read directly —
// there is nothing structural about them.
func transform(root *Node, diags *[]Diagnostic) *Node {
	root.Children = transformChildren(root.Children, diags)
	return root
}

func transformChildren(children []*Node, diags *[]Diagnostic) []*Node {
	var out []*Node
	i := 0
	for i < len(children) {
		c := children[i]
		if c.Kind != NodeElement {
			out = append(out, transformNode(c, diags))
			i++
			continue
		}
		if d, ok := takeDirective(c, DirFor); ok {
			out = append(out, buildForNode(c, d, diags))
			i++
			continue
		}
		if d, ok := takeDirective(c, DirIf); ok {
			ifNode := &Node{Kind: NodeIf, Branches: []IfBranch{{Cond: d.Expr, Body: transformNode(c, diags)}}}
			i++
			for i < len(children) {
				next := children[i]
				if isInsignificantWhitespace(next) {
					i++
					continue
				}
				if next.Kind != NodeElement {
					break
				}
				if ed, ok := takeDirective(next, DirElseIf); ok {
					ifNode.Branches = append(ifNode.Branches, IfBranch{Cond: ed.Expr, Body: transformNode(next, diags)})
					i++
					continue
				}
				if _, ok := takeDirective(next, DirElse); ok {
					ifNode.Branches = append(ifNode.Branches, IfBranch{Cond: "", Body: transformNode(next, diags)})
					i++
					break
				}
				break
			}
			out = append(out, ifNode)
			continue
		}
		if hasDirective(c, DirElseIf) || hasDirective(c, DirElse) {
			*diags = append(*diags, Diagnostic{Code: ErrElseWithoutIf, Message: "v-else/v-else-if without a preceding v-if", Path: c.Tag})
			i++
			continue
		}
		out = append(out, transformNode(c, diags))
		i++
	}
	return out
}

func isInsignificantWhitespace(n *Node) bool {
	return n.Kind == NodeText && strings.TrimSpace(n.Text) == ""
}

func transformNode(n *Node, diags *[]Diagnostic) *Node {
	if n.Kind != NodeElement {
		return n
	}
	if _, ok := takeDirective(n, DirPre); ok {
		n.Pre = true
		return n // leave subtree entirely unprocessed
	}
	if _, ok := takeDirective(n, DirOnce); ok {
		n.Once = true
	}
	if n.Tag == "slot" {
		n.Kind = NodeSlot
		for _, a := range n.Attrs {
			if a.Name == "name" {
				n.SlotName = a.Value
			}
		}
		return n
	}
	n.Children = transformChildren(n.Children, diags)
	return n
}

func hasDirective(n *Node, kind DirectiveKind) bool {
	for _, d := range n.Directives {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

func takeDirective(n *Node, kind DirectiveKind) (Directive, bool) {
	for i, d := range n.Directives {
		if d.Kind == kind {
			n.Directives = append(n.Directives[:i], n.Directives[i+1:]...)
			return d, true
		}
	}
	return Directive{}, false
}

// buildForNode parses a v-for expression of the form "item in iter",
// "item, index in iter", and takes the list key from a literal key
// attribute or a v-bind:key directive on the same element (spec §4.4.5 —
// keyed-diff needs a stable key to do anything useful). A v-for with no key
// still compiles: it gets an ErrForMissingKey warning, leaves ForKey empty,
// and falls back to index-based patching.
func buildForNode(elem *Node, d Directive, diags *[]Diagnostic) *Node {
	left, iter, ok := strings.Cut(d.Expr, " in ")
	if !ok {
		*diags = append(*diags, Diagnostic{Code: ErrForBadSyntax, Message: "v-for must be of the form \"item in expr\" or \"item, index in expr\", got: " + d.Expr, Path: elem.Tag})
		return elem
	}
	left = strings.TrimSpace(left)
	iter = strings.TrimSpace(iter)
	item, index, _ := strings.Cut(left, ",")
	item = strings.TrimSpace(item)
	index = strings.TrimSpace(index)

	var key string
	for i, a := range elem.Attrs {
		if a.Name == "key" {
			key = a.Value
			elem.Attrs = append(elem.Attrs[:i], elem.Attrs[i+1:]...)
			break
		}
	}
	if key == "" {
		for i, kd := range elem.Directives {
			if kd.Kind == DirBind && kd.Arg == "key" {
				key = kd.Expr
				elem.Directives = append(elem.Directives[:i], elem.Directives[i+1:]...)
				break
			}
		}
	}
	if key == "" {
		*diags = append(*diags, Diagnostic{Code: ErrForMissingKey, Message: "v-for without a key falls back to index-based patching, which cannot detect moves", Path: elem.Tag})
	}

	body := transformNode(elem, diags)
	return &Node{
		Kind:     NodeFor,
		ForItem:  item,
		ForIndex: index,
		ForIter:  iter,
		ForKey:   key,
		ForBody:  body,
	}
}
