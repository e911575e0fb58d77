// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"io"
	"strings"

	"github.com/wavetermdev/htmltoken"
)

const paramPrefix = "#param:"

// directiveTable maps a "v-xxx" attribute name (without the "v-" prefix and
// without any ":arg") to the DirectiveKind it produces. One table, one
// dispatch point — matching the single directiveToMount-style switch the
// rest of the corpus favors over a directive being handled ad hoc wherever
// it is read.
var directiveTable = map[string]DirectiveKind{
	"if":     DirIf,
	"else-if": DirElseIf,
	"else":   DirElse,
	"for":    DirFor,
	"on":     DirOn,
	"bind":   DirBind,
	"model":  DirModel,
	"show":   DirShow,
	"once":   DirOnce,
	"pre":    DirPre,
	"html":   DirHtml,
}

// parse tokenizes src with htmltoken and builds a raw Node tree: directive
// attributes are recognized and stored on Node.Directives but not yet acted
// on — that happens in transform.go, which runs as a second pass over this
// tree.
func parse(src string) (*Node, []Diagnostic) {
	var diags []Diagnostic
	root := &Node{Kind: NodeRoot}
	stack := []*Node{root}

	top := func() *Node { return stack[len(stack)-1] }
	push := func(n *Node) { stack = append(stack, n) }
	pop := func() {
		if len(stack) <= 1 {
			return
		}
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		parent := top()
		parent.Children = append(parent.Children, n)
	}
	appendLeaf := func(n *Node) {
		top().Children = append(top().Children, n)
	}

	r := strings.NewReader(src)
	iter := htmltoken.NewTokenizer(r)
outer:
	for {
		tt := iter.Next()
		tok := iter.Token()
		switch tt {
		case htmltoken.StartTagToken:
			push(elementFromToken(tok, &diags))
		case htmltoken.SelfClosingTagToken:
			n := elementFromToken(tok, &diags)
			appendLeaf(n)
		case htmltoken.EndTagToken:
			if len(stack) <= 1 {
				diags = append(diags, Diagnostic{Code: ErrMismatchedTag, Message: "end tag without a matching start tag: " + tok.Data})
				break outer
			}
			if top().Tag != tok.Data {
				diags = append(diags, Diagnostic{Code: ErrMismatchedTag, Message: "end tag " + tok.Data + " does not match start tag " + top().Tag})
				break outer
			}
			pop()
		case htmltoken.TextToken:
			for _, n := range parseTextRun(tok.Data) {
				appendLeaf(n)
			}
		case htmltoken.CommentToken:
			appendLeaf(&Node{Kind: NodeComment, Text: tok.Data})
		case htmltoken.DoctypeToken:
			diags = append(diags, Diagnostic{Code: ErrDoctypeUnsupported, Message: "doctype is not supported in templates"})
			break outer
		case htmltoken.ErrorToken:
			if iter.Err() == io.EOF {
				break outer
			}
			diags = append(diags, Diagnostic{Code: ErrUnclosedTag, Message: iter.Err().Error()})
			break outer
		}
	}
	for len(stack) > 1 {
		diags = append(diags, Diagnostic{Code: ErrUnclosedTag, Message: "unclosed tag: " + top().Tag})
		pop()
	}
	return root, diags
}

func elementFromToken(tok htmltoken.Token, diags *[]Diagnostic) *Node {
	n := &Node{Kind: NodeElement, Tag: tok.Data}
	for _, a := range tok.Attr {
		if strings.HasPrefix(a.Key, "v-") {
			rest := a.Key[len("v-"):]
			name, arg, _ := strings.Cut(rest, ":")
			kind, ok := directiveTable[name]
			if !ok {
				*diags = append(*diags, Diagnostic{Code: ErrBadDirective, Message: "unknown directive v-" + rest, Path: tok.Data})
				continue
			}
			n.Directives = append(n.Directives, Directive{Kind: kind, Arg: arg, Expr: a.Val})
			continue
		}
		n.Attrs = append(n.Attrs, Attr{Name: a.Key, Value: a.Val, IsExpr: strings.HasPrefix(a.Val, paramPrefix)})
	}
	return n
}

// parseTextRun splits a text token on {{ expr }} interpolation boundaries
// into a sequence of NodeText / NodeInterp siblings. Pure whitespace runs
// collapse to a single space (spec §4.1.1's whitespace handling).
func parseTextRun(s string) []*Node {
	if s == "" {
		return nil
	}
	var out []*Node
	for {
		start := strings.Index(s, "{{")
		if start < 0 {
			if t := collapseText(s); t != "" {
				out = append(out, &Node{Kind: NodeText, Text: t})
			}
			return out
		}
		if t := collapseText(s[:start]); t != "" {
			out = append(out, &Node{Kind: NodeText, Text: t})
		}
		end := strings.Index(s[start:], "}}")
		if end < 0 {
			// unterminated interpolation: treat the rest as literal text
			if t := collapseText(s[start:]); t != "" {
				out = append(out, &Node{Kind: NodeText, Text: t})
			}
			return out
		}
		expr := strings.TrimSpace(s[start+2 : start+end])
		out = append(out, &Node{Kind: NodeInterp, Expr: expr})
		s = s[start+end+2:]
	}
}

func collapseText(s string) string {
	if s == "" {
		return ""
	}
	if isAllWs(s) {
		return " "
	}
	return strings.TrimSpace(s)
}

func isAllWs(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
