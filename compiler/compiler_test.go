// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"testing"

	"github.com/flowkit/flowui/vdom"
)

func TestCompileStaticTextIsHoisted(t *testing.T) {
	tpl, err := Compile(`<div><h1>hello world</h1></div>`)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if len(tpl.hoisted) == 0 {
		t.Fatalf("expected the static <div> to be hoisted")
	}
	ctx := NewRenderContext()
	out := tpl.Render(ctx, map[string]any{})
	if len(out.Children) != 1 || out.Children[0].Tag != "div" {
		t.Fatalf("unexpected render output: %+v", out)
	}
	if !out.Children[0].IsStatic() {
		t.Fatalf("expected the root div to be marked static/hoisted")
	}
}

func TestCompileInterpolationIsDynamic(t *testing.T) {
	tpl, err := Compile(`<div>count: {{ count }}</div>`)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	ctx := NewRenderContext()
	out := tpl.Render(ctx, map[string]any{"count": 3})
	div := out.Children[0]
	if div.IsStatic() {
		t.Fatalf("expected the div to not be hoisted since it has a dynamic interpolation child")
	}
	if div.Children[1].Text != "3" {
		t.Fatalf("expected interpolated text \"3\", got %+v", div.Children[1])
	}
	out2 := tpl.Render(ctx, map[string]any{"count": 4})
	if out2.Children[0].Children[1].Text != "4" {
		t.Fatalf("expected interpolated text \"4\" on second render, got %+v", out2.Children[0].Children[1])
	}
}

func TestCompileVIfSwitchesBranch(t *testing.T) {
	tpl, err := Compile(`<div><span v-if="#param:show">yes</span><span v-else>no</span></div>`)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	ctx := NewRenderContext()
	out := tpl.Render(ctx, map[string]any{"show": true})
	if len(out.Children[0].Children) != 1 || out.Children[0].Children[0].Children[0].Text != "yes" {
		t.Fatalf("expected the if-branch to render, got %+v", out.Children[0])
	}
	out = tpl.Render(ctx, map[string]any{"show": false})
	if out.Children[0].Children[0].Children[0].Text != "no" {
		t.Fatalf("expected the else-branch to render, got %+v", out.Children[0])
	}
}

func TestCompileVForProducesKeyedChildren(t *testing.T) {
	tpl, err := Compile(`<ul><li v-for="item in #param:items" key="#param:item" v-bind:class="#param:item">{{ item }}</li></ul>`)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	ctx := NewRenderContext()
	out := tpl.Render(ctx, map[string]any{"items": []any{"a", "b", "c"}})
	ul := out.Children[0]
	if len(ul.Children) != 3 {
		t.Fatalf("expected 3 list items, got %d", len(ul.Children))
	}
	for i, want := range []string{"a", "b", "c"} {
		if ul.Children[i].Key != want {
			t.Fatalf("expected key %q at index %d, got %v", want, i, ul.Children[i].Key)
		}
	}
}

func TestCompileVOnceCachesAcrossRenders(t *testing.T) {
	tpl, err := Compile(`<div v-once>{{ count }}</div>`)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	ctx := NewRenderContext()
	first := tpl.Render(ctx, map[string]any{"count": 1})
	second := tpl.Render(ctx, map[string]any{"count": 2})
	if first.Children[0].Children[0].Text != second.Children[0].Children[0].Text {
		t.Fatalf("expected v-once subtree to stay %q, got %q", first.Children[0].Children[0].Text, second.Children[0].Children[0].Text)
	}
	if first.Children[0].Children[0].Text != "1" {
		t.Fatalf("expected the cached value to be the first render's value, got %q", first.Children[0].Children[0].Text)
	}
}

func TestCompileVPreLeavesDirectivesLiteral(t *testing.T) {
	tpl, err := Compile(`<div v-pre><span v-if="#param:x">{{ x }}</span></div>`)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	ctx := NewRenderContext()
	out := tpl.Render(ctx, map[string]any{"x": true})
	if len(out.Children) != 1 {
		t.Fatalf("expected one root div, got %d", len(out.Children))
	}
	span := out.Children[0].Children[0]
	if span.Tag != "span" || len(span.Children) != 1 || span.Children[0].Text != "{{ x }}" {
		t.Fatalf("expected v-pre to leave the span and its mustache syntax untouched, got %+v", span)
	}
}

func TestCompileMismatchedTagIsDiagnosed(t *testing.T) {
	_, err := Compile(`<div><span></div>`)
	if err == nil {
		t.Fatalf("expected a compile error for mismatched tags")
	}
}

func TestCompileVForWithoutKeyWarns(t *testing.T) {
	tpl, err := Compile(`<ul><li v-for="item in #param:items">{{ item }}</li></ul>`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	found := false
	for _, d := range tpl.Errors() {
		if d.Code == ErrForMissingKey {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an ErrForMissingKey diagnostic for a keyless v-for")
	}
}

func TestCompileDynamicComponentResolvesIsTag(t *testing.T) {
	tpl, err := Compile(`<div><component is="Widget"></component></div>`)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	ctx := NewRenderContext()
	out := tpl.Render(ctx, map[string]any{})
	child := out.Children[0].Children[0]
	if child.Tag != "Widget" {
		t.Fatalf("expected <component is=\"Widget\"> to compile to tag \"Widget\", got %q", child.Tag)
	}
	if _, ok := child.Props["is"]; ok {
		t.Fatalf("expected \"is\" to be consumed, not left as a literal prop, got %+v", child.Props)
	}
}

func TestCompileDynamicComponentResolvesBoundIsTag(t *testing.T) {
	tpl, err := Compile(`<div><component v-bind:is="#param:which"></component></div>`)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	ctx := NewRenderContext()
	out := tpl.Render(ctx, map[string]any{"which": "Gadget"})
	child := out.Children[0].Children[0]
	if child.Tag != "Gadget" {
		t.Fatalf("expected v-bind:is to resolve to tag \"Gadget\", got %q", child.Tag)
	}
}

func TestCompileTemplateTagIsTransparent(t *testing.T) {
	tpl, err := Compile(`<div><template v-if="#param:show"><span>a</span><span>b</span></template></div>`)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	ctx := NewRenderContext()
	out := tpl.Render(ctx, map[string]any{"show": true})
	div := out.Children[0]
	if len(div.Children) != 1 || div.Children[0].Tag != vdom.FragmentTag {
		t.Fatalf("expected <template> to compile to a fragment, not a host element, got %+v", div.Children)
	}
	if len(div.Children[0].Children) != 2 {
		t.Fatalf("expected the fragment to carry both spans as children, got %+v", div.Children[0].Children)
	}
}
