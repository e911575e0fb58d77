// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"fmt"

	"github.com/flowkit/flowui/vdom"
	"github.com/flowkit/flowui/vdom/cssparser"
)

func anyToString(v any) string {
	return fmt.Sprint(v)
}

// parseStaticStyle turns a literal style="..." attribute string into a
// props-ready style map at compile time instead of leaving it as an opaque
// string for the renderer to reparse on every mount: a static style
// attribute becomes part of a hoisted subtree exactly like any other
// static prop, and the renderer's patchStyle fast path (patch_style.go)
// can diff it property-by-property the same way it would a v-bind:style
// expression's result. An unparseable string (caller error in the
// template source) falls back to the raw string so rendering still
// proceeds; the compiler does not treat this as a blocking diagnostic.
func parseStaticStyle(raw string) any {
	parsed, err := cssparser.MakeParser(raw).Parse()
	if err != nil {
		return raw
	}
	style := make(map[string]any, len(parsed))
	for k, v := range parsed {
		style[k] = v
	}
	return style
}

// RenderContext carries the per-component-instance state a Template needs
// across repeated renders: the v-once cache must survive across renders of
// the SAME component instance, unlike the Template's static cache, which
// is shared by every instance of the template.
type RenderContext struct {
	onceCache map[*Node]*vdom.VDomElem
}

// NewRenderContext creates a RenderContext to be reused across every
// re-render of one component instance.
func NewRenderContext() *RenderContext {
	return &RenderContext{onceCache: make(map[*Node]*vdom.VDomElem)}
}

// blockChildren scans an already-finalized children slice and returns
// pointers to every direct child whose own PatchFlag marks it dynamic, for
// use as a VDomElem's DynamicChildren (spec §4.1.4's block-tree list).
// Addresses are taken only after the slice's backing array is done
// growing, since append can reallocate and invalidate earlier pointers —
// this implementation tracks one level of block (direct children only),
// not the fully recursive multi-level block Vue uses. The renderer does
// not read DynamicChildren: it always patches through the ordinary
// full-children path.
func blockChildren(children []vdom.VDomElem) []*vdom.VDomElem {
	var dyn []*vdom.VDomElem
	for i := range children {
		if children[i].PatchFlag != vdom.PatchNone {
			dyn = append(dyn, &children[i])
		}
	}
	return dyn
}

// Render produces a *vdom.VDomElem tree from the compiled template against
// data. ctx must be the same RenderContext across every render of a given
// component instance so v-once caching behaves correctly; a fresh
// RenderContext (e.g. for a brand-new component instance) starts every
// v-once node over again on its own first render.
func (t *Template) Render(ctx *RenderContext, data map[string]any) *vdom.VDomElem {
	var children []vdom.VDomElem
	for _, c := range t.root.Children {
		children = append(children, genAny(t, ctx, c, data)...)
	}
	return &vdom.VDomElem{
		Tag:             vdom.FragmentTag,
		Children:        children,
		ShapeFlag:       vdom.ShapeFragment | vdom.ShapeArrayChildren,
		PatchFlag:       vdom.PatchStableFragment,
		DynamicChildren: blockChildren(children),
	}
}

// genAny generates zero or more sibling VDomElems for one AST node: most
// node kinds produce exactly one, but NodeIf (no branch matched) can
// produce zero and NodeFor produces one per iteration.
func genAny(t *Template, ctx *RenderContext, n *Node, data map[string]any) []vdom.VDomElem {
	switch n.Kind {
	case NodeText:
		return []vdom.VDomElem{vdom.TextElem(n.Text)}
	case NodeInterp:
		e := vdom.TextElem(toText(resolve(n.Expr, data)))
		e.PatchFlag = vdom.PatchText
		return []vdom.VDomElem{e}
	case NodeComment:
		return nil
	case NodeIf:
		for _, br := range n.Branches {
			if br.Cond == "" || truthy(resolve(br.Cond, data)) {
				return genAny(t, ctx, br.Body, data)
			}
		}
		return nil
	case NodeFor:
		items := iterate(resolve(n.ForIter, data))
		out := make([]vdom.VDomElem, 0, len(items))
		for i, item := range items {
			scope := cloneScope(data)
			scope[n.ForItem] = item
			if n.ForIndex != "" {
				scope[n.ForIndex] = i
			}
			for _, e := range genAny(t, ctx, n.ForBody, scope) {
				if n.ForKey != "" {
					e.Key = resolve(n.ForKey, scope)
				} else {
					e.Key = i
				}
				e.ShapeFlag |= vdom.ShapeKeyedChildren
				out = append(out, e)
			}
		}
		return out
	case NodeSlot:
		slots, _ := data["$slots"].(map[string][]vdom.VDomElem)
		return slots[n.SlotName]
	case NodeElement:
		e := genElement(t, ctx, n, data)
		return []vdom.VDomElem{*e}
	}
	return nil
}

func cloneScope(data map[string]any) map[string]any {
	out := make(map[string]any, len(data)+2)
	for k, v := range data {
		out[k] = v
	}
	return out
}

func toText(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return anyToString(v)
}

func genElement(t *Template, ctx *RenderContext, n *Node, data map[string]any) *vdom.VDomElem {
	if n.static {
		return t.hoistedBuilt[n]
	}
	if n.Once {
		if cached, ok := ctx.onceCache[n]; ok {
			return cached
		}
		e := buildElement(t, ctx, n, data)
		e.PatchFlag = vdom.PatchHoisted
		ctx.onceCache[n] = e
		return e
	}
	return buildElement(t, ctx, n, data)
}

// buildElement builds the live (non-static, non-cached) form of an
// element node, resolving directive-driven props/children and computing
// the PatchFlag bits the renderer's element-patch fast path reads.
func buildElement(t *Template, ctx *RenderContext, n *Node, data map[string]any) *vdom.VDomElem {
	// <template> is a structural-directive-only wrapper (spec §4.1.1): it
	// has no host representation of its own and compiles to a fragment of
	// its children instead of a literal "template" element, the same way
	// v-if/v-for strip their own directive but keep the element they were
	// attached to — except here the element itself is meant to disappear.
	if n.Tag == "template" {
		return buildTemplateFragment(t, ctx, n, data)
	}

	e := &vdom.VDomElem{Tag: n.Tag, ShapeFlag: vdom.ShapeElement}
	var patch vdom.PatchFlag
	var dynProps []string

	if n.Pre {
		return buildRaw(n)
	}

	props := make(map[string]any)
	for _, a := range n.Attrs {
		if a.IsExpr {
			props[a.Name] = resolve(a.Value, data)
			dynProps = append(dynProps, a.Name)
			switch a.Name {
			case "class", "className":
				patch |= vdom.PatchClass
			case "style":
				patch |= vdom.PatchStyle
			default:
				patch |= vdom.PatchProps
			}
		} else if a.Name == "style" {
			props[a.Name] = parseStaticStyle(a.Value)
		} else {
			props[a.Name] = a.Value
		}
	}
	for _, d := range n.Directives {
		switch d.Kind {
		case DirBind:
			props[d.Arg] = resolve(d.Expr, data)
			dynProps = append(dynProps, d.Arg)
			if d.Arg == "class" {
				patch |= vdom.PatchClass
			} else if d.Arg == "style" {
				patch |= vdom.PatchStyle
			} else {
				patch |= vdom.PatchProps
			}
		case DirOn:
			eventName := "on" + capitalize(d.Arg)
			if fn, ok := resolve(d.Expr, data).(func()); ok {
				props[eventName] = &vdom.VDomFunc{Type: vdom.ObjectType_Func, Fn: fn}
			} else if fn := resolve(d.Expr, data); fn != nil {
				props[eventName] = &vdom.VDomFunc{Type: vdom.ObjectType_Func, Fn: fn}
			}
			patch |= vdom.PatchProps
		case DirModel:
			props["value"] = resolve(d.Expr, data)
			if setter, ok := resolve(d.Expr+".set", data).(func(string)); ok {
				props["onChange"] = &vdom.VDomFunc{Type: vdom.ObjectType_Func, Fn: func(ev *vdom.VDomEvent) { setter(ev.TargetValue) }}
			}
			patch |= vdom.PatchProps
		case DirShow:
			if !truthy(resolve(d.Expr, data)) {
				style, _ := props["style"].(map[string]any)
				if style == nil {
					style = make(map[string]any)
				}
				style["display"] = "none"
				props["style"] = style
			}
			patch |= vdom.PatchStyle
		case DirHtml:
			props["dangerouslySetInnerHTML"] = resolve(d.Expr, data)
			patch |= vdom.PatchProps
		}
	}
	// <component :is="Foo">/<component is="Foo"> dynamic-component
	// resolution (spec §4.1.1): "is" is consumed here to pick which
	// registered component the renderer actually mounts, rather than being
	// left as a literal prop named "is" on a host element literally tagged
	// "component" — the renderer's r.components lookup only ever sees e.Tag.
	if n.Tag == "component" {
		if isVal, ok := props["is"]; ok {
			if isTag, ok := isVal.(string); ok && isTag != "" {
				e.Tag = isTag
			}
			delete(props, "is")
			dynProps = removeString(dynProps, "is")
		}
	}

	if len(props) > 0 {
		e.Props = props
	}
	e.DynamicProps = dynProps

	for _, c := range n.Children {
		e.Children = append(e.Children, genAny(t, ctx, c, data)...)
	}
	if hasDynamicChild(n) {
		e.ShapeFlag |= vdom.ShapeArrayChildren
		e.DynamicChildren = blockChildren(e.Children)
	}
	e.PatchFlag = patch
	return e
}

// buildRaw renders a v-pre subtree verbatim: directive attributes are
// dropped (they were already split out of Attrs at parse time and are
// simply not acted on) and "{{ }}" interpolation syntax is shown as
// literal text instead of being evaluated, matching Vue's v-pre.
func buildRaw(n *Node) *vdom.VDomElem {
	switch n.Kind {
	case NodeText:
		return &vdom.VDomElem{Tag: vdom.TextTag, Text: n.Text}
	case NodeInterp:
		return &vdom.VDomElem{Tag: vdom.TextTag, Text: "{{ " + n.Expr + " }}"}
	case NodeComment:
		return nil
	default:
		e := &vdom.VDomElem{Tag: n.Tag, Props: literalProps(n.Attrs), ShapeFlag: vdom.ShapeElement}
		for _, c := range n.Children {
			if child := buildRaw(c); child != nil {
				e.Children = append(e.Children, *child)
			}
		}
		return e
	}
}

// buildTemplateFragment renders a <template> element transparently: its
// children are generated exactly as they would be as direct children of
// whatever element contains it, wrapped in a fragment node instead of a
// "template" host element, matching Render's own top-level fragment
// construction.
func buildTemplateFragment(t *Template, ctx *RenderContext, n *Node, data map[string]any) *vdom.VDomElem {
	var children []vdom.VDomElem
	for _, c := range n.Children {
		children = append(children, genAny(t, ctx, c, data)...)
	}
	return &vdom.VDomElem{
		Tag:             vdom.FragmentTag,
		Children:        children,
		ShapeFlag:       vdom.ShapeFragment | vdom.ShapeArrayChildren,
		PatchFlag:       vdom.PatchStableFragment,
		DynamicChildren: blockChildren(children),
	}
}

func removeString(ss []string, target string) []string {
	out := ss[:0]
	for _, s := range ss {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}

func hasDynamicChild(n *Node) bool {
	for _, c := range n.Children {
		if !c.static {
			return true
		}
	}
	return false
}

func literalProps(attrs []Attr) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	props := make(map[string]any, len(attrs))
	for _, a := range attrs {
		props[a.Name] = a.Value
	}
	return props
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-32) + s[1:]
	}
	return s
}
