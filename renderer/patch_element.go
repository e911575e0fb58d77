// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package renderer

import (
	"reflect"

	"github.com/flowkit/flowui/vdom"
)

// patchElement handles a plain (non-component, non-text, non-fragment)
// tag: create-or-reuse the native node, patch its props, then patch its
// children (spec §4.4.2).
func (r *Reconciler[N]) patchElement(parent N, anchor N, old *mounted[N], elem *vdom.VDomElem, parentInst *Instance) *mounted[N] {
	var m *mounted[N]
	if old == nil {
		n := r.backend.CreateElement(elem.Tag)
		for k, v := range elem.Props {
			r.backend.SetProp(n, k, v)
		}
		r.backend.Insert(parent, n, anchor)
		m = &mounted[N]{Tag: elem.Tag, Key: getKey(elem), Native: n}
		resolveRef(elem, true)
	} else {
		m = old
		r.patchProps(m.Native, old.Elem, elem)
		if old.Elem != elem {
			resolveRef(old.Elem, false)
			resolveRef(elem, true)
		}
	}
	m.Elem = elem
	m.Children = r.patchChildren(m.Native, m.Children, elem, parentInst)
	return m
}

// patchProps applies only the props the compiler marked dynamic when
// PatchFlag gives it a fast path; otherwise (PatchBail, or a hand-built
// element with PatchNone) it falls back to a full old-vs-new prop diff,
// same escalation the spec's element-patch section describes.
func (r *Reconciler[N]) patchProps(n N, oldElem, newElem *vdom.VDomElem) {
	if oldElem == nil {
		for k, v := range newElem.Props {
			r.backend.SetProp(n, k, v)
		}
		return
	}
	if newElem.Once {
		return
	}
	if newElem.PatchFlag.Has(vdom.PatchFullProps) || newElem.PatchFlag == vdom.PatchBail || newElem.PatchFlag == vdom.PatchNone {
		r.patchAllProps(n, oldElem, newElem)
		return
	}
	if len(newElem.DynamicProps) > 0 {
		for _, key := range newElem.DynamicProps {
			newVal := newElem.Props[key]
			if key == "style" {
				r.patchStyle(n, oldElem.Props[key], newVal)
				continue
			}
			if !propEqual(oldElem.Props[key], newVal) {
				r.backend.SetProp(n, key, newVal)
			}
		}
	}
	for key := range oldElem.Props {
		if _, stillPresent := newElem.Props[key]; !stillPresent {
			r.backend.SetProp(n, key, nil)
		}
	}
}

func (r *Reconciler[N]) patchAllProps(n N, oldElem, newElem *vdom.VDomElem) {
	for key, newVal := range newElem.Props {
		if key == "style" {
			r.patchStyle(n, oldElem.Props[key], newVal)
			continue
		}
		oldVal, existed := oldElem.Props[key]
		if !existed || !propEqual(oldVal, newVal) {
			r.backend.SetProp(n, key, newVal)
		}
	}
	for key := range oldElem.Props {
		if _, stillPresent := newElem.Props[key]; !stillPresent {
			r.backend.SetProp(n, key, nil)
		}
	}
}

func propEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av := reflect.ValueOf(a)
	if !av.Comparable() {
		return false
	}
	bv := reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}
	return av.Equal(bv)
}

// patchFragment patches a #fragment node, which has no native wrapper of
// its own: it just reconciles its children in place (spec §4.1.3's
// "fragments have no host representation").
func (r *Reconciler[N]) patchFragment(parent N, anchor N, old *mounted[N], elem *vdom.VDomElem, parentInst *Instance) *mounted[N] {
	var m *mounted[N]
	if old == nil {
		m = &mounted[N]{Tag: vdom.FragmentTag}
	} else {
		m = old
	}
	m.Elem = elem
	m.Children = r.patchChildrenAt(parent, anchor, m.Children, elem, parentInst)
	return m
}

// patchChildren reconciles the children of a mounted element whose native
// parent node is n, always appending at the end of n's existing content
// (no anchor needed since these are the only children n will ever have
// between patches).
func (r *Reconciler[N]) patchChildren(n N, old []*mounted[N], elem *vdom.VDomElem, parentInst *Instance) []*mounted[N] {
	return r.patchChildrenAt(n, zero[N](), old, elem, parentInst)
}

// patchChildrenAt is the full children-patch entry point (spec §4.4.5):
// it picks the keyed LIS-based diff when every child carries a key and
// falls back to a plain index-aligned diff otherwise.
func (r *Reconciler[N]) patchChildrenAt(parent N, endAnchor N, old []*mounted[N], elem *vdom.VDomElem, parentInst *Instance) []*mounted[N] {
	newChildren := elem.Children
	if elem.PatchFlag.Has(vdom.PatchKeyedFragment) || allKeyed(newChildren) {
		return r.patchKeyedChildren(parent, endAnchor, old, newChildren, parentInst)
	}
	return r.patchUnkeyedChildren(parent, endAnchor, old, newChildren, parentInst)
}

func allKeyed(children []vdom.VDomElem) bool {
	if len(children) == 0 {
		return false
	}
	for i := range children {
		if children[i].Key == nil {
			return false
		}
	}
	return true
}

// anchorAfter returns the native node to insert new[i] before: the native
// head of whatever currently-mounted old child follows it, or fall (the
// caller's own end-of-parent anchor) if there is none.
func (r *Reconciler[N]) anchorAfter(old []*mounted[N], idx int, fall N) N {
	for i := idx; i < len(old); i++ {
		if n, ok := firstNative(old[i], r.backend); ok {
			return n
		}
	}
	return fall
}

func firstNative[N any](m *mounted[N], backend HostBackend[N]) (N, bool) {
	if m == nil {
		var z N
		return z, false
	}
	if !backend.IsNil(m.Native) {
		return m.Native, true
	}
	for _, c := range m.Children {
		if n, ok := firstNative(c, backend); ok {
			return n, true
		}
	}
	var z N
	return z, false
}

// patchUnkeyedChildren aligns old and new by index, the simplest possible
// strategy and the one to use whenever the list has no stable keys to
// diff by (spec §4.4.5's unkeyed path).
func (r *Reconciler[N]) patchUnkeyedChildren(parent N, endAnchor N, old []*mounted[N], newChildren []vdom.VDomElem, parentInst *Instance) []*mounted[N] {
	common := len(old)
	if len(newChildren) < common {
		common = len(newChildren)
	}
	result := make([]*mounted[N], len(newChildren))
	for i := 0; i < common; i++ {
		anchor := r.anchorAfter(old, i+1, endAnchor)
		result[i] = r.patch(parent, anchor, old[i], &newChildren[i], parentInst)
	}
	for i := common; i < len(newChildren); i++ {
		result[i] = r.patch(parent, endAnchor, nil, &newChildren[i], parentInst)
	}
	for i := common; i < len(old); i++ {
		r.unmount(old[i])
	}
	return result
}
