// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package renderer

import (
	"github.com/flowkit/flowui/scheduler"
	"github.com/flowkit/flowui/vdom"
)

// mounted is the persistent tree the Reconciler keeps between renders: one
// node per mounted VDomElem, holding whatever the previous patch produced
// (the native host node(s) and, for components, the Instance) so the next
// patch has something to diff against. This plays the role of the
// teacher's engine.ComponentImpl, generalized from a single concrete
// rendering target to the generic host node type N.
type mounted[N any] struct {
	Tag  string
	Key  any
	Text string

	Native N // valid for element/text/comment nodes

	Children []*mounted[N] // element/fragment children, in sibling order
	Inst     *Instance     // set when this node is a component instance

	Elem *vdom.VDomElem // the VDomElem this node was last patched against
}

// Reconciler owns one mounted tree and drives HostBackend[N] to keep it in
// sync with the VDomElem a component tree produces, per spec §4.4. It is
// grounded on engine.RootElem, generalized from tsunami's single built-in
// HTML/RPC target to any HostBackend.
type Reconciler[N any] struct {
	backend     HostBackend[N]
	sched       *scheduler.Scheduler
	components  map[string]CompFunc
	propSchemas map[string]PropSchema

	root      *mounted[N]
	container N
}

// NewReconciler creates a Reconciler driving backend, with its own
// scheduler for render-effect batching (spec §4.4.6).
func NewReconciler[N any](backend HostBackend[N]) *Reconciler[N] {
	return &Reconciler[N]{
		backend:     backend,
		sched:       scheduler.New(),
		components:  make(map[string]CompFunc),
		propSchemas: make(map[string]PropSchema),
	}
}

// RegisterComponent makes tag resolvable as a custom element in patch(),
// the same registration step as engine.RootElem.RegisterComponent, minus
// the reflection-based signature validation: CompFunc already fixes the
// signature at the Go type level.
func (r *Reconciler[N]) RegisterComponent(tag string, fn CompFunc) {
	r.components[tag] = fn
}

// RegisterComponentWithProps is RegisterComponent plus a declared prop
// schema (spec §4.4.8): every mount/update of tag runs its raw props map
// through resolveProps against schema before the component function ever
// sees them, applying default values and Boolean/String casting.
func (r *Reconciler[N]) RegisterComponentWithProps(tag string, fn CompFunc, schema PropSchema) {
	r.components[tag] = fn
	r.propSchemas[tag] = schema
}

// Scheduler exposes the reconciler's job scheduler so callers (reactivity
// Refs driving a top-level render effect, hook-based side effects) can
// queue follow-up work through the same pre/post-flush batching the
// renderer itself uses.
func (r *Reconciler[N]) Scheduler() *scheduler.Scheduler {
	return r.sched
}

// Mount renders elem into container for the first time and flushes the
// scheduler so any effects queued during the initial render run before
// Mount returns.
func (r *Reconciler[N]) Mount(container N, elem *vdom.VDomElem) {
	r.container = container
	r.root = r.patch(container, zero[N](), nil, elem, nil)
	r.sched.Flush()
}

// Unmount tears down the entire mounted tree.
func (r *Reconciler[N]) Unmount() {
	if r.root == nil {
		return
	}
	r.unmount(r.root)
	r.root = nil
}

// Update re-renders the mounted root against a freshly produced elem
// (e.g. the app's top-level render function was called again by hand,
// outside of any component's own render effect) and flushes.
func (r *Reconciler[N]) Update(elem *vdom.VDomElem) {
	r.root = r.patch(r.container, zero[N](), r.root, elem, nil)
	r.sched.Flush()
}

func zero[N any]() N {
	var n N
	return n
}

func getKey(elem *vdom.VDomElem) any {
	if elem == nil {
		return nil
	}
	if elem.Key != nil {
		return elem.Key
	}
	if elem.Props != nil {
		if k, ok := elem.Props[vdom.KeyPropKey]; ok {
			return k
		}
	}
	return nil
}

// sameType reports whether old can be patched in place against elem, or
// whether it must be torn down and recreated (different tag or key, per
// spec §4.4.1).
func sameType[N any](old *mounted[N], elem *vdom.VDomElem) bool {
	if old == nil || elem == nil {
		return false
	}
	if old.Tag != elem.Tag {
		return false
	}
	return old.Key == getKey(elem)
}

// patch is the dispatch spec §4.4.1 describes: text, fragment, component,
// or plain element, each routed to its own patch function. A nil elem
// means "render nothing here", unmounting old if present.
func (r *Reconciler[N]) patch(parent N, anchor N, old *mounted[N], elem *vdom.VDomElem, parentInst *Instance) *mounted[N] {
	if elem == nil || elem.Tag == "" {
		if old != nil {
			r.unmount(old)
		}
		return nil
	}
	if !sameType(old, elem) {
		if old != nil {
			r.unmount(old)
		}
		old = nil
	}
	switch elem.Tag {
	case vdom.TextTag:
		return r.patchText(parent, anchor, old, elem)
	case vdom.FragmentTag:
		return r.patchFragment(parent, anchor, old, elem, parentInst)
	}
	if fn, ok := r.components[elem.Tag]; ok {
		return r.patchComponent(parent, anchor, old, elem, fn, parentInst)
	}
	return r.patchElement(parent, anchor, old, elem, parentInst)
}

func (r *Reconciler[N]) patchText(parent N, anchor N, old *mounted[N], elem *vdom.VDomElem) *mounted[N] {
	if old == nil {
		n := r.backend.CreateText(elem.Text)
		r.backend.Insert(parent, n, anchor)
		return &mounted[N]{Tag: vdom.TextTag, Native: n, Text: elem.Text, Elem: elem}
	}
	if old.Text != elem.Text {
		r.backend.SetText(old.Native, elem.Text)
		old.Text = elem.Text
	}
	old.Elem = elem
	return old
}

func (r *Reconciler[N]) unmount(m *mounted[N]) {
	if m == nil {
		return
	}
	if m.Inst != nil {
		r.unmountInstance(m.Inst)
	}
	for _, c := range m.Children {
		r.unmount(c)
	}
	if !r.backend.IsNil(m.Native) {
		r.backend.Remove(m.Native)
	}
	resolveRef(m.Elem, false)
}

func (r *Reconciler[N]) unmountInstance(inst *Instance) {
	if inst.unmounted {
		return
	}
	runLifecycle(inst.beforeUnmount)
	inst.unmounted = true
	inst.runUnmountHooks()
	if inst.effect != nil {
		inst.effect.Stop()
	}
	runLifecycle(inst.unmountedHooks)
}
