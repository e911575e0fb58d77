// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package renderer

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/flowkit/flowui/reactivity"
	"github.com/flowkit/flowui/vdom"
)

// CompFunc is the shape every component function must have: read props,
// call hooks, return the VDomElem tree to render. Unlike the teacher's
// engine/render.go (callCFunc), which reflect-invokes a typed
// Component[P] whose props crossed an RPC boundary as JSON, components
// here stay in-process Go values end to end, so there is no JSON
// round-trip to drive a reflection call through — a component type-asserts
// its own props out of the any, same as any other Go function taking an
// interface{} argument (see DESIGN.md).
type CompFunc func(props any) *vdom.VDomElem

// Hook is one slot in a component instance's hook list — the same
// Init/Idx/Fn/UnmountFn/Val/Deps shape as the teacher's engine/hooks.go
// Hook struct, reused instance-by-instance instead of tied to a RootElem.
type Hook struct {
	Init      bool
	Idx       int
	Fn        func() func()
	UnmountFn func()
	Val       any
	Deps      []any
}

// Instance is one mounted component's bookkeeping: its identity, its
// render function and current props, its hook slots, its render effect,
// its mounted VNode tree, and its place in the component tree (for
// dependency injection and error-capture propagation, spec §4.5 and §7).
//
// Instance is deliberately NOT parametric in the host node type N: hooks
// and the global current-instance pointer (context.go) need a single
// concrete type to hang off of regardless of which Reconciler[N] owns the
// instance. The generic Reconciler[N] keeps the instance -> mounted native
// nodes association in its own map instead.
type Instance struct {
	Id     string
	jobId  int64 // stable scheduler job key, for QueuePreFlush dedup
	Tag    string
	Fn     CompFunc
	Props  any
	Parent *Instance

	hooks          []*Hook
	hookIdx        int
	pendingEffects []*Hook

	VNode     *vdom.VDomElem
	mounted   bool
	unmounted bool

	effect *reactivity.Effect

	provides map[string]any

	renderErr error

	// lifecycle hook arrays (spec §6.3): registration inside a component
	// function during its render appends to the array bound to the
	// currently-rendering instance, mirroring the teacher's per-component
	// Hooks slice but keyed by lifecycle name instead of call position,
	// since these fire on an event (mount/update/unmount/error), not once
	// per render.
	beforeMount    []func()
	mountedHooks   []func()
	beforeUpdate   []func()
	updatedHooks   []func()
	beforeUnmount  []func()
	unmountedHooks []func()
	errorCaptured  []func(error) bool
}

var instanceJobSeq int64

func newInstance(tag string, fn CompFunc, props any, parent *Instance) *Instance {
	return &Instance{
		Id:     uuid.New().String(),
		jobId:  atomic.AddInt64(&instanceJobSeq, 1),
		Tag:    tag,
		Fn:     fn,
		Props:  props,
		Parent: parent,
	}
}

// nextHook returns this render's ordered hook slot, growing the slice if
// this is the first time a hook at this index has been called — exactly
// the teacher's engine/hooks.go getOrderedHook discipline (hooks must be
// called unconditionally and in the same order every render).
func (inst *Instance) nextHook() *Hook {
	for len(inst.hooks) <= inst.hookIdx {
		inst.hooks = append(inst.hooks, &Hook{Idx: len(inst.hooks)})
	}
	h := inst.hooks[inst.hookIdx]
	inst.hookIdx++
	return h
}

// runUnmountHooks runs every hook's UnmountFn, in slot order, exactly once
// (spec §6.3's unmount lifecycle step, grounded on engine/rootelem.go's
// runEffectUnmount/runEffect pairing).
func (inst *Instance) runUnmountHooks() {
	for _, h := range inst.hooks {
		if h.UnmountFn != nil {
			fn := h.UnmountFn
			h.UnmountFn = nil
			fn()
		}
	}
}

// provide stores a DI value reachable from this instance and its
// descendants (spec §4.5), lazily allocating the provides map — most
// components never provide anything.
func (inst *Instance) provide(key string, val any) {
	if inst.provides == nil {
		inst.provides = make(map[string]any)
	}
	inst.provides[key] = val
}

// inject walks up the parent chain looking for key, mirroring a
// prototype-chain lookup — the same "inherit from ancestors" model the
// teacher uses for atom scoping.
func (inst *Instance) inject(key string) (any, bool) {
	for cur := inst; cur != nil; cur = cur.Parent {
		if cur.provides != nil {
			if v, ok := cur.provides[key]; ok {
				return v, true
			}
		}
	}
	return nil, false
}
