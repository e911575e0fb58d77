// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package renderer

// Lifecycle hook registration (spec §6.3): each Onxxx function appends a
// callback to the currently-rendering instance's ordered array for that
// event. Must be called during a component's render (from within its
// CompFunc), matching Vue's "only valid inside setup" rule and the
// teacher's "hooks must be called within a component" panic in
// engine/hooks.go getOrderedHook.
func currentOrPanic(who string) *Instance {
	inst := GetCurrentInstance()
	if inst == nil {
		panic(who + " must be called during a component's render")
	}
	return inst
}

func OnBeforeMount(fn func()) {
	inst := currentOrPanic("OnBeforeMount")
	inst.beforeMount = append(inst.beforeMount, fn)
}

func OnMounted(fn func()) {
	inst := currentOrPanic("OnMounted")
	inst.mountedHooks = append(inst.mountedHooks, fn)
}

func OnBeforeUpdate(fn func()) {
	inst := currentOrPanic("OnBeforeUpdate")
	inst.beforeUpdate = append(inst.beforeUpdate, fn)
}

func OnUpdated(fn func()) {
	inst := currentOrPanic("OnUpdated")
	inst.updatedHooks = append(inst.updatedHooks, fn)
}

func OnBeforeUnmount(fn func()) {
	inst := currentOrPanic("OnBeforeUnmount")
	inst.beforeUnmount = append(inst.beforeUnmount, fn)
}

func OnUnmounted(fn func()) {
	inst := currentOrPanic("OnUnmounted")
	inst.unmountedHooks = append(inst.unmountedHooks, fn)
}

// OnErrorCaptured registers a handler in the error-capture chain (spec
// §7): when a descendant's render/watcher/event handler panics, the chain
// walks up the parent pointers calling each errorCaptured hook in turn;
// a handler returning true stops the walk (the error is considered
// handled and will not propagate further or be logged).
func OnErrorCaptured(fn func(err error) bool) {
	inst := currentOrPanic("OnErrorCaptured")
	inst.errorCaptured = append(inst.errorCaptured, fn)
}

// runLifecycle invokes every hook in hooks, in registration order. Used
// for all six non-error lifecycle arrays, which share this shape.
func runLifecycle(hooks []func()) {
	for _, fn := range hooks {
		fn()
	}
}

// captureError walks inst's error-capture chain (spec §7): starting at
// inst itself and up through its parents, call every errorCaptured hook
// until one returns true. Returns whether the error was captured by any
// hook in the chain.
func captureError(inst *Instance, err error) bool {
	for cur := inst; cur != nil; cur = cur.Parent {
		for _, handler := range cur.errorCaptured {
			if handler(err) {
				return true
			}
		}
	}
	return false
}

// Provide exposes a value to this instance's descendants via inject
// (spec §4.5), looked up by key through the parent chain the same way
// CSS inheritance or a prototype chain works: a child's own Provide call
// shadows anything an ancestor provided under the same key.
func Provide(key string, val any) {
	currentOrPanic("Provide").provide(key, val)
}

// Inject resolves key against the calling instance's provide chain.
func Inject(key string) (any, bool) {
	return currentOrPanic("Inject").inject(key)
}

// UseRef returns a plain (non-reactive) mutable value box that survives
// across this instance's re-renders but does not itself trigger a
// re-render when mutated — the same escape hatch engine/hooks.go's
// UseRef provides (a .Val that keeps its identity across renders, for
// DOM ref handles and other state that render logic reads but doesn't
// react to).
func UseRef(initial any) *Hook {
	inst := currentOrPanic("UseRef")
	h := inst.nextHook()
	if !h.Init {
		h.Init = true
		h.Val = initial
	}
	return h
}

// UseEffect registers fn to run after this render commits, skipped when
// deps is non-nil and shallow-equal to the previous call's deps — ported
// from engine/hooks.go's UseEffect/depsEqual, which is how tsunami's
// React-shaped hook API expresses "run a side effect, optionally gated by
// a dependency list" on top of a render-triggered (rather than purely
// reactive) component model.
func UseEffect(fn func() func(), deps []any) {
	inst := currentOrPanic("UseEffect")
	h := inst.nextHook()
	if !h.Init {
		h.Init = true
		h.Fn = fn
		h.Deps = deps
		inst.pendingEffects = append(inst.pendingEffects, h)
		return
	}
	if deps == nil || !depsEqual(h.Deps, deps) {
		h.Fn = fn
		h.Deps = deps
		inst.pendingEffects = append(inst.pendingEffects, h)
	}
}

func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// runPendingEffects runs cleanup-then-effect for every hook queued by
// UseEffect during the render that just committed, matching
// engine/rootelem.go's RunWork: all unmount functions for this batch run
// before any of the new effect functions do.
func runPendingEffects(inst *Instance) {
	pending := inst.pendingEffects
	inst.pendingEffects = nil
	for _, h := range pending {
		if h.UnmountFn != nil {
			fn := h.UnmountFn
			h.UnmountFn = nil
			fn()
		}
	}
	for _, h := range pending {
		if h.Fn != nil {
			h.UnmountFn = h.Fn()
		}
	}
}
