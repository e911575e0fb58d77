// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package renderer

import (
	"fmt"

	"github.com/flowkit/flowui/reactivity"
	"github.com/flowkit/flowui/util"
	"github.com/flowkit/flowui/vdom"
)

// patchComponent mounts or updates a custom-element node: create (or
// reuse) its Instance, then either run its render effect for the first
// time or feed it new props and let the effect's own re-run patch the
// subtree (spec §4.4.3).
func (r *Reconciler[N]) patchComponent(parent N, anchor N, old *mounted[N], elem *vdom.VDomElem, fn CompFunc, parentInst *Instance) *mounted[N] {
	props := resolveProps(r.propSchemas[elem.Tag], elem.Props)
	if old != nil && old.Inst != nil {
		old.Inst.Props = props
		old.Elem = elem
		// Drop any pending self-triggered update this instance queued for
		// itself earlier in the same tick before running it synchronously
		// here (spec §4.4.3): otherwise the stale queued entry still fires
		// later in this flush, rendering the instance twice for one change.
		r.sched.InvalidatePreFlush(old.Inst.jobId)
		r.runInstance(old.Inst, old)
		return old
	}
	inst := newInstance(elem.Tag, fn, props, parentInst)
	m := &mounted[N]{Tag: elem.Tag, Key: getKey(elem), Inst: inst, Elem: elem}

	mountAnchor := anchor
	inst.effect = reactivity.NewEffect(func() {
		r.renderInstance(parent, mountAnchor, inst, m)
	}, func(job func()) {
		r.sched.QueuePreFlush(inst.jobId, job)
	})
	return m
}

// runInstance re-runs an already-mounted instance's render effect
// immediately (used when a parent patch pushes new props down and the
// caller needs the subtree synced before it returns, rather than waiting
// for the next scheduler flush).
func (r *Reconciler[N]) runInstance(inst *Instance, m *mounted[N]) {
	if inst.effect != nil {
		inst.effect.Run()
	}
}

// renderInstance is the body of a component's render effect: call its
// CompFunc under panic recovery (which registers this render's lifecycle
// hooks), run the before-mount/before-update hooks, patch the returned
// tree, then run mounted/updated and any pending UseEffect callbacks
// (spec §4.4.6, §6.3).
func (r *Reconciler[N]) renderInstance(parent N, anchor N, inst *Instance, m *mounted[N]) {
	firstRender := !inst.mounted

	// The CompFunc registers its lifecycle hooks again on every render, so
	// the arrays are rebuilt from scratch rather than appended to.
	inst.beforeMount, inst.mountedHooks, inst.beforeUpdate, inst.updatedHooks = nil, nil, nil, nil
	inst.beforeUnmount, inst.unmountedHooks, inst.errorCaptured = nil, nil, nil

	inst.hookIdx = 0
	var rendered *vdom.VDomElem
	func() {
		defer func() {
			if panicErr := util.PanicHandler(fmt.Sprintf("render component %q", inst.Tag), recover()); panicErr != nil {
				inst.renderErr = panicErr
				captureError(inst, panicErr)
				rendered = renderErrorComponent(inst.Tag, panicErr.Error())
			}
		}()
		withCurrentInstance(inst, func() {
			rendered = inst.Fn(inst.Props)
		})
	}()
	inst.VNode = rendered
	if firstRender {
		runLifecycle(inst.beforeMount)
	} else {
		runLifecycle(inst.beforeUpdate)
	}
	var old *mounted[N]
	if len(m.Children) == 1 {
		old = m.Children[0]
	}
	child := r.patch(parent, anchor, old, rendered, inst)
	if child != nil {
		m.Children = []*mounted[N]{child}
	} else {
		m.Children = nil
	}

	if firstRender {
		inst.mounted = true
		runLifecycle(inst.mountedHooks)
	} else {
		runLifecycle(inst.updatedHooks)
	}
	runPendingEffects(inst)
}

// renderErrorComponent builds the fallback tree shown in place of a
// component whose render function panicked, matching engine/errcomponent.go.
func renderErrorComponent(componentName string, errorMsg string) *vdom.VDomElem {
	return vdom.H("div", map[string]any{
		"className": "p-4 border border-red-500 bg-red-100 text-red-800 rounded font-mono",
	},
		vdom.H("div", map[string]any{
			"className": "font-bold mb-2",
		}, fmt.Sprintf("Component Error: %s", componentName)),
		vdom.H("div", nil, errorMsg),
	)
}
