// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/flowkit/flowui/reactivity"
	"github.com/flowkit/flowui/renderer"
	"github.com/flowkit/flowui/vdom"
)

// UseRef is the typed analog of renderer.UseRef: a mutable value box that
// survives this instance's re-renders but does not itself trigger one.
func UseRef[T any](initial T) *vdom.VDomSimpleRef[T] {
	h := renderer.UseRef(&vdom.VDomSimpleRef[T]{Current: initial})
	ref, ok := h.Val.(*vdom.VDomSimpleRef[T])
	if !ok {
		panic("UseRef hook value is not a ref (possible out of order or conditional hooks)")
	}
	return ref
}

// UseVDomRef returns a vdom.VDomRef bound to a fresh RefId on first call
// and the same one on every later render of this instance, for attaching
// to an element's "ref" prop so the host backend can report layout
// measurements back through renderer.UpdateRefPosition.
func UseVDomRef() *vdom.VDomRef {
	h := renderer.UseRef(&vdom.VDomRef{Type: "ref", RefId: uuid.New().String()})
	ref, ok := h.Val.(*vdom.VDomRef)
	if !ok {
		panic("UseVDomRef hook value is not a ref (possible out of order or conditional hooks)")
	}
	return ref
}

// UseEffect re-exports renderer.UseEffect at the app package's surface so
// component code only needs to import "app", not "renderer", for the
// common hooks.
func UseEffect(fn func() func(), deps []any) {
	renderer.UseEffect(fn, deps)
}

// UseLocal creates a component-local reactive cell, a reactivity.Ref that
// this instance alone reads and writes, re-rendering the instance on
// change without any name in the process-wide atom registry — the
// un-named sibling of UseSharedAtom/UseConfig/UseData.
func UseLocal[T any](initial T) *reactivity.Ref[T] {
	h := renderer.UseRef(nil)
	if h.Val == nil {
		h.Val = reactivity.NewRef(initial)
	}
	ref, ok := h.Val.(*reactivity.Ref[T])
	if !ok {
		panic("UseLocal hook value is not a Ref[T] (possible out of order or conditional hooks)")
	}
	return ref
}

// UseGoRoutine spawns fn in its own goroutine whenever deps changes,
// cancelling the previous run's context first — the same dependency-gated
// async-work pattern UseEffect provides for synchronous cleanups, adapted
// for work that must run off the render goroutine.
func UseGoRoutine(fn func(ctx context.Context), deps []any) {
	cancelRef := UseRef[context.CancelFunc](nil)

	UseEffect(func() func() {
		if cancelRef.Current != nil {
			cancelRef.Current()
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancelRef.Current = cancel
		go fn(ctx)
		return func() {
			if cancel != nil {
				cancel()
			}
		}
	}, deps)
}
