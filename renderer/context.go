// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package renderer implements the reconciler (patch/diff), component
// instance lifecycle, dependency injection, and host-backend contract
// (spec §4.4, §4.5, §6.1, §6.3). It is grounded on the teacher's
// engine/render.go, engine/rootelem.go, engine/hooks.go, and
// engine/globalctx.go, generalized from tsunami's shadow-tree-over-RPC
// model to an in-process backend the renderer drives directly.
package renderer

import (
	"sync"

	"github.com/outrigdev/goid"
)

// global render-context tracking, lifted from engine/globalctx.go: hooks
// resolve against "whichever instance is rendering right now" instead of
// threading a context value through every call, and the goid check turns
// an accidental cross-goroutine hook call into an immediate panic instead
// of silent data races, matching the single-threaded model in spec §5.
var (
	globalInstance *Instance
	globalGoId     uint64
	globalMu       sync.Mutex
)

func setGlobalInstance(inst *Instance) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalInstance = inst
	globalGoId = goid.Get()
}

func clearGlobalInstance() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalInstance = nil
	globalGoId = 0
}

// GetCurrentInstance returns the component instance currently rendering
// on this goroutine, or nil if called from outside a render (or from a
// different goroutine than the one rendering, which is always a bug: the
// renderer assumes single-threaded cooperative access).
func GetCurrentInstance() *Instance {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalGoId == 0 || goid.Get() != globalGoId {
		return nil
	}
	return globalInstance
}

func withCurrentInstance(inst *Instance, fn func()) {
	setGlobalInstance(inst)
	defer clearGlobalInstance()
	fn()
}
