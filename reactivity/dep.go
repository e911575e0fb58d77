// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package reactivity implements the tracked-container / effect / computed /
// watch primitives that the rest of the framework is built on. It has no
// dependency on any UI concept: it only knows how to remember "this effect
// read that cell" and re-run the effect when the cell changes.
package reactivity

import (
	"sync"

	"github.com/outrigdev/goid"
)

// dep is the subscriber set for a single tracked cell (a Ref, a Computed's
// cached value, or one property of a reactive struct/map).
type dep struct {
	mu    sync.Mutex
	subs  map[*Effect]struct{}
}

func newDep() *dep {
	return &dep{subs: make(map[*Effect]struct{})}
}

// track records that the currently running effect (if any) reads this cell.
// Called on every read of a tracked container; a no-op outside an effect.
func (d *dep) track() {
	eff := activeEffect()
	if eff == nil {
		return
	}
	d.mu.Lock()
	d.subs[eff] = struct{}{}
	d.mu.Unlock()
	eff.addDep(d)
}

// trigger schedules every subscribed effect to re-run. Effects are handed
// to the scheduler hook if one is installed; otherwise they run inline,
// which is only safe for tests and the debug/no-scheduler mode. Computed
// effects run before plain (watcher/render) effects (spec §3.2/§4.2.2,
// §8.1's "computed effects run before non-computed effects on trigger"),
// so a plain effect that reads a computed during its own re-run sees the
// computed's value already invalidated/recomputed rather than stale.
func (d *dep) trigger() {
	d.mu.Lock()
	computedSubs := make([]*Effect, 0, len(d.subs))
	plainSubs := make([]*Effect, 0, len(d.subs))
	for e := range d.subs {
		if e.computed {
			computedSubs = append(computedSubs, e)
		} else {
			plainSubs = append(plainSubs, e)
		}
	}
	d.mu.Unlock()
	for _, e := range computedSubs {
		e.notify()
	}
	for _, e := range plainSubs {
		e.notify()
	}
}

func (d *dep) removeSub(e *Effect) {
	d.mu.Lock()
	delete(d.subs, e)
	d.mu.Unlock()
}

// assertSingleThreaded panics, when DebugAssertSingleGoroutine is set, if
// effects are run from more than one goroutine over the process lifetime,
// matching the single-threaded cooperative model the scheduler assumes.
// Effect.Run is its only caller.
var (
	debugGoId     uint64
	debugGoIdOnce sync.Once
	debugMu       sync.Mutex
)

// DebugAssertSingleGoroutine is off by default (it costs a goid.Get() call
// per Effect.Run); set it to true to turn it on in tests or debug builds.
var DebugAssertSingleGoroutine = false

func assertSingleThreaded() {
	if !DebugAssertSingleGoroutine {
		return
	}
	gid := goid.Get()
	debugMu.Lock()
	defer debugMu.Unlock()
	if debugGoId == 0 {
		debugGoId = gid
		return
	}
	if debugGoId != gid {
		panic("reactivity: accessed from more than one goroutine; the reactive core assumes single-threaded cooperative access (see spec §5)")
	}
}
