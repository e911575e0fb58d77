// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package reactivity

import "sync"

// effectStack tracks the currently-running effect per call stack. The
// framework runs single-threaded (see spec §5), so a simple slice guarded by
// a mutex is enough; DebugAssertSingleGoroutine catches accidental
// cross-goroutine use in debug builds.
var (
	stackMu sync.Mutex
	stack   []*Effect
)

func activeEffect() *Effect {
	stackMu.Lock()
	defer stackMu.Unlock()
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

func pushEffect(e *Effect) {
	stackMu.Lock()
	stack = append(stack, e)
	stackMu.Unlock()
}

func popEffect() {
	stackMu.Lock()
	stack = stack[:len(stack)-1]
	stackMu.Unlock()
}

// SchedulerFunc decides WHEN a triggered effect actually re-runs (instead
// of running inline on trigger). It is given per effect, as NewEffect's
// scheduler argument (Watch passes WatchOptions.Scheduler through); an
// effect with none runs synchronously on trigger, which is how tests
// without a scheduler behave. Computed installs one that only marks
// itself dirty.
type SchedulerFunc func(job func())

// Effect is a reactive computation: a function that reads tracked cells and
// is automatically re-run when any of them change. Computed and Watcher are
// both built on top of it.
type Effect struct {
	fn        func()
	scheduler SchedulerFunc
	deps      []*dep
	active    bool
	onStop    func()
	computed  bool
}

// NewEffect creates and immediately runs fn once to establish its initial
// dependency set. If scheduler is non-nil, future re-runs are handed to it
// instead of running inline.
func NewEffect(fn func(), scheduler SchedulerFunc) *Effect {
	e := &Effect{fn: fn, scheduler: scheduler, active: true}
	e.Run()
	return e
}

func (e *Effect) addDep(d *dep) {
	e.deps = append(e.deps, d)
}

// cleanup unsubscribes from every dep this effect read on its last run, so
// that a run which takes a different branch (and so reads a different set
// of cells) doesn't keep stale subscriptions alive.
func (e *Effect) cleanup() {
	for _, d := range e.deps {
		d.removeSub(e)
	}
	e.deps = e.deps[:0]
}

// Run re-executes the effect body, re-tracking its dependencies from
// scratch. Safe to call directly (e.g. for the first run, or a forced
// re-run); re-entrant effects are allowed, matching how a component's own
// render effect may read state set earlier in the same render.
func (e *Effect) Run() {
	if !e.active {
		return
	}
	assertSingleThreaded()
	e.cleanup()
	pushEffect(e)
	defer popEffect()
	e.fn()
}

// notify is called by a dep when one of this effect's tracked cells
// changes. It hands the re-run to the installed scheduler, or runs inline.
// An effect cannot trigger itself (spec §3.2/§4.2.2): if e is the effect
// currently executing (it wrote to a cell it also reads), the notification
// is dropped rather than scheduled, which is what keeps a self-referential
// watcher or computed from recursing unboundedly.
func (e *Effect) notify() {
	if !e.active {
		return
	}
	if activeEffect() == e {
		return
	}
	if e.scheduler != nil {
		e.scheduler(e.Run)
		return
	}
	e.Run()
}

// Stop permanently unsubscribes the effect from all of its dependencies.
// A stopped effect never runs again, matching a component's render effect
// being torn down on unmount.
func (e *Effect) Stop() {
	if !e.active {
		return
	}
	e.active = false
	e.cleanup()
	if e.onStop != nil {
		e.onStop()
	}
}

// OnStop registers a callback invoked once, when Stop is called.
func (e *Effect) OnStop(fn func()) {
	e.onStop = fn
}
