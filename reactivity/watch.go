// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package reactivity

// FlushTiming controls when a Watcher's callback runs relative to the
// render/effect flush cycle. The open question in spec §9 over the default
// is resolved in DESIGN.md: Pre is the default, matching the teacher's
// effect-queue-before-paint ordering.
type FlushTiming int

const (
	FlushPre FlushTiming = iota
	FlushPost
	FlushSync
)

// WatchSource is anything a Watcher can read to obtain its current value.
// A Ref, a Computed, or an arbitrary closure over tracked state all satisfy
// it by being wrapped with RefSource/ComputedSource/FuncSource.
type WatchSource[T any] func() T

func RefSource[T any](r *Ref[T]) WatchSource[T] { return r.Get }

func ComputedSource[T any](c *Computed[T]) WatchSource[T] { return c.Get }

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// Immediate runs the callback once right away with (initial, zero-value)
	// instead of waiting for the first change.
	Immediate bool
	// Deep documents that the source function itself walks a nested
	// structure to establish tracking on every field it reads; Go has no
	// generic deep-track primitive, so Deep is informational only (callers
	// achieve it by writing a source closure that reads every nested Ref).
	Deep bool
	// Flush selects pre/post/sync timing; see FlushTiming.
	Flush FlushTiming
	// Scheduler, if set, is how the watcher's re-evaluation is deferred
	// according to Flush. It receives the timing and the re-evaluation job
	// (which re-tracks the source from scratch, then invokes cb) and must
	// eventually call job(); the scheduler package installs this so that
	// Pre/Post timing means something relative to the render queue. If
	// nil, the watcher re-evaluates synchronously on every trigger.
	Scheduler func(timing FlushTiming, job func())
}

// Watcher observes a WatchSource and invokes cb with (newVal, oldVal)
// whenever the source's tracked dependencies change.
type Watcher[T any] struct {
	effect *Effect
	source WatchSource[T]
	cb     func(newVal, oldVal T)
	old    T
	opts   WatchOptions
}

// Watch creates and starts a Watcher, priming it with one untracked-callback
// run to establish the baseline value (and its initial dependency set).
// Returns a stop function.
func Watch[T any](source WatchSource[T], cb func(newVal, oldVal T), opts WatchOptions) func() {
	w := &Watcher[T]{source: source, cb: cb, opts: opts}
	first := true

	w.effect = &Effect{active: true}
	w.effect.fn = func() {
		newVal := w.source()
		if first {
			first = false
			w.old = newVal
			if opts.Immediate {
				var zero T
				w.cb(newVal, zero)
			}
			return
		}
		old := w.old
		w.old = newVal
		w.cb(newVal, old)
	}
	if opts.Scheduler != nil {
		w.effect.scheduler = func(job func()) { opts.Scheduler(opts.Flush, job) }
	}
	w.effect.Run()

	return w.effect.Stop
}
