// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package reactivity

// Computed is a lazily-evaluated, cached derived value: the getter only
// runs when the computed is read after one of its dependencies changed
// (dirty), never eagerly on every dependency write. This is the inverse of
// Effect, which always reacts; Computed reacts by marking itself dirty and
// waits to be asked.
type Computed[T any] struct {
	getter func() T
	dep    *dep
	effect *Effect

	dirty bool
	val   T

	// EvalCount counts getter invocations; exposed for the same reason the
	// spec's counter-example (§8.4, scenario E1) asserts a computed's
	// getter only runs once per dependency change, not once per read.
	EvalCount int
}

// NewComputed creates a computed value from getter. getter does not run
// here: the computed starts dirty and getter first runs on the first Get,
// which establishes the value and dependency set. When a dependency
// changes the computed is only marked dirty and its own dep triggered —
// not re-evaluated — until the next Get.
func NewComputed[T any](getter func() T) *Computed[T] {
	c := &Computed[T]{getter: getter, dep: newDep(), dirty: true}
	c.effect = &Effect{
		fn:       func() { c.recompute() },
		active:   true,
		computed: true,
	}
	c.effect.scheduler = func(job func()) { c.invalidate() }
	return c
}

func (c *Computed[T]) recompute() {
	c.val = c.getter()
	c.EvalCount++
	c.dirty = false
}

// invalidate marks the cache stale and notifies any effect that reads this
// computed, without recomputing eagerly — recomputation happens lazily the
// next time Get is called from inside a tracking context, or immediately
// if Get is called outside one (there is nothing else to defer it to).
func (c *Computed[T]) invalidate() {
	if c.dirty {
		return
	}
	c.dirty = true
	c.dep.trigger()
}

// Get returns the cached value, recomputing first if a dependency changed
// since the last read. Subscribes the calling effect to this computed's
// own dep, so a chain of computed-on-computed propagates correctly.
func (c *Computed[T]) Get() T {
	if c.dirty {
		c.effect.Run()
	}
	c.dep.track()
	return c.val
}

// Stop tears down the computed's internal effect, releasing its
// dependencies. A stopped computed's Get keeps returning its last value.
func (c *Computed[T]) Stop() {
	c.effect.Stop()
}
