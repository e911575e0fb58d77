// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package reactivity

import "testing"

func TestRefTrackAndTrigger(t *testing.T) {
	r := NewRef(1)
	runs := 0
	var seen int
	NewEffect(func() {
		runs++
		seen = r.Get()
	}, nil)
	if runs != 1 || seen != 1 {
		t.Fatalf("expected one initial run seeing 1, got runs=%d seen=%d", runs, seen)
	}
	r.Set(2)
	if runs != 2 || seen != 2 {
		t.Fatalf("expected re-run after Set, got runs=%d seen=%d", runs, seen)
	}
	r.Set(2)
	if runs != 2 {
		t.Fatalf("expected no re-run for an unchanged value, got runs=%d", runs)
	}
}

func TestEffectStopUnsubscribes(t *testing.T) {
	r := NewRef(0)
	runs := 0
	eff := NewEffect(func() {
		runs++
		r.Get()
	}, nil)
	eff.Stop()
	r.Set(1)
	if runs != 1 {
		t.Fatalf("expected stopped effect not to re-run, got runs=%d", runs)
	}
}

func TestEffectRetracksOnBranch(t *testing.T) {
	cond := NewRef(true)
	a := NewRef(10)
	b := NewRef(20)
	runs := 0
	NewEffect(func() {
		runs++
		if cond.Get() {
			a.Get()
		} else {
			b.Get()
		}
	}, nil)
	cond.Set(false)
	if runs != 2 {
		t.Fatalf("expected re-run after branch condition changed, got runs=%d", runs)
	}
	// now only b is tracked; changing a must not trigger a re-run.
	a.Set(11)
	if runs != 2 {
		t.Fatalf("expected no re-run for an untracked dependency after branch, got runs=%d", runs)
	}
	b.Set(21)
	if runs != 3 {
		t.Fatalf("expected re-run for the now-tracked dependency, got runs=%d", runs)
	}
}

// TestComputedCachesUntilDependencyChanges mirrors spec scenario E1: the
// getter runs once per dependency change, not once per read.
func TestComputedCachesUntilDependencyChanges(t *testing.T) {
	count := NewRef(1)
	doubled := NewComputed(func() int { return count.Get() * 2 })

	if v := doubled.Get(); v != 2 {
		t.Fatalf("expected 2, got %d", v)
	}
	if v := doubled.Get(); v != 2 {
		t.Fatalf("expected 2 on second read, got %d", v)
	}
	if doubled.EvalCount != 1 {
		t.Fatalf("expected exactly one getter evaluation across two reads, got %d", doubled.EvalCount)
	}

	count.Set(5)
	if doubled.EvalCount != 1 {
		t.Fatalf("expected no eager recompute on dependency write, got %d", doubled.EvalCount)
	}
	if v := doubled.Get(); v != 10 {
		t.Fatalf("expected 10 after dependency changed, got %d", v)
	}
	if doubled.EvalCount != 2 {
		t.Fatalf("expected exactly one recompute after the change, got %d", doubled.EvalCount)
	}
}

func TestComputedChainPropagates(t *testing.T) {
	a := NewRef(1)
	b := NewComputed(func() int { return a.Get() + 1 })
	c := NewComputed(func() int { return b.Get() * 10 })
	if v := c.Get(); v != 20 {
		t.Fatalf("expected 20, got %d", v)
	}
	a.Set(2)
	if v := c.Get(); v != 30 {
		t.Fatalf("expected 30 after upstream change, got %d", v)
	}
}

func TestWatchImmediateAndChange(t *testing.T) {
	r := NewRef("a")
	var calls [][2]string
	stop := Watch(RefSource(r), func(newVal, oldVal string) {
		calls = append(calls, [2]string{newVal, oldVal})
	}, WatchOptions{Immediate: true})
	defer stop()

	if len(calls) != 1 || calls[0][0] != "a" || calls[0][1] != "" {
		t.Fatalf("expected one immediate call with (a, \"\"), got %v", calls)
	}
	r.Set("b")
	if len(calls) != 2 || calls[1][0] != "b" || calls[1][1] != "a" {
		t.Fatalf("expected second call with (b, a), got %v", calls)
	}
}

func TestWatchNotImmediateSkipsFirstRun(t *testing.T) {
	r := NewRef(1)
	calls := 0
	stop := Watch(RefSource(r), func(newVal, oldVal int) {
		calls++
	}, WatchOptions{})
	defer stop()
	if calls != 0 {
		t.Fatalf("expected no call before the first change, got %d", calls)
	}
	r.Set(2)
	if calls != 1 {
		t.Fatalf("expected one call after the change, got %d", calls)
	}
}

// TestSelfTriggeringWatcherDoesNotRecurse covers spec §3.2/§4.2.2's "an
// effect cannot trigger itself": a watcher whose callback writes to the
// same ref it watches must not re-enter its own effect body.
func TestSelfTriggeringWatcherDoesNotRecurse(t *testing.T) {
	r := NewRef(0)
	runs := 0
	stop := Watch(RefSource(r), func(newVal, oldVal int) {
		runs++
		if newVal < 5 {
			r.Set(newVal + 1)
		}
	}, WatchOptions{})
	defer stop()

	r.Set(1)
	if runs != 1 {
		t.Fatalf("expected the self-triggered write to be suppressed rather than recurse, got runs=%d", runs)
	}
	if got := r.Peek(); got != 2 {
		t.Fatalf("expected the callback's own write to still apply once, got %d", got)
	}
}

// TestEffectSelfWriteDuringRunDoesNotReenter covers the same invariant for a
// plain Effect: writing, inside the effect body, to a ref the effect itself
// reads must not cause Run to be re-entered synchronously.
func TestEffectSelfWriteDuringRunDoesNotReenter(t *testing.T) {
	r := NewRef(0)
	runs := 0
	NewEffect(func() {
		runs++
		v := r.Get()
		if v == 0 {
			r.Set(1)
		}
	}, nil)
	if runs != 1 {
		t.Fatalf("expected the self-write not to trigger a synchronous re-entrant run, got runs=%d", runs)
	}
}

// TestTriggerRunsComputedEffectsBeforePlainEffects covers spec §3.2/§4.2.2
// and §8.1: on a single trigger, a computed depending on the changed ref
// must recompute before a plain (non-computed) effect that also depends on
// the same ref observes the change, so the plain effect never sees a stale
// computed value.
func TestTriggerRunsComputedEffectsBeforePlainEffects(t *testing.T) {
	count := NewRef(1)
	doubled := NewComputed(func() int { return count.Get() * 2 })
	doubled.Get() // prime the cache so invalidate()/recompute() is observable

	var seenDoubled int
	NewEffect(func() {
		count.Get()
		seenDoubled = doubled.Get()
	}, nil)

	count.Set(5)
	if seenDoubled != 10 {
		t.Fatalf("expected the plain effect to observe the recomputed value 10, got %d", seenDoubled)
	}
}

func TestWatchScheduler(t *testing.T) {
	r := NewRef(1)
	var pending func()
	var timing FlushTiming
	stop := Watch(RefSource(r), func(newVal, oldVal int) {}, WatchOptions{
		Flush: FlushPost,
		Scheduler: func(t FlushTiming, job func()) {
			timing = t
			pending = job
		},
	})
	defer stop()
	r.Set(2)
	if pending == nil {
		t.Fatalf("expected the scheduler to receive a deferred job")
	}
	if timing != FlushPost {
		t.Fatalf("expected FlushPost, got %v", timing)
	}
	pending()
}
