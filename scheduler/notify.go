// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"sync"
	"sync/atomic"
	"time"
)

// Debounce cadence constants, carried over unchanged from the teacher's
// engine/asyncnotify.go: a component whose render is triggered from outside
// the main flush (an async setup resolving on a goroutine, see
// SPEC_FULL.md's "async-notification coalescing" supplemented feature)
// wants its host driver told "there is work to flush" without storming it
// with one notification per write.
const (
	NotifyMaxCadence      = 10 * time.Millisecond
	NotifyDebounceTime    = 500 * time.Microsecond
	NotifyMaxDebounceTime = 2 * time.Millisecond
)

// AsyncNotifier coalesces repeated calls to Notify into a single call to
// Fire, fired no sooner than NotifyDebounceTime after the last Notify, no
// later than NotifyMaxDebounceTime after the first Notify in a batch, and
// no more often than once per NotifyMaxCadence.
type AsyncNotifier struct {
	Fire func()

	once          sync.Once
	wakeCh        chan struct{}
	batchStartNs  atomic.Int64
	lastEventNs   atomic.Int64
}

// Notify records an async render-ready event and (re)arms the debounce
// timer. Safe to call from any goroutine.
func (n *AsyncNotifier) Notify() {
	n.once.Do(func() {
		n.wakeCh = make(chan struct{}, 1)
		go n.loop()
	})

	nowNs := time.Now().UnixNano()
	n.lastEventNs.Store(nowNs)
	n.batchStartNs.CompareAndSwap(0, nowNs)

	select {
	case n.wakeCh <- struct{}{}:
	default:
	}
}

func (n *AsyncNotifier) loop() {
	var (
		lastSent time.Time
		timer    *time.Timer
		timerC   <-chan time.Time
	)

	target := func() (time.Time, bool) {
		firstNs := n.batchStartNs.Load()
		if firstNs == 0 {
			return time.Time{}, false
		}
		lastNs := n.lastEventNs.Load()
		first := time.Unix(0, firstNs)
		last := time.Unix(0, lastNs)
		cadenceReady := lastSent.Add(NotifyMaxCadence)

		anchor := first
		if cadenceReady.After(anchor) {
			anchor = cadenceReady
		}
		deadline := anchor.Add(NotifyMaxDebounceTime)

		candidate := last.Add(NotifyDebounceTime)
		if deadline.Before(candidate) {
			candidate = deadline
		}
		t := candidate
		if cadenceReady.After(t) {
			t = cadenceReady
		}
		return t, true
	}

	schedule := func() {
		t, ok := target()
		if !ok {
			if timer != nil {
				stopDrain(timer)
			}
			timerC = nil
			return
		}
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		if timer == nil {
			timer = time.NewTimer(d)
		} else {
			stopDrain(timer)
			timer.Reset(d)
		}
		timerC = timer.C
	}

	for {
		select {
		case <-n.wakeCh:
			schedule()
		case <-timerC:
			t, ok := target()
			if !ok {
				continue
			}
			now := time.Now()
			if now.Before(t) {
				stopDrain(timer)
				timer.Reset(time.Until(t))
				continue
			}
			if n.Fire != nil {
				n.Fire()
			}
			lastSent = now
			n.batchStartNs.Store(0)
			schedule()
		}
	}
}

func stopDrain(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
