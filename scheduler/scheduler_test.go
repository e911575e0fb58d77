// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package scheduler

import "testing"

func TestFlushOrdersByIdAscending(t *testing.T) {
	s := New()
	var order []int64
	s.QueuePreFlush(5, func() { order = append(order, 5) })
	s.QueuePreFlush(1, func() { order = append(order, 1) })
	s.QueuePreFlush(3, func() { order = append(order, 3) })
	s.Flush()
	if len(order) != 3 || order[0] != 1 || order[1] != 3 || order[2] != 5 {
		t.Fatalf("expected ascending id order [1 3 5], got %v", order)
	}
}

func TestPreFlushRunsBeforePostFlush(t *testing.T) {
	s := New()
	var order []string
	s.QueuePostFlush(1, func() { order = append(order, "post") })
	s.QueuePreFlush(1, func() { order = append(order, "pre") })
	s.Flush()
	if len(order) != 2 || order[0] != "pre" || order[1] != "post" {
		t.Fatalf("expected [pre post], got %v", order)
	}
}

func TestIdempotentEnqueue(t *testing.T) {
	s := New()
	runs := 0
	s.QueuePreFlush(1, func() { runs++ })
	s.QueuePreFlush(1, func() { runs++ })
	s.Flush()
	if runs != 1 {
		t.Fatalf("expected a duplicate enqueue before flush to collapse to one run, got %d", runs)
	}
}

func TestJobCanRequeueItselfAfterRunning(t *testing.T) {
	s := New()
	runs := 0
	s.QueuePreFlush(1, func() { runs++ })
	s.Flush()
	s.QueuePreFlush(1, func() { runs++ })
	s.Flush()
	if runs != 2 {
		t.Fatalf("expected a job to be re-queueable once it has run, got %d", runs)
	}
}

func TestRecursionLimitStopsInfiniteRequeue(t *testing.T) {
	s := New()
	runs := 0
	var job func()
	job = func() {
		runs++
		s.QueuePreFlush(1, job)
	}
	s.QueuePreFlush(1, job)
	s.Flush()
	if runs > recursionLimit+1 {
		t.Fatalf("expected recursion limit to cap runs near %d, got %d", recursionLimit, runs)
	}
}

func TestNextTickRunsAfterFlush(t *testing.T) {
	s := New()
	var order []string
	s.QueuePreFlush(1, func() { order = append(order, "job") })
	s.NextTick(func() { order = append(order, "tick") })
	s.Flush()
	if len(order) != 2 || order[0] != "job" || order[1] != "tick" {
		t.Fatalf("expected [job tick], got %v", order)
	}
}
