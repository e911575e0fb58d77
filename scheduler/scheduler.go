// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package scheduler implements the pre-flush/post-flush job queues that sit
// between the reactivity core and the renderer: a reactive write doesn't
// run render effects synchronously, it enqueues them here, where they are
// deduplicated, ordered parent-before-child, and flushed together.
//
// Grounded on the teacher's engine/rootelem.go EffectWorkQueue/RunWork (a
// single flat queue drained each tick), generalized into separate pre and
// post queues with id-ascending ordering and a recursion-limit guard, the
// way Vue's own scheduler works.
package scheduler

import (
	"log"
	"sort"
	"sync"
)

// recursionLimit bounds how many times one job id may run within a single
// Flush; past that the job is logged and dropped. Without it a job that
// re-schedules itself every time it runs (a render effect that writes the
// state it reads) would spin forever instead of surfacing as a bug.
const recursionLimit = 100

// Job is a unit of scheduled work. Id is used only for ordering within a
// flush (ascending, so a parent component's render effect — created first,
// lower id — always runs before a child's); it is not required to be
// globally unique across the process lifetime, only stable for the job's
// own lifetime so idempotent re-enqueue can detect "already queued".
type Job struct {
	Id int64
	Fn func()
}

// Scheduler owns the pre-flush and post-flush queues and the nextTick
// callback list. The zero value is not usable; call New.
type Scheduler struct {
	mu sync.Mutex

	preQueue     []Job
	postQueue    []Job
	preSeen      map[int64]bool
	postSeen     map[int64]bool
	preCancelled map[int64]bool

	ticks []func()

	flushing bool
	// Notify, if set, is called after every QueuePreFlush/QueuePostFlush
	// that actually adds a job (duplicates do not call it). The scheduler
	// does no debouncing itself; an external driver that pumps Flush on its
	// own schedule can coalesce these calls with AsyncNotifier (see
	// notify.go and SPEC_FULL.md's "async-notification coalescing"
	// supplemented feature).
	Notify func()
}

func New() *Scheduler {
	return &Scheduler{
		preSeen:      make(map[int64]bool),
		postSeen:     make(map[int64]bool),
		preCancelled: make(map[int64]bool),
	}
}

// QueuePreFlush schedules fn to run before the next post-flush batch
// (render effects belong here: state write -> re-render -> DOM patch should
// happen before post-flush effects that expect the DOM to be up to date).
// Re-enqueuing the same id before it has run is a no-op.
func (s *Scheduler) QueuePreFlush(id int64, fn func()) {
	s.mu.Lock()
	if s.preSeen[id] {
		s.mu.Unlock()
		return
	}
	s.preSeen[id] = true
	s.preQueue = append(s.preQueue, Job{Id: id, Fn: fn})
	notify := s.Notify
	s.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// InvalidatePreFlush removes id's pending pre-flush job, if any (spec
// §4.4.3's "remove any pending self-triggered update for this instance from
// the scheduler" step, required for the §8.1 at-most-once scheduling
// invariant). Called when a parent patch is about to run a component's
// render effect synchronously, so that instance's own earlier self-queued
// entry doesn't also fire later in the same flush and render it twice. id
// may already have been popped out of preQueue and into a drain() batch by
// the time this runs (the parent's own render effect can itself be running
// from inside that same batch); preCancelled covers that case by being
// checked again right before a batched job actually runs.
func (s *Scheduler) InvalidatePreFlush(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.preSeen[id] {
		return
	}
	delete(s.preSeen, id)
	for i := range s.preQueue {
		if s.preQueue[i].Id == id {
			s.preQueue = append(s.preQueue[:i], s.preQueue[i+1:]...)
			return
		}
	}
	s.preCancelled[id] = true
}

// QueuePostFlush schedules fn to run after every pre-flush job (including
// ones pre-flush jobs themselves enqueue) has drained. UseEffect-style
// lifecycle callbacks belong here.
func (s *Scheduler) QueuePostFlush(id int64, fn func()) {
	s.mu.Lock()
	if s.postSeen[id] {
		s.mu.Unlock()
		return
	}
	s.postSeen[id] = true
	s.postQueue = append(s.postQueue, Job{Id: id, Fn: fn})
	notify := s.Notify
	s.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// NextTick registers fn to run once, at the end of the next Flush call,
// after both queues have drained. It does not start a flush itself. This
// mirrors
// Vue's nextTick and is how callers observe "after the DOM has been
// patched" without needing their own post-flush job id.
func (s *Scheduler) NextTick(fn func()) {
	s.mu.Lock()
	s.ticks = append(s.ticks, fn)
	s.mu.Unlock()
}

// Flush drains the pre-flush queue, then the post-flush queue (each drain
// also runs jobs enqueued into that queue while it is draining; a pre-flush
// job enqueued by a post-flush job waits for the next Flush), then runs
// every pending nextTick callback. It is idempotent to call when nothing is
// queued.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.flushing {
		s.mu.Unlock()
		return
	}
	s.flushing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.flushing = false
		s.mu.Unlock()
	}()

	runCounts := make(map[int64]int)
	s.drain(&s.preQueue, s.preSeen, s.preCancelled, runCounts)
	s.drain(&s.postQueue, s.postSeen, nil, runCounts)

	s.mu.Lock()
	ticks := s.ticks
	s.ticks = nil
	s.mu.Unlock()
	for _, fn := range ticks {
		fn()
	}
}

// drain repeatedly sorts and runs everything in queue (re-checking for
// newly enqueued work each pass, since running a job can enqueue more jobs
// into the very queue being drained) until it is empty or recursionLimit
// is hit for some job id. cancelled, if non-nil, is rechecked for each
// batched job right before it runs, since InvalidatePreFlush may cancel a
// job after it has already been copied out of queue into this call's batch.
func (s *Scheduler) drain(queue *[]Job, seen map[int64]bool, cancelled map[int64]bool, runCounts map[int64]int) {
	for {
		s.mu.Lock()
		if len(*queue) == 0 {
			s.mu.Unlock()
			return
		}
		batch := make([]Job, len(*queue))
		copy(batch, *queue)
		*queue = (*queue)[:0]
		sort.Slice(batch, func(i, j int) bool { return batch[i].Id < batch[j].Id })
		s.mu.Unlock()

		for _, job := range batch {
			s.mu.Lock()
			delete(seen, job.Id)
			wasCancelled := cancelled != nil && cancelled[job.Id]
			if wasCancelled {
				delete(cancelled, job.Id)
			}
			s.mu.Unlock()
			if wasCancelled {
				continue
			}

			runCounts[job.Id]++
			if runCounts[job.Id] > recursionLimit {
				log.Printf("scheduler: job %d exceeded recursion limit (%d), dropping to avoid an infinite flush loop", job.Id, recursionLimit)
				continue
			}
			job.Fn()
		}
	}
}
