/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package dispatch

import (
	"time"

	pq "github.com/named-data/ndnd/std/types/priority_queue"
)

// EventId identifies a scheduled callback so it can be canceled before it fires.
type EventId uint64

type scheduledEvent struct {
	id       EventId
	callback func()
	// canceled marks an event that should be skipped when it is popped,
	// since the underlying priority_queue has no Remove operation.
	canceled bool
}

// Scheduler is a single-threaded one-shot timer queue: the owning thread
// calls NextDue and RunDue in its event loop and never touches the queue concurrently
// from anywhere else, so no locking is needed here at all.
type Scheduler struct {
	queue  pq.Queue[*scheduledEvent, int64]
	byId   map[EventId]*pq.Item[*scheduledEvent, int64]
	nextId EventId
}

// NewScheduler constructs an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		queue: pq.New[*scheduledEvent, int64](),
		byId:  make(map[EventId]*pq.Item[*scheduledEvent, int64]),
	}
}

// Schedule arranges for callback to run after delay has elapsed, measured
// from now. It returns an EventId that can be passed to Cancel.
func (s *Scheduler) Schedule(delay time.Duration, callback func()) EventId {
	s.nextId++
	id := s.nextId
	ev := &scheduledEvent{id: id, callback: callback}
	fireAt := time.Now().Add(delay).UnixNano()
	s.byId[id] = s.queue.Push(ev, fireAt)
	return id
}

// Cancel prevents a previously scheduled callback from firing, if it has
// not fired already. Canceling an unknown or already-fired id is a no-op.
func (s *Scheduler) Cancel(id EventId) {
	item, ok := s.byId[id]
	if !ok {
		return
	}
	item.Value().canceled = true
	delete(s.byId, id)
}

// NextDue reports the time of the earliest pending event and whether one exists.
func (s *Scheduler) NextDue() (time.Time, bool) {
	for s.queue.Len() > 0 {
		if s.queue.Peek().canceled {
			s.queue.Pop()
			continue
		}
		return time.Unix(0, s.queue.PeekPriority()), true
	}
	return time.Time{}, false
}

// RunDue pops and invokes every event whose time has arrived as of now,
// returning the number of callbacks run.
func (s *Scheduler) RunDue(now time.Time) int {
	ran := 0
	nowNano := now.UnixNano()
	for s.queue.Len() > 0 && s.queue.PeekPriority() <= nowNano {
		ev := s.queue.Pop()
		if ev.canceled {
			continue
		}
		delete(s.byId, ev.id)
		ev.callback()
		ran++
	}
	return ran
}
