/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"fmt"
	"time"

	"github.com/named-data/ndnd/fw/core"
	"github.com/named-data/ndnd/fw/defn"
	"github.com/named-data/ndnd/fw/dispatch"
	"github.com/named-data/ndnd/fw/table"
)

// Strategy is the policy object governing forwarding decisions for the
// subtree of names StrategyChoice assigns it to. It acts only through its
// owning StrategyBase's SendInterest/SendData/RejectPendingInterest, and
// touches table state only via a MeasurementsAccessor scoped to its own name.
type Strategy interface {
	// Instantiate binds the strategy to its owning thread, giving it its
	// program name and version (e.g. "best-route", 1).
	Instantiate(fwThread *Thread)

	// AfterContentStoreHit is called when an incoming Interest is
	// satisfied directly by the Content Store.
	AfterContentStoreHit(packet *defn.Pkt, pitEntry table.PitEntry, inFace uint64)

	// AfterReceiveData is called for every PIT entry an incoming Data
	// satisfies, once per strategy governing that entry's name.
	AfterReceiveData(packet *defn.Pkt, pitEntry table.PitEntry, inFace uint64)

	// AfterReceiveInterest is called once an Interest has been accepted
	// into the PIT and the Content Store missed. The strategy MUST,
	// within a bounded window, send the Interest on at least one
	// nexthop or reject it.
	AfterReceiveInterest(packet *defn.Pkt, pitEntry table.PitEntry, inFace uint64, nexthops []*table.FibNextHopEntry)

	// BeforeSatisfyInterest is called just before a PIT entry is marked
	// satisfied by Data, so the strategy can record round-trip behavior.
	BeforeSatisfyInterest(pitEntry table.PitEntry, inFace uint64)

	// BeforeExpireInterest is called once, when a PIT entry's last
	// record expires unsatisfied.
	BeforeExpireInterest(pitEntry table.PitEntry)
}

// StrategyBase provides the common plumbing every concrete Strategy
// embeds: its identity, its owning thread, and the two actions a
// strategy is allowed to take (SendInterest, SendData) plus rejection.
type StrategyBase struct {
	thread  *Thread
	name    string
	version uint64
}

// NewStrategyBase binds this strategy instance to fwThread under
// (name, version); call from Instantiate.
func (s *StrategyBase) NewStrategyBase(fwThread *Thread, name string, version uint64) {
	s.thread = fwThread
	s.name = name
	s.version = version
}

// String identifies the strategy for logging, e.g. "multicast-v1".
func (s *StrategyBase) String() string {
	return fmt.Sprintf("%s-v%d", s.name, s.version)
}

// Name returns the strategy's program name.
func (s *StrategyBase) Name() string { return s.name }

// Version returns the strategy's registered version.
func (s *StrategyBase) Version() uint64 { return s.version }

// Measurements returns this strategy's namespaced view of the thread's
// Measurements table, gated by the thread's FIB+StrategyChoice table.
func (s *StrategyBase) Measurements() *table.MeasurementsAccessor {
	strategyName, _ := defn.MakeStrategyName(s.name)
	return table.NewMeasurementsAccessor(s.thread.measurements, s.thread.fib, strategyName)
}

// SendInterest forwards packet's Interest to nexthop, recording an
// OutRecord on pitEntry. inFace (the face it arrived on, or 0 if none)
// is not compared with nexthop here or in the pipeline; a strategy that
// avoids hairpinning checks it itself (see canForwardToFace).
func (s *StrategyBase) SendInterest(packet *defn.Pkt, pitEntry table.PitEntry, nexthop uint64, inFace uint64) {
	s.thread.onOutgoingInterest(packet, pitEntry, nexthop)
}

// SendData sends packet's Data to face, satisfying whatever PIT state
// exists for it. origin is 0 when the Data came from the Content Store
// rather than a remote face, for logging purposes only.
func (s *StrategyBase) SendData(packet *defn.Pkt, pitEntry table.PitEntry, face uint64, origin uint64) {
	s.thread.onOutgoingData(packet, face)
}

// RejectPendingInterest tells the pipeline this strategy will not forward
// pitEntry's Interest to anything further; the entry moves to straggler expiry.
func (s *StrategyBase) RejectPendingInterest(pitEntry table.PitEntry) {
	core.Log.Debug(s, "Rejecting pending Interest", "name", pitEntry.EncName())
	s.thread.onInterestReject(pitEntry)
}

// Schedule arranges for callback to run on the owning thread's event loop
// after delay, e.g. NCC's bestFaceTimeout/propagateTimer. callback runs on
// the same goroutine as every other pipeline transition, so it may freely
// touch PIT/Measurements state without locking.
func (s *StrategyBase) Schedule(delay time.Duration, callback func()) dispatch.EventId {
	return s.thread.sched.Schedule(delay, callback)
}

// Cancel cancels a callback previously armed with Schedule, if it hasn't
// fired yet.
func (s *StrategyBase) Cancel(id dispatch.EventId) {
	s.thread.sched.Cancel(id)
}

// canForwardToFace reports whether pitEntry may still be forwarded to
// faceID: not the face the Interest arrived on, and not already carrying
// an unexpired OutRecord to that face (which would just be a duplicate).
func canForwardToFace(pitEntry table.PitEntry, faceID uint64, inFace uint64) bool {
	if faceID == inFace {
		return false
	}
	if rec, ok := pitEntry.OutRecords()[faceID]; ok {
		if time.Now().Before(rec.ExpirationTime) {
			return false
		}
	}
	return true
}

// hasUnexpiredOutRecord reports whether pitEntry already has at least one
// OutRecord whose expiry hasn't passed, meaning some strategy already
// forwarded this Interest and a retransmission should not re-forward it.
func hasUnexpiredOutRecord(pitEntry table.PitEntry) bool {
	now := time.Now()
	for _, rec := range pitEntry.OutRecords() {
		if now.Before(rec.ExpirationTime) {
			return true
		}
	}
	return false
}
