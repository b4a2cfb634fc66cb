/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"math/rand"
	"time"

	"github.com/named-data/ndnd/fw/core"
	"github.com/named-data/ndnd/fw/defn"
	"github.com/named-data/ndnd/fw/dispatch"
	"github.com/named-data/ndnd/fw/table"
	enc "github.com/named-data/ndnd/std/encoding"
)

const (
	nccInitialPrediction = 8 * time.Millisecond
	nccMinPrediction      = 127 * time.Microsecond
	nccMaxPrediction      = 160 * time.Millisecond

	// deferFirstWithoutBestFace and deferRangeWithoutBestFace pace the
	// first-ever Interest for a name, which has no bestFace to prefer yet:
	// wait a small random interval before picking a next-hop, so a
	// near-simultaneous Interest on another face doesn't immediately
	// duplicate it.
	deferFirstWithoutBestFace = 4 * time.Millisecond
	deferRangeWithoutBestFace = 75 * time.Millisecond
)

// nccMeasurement is the per-name CCNx-0.7.2-style state NCC keeps: the
// face that has most recently answered fastest, the face it displaced,
// and a running prediction of that face's response time.
type nccMeasurement struct {
	bestFace     uint64
	hasBestFace  bool
	previousFace uint64
	hasPrevious  bool
	prediction   time.Duration
}

func (nm *nccMeasurement) adjustPredictUp() {
	nm.prediction += nm.prediction >> 3
	if nm.prediction > nccMaxPrediction {
		nm.prediction = nccMaxPrediction
	}
}

func (nm *nccMeasurement) adjustPredictDown() {
	nm.prediction -= nm.prediction >> 7
	if nm.prediction < nccMinPrediction {
		nm.prediction = nccMinPrediction
	}
}

// updateBestFace promotes face to bestFace, demoting the prior bestFace to
// previousFace unless face already was, or there was none.
func (nm *nccMeasurement) updateBestFace(face uint64) {
	if !nm.hasBestFace || nm.bestFace == face {
		nm.bestFace = face
		nm.hasBestFace = true
		return
	}
	nm.previousFace = nm.bestFace
	nm.hasPrevious = true
	nm.bestFace = face
}

// nccPitState is the per-PIT-entry scratch NCC keeps: the two scheduled
// callbacks armed for this Interest, canceled together as soon as the
// entry is satisfied, expired, or rejected.
type nccPitState struct {
	bestFaceTimeout dispatch.EventId
	propagateTimer  dispatch.EventId
	hasBestTimeout  bool
	hasPropagate    bool
}

// NCC is a forwarding strategy modeled on CCNx 0.7.2: it remembers which
// face answered fastest for a name and keeps sending new Interests there
// first, racing a secondary propagation behind it in case the best face
// has gone quiet, and adjusts its response-time prediction from every
// satisfied Interest (spec.md §4.3).
type NCC struct {
	StrategyBase
}

func init() {
	strategyInit = append(strategyInit, func() Strategy { return &NCC{} })
	StrategyVersions["ncc"] = []uint64{1}
}

// Instantiate names and binds the strategy to fwThread.
func (s *NCC) Instantiate(fwThread *Thread) {
	s.NewStrategyBase(fwThread, "ncc", 1)
}

// AfterContentStoreHit sends the cached Data straight back to inFace.
func (s *NCC) AfterContentStoreHit(packet *defn.Pkt, pitEntry table.PitEntry, inFace uint64) {
	s.SendData(packet, pitEntry, inFace, 0)
}

// AfterReceiveData forwards the Data to every downstream in-record.
func (s *NCC) AfterReceiveData(packet *defn.Pkt, pitEntry table.PitEntry, inFace uint64) {
	for faceID := range pitEntry.InRecords() {
		s.SendData(packet, pitEntry, faceID, inFace)
	}
}

func (s *NCC) scratchKey() string { return s.String() + ":pit" }

func (s *NCC) measurementFor(name enc.Name) *nccMeasurement {
	v := s.Measurements().GetOrCreate(name, func() any {
		return &nccMeasurement{prediction: nccInitialPrediction}
	})
	return v.(*nccMeasurement)
}

func (s *NCC) pitState(pitEntry table.PitEntry) *nccPitState {
	v, ok := pitEntry.Scratch(s.scratchKey())
	if ok {
		return v.(*nccPitState)
	}
	st := &nccPitState{}
	pitEntry.SetScratch(s.scratchKey(), st)
	return st
}

// cancelTimers stops any still-pending bestFaceTimeout/propagateTimer for
// this entry, once it no longer needs them (satisfied, rejected, or about
// to be re-armed by a fresh Interest).
func (s *NCC) cancelTimers(st *nccPitState) {
	if st.hasBestTimeout {
		s.Cancel(st.bestFaceTimeout)
		st.hasBestTimeout = false
	}
	if st.hasPropagate {
		s.Cancel(st.propagateTimer)
		st.hasPropagate = false
	}
}

// AfterReceiveInterest sends a new Interest to the name's best face if one
// is known and reachable, arming a bestFaceTimeout (at the current
// prediction) to retry broadly if it stays quiet, and a propagateTimer (at
// half the prediction) to eagerly try one more next-hop for redundancy. If
// no best face is known yet, it waits a brief random interval and then
// sends to the first forwardable next-hop.
func (s *NCC) AfterReceiveInterest(
	packet *defn.Pkt,
	pitEntry table.PitEntry,
	inFace uint64,
	nexthops []*table.FibNextHopEntry,
) {
	if hasUnexpiredOutRecord(pitEntry) {
		return
	}
	if len(nexthops) == 0 {
		core.Log.Debug(s, "No nexthop for Interest", "name", packet.Name)
		s.RejectPendingInterest(pitEntry)
		return
	}

	nm := s.measurementFor(packet.Name)
	st := s.pitState(pitEntry)
	s.cancelTimers(st)

	if nm.hasBestFace {
		for _, nh := range nexthops {
			if nh.Nexthop != nm.bestFace || !canForwardToFace(pitEntry, nh.Nexthop, inFace) {
				continue
			}
			s.SendInterest(packet, pitEntry, nh.Nexthop, inFace)

			prediction := nm.prediction
			st.bestFaceTimeout = s.Schedule(prediction, func() {
				s.timeoutOnBestFace(packet, pitEntry, inFace, nexthops)
			})
			st.hasBestTimeout = true
			st.propagateTimer = s.Schedule(prediction/2, func() {
				s.doPropagate(packet, pitEntry, inFace, nexthops, nm.bestFace)
			})
			st.hasPropagate = true
			return
		}
	}

	delay := deferFirstWithoutBestFace + time.Duration(rand.Int63n(int64(deferRangeWithoutBestFace)+1))
	st.propagateTimer = s.Schedule(delay, func() {
		s.doPropagateFirst(packet, pitEntry, inFace, nexthops)
	})
	st.hasPropagate = true
}

// timeoutOnBestFace runs when the best face hasn't answered within the
// current prediction: the strategy grows its prediction for that face and
// fans out to every remaining forwardable next-hop.
func (s *NCC) timeoutOnBestFace(
	packet *defn.Pkt,
	pitEntry table.PitEntry,
	inFace uint64,
	nexthops []*table.FibNextHopEntry,
) {
	if pitEntry.Satisfied() {
		return
	}
	nm := s.measurementFor(packet.Name)
	nm.adjustPredictUp()

	for _, nh := range nexthops {
		if nh.Nexthop != nm.bestFace && canForwardToFace(pitEntry, nh.Nexthop, inFace) {
			s.SendInterest(packet, pitEntry, nh.Nexthop, inFace)
		}
	}
}

// doPropagate fans the Interest out to one more next-hop beyond bestFace,
// so a merely-slow best face doesn't stall the whole Interest.
func (s *NCC) doPropagate(
	packet *defn.Pkt,
	pitEntry table.PitEntry,
	inFace uint64,
	nexthops []*table.FibNextHopEntry,
	bestFace uint64,
) {
	if pitEntry.Satisfied() {
		return
	}
	for _, nh := range nexthops {
		if nh.Nexthop != bestFace && canForwardToFace(pitEntry, nh.Nexthop, inFace) {
			s.SendInterest(packet, pitEntry, nh.Nexthop, inFace)
			return
		}
	}
}

// doPropagateFirst sends a name's very first Interest to the first
// forwardable next-hop, once there has been no best face to prefer.
func (s *NCC) doPropagateFirst(
	packet *defn.Pkt,
	pitEntry table.PitEntry,
	inFace uint64,
	nexthops []*table.FibNextHopEntry,
) {
	if pitEntry.Satisfied() || hasUnexpiredOutRecord(pitEntry) {
		return
	}
	for _, nh := range nexthops {
		if canForwardToFace(pitEntry, nh.Nexthop, inFace) {
			s.SendInterest(packet, pitEntry, nh.Nexthop, inFace)
			return
		}
	}
	core.Log.Debug(s, "No forwardable nexthop for Interest", "name", packet.Name)
	s.RejectPendingInterest(pitEntry)
}

// BeforeSatisfyInterest cancels any still-pending timers for this entry
// and adjusts the prediction and the best/previous face pair per
// spec.md §4.3's updateBestFace/adjustPredictDown.
func (s *NCC) BeforeSatisfyInterest(pitEntry table.PitEntry, inFace uint64) {
	st := s.pitState(pitEntry)
	s.cancelTimers(st)

	nm := s.measurementFor(pitEntry.EncName())
	if nm.hasBestFace && nm.bestFace == inFace {
		nm.adjustPredictDown()
	}
	nm.updateBestFace(inFace)
}

// BeforeExpireInterest cancels any still-pending timers for this entry;
// the best-face aging described in the original design is superseded
// here by the Measurements table's own lifetime expiry.
func (s *NCC) BeforeExpireInterest(pitEntry table.PitEntry) {
	s.cancelTimers(s.pitState(pitEntry))
}
