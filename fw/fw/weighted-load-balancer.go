/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"math/rand"
	"sort"
	"time"

	"github.com/named-data/ndnd/fw/core"
	"github.com/named-data/ndnd/fw/defn"
	"github.com/named-data/ndnd/fw/table"
	enc "github.com/named-data/ndnd/std/encoding"
)

// weightedMeasurementLifetimeExtension is how much longer a satisfied
// Interest's ancestor Measurements entries are kept alive for, so the
// delay estimate survives until the next Interest for the same name.
const weightedMeasurementLifetimeExtension = 16 * time.Second

// weightedFace is one next-hop's running latency estimate under a
// WeightedLoadBalancer-governed name.
type weightedFace struct {
	faceID    uint64
	lastDelay time.Duration
}

// weightedMeasurement is the Measurements payload WeightedLoadBalancer
// keeps per name: the set of known faces and the sum of their last delays.
type weightedMeasurement struct {
	faces      map[uint64]*weightedFace
	totalDelay time.Duration
}

// WeightedLoadBalancer forwards each new Interest to one nexthop, drawn
// with weight totalDelay minus that face's last observed round-trip
// delay, and refines the estimate from every satisfied
// Interest (spec.md §4.3).
type WeightedLoadBalancer struct {
	StrategyBase
}

func init() {
	strategyInit = append(strategyInit, func() Strategy { return &WeightedLoadBalancer{} })
	StrategyVersions["weighted-load-balancer"] = []uint64{1}
}

// Instantiate names and binds the strategy to fwThread.
func (s *WeightedLoadBalancer) Instantiate(fwThread *Thread) {
	s.NewStrategyBase(fwThread, "weighted-load-balancer", 1)
}

// AfterContentStoreHit sends the cached Data straight back to inFace.
func (s *WeightedLoadBalancer) AfterContentStoreHit(packet *defn.Pkt, pitEntry table.PitEntry, inFace uint64) {
	s.SendData(packet, pitEntry, inFace, 0)
}

// AfterReceiveData forwards the Data to every downstream in-record.
func (s *WeightedLoadBalancer) AfterReceiveData(packet *defn.Pkt, pitEntry table.PitEntry, inFace uint64) {
	for faceID := range pitEntry.InRecords() {
		s.SendData(packet, pitEntry, faceID, inFace)
	}
}

func (s *WeightedLoadBalancer) scratchKey() string { return s.String() + ":creation" }

func (s *WeightedLoadBalancer) measurementFor(name enc.Name) *weightedMeasurement {
	v := s.Measurements().GetOrCreate(name, func() any {
		return &weightedMeasurement{faces: make(map[uint64]*weightedFace)}
	})
	return v.(*weightedMeasurement)
}

// reconcile adds newcomers (delay=0) and prunes faces no longer present
// in the FIB entry's current next-hops.
func reconcileWeightedFaces(wm *weightedMeasurement, nexthops []*table.FibNextHopEntry) {
	present := make(map[uint64]bool, len(nexthops))
	for _, nh := range nexthops {
		present[nh.Nexthop] = true
		if _, ok := wm.faces[nh.Nexthop]; !ok {
			wm.faces[nh.Nexthop] = &weightedFace{faceID: nh.Nexthop}
		}
	}
	for id := range wm.faces {
		if !present[id] {
			delete(wm.faces, id)
		}
	}
}

// AfterReceiveInterest implements the weighted selection described in
// spec.md §4.3: faces are ordered by ascending last delay, and one is
// drawn with weight (totalDelay - lastDelay), giving slower faces a
// smaller share. A face whose lastDelay equals totalDelay (every other
// face still at zero) has weight zero and is not drawn.
func (s *WeightedLoadBalancer) AfterReceiveInterest(
	packet *defn.Pkt,
	pitEntry table.PitEntry,
	inFace uint64,
	nexthops []*table.FibNextHopEntry,
) {
	if hasUnexpiredOutRecord(pitEntry) {
		return
	}
	pitEntry.SetScratch(s.scratchKey(), time.Now())

	wm := s.measurementFor(packet.Name)
	reconcileWeightedFaces(wm, nexthops)

	ids := make([]uint64, 0, len(wm.faces))
	for id := range wm.faces {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		fi, fj := wm.faces[ids[i]], wm.faces[ids[j]]
		if fi.lastDelay == fj.lastDelay {
			return ids[i] < ids[j]
		}
		return fi.lastDelay < fj.lastDelay
	})

	var invTotal time.Duration
	for _, id := range ids {
		invTotal += wm.totalDelay - wm.faces[id].lastDelay
	}

	if invTotal <= 0 {
		for _, id := range ids {
			if canForwardToFace(pitEntry, id, inFace) {
				s.SendInterest(packet, pitEntry, id, inFace)
				return
			}
		}
		core.Log.Debug(s, "No forwardable nexthop for Interest", "name", packet.Name)
		s.RejectPendingInterest(pitEntry)
		return
	}

	r := time.Duration(rand.Int63n(int64(invTotal) + 1))
	var cumulative time.Duration
	for _, id := range ids {
		cumulative += wm.totalDelay - wm.faces[id].lastDelay
		if cumulative >= r && canForwardToFace(pitEntry, id, inFace) {
			s.SendInterest(packet, pitEntry, id, inFace)
			return
		}
	}
	core.Log.Debug(s, "No forwardable nexthop for Interest", "name", packet.Name)
	s.RejectPendingInterest(pitEntry)
}

// BeforeSatisfyInterest records the round-trip delay this Interest just
// saw on inFace, extends the Measurements lifetime of every live ancestor
// entry (so the estimate survives until the next Interest for it), and
// updates the face's running delay estimate.
func (s *WeightedLoadBalancer) BeforeSatisfyInterest(pitEntry table.PitEntry, inFace uint64) {
	v, ok := pitEntry.Scratch(s.scratchKey())
	if !ok {
		return
	}
	creation, ok := v.(time.Time)
	if !ok {
		return
	}
	delay := time.Since(creation)

	name := pitEntry.EncName()
	for i := len(name); i >= 0; i-- {
		s.Measurements().ExtendLifetime(name.Prefix(i), weightedMeasurementLifetimeExtension)
	}

	wm := s.measurementFor(name)
	wf, ok := wm.faces[inFace]
	if !ok {
		wf = &weightedFace{faceID: inFace}
		wm.faces[inFace] = wf
	}
	wm.totalDelay += delay - wf.lastDelay
	wf.lastDelay = delay
}

// BeforeExpireInterest keeps no additional state on expiry.
func (s *WeightedLoadBalancer) BeforeExpireInterest(pitEntry table.PitEntry) {}
