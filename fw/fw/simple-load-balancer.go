/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"math/rand"

	"github.com/named-data/ndnd/fw/core"
	"github.com/named-data/ndnd/fw/defn"
	"github.com/named-data/ndnd/fw/table"
)

// SimpleLoadBalancer picks a uniformly random forwardable nexthop per new
// Interest and never retransmits: a retransmission just rides the
// original OutRecord until it is satisfied, rejected, or expires.
type SimpleLoadBalancer struct {
	StrategyBase
}

func init() {
	strategyInit = append(strategyInit, func() Strategy { return &SimpleLoadBalancer{} })
	StrategyVersions["simple-load-balancer"] = []uint64{1}
}

// Instantiate names and binds the strategy to fwThread.
func (s *SimpleLoadBalancer) Instantiate(fwThread *Thread) {
	s.NewStrategyBase(fwThread, "simple-load-balancer", 1)
}

// AfterContentStoreHit sends the cached Data straight back to inFace.
func (s *SimpleLoadBalancer) AfterContentStoreHit(packet *defn.Pkt, pitEntry table.PitEntry, inFace uint64) {
	s.SendData(packet, pitEntry, inFace, 0)
}

// AfterReceiveData forwards the Data to every downstream in-record.
func (s *SimpleLoadBalancer) AfterReceiveData(packet *defn.Pkt, pitEntry table.PitEntry, inFace uint64) {
	for faceID := range pitEntry.InRecords() {
		s.SendData(packet, pitEntry, faceID, inFace)
	}
}

// AfterReceiveInterest forwards a new Interest to one uniformly random
// forwardable nexthop; a retransmission of an already-forwarded Interest
// is dropped rather than re-balanced onto a different face.
func (s *SimpleLoadBalancer) AfterReceiveInterest(
	packet *defn.Pkt,
	pitEntry table.PitEntry,
	inFace uint64,
	nexthops []*table.FibNextHopEntry,
) {
	if hasUnexpiredOutRecord(pitEntry) {
		return
	}

	var forwardable []*table.FibNextHopEntry
	for _, nh := range nexthops {
		if canForwardToFace(pitEntry, nh.Nexthop, inFace) {
			forwardable = append(forwardable, nh)
		}
	}
	if len(forwardable) == 0 {
		core.Log.Debug(s, "No forwardable nexthop for Interest", "name", packet.Name)
		s.RejectPendingInterest(pitEntry)
		return
	}

	nh := forwardable[rand.Intn(len(forwardable))]
	s.SendInterest(packet, pitEntry, nh.Nexthop, inFace)
}

// BeforeSatisfyInterest keeps no per-face state.
func (s *SimpleLoadBalancer) BeforeSatisfyInterest(pitEntry table.PitEntry, inFace uint64) {}

// BeforeExpireInterest keeps no per-face state.
func (s *SimpleLoadBalancer) BeforeExpireInterest(pitEntry table.PitEntry) {}
