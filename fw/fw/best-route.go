/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"sort"

	"github.com/named-data/ndnd/fw/core"
	"github.com/named-data/ndnd/fw/defn"
	"github.com/named-data/ndnd/fw/table"
)

// BestRoute forwards each Interest to the lowest-cost forwardable nexthop,
// and is the default strategy installed at the root of StrategyChoice
// (spec.md's "every name has a governing strategy" invariant).
type BestRoute struct {
	StrategyBase
}

func init() {
	strategyInit = append(strategyInit, func() Strategy { return &BestRoute{} })
	StrategyVersions["best-route"] = []uint64{1}
}

// Instantiate names and binds the strategy to fwThread.
func (s *BestRoute) Instantiate(fwThread *Thread) {
	s.NewStrategyBase(fwThread, "best-route", 1)
}

// AfterContentStoreHit sends the cached Data straight back to inFace.
func (s *BestRoute) AfterContentStoreHit(packet *defn.Pkt, pitEntry table.PitEntry, inFace uint64) {
	s.SendData(packet, pitEntry, inFace, 0)
}

// AfterReceiveData forwards the Data to every downstream in-record.
func (s *BestRoute) AfterReceiveData(packet *defn.Pkt, pitEntry table.PitEntry, inFace uint64) {
	for faceID := range pitEntry.InRecords() {
		s.SendData(packet, pitEntry, faceID, inFace)
	}
}

// AfterReceiveInterest forwards a new Interest to the lowest-cost
// forwardable nexthop; a retransmission tries the next-lowest-cost
// nexthop not already carrying an unexpired OutRecord, so a repeated
// Interest eventually reaches every route instead of hammering one.
func (s *BestRoute) AfterReceiveInterest(
	packet *defn.Pkt,
	pitEntry table.PitEntry,
	inFace uint64,
	nexthops []*table.FibNextHopEntry,
) {
	if len(nexthops) == 0 {
		core.Log.Debug(s, "No nexthop for Interest", "name", packet.Name)
		s.RejectPendingInterest(pitEntry)
		return
	}

	ordered := make([]*table.FibNextHopEntry, len(nexthops))
	copy(ordered, nexthops)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Cost < ordered[j].Cost })

	for _, nh := range ordered {
		if canForwardToFace(pitEntry, nh.Nexthop, inFace) {
			s.SendInterest(packet, pitEntry, nh.Nexthop, inFace)
			return
		}
	}

	if !hasUnexpiredOutRecord(pitEntry) {
		core.Log.Debug(s, "No forwardable nexthop for Interest", "name", packet.Name)
		s.RejectPendingInterest(pitEntry)
	}
}

// BeforeSatisfyInterest keeps no per-face state.
func (s *BestRoute) BeforeSatisfyInterest(pitEntry table.PitEntry, inFace uint64) {}

// BeforeExpireInterest keeps no per-face state.
func (s *BestRoute) BeforeExpireInterest(pitEntry table.PitEntry) {}
