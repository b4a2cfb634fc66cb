package fw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Picks the lowest-cost forwardable nexthop, and a retransmission moves
// on to the next-lowest-cost one rather than re-sending to the same face.
func TestBestRouteForwardsLowestCostFirst(t *testing.T) {
	th := newTestThread()
	s := &BestRoute{}
	instantiate(th, s)

	interest := testInterest("/a/b")
	pkt := testPkt(interest)
	entry := newPitEntry(th, interest)

	hops := nexthops(10, 20, 30)
	// nexthops() assigns ascending cost in call order; swap so the middle
	// one is cheapest, to prove sorting (not slice order) decides.
	hops[0].Cost, hops[1].Cost = hops[1].Cost, hops[0].Cost

	s.AfterReceiveInterest(pkt, entry, 0, hops)

	recs := entry.OutRecords()
	assert.Len(t, recs, 1)
	_, sentTo20 := recs[20]
	assert.True(t, sentTo20, "expected the lowest-cost nexthop (face 20) to be tried first")

	// The OutRecord on face 20 is still unexpired, so a retransmission of
	// the same Interest must move on to the next-lowest-cost nexthop
	// instead of re-sending to the same face.
	s.AfterReceiveInterest(pkt, entry, 0, hops)
	assert.Len(t, entry.OutRecords(), 2)
	_, sentTo10 := entry.OutRecords()[10]
	assert.True(t, sentTo10, "expected retransmission to try the next-cheapest nexthop (face 10)")
}

// With no nexthops at all, BestRoute rejects rather than hanging.
func TestBestRouteRejectsWithNoNexthops(t *testing.T) {
	th := newTestThread()
	s := &BestRoute{}
	instantiate(th, s)

	interest := testInterest("/a/b")
	pkt := testPkt(interest)
	entry := newPitEntry(th, interest)

	s.AfterReceiveInterest(pkt, entry, 0, nil)
	assert.Empty(t, entry.OutRecords())
}
