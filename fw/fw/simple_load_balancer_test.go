package fw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// A new Interest is forwarded to exactly one of the nexthops.
func TestSimpleLoadBalancerForwardsToOneNexthop(t *testing.T) {
	th := newTestThread()
	s := &SimpleLoadBalancer{}
	instantiate(th, s)

	interest := testInterest("/a/b")
	pkt := testPkt(interest)
	entry := newPitEntry(th, interest)

	s.AfterReceiveInterest(pkt, entry, 0, nexthops(10, 20, 30))

	assert.Len(t, entry.OutRecords(), 1)
}

// A retransmission of an already-forwarded Interest is dropped, not
// rebalanced onto a different face.
func TestSimpleLoadBalancerDropsRetransmission(t *testing.T) {
	th := newTestThread()
	s := &SimpleLoadBalancer{}
	instantiate(th, s)

	interest := testInterest("/a/b")
	pkt := testPkt(interest)
	entry := newPitEntry(th, interest)
	hops := nexthops(10, 20, 30)

	s.AfterReceiveInterest(pkt, entry, 0, hops)
	assert.Len(t, entry.OutRecords(), 1)

	s.AfterReceiveInterest(pkt, entry, 0, hops)
	assert.Len(t, entry.OutRecords(), 1, "a retransmission must not add a second OutRecord")
}

// With no forwardable nexthop, the Interest is rejected.
func TestSimpleLoadBalancerRejectsWithNoNexthops(t *testing.T) {
	th := newTestThread()
	s := &SimpleLoadBalancer{}
	instantiate(th, s)

	interest := testInterest("/a/b")
	pkt := testPkt(interest)
	entry := newPitEntry(th, interest)

	s.AfterReceiveInterest(pkt, entry, 0, nil)
	assert.Empty(t, entry.OutRecords())
}
