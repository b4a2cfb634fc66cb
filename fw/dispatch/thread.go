/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package dispatch

import "github.com/named-data/ndnd/fw/defn"

// ThreadCounters holds the data-plane counters a forwarding thread
// exposes for introspection.
type ThreadCounters struct {
	NPitEntries           int
	NCsEntries            int
	NCsHits               uint64
	NCsMisses             uint64
	NInInterests          uint64
	NInData               uint64
	NOutInterests         uint64
	NOutData              uint64
	NOutNacks             uint64
	NSatisfiedInterests   uint64
	NUnsatisfiedInterests uint64
}

// FWThread is the introspectable surface of a forwarding thread. It is
// broken out into its own package, separate from the concrete thread
// type in fw/fw, so that code reporting on a thread (or a face handing
// it packets) never has to import fw/fw itself, which in turn imports
// this package to register its threads.
type FWThread interface {
	// ID is the thread's index, as passed to GetFWThread.
	ID() int

	// Counters returns a snapshot of the thread's data-plane counters.
	Counters() ThreadCounters

	// QueueInterest hands an inbound Interest packet to the thread for
	// processing. The thread takes ownership of pkt.
	QueueInterest(pkt *defn.Pkt, faceId uint64)

	// QueueData hands an inbound Data packet to the thread for processing.
	QueueData(pkt *defn.Pkt, faceId uint64)
}
