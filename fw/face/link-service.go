/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"context"

	"github.com/named-data/ndnd/fw/core"
	"github.com/named-data/ndnd/fw/defn"
	"github.com/named-data/ndnd/fw/dispatch"
)

// LinkService is the interface a transport hands received frames to, and
// the interface the Forwarder pipeline sends packets through. The only
// implementation is NDNLPLinkService; it is an interface so a transport
// can be constructed and store a LinkService field before that link
// service object exists (setLinkService is called right after construction).
type LinkService interface {
	handleIncomingFrame(frame []byte)

	// FaceID returns the id this link service (and its face) was
	// assigned when added to FaceTable.
	FaceID() uint64

	// Scope returns the underlying transport's scope (Local or NonLocal),
	// used by the Forwarder pipeline to enforce /localhost restrictions.
	Scope() defn.Scope

	// SendPacket encodes and sends pkt's wire representation over the
	// underlying transport.
	SendPacket(pkt *defn.Pkt)

	// Close tears down the underlying transport.
	Close()
}

// NDNLPLinkServiceOptions controls an NDNLPLinkService's behavior. The
// original NDNLPv2 link protocol's fragmentation/reassembly, reliability,
// and congestion-control fields are intentionally not reproduced here
// (fragmentation/reassembly is an explicit non-goal); only the options
// this core actually honors are kept.
type NDNLPLinkServiceOptions struct {
	// IsFragmentationEnabled is kept for call-site parity with the
	// original transports (stream transports disable it; this core
	// never reassembles, so it has no effect either way).
	IsFragmentationEnabled bool
}

// MakeNDNLPLinkServiceOptions returns the default link service options.
func MakeNDNLPLinkServiceOptions() NDNLPLinkServiceOptions {
	return NDNLPLinkServiceOptions{IsFragmentationEnabled: true}
}

// NDNLPLinkService decodes/encodes bare NDN TLV packets over a transport
// and hands decoded packets to the forwarding thread. There is no NDNLPv2
// framing (no fragmentation, no PIT token field separate from the packet
// itself): every frame is exactly one Interest or Data TLV block.
type NDNLPLinkService struct {
	transport transport
	options   NDNLPLinkServiceOptions
	faceID    uint64
}

// MakeNDNLPLinkService constructs a link service over transport and
// installs it as the transport's LinkService, but does not yet register
// it with FaceTable or start receiving; call Run for that.
func MakeNDNLPLinkService(transport transport, options NDNLPLinkServiceOptions) *NDNLPLinkService {
	s := &NDNLPLinkService{transport: transport, options: options}
	transport.setLinkService(s)
	return s
}

// Returns a string identifying this link service by its transport.
func (s *NDNLPLinkService) String() string {
	return "link-service (" + s.transport.String() + ")"
}

// FaceID returns the face id assigned to this link service.
func (s *NDNLPLinkService) FaceID() uint64 { return s.faceID }

// Scope returns the underlying transport's scope.
func (s *NDNLPLinkService) Scope() defn.Scope { return s.transport.Scope() }

// Transport returns the underlying transport.
func (s *NDNLPLinkService) Transport() transport { return s.transport }

// Run registers the link service's face with FaceTable, then blocks
// running the transport's receive loop until the transport closes. ctx is
// accepted for call-site parity with a future cancellable accept loop; a
// nil ctx (as every listener currently passes) runs until Close.
func (s *NDNLPLinkService) Run(ctx context.Context) {
	s.faceID = FaceTable.Add(s)
	s.transport.setFaceID(s.faceID)
	core.Log.Info(s, "New face registered", "faceid", s.faceID)
	s.transport.runReceive()
	FaceTable.Remove(s.faceID)
	core.Log.Info(s, "Face removed", "faceid", s.faceID)
}

// handleIncomingFrame decodes frame as a single NDN packet and queues it
// on thread 0's ingress; malformed frames are logged and dropped.
func (s *NDNLPLinkService) handleIncomingFrame(frame []byte) {
	pkt, err := defn.DecodePkt(frame)
	if err != nil {
		core.Log.Warn(s, "Unable to decode incoming packet - DROP", "err", err)
		return
	}
	pkt.IncomingFaceId.Set(s.faceID)

	thread := dispatch.GetFWThread(0)
	if thread == nil {
		core.Log.Warn(s, "No forwarding thread registered - DROP")
		return
	}
	if pkt.IsInterest() {
		thread.QueueInterest(pkt, s.faceID)
	} else if pkt.IsData() {
		thread.QueueData(pkt, s.faceID)
	}
}

// SendPacket encodes pkt and sends it as a single frame on the transport.
func (s *NDNLPLinkService) SendPacket(pkt *defn.Pkt) {
	wire := pkt.Wire
	if wire == nil {
		wire = defn.EncodePkt(pkt)
	}
	s.transport.sendFrame(wire.Join())
}

// Close tears down the underlying transport.
func (s *NDNLPLinkService) Close() {
	s.transport.Close()
}
