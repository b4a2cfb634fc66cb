/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import "github.com/named-data/ndnd/fw/defn"

// RecordingLinkService stands in for a real face: SendPacket appends to
// Sent instead of writing to a transport, so a test can drive the
// forwarding core's pipeline end-to-end and assert exactly what it tried
// to send and to which face, without a real transport.
type RecordingLinkService struct {
	faceID uint64
	scope  defn.Scope
	Sent   []*defn.Pkt
}

// NewRecordingLinkService registers a RecordingLinkService with scope into
// FaceTable and returns it along with its assigned face id.
func NewRecordingLinkService(scope defn.Scope) (*RecordingLinkService, uint64) {
	s := &RecordingLinkService{scope: scope}
	s.faceID = FaceTable.Add(s)
	return s, s.faceID
}

func (s *RecordingLinkService) handleIncomingFrame(frame []byte) {}

// FaceID returns the id this link service was assigned when registered.
func (s *RecordingLinkService) FaceID() uint64 { return s.faceID }

// Scope returns the scope this link service was constructed with.
func (s *RecordingLinkService) Scope() defn.Scope { return s.scope }

// SendPacket records pkt instead of sending it anywhere.
func (s *RecordingLinkService) SendPacket(pkt *defn.Pkt) {
	s.Sent = append(s.Sent, pkt)
}

// Close deregisters this link service from FaceTable.
func (s *RecordingLinkService) Close() {
	FaceTable.Remove(s.faceID)
}
