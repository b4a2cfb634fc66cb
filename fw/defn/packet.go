/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package defn

import (
	"time"

	enc "github.com/named-data/ndnd/std/encoding"
	"github.com/named-data/ndnd/std/types/optional"
)

// DefaultInterestLifetime is used when an Interest carries no
// InterestLifetime element.
const DefaultInterestLifetime = 4 * time.Second

// FwInterest is the forwarding core's internal view of an Interest: just
// the fields the Forwarder pipeline and strategies need to make a
// decision. Signature and application parameters are opaque to the core.
type FwInterest struct {
	NameV           enc.Name
	CanBePrefixV    bool
	MustBeFreshV    bool
	ForwardingHintV enc.Name
	NonceV          optional.Optional[uint32]
	LifetimeV       optional.Optional[time.Duration]
	HopLimitV       optional.Optional[uint8]
}

// Returns the Interest's name.
func (i *FwInterest) Name() enc.Name { return i.NameV }

// Lifetime returns the InterestLifetime, or DefaultInterestLifetime if absent.
func (i *FwInterest) Lifetime() time.Duration {
	return i.LifetimeV.GetOr(DefaultInterestLifetime)
}

// NackReason identifies why an Interest was rejected rather than
// forwarded or satisfied, carried back to the downstream that sent it.
type NackReason uint64

const (
	NackReasonNone       NackReason = 0
	NackReasonCongestion NackReason = 50
	NackReasonDuplicate  NackReason = 100
	NackReasonNoRoute    NackReason = 150
)

// Returns the human-readable name of the NackReason.
func (r NackReason) String() string {
	switch r {
	case NackReasonCongestion:
		return "Congestion"
	case NackReasonDuplicate:
		return "Duplicate"
	case NackReasonNoRoute:
		return "NoRoute"
	default:
		return "None"
	}
}

// FwNack is the forwarding core's internal view of a Nack: the Interest
// it answers, plus the reason the Interest was rejected.
type FwNack struct {
	InterestV *FwInterest
	ReasonV   NackReason
}

// Returns the Nack's name (the Interest it answers).
func (n *FwNack) Name() enc.Name { return n.InterestV.NameV }

// FwData is the forwarding core's internal view of a Data packet.
type FwData struct {
	NameV            enc.Name
	FreshnessPeriodV optional.Optional[time.Duration]
	ContentV         enc.Wire
}

// Returns the Data's name.
func (d *FwData) Name() enc.Name { return d.NameV }

// IsFresh reports whether the Data is still fresh as of when it was
// admitted to the Content Store plus its FreshnessPeriod. With no
// FreshnessPeriod a Data is immediately stale (MustBeFresh never matches it).
func (d *FwData) IsFresh(admitted time.Time, now time.Time) bool {
	fp, ok := d.FreshnessPeriodV.Get()
	if !ok {
		return false
	}
	return now.Before(admitted.Add(fp))
}

// L3Pkt is the mutually exclusive parsed Interest/Data/Nack union carried
// on a Pkt.
type L3Pkt struct {
	Interest *FwInterest
	Data     *FwData
	Nack     *FwNack
}

// Pkt is the unit of exchange between a Face and the Forwarder: the raw
// wire bytes (as received from, or to be handed to, the transport) plus
// the parsed L3 view used by the pipeline and strategies.
type Pkt struct {
	Name enc.Name
	Wire enc.Wire
	L3   L3Pkt

	// PitToken is the opaque value exchanged with downstream/upstream to
	// correlate a Data with the PIT entries it satisfies without a name
	// lookup; it is attached to outgoing Interests and echoed on the
	// matching Data when the lower layer supports it (NDNLPv2 field in
	// the original protocol; carried here as a plain byte slice since
	// fragmentation/reassembly is explicitly out of scope for this core).
	PitToken []byte

	// IncomingFaceId records which face delivered this packet, when known.
	IncomingFaceId optional.Optional[uint64]
}

// IsInterest reports whether this packet carries a parsed Interest.
func (p *Pkt) IsInterest() bool { return p.L3.Interest != nil }

// IsData reports whether this packet carries a parsed Data.
func (p *Pkt) IsData() bool { return p.L3.Data != nil }

// IsNack reports whether this packet carries a Nack.
func (p *Pkt) IsNack() bool { return p.L3.Nack != nil }

// AsNack returns a new packet carrying p's Interest as a Nack with
// reason, addressed back to whichever face p.L3.Interest was received
// from. The outgoing frame reuses p's own encoded bytes: the NDNLPv2
// Nack field is link-layer framing this minimal codec does not model
// (see codec.go's package comment), so the Interest's wire encoding
// doubles as the Nack's.
func (p *Pkt) AsNack(reason NackReason) *Pkt {
	return &Pkt{
		Name: p.Name,
		Wire: p.Wire,
		L3:   L3Pkt{Nack: &FwNack{InterestV: p.L3.Interest, ReasonV: reason}},
	}
}
