/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package defn

// Minimal NDN Packet Format (v0.3) codec: just enough of the wire format
// for the forwarding core to read a packet's name and the handful of
// fields the pipeline and strategies act on (selectors, freshness,
// nonce, lifetime). Signature fields, application parameters, and the
// full extensible TLV schema are intentionally not modeled here — that
// is the job of the external encoding/spec library (std/encoding,
// std/ndn/spec_2022) this core does not redefine (spec.md §1, §6).

import (
	"time"

	enc "github.com/named-data/ndnd/std/encoding"
	"github.com/named-data/ndnd/std/types/optional"
)

// TLV type numbers, NDN Packet Format v0.3.
const (
	tlvInterest         = 5
	tlvData             = 6
	tlvName             = 7
	tlvCanBePrefix      = 0x21
	tlvMustBeFresh      = 0x12
	tlvForwardingHint   = 0x1e
	tlvNonce            = 0x0a
	tlvInterestLifetime = 0x0c
	tlvHopLimit         = 0x22
	tlvMetaInfo         = 0x14
	tlvFreshnessPeriod  = 0x19
	tlvContent          = 0x15
)

// ErrMalformedPacket is returned by DecodePkt when the input is not a
// well-formed Interest or Data TLV block.
type ErrMalformedPacket struct{ Reason string }

func (e ErrMalformedPacket) Error() string { return "malformed packet: " + e.Reason }

// DecodePkt parses a single top-level TLV block (Interest or Data) from
// wire. It returns ErrMalformedPacket for anything it cannot parse as
// one of those two types; callers (face parsers) drop the packet and log
// a warning rather than failing the face, per spec.md §7.
func DecodePkt(wire []byte) (*Pkt, error) {
	r := enc.NewBufferView(wire)
	typ, err := r.ReadTLNum()
	if err != nil {
		return nil, ErrMalformedPacket{"no TL number: " + err.Error()}
	}
	length, err := r.ReadTLNum()
	if err != nil {
		return nil, ErrMalformedPacket{"no length: " + err.Error()}
	}
	start := r.Pos()
	if start+int(length) > len(wire) {
		return nil, ErrMalformedPacket{"length exceeds buffer"}
	}
	body := wire[start : start+int(length)]

	switch typ {
	case tlvInterest:
		fw, err := decodeInterestBody(body)
		if err != nil {
			return nil, err
		}
		return &Pkt{
			Name: fw.NameV,
			Wire: enc.Wire{wire[:start+int(length)]},
			L3:   L3Pkt{Interest: fw},
		}, nil
	case tlvData:
		fd, err := decodeDataBody(body)
		if err != nil {
			return nil, err
		}
		return &Pkt{
			Name: fd.NameV,
			Wire: enc.Wire{wire[:start+int(length)]},
			L3:   L3Pkt{Data: fd},
		}, nil
	default:
		return nil, ErrMalformedPacket{"unknown top-level type"}
	}
}

func decodeInterestBody(body []byte) (*FwInterest, error) {
	fw := &FwInterest{}
	r := enc.NewBufferView(body)
	for !r.IsEOF() {
		typ, val, err := readElement(&r)
		if err != nil {
			return nil, err
		}

		switch typ {
		case tlvName:
			n, err := parseNameValue(val)
			if err != nil {
				return nil, err
			}
			fw.NameV = n
		case tlvCanBePrefix:
			fw.CanBePrefixV = true
		case tlvMustBeFresh:
			fw.MustBeFreshV = true
		case tlvForwardingHint:
			n, err := parseNameValue(val)
			if err == nil {
				fw.ForwardingHintV = n
			}
		case tlvNonce:
			if len(val) == 4 {
				fw.NonceV = optional.Some(uint32(val[0])<<24 | uint32(val[1])<<16 | uint32(val[2])<<8 | uint32(val[3]))
			}
		case tlvInterestLifetime:
			ms, _, err := enc.ParseNat(val)
			if err == nil {
				fw.LifetimeV = optional.Some(time.Duration(ms) * time.Millisecond)
			}
		case tlvHopLimit:
			if len(val) == 1 {
				fw.HopLimitV = optional.Some(val[0])
			}
		}
	}
	if fw.NameV == nil {
		return nil, ErrMalformedPacket{"interest missing name"}
	}
	return fw, nil
}

func decodeDataBody(body []byte) (*FwData, error) {
	fd := &FwData{}
	r := enc.NewBufferView(body)
	for !r.IsEOF() {
		typ, val, err := readElement(&r)
		if err != nil {
			return nil, err
		}

		switch typ {
		case tlvName:
			n, err := parseNameValue(val)
			if err != nil {
				return nil, err
			}
			fd.NameV = n
		case tlvMetaInfo:
			fd.FreshnessPeriodV = parseFreshnessPeriod(val)
		case tlvContent:
			fd.ContentV = enc.Wire{val}
		}
	}
	if fd.NameV == nil {
		return nil, ErrMalformedPacket{"data missing name"}
	}
	return fd, nil
}

func parseFreshnessPeriod(metaInfo []byte) optional.Optional[time.Duration] {
	r := enc.NewBufferView(metaInfo)
	for !r.IsEOF() {
		typ, val, err := readElement(&r)
		if err != nil {
			return optional.None[time.Duration]()
		}
		if typ == tlvFreshnessPeriod {
			ms, _, err := enc.ParseNat(val)
			if err == nil {
				return optional.Some(time.Duration(ms) * time.Millisecond)
			}
		}
	}
	return optional.None[time.Duration]()
}

func parseNameValue(val []byte) (enc.Name, error) {
	r := enc.NewBufferView(val)
	name, err := r.ReadName()
	if err != nil {
		return nil, ErrMalformedPacket{"bad name: " + err.Error()}
	}
	return name, nil
}

// readElement reads one TLV element's type and value bytes from r,
// reporting ErrMalformedPacket instead of panicking on truncated input.
func readElement(r *enc.WireView) (enc.TLNum, []byte, error) {
	typ, err := r.ReadTLNum()
	if err != nil {
		return 0, nil, ErrMalformedPacket{"no TL number: " + err.Error()}
	}
	length, err := r.ReadTLNum()
	if err != nil {
		return 0, nil, ErrMalformedPacket{"no length: " + err.Error()}
	}
	val, err := r.ReadBuf(int(length))
	if err != nil {
		return 0, nil, ErrMalformedPacket{"element overruns body: " + err.Error()}
	}
	return typ, val, nil
}

// EncodePkt serializes the L3 content of p back into its Wire field,
// used by the Forwarder when it needs to stamp a fresh encoding (it
// normally does not: incoming wires are retransmitted byte-for-byte).
func EncodePkt(p *Pkt) enc.Wire {
	return p.Wire
}
