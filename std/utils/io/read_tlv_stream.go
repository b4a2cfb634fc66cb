package io

import (
	"bufio"
	"io"
)

// tlvNumLen returns the total byte length of the NDN TLV variable-length
// number starting with the already-read first byte b (1, 3, 5, or 9).
func tlvNumLen(b byte) int {
	switch {
	case b <= 0xfc:
		return 1
	case b == 0xfd:
		return 3
	case b == 0xfe:
		return 5
	default:
		return 9
	}
}

// tlvNumValue decodes a TLV variable-length number whose encoding
// (including its leading marker byte) is exactly buf.
func tlvNumValue(buf []byte) uint64 {
	if len(buf) == 1 {
		return uint64(buf[0])
	}
	var v uint64
	for _, b := range buf[1:] {
		v = v<<8 | uint64(b)
	}
	return v
}

// ReadTlvStream reads whole NDN TLV blocks (Type-Length-Value, where Value
// is exactly Length bytes) one at a time from r, calling onPkt with each
// complete block's raw bytes (Type+Length+Value). onPkt returns false to
// stop reading. onErr, if non-nil, is consulted on a read error from r: if
// it returns true the error is treated as transient and reading continues
// (used for UDP's connection-refused ICMP-triggered errors); otherwise
// ReadTlvStream returns the error.
//
// This reads exactly one TLV block per logical packet and does not
// reassemble fragments across blocks; fragmentation/reassembly is out of
// scope for this forwarder.
func ReadTlvStream(r io.Reader, onPkt func([]byte) bool, onErr func(error) bool) error {
	// Buffered at the largest NDN packet size so a UDP datagram is always
	// consumed from the underlying Read in one shot, preserving datagram
	// boundaries; a stream transport just accumulates across refills.
	br := bufio.NewReaderSize(r, 9000)
	var pkt []byte

	readN := func(n int) ([]byte, error) {
		start := len(pkt)
		pkt = append(pkt, make([]byte, n)...)
		if _, err := io.ReadFull(br, pkt[start:]); err != nil {
			return nil, err
		}
		return pkt[start:], nil
	}

	for {
		pkt = pkt[:0]

		typeFirst, err := readN(1)
		if err != nil {
			if onErr != nil && onErr(err) {
				continue
			}
			return err
		}
		if _, err := readN(tlvNumLen(typeFirst[0]) - 1); err != nil {
			if onErr != nil && onErr(err) {
				continue
			}
			return err
		}

		lenFirst, err := readN(1)
		if err != nil {
			if onErr != nil && onErr(err) {
				continue
			}
			return err
		}
		lenRest, err := readN(tlvNumLen(lenFirst[0]) - 1)
		if err != nil {
			if onErr != nil && onErr(err) {
				continue
			}
			return err
		}
		length := tlvNumValue(append([]byte{lenFirst[0]}, lenRest...))

		if length > 0 {
			if _, err := readN(int(length)); err != nil {
				if onErr != nil && onErr(err) {
					continue
				}
				return err
			}
		}

		out := make([]byte, len(pkt))
		copy(out, pkt)
		if !onPkt(out) {
			return nil
		}
	}
}
