package table

import (
	enc "github.com/named-data/ndnd/std/encoding"
)

// VALID_DATA_1 is a hand-encoded Data packet named /ndn/edu/ucla/ping/123,
// used by the pit-cs tests to exercise baseCsEntry.Copy without pulling in
// a full signing/verification codec.
var VALID_DATA_1 = encodeTestData("/ndn/edu/ucla/ping/123", []byte("hello"))

func encodeTestData(nameStr string, content []byte) enc.Wire {
	name, err := enc.NameFromStr(nameStr)
	if err != nil {
		panic(err)
	}
	nameBuf := make(enc.Buffer, name.EncodingLength())
	name.EncodeInto(nameBuf)

	body := append([]byte{}, nameBuf...)
	body = append(body, tlvBytes(0x15, content)...)

	return enc.Wire{tlvBytes(6, body)}
}

func tlvBytes(typ uint64, val []byte) []byte {
	t := enc.TLNum(typ)
	l := enc.TLNum(uint64(len(val)))
	buf := make([]byte, t.EncodingLength()+l.EncodingLength()+len(val))
	n := t.EncodeInto(buf)
	n += l.EncodeInto(buf[n:])
	copy(buf[n:], val)
	return buf
}
