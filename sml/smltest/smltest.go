// Package smltest builds SML transport frames for tests.
package smltest

import (
	"bytes"

	"github.com/sigurn/crc16"
)

const (
	PublicOpenRes  = 0x0101
	PublicCloseRes = 0x0201
	GetListResTag  = 0x0701
)

var (
	escapeSequence = []byte{0x1b, 0x1b, 0x1b, 0x1b}
	beginOfFrame   = []byte{0x1b, 0x1b, 0x1b, 0x1b, 0x01, 0x01, 0x01, 0x01}
)

// Optional encodes an absent optional field.
var Optional = []byte{0x01}

func OctetString(b ...byte) []byte {
	return append([]byte{byte(len(b) + 1)}, b...)
}

func Unsigned8(v uint8) []byte {
	return []byte{0x62, v}
}

func Unsigned16(v uint16) []byte {
	return []byte{0x63, byte(v >> 8), byte(v)}
}

func Unsigned32(v uint32) []byte {
	return []byte{0x65, byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func Signed8(v int8) []byte {
	return []byte{0x52, byte(v)}
}

func Signed32(v int32) []byte {
	return []byte{0x55, byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func List(elements ...[]byte) []byte {
	out := []byte{0x70 | byte(len(elements))}

	for _, e := range elements {
		out = append(out, e...)
	}

	return out
}

func Message(tag uint16, body []byte) []byte {
	return List(
		OctetString(0x01, 0x02),
		Unsigned8(0),
		Unsigned8(0),
		List(Unsigned16(tag), body),
		Unsigned16(0x1234),
		[]byte{0x00},
	)
}

func OpenRes(serverID ...byte) []byte {
	return Message(PublicOpenRes, List(Optional, Optional, OctetString(0xaa), OctetString(serverID...), Optional, Optional))
}

func CloseRes() []byte {
	return Message(PublicCloseRes, List(Optional))
}

func GetListRes(entries ...[]byte) []byte {
	return Message(GetListResTag, List(Optional, OctetString(0x0a, 0x01), Optional, Optional, List(entries...), Optional, Optional))
}

func ListEntry(code []byte, unit uint8, scaler int8, value []byte) []byte {
	return List(OctetString(code...), Optional, Optional, Unsigned8(unit), Signed8(scaler), value, Optional)
}

// Frame wraps payload into an SML transport frame with padding, escaping
// and checksum.
func Frame(payload []byte) []byte {
	padding := (4 - len(payload)%4) % 4
	padded := append(append([]byte{}, payload...), make([]byte, padding)...)

	out := append([]byte{}, beginOfFrame...)

	for i := 0; i < len(padded); i += 4 {
		chunk := padded[i : i+4]

		if bytes.Equal(chunk, escapeSequence) {
			out = append(out, escapeSequence...)
		}

		out = append(out, chunk...)
	}

	out = append(out, 0x1b, 0x1b, 0x1b, 0x1b, 0x1a, byte(padding))
	crc := crc16.Checksum(out, crc16.MakeTable(crc16.CRC16_X_25))

	return append(out, byte(crc), byte(crc>>8))
}

// File frames an open, a get list and a close message.
func File(serverID []byte, entries ...[]byte) []byte {
	var payload []byte
	payload = append(payload, OpenRes(serverID...)...)
	payload = append(payload, GetListRes(entries...)...)
	payload = append(payload, CloseRes()...)

	return Frame(payload)
}

// SampleFile holds three entries: 1-0:1.8.0*255 of 12345.6 Wh,
// 1-0:16.7.0*255 of -250 W and 1-0:96.50.1*1 with the octets "ISK".
func SampleFile() []byte {
	return File([]byte{0x0a, 0x01, 0x49, 0x53, 0x4b},
		ListEntry([]byte{1, 0, 1, 8, 0, 255}, 30, -1, Unsigned32(123456)),
		ListEntry([]byte{1, 0, 16, 7, 0, 255}, 27, 0, Signed32(-250)),
		ListEntry([]byte{1, 0, 96, 50, 1, 1}, 0, 0, OctetString('I', 'S', 'K')),
	)
}
