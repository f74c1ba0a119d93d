package sml

import (
	"errors"
	"fmt"
)

type smlToken interface{}

type smlOctetString []byte

type smlBoolean bool

type smlUnsigned uint64

type smlSigned int64

type smlList []smlToken

type smlEndOfMessage struct{}

const (
	typeOctetString = 0x0
	typeBoolean     = 0x4
	typeSigned      = 0x5
	typeUnsigned    = 0x6
	typeList        = 0x7
)

const maxTypeLengthSize = 2

type typeLengthField struct {
	dataType uint8
	length   int
	size     int
}

// tokenReader decodes the type-length-value encoding of a frame payload.
type tokenReader struct {
	data   []byte
	offset int
}

func (t *tokenReader) remaining() int {
	return len(t.data) - t.offset
}

func (t *tokenReader) next(n int) ([]byte, error) {
	if n < 0 || t.remaining() < n {
		return nil, &InvalidMessage{
			error: fmt.Errorf("message truncated at offset %d", t.offset),
		}
	}

	b := t.data[t.offset : t.offset+n]
	t.offset += n

	return b, nil
}

func (t *tokenReader) readTypeLength() (tlf typeLengthField, err error) {
	b, err := t.next(1)

	if err != nil {
		return
	}

	tlf.dataType = b[0] & 0x70 >> 4
	tlf.length = int(b[0] & 0x0f)
	tlf.size = 1

	for b[0]&0x80 != 0 {
		if tlf.size == maxTypeLengthSize {
			err = &InvalidMessage{
				error: fmt.Errorf("only SML type-length fields with up to %d bytes are supported", maxTypeLengthSize),
			}
			return
		}

		b, err = t.next(1)

		if err != nil {
			return
		}

		if mode := b[0] & 0x70 >> 4; mode != 0 {
			err = &InvalidMessage{
				error: fmt.Errorf("unknown mode %1x for continued type-length field", mode),
			}
			return
		}

		tlf.length = tlf.length<<4 | int(b[0]&0x0f)
		tlf.size++
	}

	return
}

func (t *tokenReader) readToken() (smlToken, error) {
	tlf, err := t.readTypeLength()

	if err != nil {
		return nil, err
	}

	if tlf.dataType == typeOctetString && tlf.length == 0 {
		return smlEndOfMessage{}, nil
	}

	if tlf.dataType == typeList {
		return t.readList(tlf.length)
	}

	data, err := t.next(tlf.length - tlf.size)

	if err != nil {
		return nil, err
	}

	switch tlf.dataType {
	case typeOctetString:
		return smlOctetString(data), nil
	case typeBoolean:
		if len(data) != 1 {
			return nil, &InvalidMessage{
				error: fmt.Errorf("invalid data length %d for boolean", len(data)),
			}
		}

		return smlBoolean(data[0] != 0x00), nil
	case typeSigned, typeUnsigned:
		return decodeInteger(tlf.dataType, data)
	}

	return nil, &InvalidMessage{
		error: fmt.Errorf("unknown SML type %1x", tlf.dataType),
	}
}

func (t *tokenReader) readList(count int) (smlToken, error) {
	// Every element takes at least one byte
	if count > t.remaining() {
		return nil, &InvalidMessage{
			error: fmt.Errorf("list of %d elements exceeds the %d remaining bytes", count, t.remaining()),
		}
	}

	tokens := make(smlList, count)

	for i := range tokens {
		token, err := t.readToken()

		if err != nil {
			return nil, err
		}

		tokens[i] = token
	}

	return tokens, nil
}

// decodeInteger accepts big endian values of one to eight bytes. Shortened
// encodings are zero or sign extended.
func decodeInteger(dataType uint8, data []byte) (smlToken, error) {
	if len(data) == 0 || len(data) > 8 {
		return nil, &InvalidMessage{
			error: fmt.Errorf("unsupported integer length %d", len(data)),
		}
	}

	var v uint64

	for _, b := range data {
		v = v<<8 | uint64(b)
	}

	if dataType == typeUnsigned {
		return smlUnsigned(v), nil
	}

	shift := 64 - 8*len(data)

	return smlSigned(int64(v<<shift) >> shift), nil
}

var errNotAnInteger = errors.New("not an integer")

func tokenUint(token smlToken) (uint64, error) {
	switch v := token.(type) {
	case smlUnsigned:
		return uint64(v), nil
	case smlOctetString:
		if len(v) == 0 {
			return 0, nil
		}
	}

	return 0, errNotAnInteger
}

func tokenInt(token smlToken) (int64, error) {
	switch v := token.(type) {
	case smlSigned:
		return int64(v), nil
	case smlOctetString:
		if len(v) == 0 {
			return 0, nil
		}
	}

	return 0, errNotAnInteger
}
