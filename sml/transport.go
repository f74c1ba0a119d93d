package sml

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/sigurn/crc16"
)

var (
	escapeSequence = []byte{0x1b, 0x1b, 0x1b, 0x1b}
	beginSequence  = []byte{0x01, 0x01, 0x01, 0x01}
	beginOfFrame   = append(append([]byte{}, escapeSequence...), beginSequence...)
)

const maxPaddingBytes = 3

// frameReader splits an SML transport stream into the payloads of its
// frames. Escape sequences are removed and the X.25 checksum is verified.
type frameReader struct {
	reader   *bufio.Reader
	crcTable *crc16.Table
}

func newFrameReader(r io.Reader) *frameReader {
	return &frameReader{
		reader:   bufio.NewReader(r),
		crcTable: crc16.MakeTable(crc16.CRC16_X_25),
	}
}

// synchronize discards input until a begin of frame sequence was consumed.
func (f *frameReader) synchronize() error {
	matched := 0

	for {
		b, err := f.reader.ReadByte()

		if err != nil {
			return err
		}

		if b == beginOfFrame[matched] {
			matched++

			if matched == len(beginOfFrame) {
				return nil
			}

			continue
		}

		switch {
		case b != 0x1b:
			matched = 0
		case matched != len(escapeSequence):
			// A longer run of escape bytes keeps a full escape sequence matched
			matched = 1
		}
	}
}

func (f *frameReader) readFrame() ([]byte, error) {
	err := f.synchronize()

	if err != nil {
		return nil, err
	}

	crc := crc16.Update(crc16.Init(f.crcTable), beginOfFrame, f.crcTable)
	payload := make([]byte, 0, 512)
	chunk := make([]byte, 4)
	escaped := make([]byte, 4)

	for {
		err = f.readChunk(chunk)

		if err != nil {
			return nil, err
		}

		if !bytes.Equal(chunk, escapeSequence) {
			crc = crc16.Update(crc, chunk, f.crcTable)
			payload = append(payload, chunk...)
			continue
		}

		err = f.readChunk(escaped)

		if err != nil {
			return nil, err
		}

		switch {
		case bytes.Equal(escaped, escapeSequence):
			crc = crc16.Update(crc, chunk, f.crcTable)
			crc = crc16.Update(crc, escaped, f.crcTable)
			payload = append(payload, escaped...)
		case bytes.Equal(escaped, beginSequence):
			// Restarted without closing the previous frame
			crc = crc16.Update(crc16.Init(f.crcTable), beginOfFrame, f.crcTable)
			payload = payload[:0]
		case escaped[0] == 0x1a:
			crc = crc16.Update(crc, chunk, f.crcTable)
			crc = crc16.Update(crc, escaped[:2], f.crcTable)

			return f.endFrame(payload, escaped, crc16.Complete(crc, f.crcTable))
		default:
			return nil, &InvalidMessage{
				error: fmt.Errorf("unknown escape sequence % x", escaped),
			}
		}
	}
}

func (f *frameReader) endFrame(payload []byte, escaped []byte, calculated uint16) ([]byte, error) {
	padding := int(escaped[1])

	if padding > maxPaddingBytes || padding > len(payload) {
		return nil, &InvalidMessage{
			error: fmt.Errorf("invalid padding count %d", padding),
		}
	}

	expected := uint16(escaped[2]) | uint16(escaped[3])<<8

	if calculated != expected {
		return nil, &InvalidMessage{
			error: fmt.Errorf("crc error: expected %04x, calculated %04x", expected, calculated),
		}
	}

	return payload[:len(payload)-padding], nil
}

func (f *frameReader) readChunk(chunk []byte) error {
	_, err := io.ReadFull(f.reader, chunk)

	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}

	return err
}
