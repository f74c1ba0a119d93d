package sml

import "io"

// Reader yields the files of an SML capture. Broken frames are reported as
// *InvalidMessage or *InvalidFile; reading may continue after them. The end
// of the input is io.EOF, or io.ErrUnexpectedEOF inside a frame.
type Reader interface {
	ReadFile() (*File, error)
}

type smlReaderImpl struct {
	frames *frameReader
}

func NewReader(reader io.Reader) Reader {
	return &smlReaderImpl{
		frames: newFrameReader(reader),
	}
}

func (s *smlReaderImpl) ReadFile() (*File, error) {
	payload, err := s.frames.readFrame()

	if err != nil {
		return nil, err
	}

	return decodeFile(payload)
}
