package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/motherofdaemons/obis-demystifier/obis"
	"github.com/motherofdaemons/obis-demystifier/sml"
)

func (a *app) scan(out io.Writer, path string, style obis.Style, latest bool) error {
	f, err := os.Open(path)

	if err != nil {
		return err
	}

	defer f.Close()

	log := a.log.newSubLogger("scan")
	reader := sml.NewReader(f)
	image := newProcessImage()

	for {
		file, err := reader.ReadFile()

		if errors.Is(err, io.EOF) {
			break
		}

		if errors.Is(err, io.ErrUnexpectedEOF) {
			log.Warnf("capture ends inside an SML frame")
			break
		}

		if isInvalidFrame(err) {
			log.Warnf("skipping frame: %v", err)
			continue
		}

		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		log.Debugf("received SML file:\n%s", file)
		image.update(file)

		if latest {
			continue
		}

		for _, e := range file.Entries {
			err = printEntry(out, e, style)

			if err != nil {
				return err
			}
		}
	}

	if image.Files == 0 {
		return fmt.Errorf("no valid sml files found in %s", path)
	}

	log.Printf("read %d SML files with %d distinct codes", image.Files, len(image.Values))

	if !latest {
		return nil
	}

	for _, v := range image.sorted() {
		log.Debugf("%s: %d updates, last from server %x", v.Entry.Code, v.Updates, v.ServerID)
		err = printEntry(out, v.Entry, style)

		if err != nil {
			return err
		}
	}

	return nil
}

func isInvalidFrame(err error) bool {
	var invalidMessage *sml.InvalidMessage
	var invalidFile *sml.InvalidFile

	return errors.As(err, &invalidMessage) || errors.As(err, &invalidFile)
}

func printEntry(out io.Writer, e sml.Entry, style obis.Style) error {
	code := e.Code

	if style == obis.Hex {
		code.ConvertToHex()
	} else {
		code.ConvertToDec()
	}

	value := e.FormatValue()

	if unit := e.UnitName(); unit != "" {
		value += " " + unit
	}

	_, err := fmt.Fprintf(out, "%s\t%s\n", code, value)
	return err
}
