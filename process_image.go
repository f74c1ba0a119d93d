package main

import (
	"bytes"
	"sort"

	"github.com/motherofdaemons/obis-demystifier/sml"
)

// processImage keeps the most recent value of every code seen in a capture.
type processImage struct {
	Files  int
	Values map[[6]byte]processImageValue
}

type processImageValue struct {
	ServerID []byte
	Entry    sml.Entry
	Updates  int
}

func newProcessImage() *processImage {
	return &processImage{
		Values: make(map[[6]byte]processImageValue),
	}
}

func (i *processImage) update(f *sml.File) {
	i.Files++

	for _, e := range f.Entries {
		key := e.Code.Groups()
		v := i.Values[key]

		i.Values[key] = processImageValue{
			ServerID: f.ServerID,
			Entry:    e,
			Updates:  v.Updates + 1,
		}
	}
}

// sorted returns the values ordered by code.
func (i *processImage) sorted() []processImageValue {
	values := make([]processImageValue, 0, len(i.Values))

	for _, v := range i.Values {
		values = append(values, v)
	}

	sort.Slice(values, func(a, b int) bool {
		ka := values[a].Entry.Code.Groups()
		kb := values[b].Entry.Code.Groups()

		return bytes.Compare(ka[:], kb[:]) < 0
	})

	return values
}
