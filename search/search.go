// Package search locates the XML elements that describe an OBIS code.
package search

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/motherofdaemons/obis-demystifier/obis"
)

var (
	DefaultKeys            = []string{"obis", "code", "logicalName", "ln"}
	DefaultDescriptionKeys = []string{"description", "name"}
)

type Options struct {
	// Keys are the attribute and child element names holding an OBIS code.
	Keys []string
	// DescriptionKeys are the attribute and child element names holding a
	// human readable description.
	DescriptionKeys []string
	// Debugf receives values that looked like codes but failed to parse.
	Debugf func(format string, v ...any)
}

// Match is an element naming the searched code.
type Match struct {
	Path        string
	Element     string
	Line        int
	Description string
	Attributes  map[string]string

	order int
}

type element struct {
	order       int
	name        string
	line        int
	attributes  map[string]string
	codes       []string
	description string
	text        strings.Builder
}

type searcher struct {
	code     [6]byte
	opts     Options
	stack    []*element
	found    []Match
	elements int
}

// Search streams the document in r and returns every element that carries
// code in one of the key attributes or key child elements, in document
// order of their start tags. Codes are compared by their groups, so any
// notation matches.
func Search(r io.Reader, code obis.Code, opts Options) ([]Match, error) {
	if len(opts.Keys) == 0 {
		opts.Keys = DefaultKeys
	}

	if len(opts.DescriptionKeys) == 0 {
		opts.DescriptionKeys = DefaultDescriptionKeys
	}

	s := &searcher{
		code:  code.Groups(),
		opts:  opts,
		found: make([]Match, 0),
	}

	decoder := xml.NewDecoder(r)

	for {
		line, _ := decoder.InputPos()
		t, err := decoder.Token()

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}

		switch se := t.(type) {
		case xml.StartElement:
			s.start(se, line)
		case xml.EndElement:
			s.end()
		case xml.CharData:
			if len(s.stack) > 0 {
				s.stack[len(s.stack)-1].text.Write(se)
			}
		}
	}

	// Matches are only known once an element closes
	sort.SliceStable(s.found, func(i, j int) bool {
		return s.found[i].order < s.found[j].order
	})

	return s.found, nil
}

func (s *searcher) start(se xml.StartElement, line int) {
	s.elements++

	e := &element{
		order:      s.elements,
		name:       se.Name.Local,
		line:       line,
		attributes: make(map[string]string, len(se.Attr)),
	}

	for _, attr := range se.Attr {
		e.attributes[attr.Name.Local] = attr.Value

		if hasKey(s.opts.Keys, attr.Name.Local) {
			e.codes = append(e.codes, attr.Value)
		}

		if e.description == "" && hasKey(s.opts.DescriptionKeys, attr.Name.Local) {
			e.description = attr.Value
		}
	}

	s.stack = append(s.stack, e)
}

func (s *searcher) end() {
	e := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]

	if s.matches(e) {
		s.found = append(s.found, Match{
			Path:        s.path(e),
			Element:     e.name,
			Line:        e.line,
			Description: e.description,
			Attributes:  e.attributes,
			order:       e.order,
		})
	}

	if len(s.stack) == 0 {
		return
	}

	parent := s.stack[len(s.stack)-1]
	text := strings.TrimSpace(e.text.String())

	if hasKey(s.opts.Keys, e.name) {
		parent.codes = append(parent.codes, text)
	}

	if parent.description == "" && hasKey(s.opts.DescriptionKeys, e.name) {
		parent.description = text
	}
}

func (s *searcher) matches(e *element) bool {
	for _, value := range e.codes {
		c, err := obis.Parse(strings.TrimSpace(value))

		if err != nil {
			if s.opts.Debugf != nil {
				s.opts.Debugf("ignoring %q in <%s> at line %d: %v", value, e.name, e.line, err)
			}

			continue
		}

		if c.Groups() == s.code {
			return true
		}
	}

	return false
}

func (s *searcher) path(e *element) string {
	names := make([]string, 0, len(s.stack)+1)

	for _, parent := range s.stack {
		names = append(names, parent.name)
	}

	return "/" + strings.Join(append(names, e.name), "/")
}

func hasKey(keys []string, name string) bool {
	for _, k := range keys {
		if strings.EqualFold(k, name) {
			return true
		}
	}

	return false
}
