package obis

import (
	"fmt"
	"strconv"
	"strings"
)

// Style selects the textual form a Code renders as.
type Style uint8

const (
	Hex Style = iota
	Decimal
)

func (s Style) String() string {
	switch s {
	case Hex:
		return "hex"
	case Decimal:
		return "decimal"
	}

	return fmt.Sprintf("style(%d)", uint8(s))
}

const (
	hexLength   = 12
	groupsCount = 6
)

// Code is a six byte OBIS identifier together with its preferred rendering.
type Code struct {
	groups [groupsCount]byte
	style  Style
}

// Parse reads either the hex form (AABBCCDDEEFF) or the decimal form
// (A-B:C.D.E*F). Input containing a '.' is always treated as decimal.
func Parse(s string) (Code, error) {
	if strings.Contains(s, ".") {
		return parseDecimal(s)
	}

	return parseHex(s)
}

// FromBytes wraps the raw six bytes of an OBIS object name, as carried in
// binary meter protocols.
func FromBytes(b []byte) (Code, error) {
	if len(b) != groupsCount {
		return Code{}, InvalidLength{
			Actual:   len(b),
			Expected: groupsCount,
			Format:   Hex,
		}
	}

	c := Code{style: Hex}
	copy(c.groups[:], b)

	return c, nil
}

func parseHex(s string) (Code, error) {
	s = strings.TrimSpace(s)

	if len(s) != hexLength {
		return Code{}, InvalidLength{
			Actual:   len(s),
			Expected: hexLength,
			Format:   Hex,
		}
	}

	c := Code{style: Hex}

	for i := range c.groups {
		token := s[i*2 : i*2+2]
		v, err := strconv.ParseUint(token, 16, 8)

		if err != nil {
			return Code{}, InvalidDigit{
				Token:  token,
				Format: Hex,
				Err:    err,
			}
		}

		c.groups[i] = byte(v)
	}

	return c, nil
}

var separators = strings.NewReplacer(":", ".", "-", ".", "*", ".")

func parseDecimal(s string) (Code, error) {
	tokens := strings.Split(strings.TrimSpace(separators.Replace(s)), ".")

	if len(tokens) != groupsCount {
		return Code{}, InvalidLength{
			Actual:   len(tokens),
			Expected: groupsCount,
			Format:   Decimal,
		}
	}

	c := Code{style: Decimal}

	for i, token := range tokens {
		v, err := strconv.ParseUint(token, 10, 8)

		if err != nil {
			return Code{}, InvalidDigit{
				Token:  token,
				Format: Decimal,
				Err:    err,
			}
		}

		c.groups[i] = byte(v)
	}

	return c, nil
}

// Groups returns a copy of the six bytes.
func (c Code) Groups() [6]byte {
	return c.groups
}

func (c Code) Style() Style {
	return c.style
}

func (c *Code) ConvertToHex() {
	c.style = Hex
}

func (c *Code) ConvertToDec() {
	c.style = Decimal
}

func (c Code) String() string {
	g := c.groups

	if c.style == Decimal {
		return fmt.Sprintf("%d-%d:%d.%d.%d.%d", g[0], g[1], g[2], g[3], g[4], g[5])
	}

	return fmt.Sprintf("%02X.%02X.%02X.%02X.%02X.%02X", g[0], g[1], g[2], g[3], g[4], g[5])
}

func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))

	if err != nil {
		return err
	}

	*c = parsed
	return nil
}
