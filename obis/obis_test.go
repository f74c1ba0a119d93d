package obis_test

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/motherofdaemons/obis-demystifier/obis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Hex(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantGroups [6]byte
		wantString string
	}{
		{
			name:       "all ones lowercase",
			input:      "ffffffffffff",
			wantGroups: [6]byte{255, 255, 255, 255, 255, 255},
			wantString: "FF.FF.FF.FF.FF.FF",
		},
		{
			name:       "mixed digits",
			input:      "0102030405FF",
			wantGroups: [6]byte{1, 2, 3, 4, 5, 255},
			wantString: "01.02.03.04.05.FF",
		},
		{
			name:       "mixed case",
			input:      "0100010800fF",
			wantGroups: [6]byte{1, 0, 1, 8, 0, 255},
			wantString: "01.00.01.08.00.FF",
		},
		{
			name:       "surrounding whitespace",
			input:      " 0100010800FF\n",
			wantGroups: [6]byte{1, 0, 1, 8, 0, 255},
			wantString: "01.00.01.08.00.FF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := obis.Parse(tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantGroups, c.Groups())
			assert.Equal(t, obis.Hex, c.Style())
			assert.Equal(t, tt.wantString, c.String())
		})
	}
}

func TestParse_Decimal(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantGroups [6]byte
	}{
		{"canonical separators", "1-128:7.0.14*255", [6]byte{1, 128, 7, 0, 14, 255}},
		{"dots only", "1.128.7.0.14.255", [6]byte{1, 128, 7, 0, 14, 255}},
		{"all dashes but one dot", "1-0-1-8.0-255", [6]byte{1, 0, 1, 8, 0, 255}},
		{"zeros", "0.0.0.0.0.0", [6]byte{}},
		{"upper bound", "255.255.255.255.255.255", [6]byte{255, 255, 255, 255, 255, 255}},
		{"leading zeros", "001.000.001.008.000.255", [6]byte{1, 0, 1, 8, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := obis.Parse(tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantGroups, c.Groups())
			assert.Equal(t, obis.Decimal, c.Style())
		})
	}
}

func TestParse_InvalidLength(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  obis.InvalidLength
	}{
		{"hex too short", "a", obis.InvalidLength{Actual: 1, Expected: 12, Format: obis.Hex}},
		{"hex too long", "aaaaaaaaaaaaa", obis.InvalidLength{Actual: 13, Expected: 12, Format: obis.Hex}},
		{"hex empty", "", obis.InvalidLength{Actual: 0, Expected: 12, Format: obis.Hex}},
		{"decimal five tokens", "1-0:1.8.0", obis.InvalidLength{Actual: 5, Expected: 6, Format: obis.Decimal}},
		{"decimal seven tokens", "1-0:1.8.0*255.1", obis.InvalidLength{Actual: 7, Expected: 6, Format: obis.Decimal}},
		{"decimal seven with bad token", "1.2.3.4.5.x.7", obis.InvalidLength{Actual: 7, Expected: 6, Format: obis.Decimal}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := obis.Parse(tt.input)
			require.Error(t, err)

			var lengthErr obis.InvalidLength
			require.True(t, errors.As(err, &lengthErr), "got %T: %v", err, err)
			assert.Equal(t, tt.want, lengthErr)
		})
	}
}

func TestParse_InvalidDigit(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantFormat obis.Style
		wantToken  string
	}{
		{"hex punctuation", "!!!!!!!!!!!!", obis.Hex, "!!"},
		{"hex letter out of range", "0102030405FG", obis.Hex, "FG"},
		{"hex sign", "+1020304050F", obis.Hex, "+1"},
		{"decimal above byte", "1-0:1.8.0*256", obis.Decimal, "256"},
		{"decimal non numeric", "1-0:a.8.0*255", obis.Decimal, "a"},
		{"decimal empty token", "1-0:.8.0*255", obis.Decimal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := obis.Parse(tt.input)
			require.Error(t, err)

			var digitErr obis.InvalidDigit
			require.True(t, errors.As(err, &digitErr), "got %T: %v", err, err)
			assert.Equal(t, tt.wantFormat, digitErr.Format)
			assert.Equal(t, tt.wantToken, digitErr.Token)

			var numErr *strconv.NumError
			assert.True(t, errors.As(err, &numErr))
		})
	}
}

func TestParse_DecimalBoundary(t *testing.T) {
	c, err := obis.Parse("255.0.0.0.0.0")
	require.NoError(t, err)
	assert.Equal(t, byte(255), c.Groups()[0])

	_, err = obis.Parse("256.0.0.0.0.0")
	var digitErr obis.InvalidDigit
	require.True(t, errors.As(err, &digitErr))
	assert.Equal(t, obis.Decimal, digitErr.Format)
}

func TestString_Decimal(t *testing.T) {
	c, err := obis.Parse("0100010800FF")
	require.NoError(t, err)

	c.ConvertToDec()
	assert.Equal(t, "1-0:1.8.0.255", c.String())
}

func TestRoundTrip_Hex(t *testing.T) {
	for _, s := range []string{"000000000000", "0102030405FF", "ABCDEF012345", "FFFFFFFFFFFF"} {
		c, err := obis.Parse(s)
		require.NoError(t, err)

		want := fmt.Sprintf("%s.%s.%s.%s.%s.%s", s[0:2], s[2:4], s[4:6], s[6:8], s[8:10], s[10:12])
		assert.Equal(t, want, c.String())
	}
}

func TestRoundTrip_Decimal(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		groups := []byte{b, 255 - b, b / 2, b ^ 0x5a, 0, 255}

		c, err := obis.FromBytes(groups)
		require.NoError(t, err)
		c.ConvertToDec()

		parsed, err := obis.Parse(c.String())
		require.NoError(t, err)
		assert.Equal(t, c.Groups(), parsed.Groups())
		assert.Equal(t, c, parsed)
	}
}

func TestConvert_Idempotent(t *testing.T) {
	c, err := obis.Parse("1-128:7.0.14*255")
	require.NoError(t, err)

	once := c
	once.ConvertToHex()
	twice := once
	twice.ConvertToHex()
	assert.Equal(t, once, twice)
	assert.Equal(t, "01.80.07.00.0E.FF", twice.String())

	once.ConvertToDec()
	twice = once
	twice.ConvertToDec()
	assert.Equal(t, once, twice)
	assert.Equal(t, "1-128:7.0.14.255", twice.String())
}

func TestConvert_KeepsGroups(t *testing.T) {
	c, err := obis.Parse("0102030405FF")
	require.NoError(t, err)
	groups := c.Groups()

	c.ConvertToHex()
	c.ConvertToDec()
	c.ConvertToHex()

	assert.Equal(t, groups, c.Groups())
	assert.Equal(t, obis.Hex, c.Style())
}

func TestFromBytes(t *testing.T) {
	c, err := obis.FromBytes([]byte{1, 0, 16, 7, 0, 255})
	require.NoError(t, err)
	assert.Equal(t, obis.Hex, c.Style())
	assert.Equal(t, "01.00.10.07.00.FF", c.String())

	_, err = obis.FromBytes([]byte{1, 2, 3})
	assert.Equal(t, obis.InvalidLength{Actual: 3, Expected: 6, Format: obis.Hex}, err)
}

func TestText(t *testing.T) {
	var c obis.Code
	require.NoError(t, c.UnmarshalText([]byte("1-0:2.8.0*255")))

	text, err := c.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1-0:2.8.0.255", string(text))

	assert.Error(t, c.UnmarshalText([]byte("nope")))
	assert.Equal(t, "1-0:2.8.0.255", c.String())
}

func TestErrorMessages(t *testing.T) {
	_, err := obis.Parse("aaaaaaaaaaaaa")
	assert.EqualError(t, err, "invalid hex obis code: expected 12 characters, got 13")

	_, err = obis.Parse("1.2.3.4.5")
	assert.EqualError(t, err, "invalid decimal obis code: expected 6 tokens, got 5")

	_, err = obis.Parse("1.2.3.4.5.256")
	assert.EqualError(t, err, `invalid decimal obis code: "256" is not a valid byte`)
}
