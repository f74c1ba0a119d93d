package main

import (
	"bytes"
	"testing"

	"github.com/motherofdaemons/obis-demystifier/obis"
	"github.com/motherofdaemons/obis-demystifier/sml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(t *testing.T, code string, value float64, unit uint8) sml.Entry {
	t.Helper()

	c, err := obis.Parse(code)
	require.NoError(t, err)

	return sml.Entry{Code: c, Value: value, Unit: unit}
}

func TestProcessImage(t *testing.T) {
	image := newProcessImage()

	image.update(&sml.File{Entries: []sml.Entry{
		entry(t, "1-0:16.7.0*255", 100, 27),
		entry(t, "1-0:1.8.0*255", 1000, 30),
	}})
	image.update(&sml.File{ServerID: []byte{0x0a}, Entries: []sml.Entry{
		entry(t, "1-0:1.8.0*255", 1001.5, 30),
	}})

	assert.Equal(t, 2, image.Files)

	values := image.sorted()
	require.Len(t, values, 2)

	assert.Equal(t, "1-0:1.8.0.255", values[0].Entry.Code.String())
	assert.Equal(t, 1001.5, values[0].Entry.Value)
	assert.Equal(t, 2, values[0].Updates)
	assert.Equal(t, []byte{0x0a}, values[0].ServerID)

	assert.Equal(t, "1-0:16.7.0.255", values[1].Entry.Code.String())
	assert.Equal(t, 1, values[1].Updates)
}

func TestPrintEntry(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, printEntry(&out, entry(t, "1-0:1.8.0*255", 12345.6, 30), obis.Hex))
	require.NoError(t, printEntry(&out, entry(t, "0100603201FF", 3, 0), obis.Decimal))

	assert.Equal(t, "01.00.01.08.00.FF\t12345.6 Wh\n1-0:96.50.1.255\t3\n", out.String())
}
