package store

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderFileName(t *testing.T) {
	date := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	name := OrderFileName(date)
	assert.Equal(t, "Orders_03092026.txt", name)

	parsed, err := ParseOrderFileName(name)
	require.NoError(t, err)
	assert.True(t, date.Equal(parsed))
}

func TestParseOrderFileName_Invalid(t *testing.T) {
	for _, name := range []string{
		"Orders_0309202.txt",
		"Orders_02302026.txt",
		"Orders_03092026.csv",
		"Backup_03092026.txt",
		"notes.txt",
	} {
		_, err := ParseOrderFileName(name)
		assert.Error(t, err, name)
	}
}

func TestEncodeDecodeOrder_RoundTrip(t *testing.T) {
	o := sampleOrder("Joe Ma.")
	o.OrderNumber = 12

	fields := EncodeOrder(o)
	assert.Equal(t, []string{"12", "Joe Ma.", "TX", "4.45", "Tile", "100.00", "3.50", "4.15", "350.00", "415.00", "34.04", "799.04"}, fields)

	decoded, err := DecodeOrder(fields)
	require.NoError(t, err)
	assert.True(t, o.Equal(decoded), "decoded %v", decoded)
}

func TestDecodeOrder_NormalizesToTwoPlaces(t *testing.T) {
	o, err := DecodeOrder([]string{"3", "Shrek", "TX", "4.445", "Tile", "100", "3.5", "4.15", "350", "415", "34.0425", "799.0425"})
	require.NoError(t, err)

	assert.Equal(t, "4.45", o.TaxRate.String())
	assert.Equal(t, "100.00", o.Area.StringFixed(2))
	assert.Equal(t, "34.04", o.Tax.String())
	assert.Equal(t, "799.04", o.Total.String())
	assert.Equal(t, "3,Shrek,TX,4.45,Tile,100.00,3.50,4.15,350.00,415.00,34.04,799.04", strings.Join(EncodeOrder(o), ","))
}

func TestDecodeOrder_Invalid(t *testing.T) {
	valid := EncodeOrder(sampleOrder("Shrek"))

	tests := []struct {
		name   string
		mutate func([]string) []string
	}{
		{"too few fields", func(f []string) []string { return f[:11] }},
		{"bad number", func(f []string) []string { f[0] = "x"; return f }},
		{"zero number", func(f []string) []string { f[0] = "0"; return f }},
		{"bad amount", func(f []string) []string { f[8] = "lots"; return f }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := append([]string(nil), valid...)
			fields[0] = "1"
			_, err := DecodeOrder(tt.mutate(fields))
			assert.Error(t, err)
		})
	}
}

func TestExportRow_RoundTrip(t *testing.T) {
	o := sampleOrder("Shrek")
	o.OrderNumber = 4
	date := time.Date(2031, time.December, 24, 0, 0, 0, 0, time.UTC)

	fields := EncodeExportRow(date, o)
	require.Len(t, fields, 13)
	assert.Equal(t, "12-24-2031", fields[12])

	gotDate, got, err := DecodeExportRow(fields)
	require.NoError(t, err)
	assert.True(t, date.Equal(gotDate))
	assert.True(t, o.Equal(got))
}

func TestWriteReadRows(t *testing.T) {
	o := sampleOrder("Shrek")
	o.OrderNumber = 1

	var buf bytes.Buffer
	require.NoError(t, writeRows(&buf, OrderHeader, [][]string{EncodeOrder(o)}))
	assert.True(t, strings.HasPrefix(buf.String(), OrderHeader+"\n"))

	rows, err := readRows(&buf, orderFields)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	decoded, err := DecodeOrder(rows[0])
	require.NoError(t, err)
	assert.True(t, o.Equal(decoded))
}

func TestReadRows_EmptyInput(t *testing.T) {
	rows, err := readRows(strings.NewReader(""), orderFields)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
